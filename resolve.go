// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package dagger

import (
	"reflect"

	"github.com/gta/dagger/daggerevent"
	"github.com/pkg/errors"
)

// resolution tracks the types being built by one top-level Resolve or
// Inject call.
type resolution struct {
	path   []TypeKey
	active map[TypeKey]struct{}
}

func newResolution() *resolution {
	return &resolution{active: make(map[TypeKey]struct{})}
}

func (s *resolution) enter(key TypeKey) error {
	if _, ok := s.active[key]; ok {
		path := make([]TypeKey, len(s.path), len(s.path)+1)
		copy(path, s.path)
		return &CyclicDependencyError{Path: append(path, key)}
	}
	s.active[key] = struct{}{}
	s.path = append(s.path, key)
	return nil
}

func (s *resolution) leave() {
	last := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	delete(s.active, last)
}

// Resolve returns an instance of the type denoted by key.
//
// A cached singleton is returned if there is one. Otherwise the value is
// built by the provider registered for key or, failing that, by the
// constructor declared for it, after recursively resolving their
// parameters from left to right.
func (r *Registry) Resolve(key TypeKey) (interface{}, error) {
	v, err := r.resolveTop(key)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Resolve is a typed wrapper around Registry.Resolve.
//
//	coffee, err := dagger.Resolve[*Coffee](registry)
func Resolve[T any](r *Registry) (T, error) {
	var t T
	v, err := r.resolveTop(KeyOf[T]())
	if err != nil {
		return t, err
	}
	reflect.ValueOf(&t).Elem().Set(v)
	return t, nil
}

func (r *Registry) resolveTop(key TypeKey) (reflect.Value, error) {
	v, err := r.resolve(newResolution(), key)
	if err != nil {
		r.log.LogEvent(&daggerevent.Resolved{TypeName: key.String(), Err: err})
		return reflect.Value{}, err
	}
	return v, nil
}

func (r *Registry) resolve(s *resolution, key TypeKey) (reflect.Value, error) {
	if v, ok := r.cached(key); ok {
		return v, nil
	}

	if err := s.enter(key); err != nil {
		return reflect.Value{}, err
	}
	defer s.leave()

	if b, ok := r.provider(key); ok {
		return r.provide(s, key, b)
	}
	return r.construct(s, key)
}

func (r *Registry) provide(s *resolution, key TypeKey, b *providerBinding) (reflect.Value, error) {
	deps, err := r.resolveParams(s, key, b.params)
	if err != nil {
		return reflect.Value{}, err
	}

	args := make([]reflect.Value, 0, len(deps)+1)
	args = append(args, b.receiver())
	args = append(args, deps...)

	return r.call(key, b.function, args, b.singleton)
}

func (r *Registry) construct(s *resolution, key TypeKey) (reflect.Value, error) {
	c, err := r.constructorFor(key)
	if err != nil {
		return reflect.Value{}, err
	}

	args, err := r.resolveParams(s, key, c.params)
	if err != nil {
		return reflect.Value{}, err
	}
	return r.call(key, c.function, args, c.singleton)
}

// constructorFor returns the one constructor declared for key.
func (r *Registry) constructorFor(key TypeKey) (*constructor, error) {
	ctors := r.md.constructors[key]
	switch len(ctors) {
	case 0:
		return nil, &UnresolvedDependencyError{
			Type: key,
			Err:  &NoInjectableConstructorError{Type: key},
		}
	case 1:
		return ctors[0], nil
	default:
		names := make([]string, len(ctors))
		for i, c := range ctors {
			names[i] = c.name
		}
		return nil, &AmbiguousConstructorError{Type: key, Constructors: names}
	}
}

func (r *Registry) resolveParams(s *resolution, key TypeKey, params []TypeKey) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, p := range params {
		v, err := r.resolve(s, p)
		if err != nil {
			return nil, errors.WithMessagef(err, "could not build %v", key)
		}
		args[i] = v
	}
	return args, nil
}

// call runs fn and caches the result if singleton is set. Nothing is cached
// when fn fails.
func (r *Registry) call(key TypeKey, fn *function, args []reflect.Value, singleton bool) (v reflect.Value, err error) {
	if r.recoverFromPanics {
		defer func() {
			if p := recover(); p != nil {
				err = &PanicError{Func: fn.name, Value: p}
			}
		}()
	}

	start := r.clock.Now()
	results := fn.value.Call(args)
	runtime := r.clock.Since(start)

	if fn.returnsErr {
		if err, _ := results[1].Interface().(error); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "%v failed to build %v", fn.name, key)
		}
	}

	v = results[0]
	if singleton {
		v = r.store(key, v)
	}

	r.log.LogEvent(&daggerevent.Resolved{
		TypeName:        key.String(),
		ConstructorName: fn.name,
		Singleton:       singleton,
		Runtime:         runtime,
	})
	return v, nil
}
