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

// Package daggerdig exposes the bindings of a dagger registry to a dig
// container, so that an application wired with dig or fx can consume a
// dagger object graph.
//
//	c := dig.New()
//	if err := daggerdig.Provide(c, registry); err != nil {
//		return err
//	}
//	return c.Invoke(func(shop *coffee.Shop) { ... })
//
// dig calls each constructor at most once per container, so every exported
// type is a singleton from the container's point of view, whatever its scope
// in the registry.
package daggerdig // import "github.com/gta/dagger/daggerdig"

import (
	"reflect"

	"github.com/gta/dagger"
	"github.com/gta/dagger/internal/daggerreflect"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/multierr"
)

// Constructors returns one dig-compatible constructor per key. Each has the
// signature func() (T, error) and resolves T from r when called. With no
// keys, every binding listed by r.Keys is exported.
func Constructors(r *dagger.Registry, keys ...dagger.TypeKey) []interface{} {
	if len(keys) == 0 {
		keys = r.Keys()
	}

	ctors := make([]interface{}, len(keys))
	for i, k := range keys {
		ctors[i] = constructor(r, k)
	}
	return ctors
}

func constructor(r *dagger.Registry, key dagger.TypeKey) interface{} {
	t := key.Type()
	ft := reflect.FuncOf(nil, []reflect.Type{t, daggerreflect.ErrType()}, false)

	fn := reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value {
		out := reflect.New(t).Elem()
		errv := reflect.New(daggerreflect.ErrType()).Elem()

		v, err := r.Resolve(key)
		if err != nil {
			errv.Set(reflect.ValueOf(err))
			return []reflect.Value{out, errv}
		}
		if v != nil {
			out.Set(reflect.ValueOf(v))
		}
		return []reflect.Value{out, errv}
	})
	return fn.Interface()
}

// Provide adds a constructor for each key to c. See Constructors.
//
// All keys are attempted; failures are combined into the returned error.
func Provide(c *dig.Container, r *dagger.Registry, keys ...dagger.TypeKey) error {
	if len(keys) == 0 {
		keys = r.Keys()
	}

	var errs error
	for i, ctor := range Constructors(r, keys...) {
		if err := c.Provide(ctor); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "could not export %v", keys[i]))
		}
	}
	return errs
}
