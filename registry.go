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
	"fmt"
	"reflect"
	"sync"

	"github.com/gta/dagger/daggerevent"
	"github.com/gta/dagger/internal/daggerclock"
)

// Registry owns the mutable state of one object graph: the instantiated
// modules, the provider table built from them, and the singleton cache.
//
// A Registry is populated once with RegisterModule and then serves any
// number of Resolve and Inject calls. Resolve and Inject are safe for
// concurrent use.
type Registry struct {
	md    *Metadata
	log   daggerevent.Logger
	clock daggerclock.Clock

	recoverFromPanics bool

	// mu guards modules and providers. Both are only written by
	// RegisterModule.
	mu        sync.RWMutex
	modules   map[TypeKey]reflect.Value
	providers map[TypeKey]*providerBinding

	cacheMu    sync.Mutex
	singletons map[TypeKey]reflect.Value
}

// providerBinding is a provider attached to the module instance it is
// called on.
type providerBinding struct {
	*provider

	module reflect.Value // *M
}

func (b *providerBinding) receiver() reflect.Value {
	if b.pointerRecv {
		return b.module
	}
	return b.module.Elem()
}

// A RegistryOption modifies the default behavior of a Registry.
type RegistryOption interface {
	applyRegistry(*Registry)
}

type registryOptionFunc func(*Registry)

func (f registryOptionFunc) applyRegistry(r *Registry) { f(r) }

// WithLogger specifies the daggerevent.Logger the registry reports to.
// Defaults to daggerevent.NopLogger.
func WithLogger(l daggerevent.Logger) RegistryOption {
	return registryOptionFunc(func(r *Registry) {
		r.log = l
	})
}

// RecoverFromPanics makes the registry convert panics raised by
// constructors, providers and module initializers into a PanicError.
func RecoverFromPanics() RegistryOption {
	return registryOptionFunc(func(r *Registry) {
		r.recoverFromPanics = true
	})
}

func withClock(c daggerclock.Clock) RegistryOption {
	return registryOptionFunc(func(r *Registry) {
		r.clock = c
	})
}

// NewRegistry builds an empty registry backed by md.
func NewRegistry(md *Metadata, opts ...RegistryOption) *Registry {
	r := &Registry{
		md:         md,
		log:        daggerevent.NopLogger,
		clock:      daggerclock.System,
		modules:    make(map[TypeKey]reflect.Value),
		providers:  make(map[TypeKey]*providerBinding),
		singletons: make(map[TypeKey]reflect.Value),
	}
	for _, opt := range opts {
		opt.applyRegistry(r)
	}
	return r
}

// RegisterModule instantiates the module declared for key and adds its
// providers to the provider table.
//
// If a provider produces a type that an earlier registered provider already
// produces, the later one replaces it. Registering the same module twice is
// a no-op: a module is instantiated at most once per registry.
func (r *Registry) RegisterModule(key TypeKey) (err error) {
	var events []daggerevent.Event
	var outputs []string
	defer func() {
		for _, e := range events {
			r.log.LogEvent(e)
		}
		r.log.LogEvent(&daggerevent.ModuleRegistered{
			ModuleName:      key.String(),
			OutputTypeNames: outputs,
			Err:             err,
		})
	}()

	spec, ok := r.md.modules[key]
	if !ok {
		return &InvalidModuleError{Module: key}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[key]; ok {
		return nil
	}

	inst, err := r.newModule(key)
	if err != nil {
		return err
	}
	r.modules[key] = inst

	for _, p := range spec.providers {
		if prev, ok := r.providers[p.out]; ok {
			events = append(events, &daggerevent.Overridden{
				TypeName:         p.out.String(),
				ProviderName:     p.name,
				PreviousProvider: prev.name,
			})
		}
		r.providers[p.out] = &providerBinding{provider: p, module: inst}
		outputs = append(outputs, p.out.String())
		events = append(events, &daggerevent.Provided{
			ProviderName: p.name,
			ModuleName:   key.String(),
			TypeName:     p.out.String(),
			Singleton:    p.singleton,
		})
	}
	return nil
}

func (r *Registry) newModule(key TypeKey) (inst reflect.Value, err error) {
	if key.Type().Kind() != reflect.Struct {
		return reflect.Value{}, &ModuleConstructionError{Module: key, Err: errNoDefaultConstructor}
	}

	// Initializers run during registration, so a panic there is reported
	// like any other construction failure.
	defer func() {
		if p := recover(); p != nil {
			err = &ModuleConstructionError{
				Module: key,
				Err:    &PanicError{Func: fmt.Sprintf("(*%v).Init()", key), Value: p},
			}
		}
	}()

	inst = reflect.New(key.Type())
	if init, ok := inst.Interface().(ModuleInitializer); ok {
		if err := init.Init(); err != nil {
			return reflect.Value{}, &ModuleConstructionError{Module: key, Err: err}
		}
	}
	return inst, nil
}

// Keys returns every type this registry has a binding for, sorted by name:
// the types produced by registered providers and the types with a declared
// constructor.
func (r *Registry) Keys() []TypeKey {
	seen := make(map[TypeKey]struct{})

	r.mu.RLock()
	for k := range r.providers {
		seen[k] = struct{}{}
	}
	r.mu.RUnlock()

	for k := range r.md.constructors {
		seen[k] = struct{}{}
	}

	keys := make([]TypeKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func (r *Registry) provider(key TypeKey) (*providerBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.providers[key]
	return b, ok
}

func (r *Registry) cached(key TypeKey) (reflect.Value, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	v, ok := r.singletons[key]
	return v, ok
}

// store caches v as the singleton for key unless another value got there
// first, and returns the value that is cached.
func (r *Registry) store(key TypeKey, v reflect.Value) reflect.Value {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	if existing, ok := r.singletons[key]; ok {
		return existing
	}
	r.singletons[key] = v
	return v
}
