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
	"strings"

	"github.com/gta/dagger/internal/daggerreflect"
	"github.com/pkg/errors"
)

// ModuleInitializer is implemented by modules that need more than their
// zero value to be ready. Init is called once, right after the module is
// instantiated by a Registry. A non-nil error aborts registration with a
// ModuleConstructionError.
type ModuleInitializer interface {
	Init() error
}

// Provider is a provider method declared on a module. Build one with
// Provides.
type Provider struct {
	fn     interface{}
	opts   []ProvideOption
	caller string
}

// ProvideOption modifies the default behavior of Provides.
type ProvideOption interface {
	applyProvider(*provider)
}

// Provides declares a provider method of a module. fn is a method
// expression on the module type, with either a pointer or a value receiver:
//
//	func (m *SupplierModule) ProvideBean() *Bean
//
//	dagger.Provides((*SupplierModule).ProvideBean, dagger.Singleton())
//
// The produced type is the method's first result. The remaining parameters
// after the receiver are the provider's ordered dependencies.
func Provides(fn interface{}, opts ...ProvideOption) Provider {
	return Provider{
		fn:     fn,
		opts:   opts,
		caller: daggerreflect.Caller(),
	}
}

func (p Provider) String() string {
	return fmt.Sprintf("dagger.Provides(%s)", daggerreflect.FuncName(p.fn))
}

type provider struct {
	*function

	module      TypeKey
	pointerRecv bool
	singleton   bool
}

type moduleSpec struct {
	key       TypeKey
	providers []*provider
}

// Module declares M as a module whose provider methods are providers.
// Registries instantiate M at most once, from its zero value, and call
// Init if *M implements ModuleInitializer.
//
//	type SupplierModule struct{}
//
//	dagger.Module[SupplierModule](
//		dagger.Provides((*SupplierModule).ProvideBean, dagger.Singleton()),
//		dagger.Provides((*SupplierModule).ProvideSugar),
//	)
//
// Providers are indexed in the order they are listed; if two providers of
// the same module produce the same type, the later one wins.
func Module[M any](providers ...Provider) Option {
	return moduleOption{
		key:       KeyOf[M](),
		providers: providers,
		caller:    daggerreflect.Caller(),
	}
}

type moduleOption struct {
	key       TypeKey
	providers []Provider
	caller    string
}

func (o moduleOption) apply(md *Metadata) {
	if _, ok := md.modules[o.key]; ok {
		md.appendErr(errors.Errorf("dagger.Module from %v: module %v declared more than once", o.caller, o.key))
		return
	}

	spec := &moduleSpec{key: o.key}
	ptr := KeyFor(reflect.PointerTo(o.key.Type()))
	for _, p := range o.providers {
		f, err := newFunction(p.fn, 1)
		if err != nil {
			md.appendErr(errors.WithMessagef(err, "dagger.Provides from %v", p.caller))
			continue
		}

		pv := &provider{function: f, module: o.key}
		switch KeyFor(f.value.Type().In(0)) {
		case o.key:
		case ptr:
			pv.pointerRecv = true
		default:
			md.appendErr(errors.Errorf(
				"dagger.Provides from %v: %v is not a method of %v", p.caller, f.name, o.key))
			continue
		}

		for _, opt := range p.opts {
			opt.applyProvider(pv)
		}
		spec.providers = append(spec.providers, pv)
	}
	md.modules[o.key] = spec
}

func (o moduleOption) String() string {
	items := make([]string, len(o.providers))
	for i, p := range o.providers {
		items[i] = p.String()
	}
	return fmt.Sprintf("dagger.Module[%v](%s)", o.key, strings.Join(items, ", "))
}

// ScopeOption can be passed to both Constructor and Provides.
type ScopeOption interface {
	ConstructorOption
	ProvideOption
}

// Singleton marks a binding as singleton-scoped: the first value it produces
// is cached and returned for every later resolution of the same type, for
// the lifetime of the registry.
func Singleton() ScopeOption {
	return singletonOption{}
}

type singletonOption struct{}

func (singletonOption) applyConstructor(c *constructor) { c.singleton = true }
func (singletonOption) applyProvider(p *provider)       { p.singleton = true }
func (singletonOption) String() string                  { return "dagger.Singleton()" }
