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

// Package dagger is a small runtime dependency injection engine.
//
// A graph is described up front by Metadata: constructors for types,
// modules whose provider methods produce values, and components that expose
// the graph to callers. A Registry turns that description into instances on
// demand, and Build wires a component struct to a fresh registry.
//
// # Declaring the graph
//
//	md, err := dagger.NewMetadata(
//		dagger.Constructor(NewCoffee),
//		dagger.Module[SupplierModule](
//			dagger.Provides((*SupplierModule).ProvideBean, dagger.Singleton()),
//			dagger.Provides((*SupplierModule).ProvideSugar),
//		),
//		dagger.Component[CoffeeShop](dagger.KeyOf[SupplierModule]()),
//	)
//
// Constructor declares the injectable constructor of the type it returns.
// Module declares a module type and lists its provider methods as method
// expressions. Singleton makes a constructor or provider cache its first
// result for the lifetime of the registry.
//
// Struct fields tagged `inject:""` are populated by Registry.Inject.
//
// # Resolution
//
// Registry.Resolve looks for a cached singleton first, then a provider, and
// finally the declared constructor. Parameters are resolved recursively,
// left to right, before the provider or constructor runs. Providers take
// priority over constructors for the same type, and when two registered
// modules provide the same type the last one registered wins.
//
// Each top-level Resolve or Inject call tracks the types it is building and
// fails with a CyclicDependencyError instead of recursing forever.
//
// # Components
//
// A component is a struct whose exported fields are functions:
//
//	type CoffeeShop struct {
//		Coffee func() *Coffee
//		Sugar  func() (*Sugar, error)
//		Inject func(*Customer) error
//	}
//
//	var shop CoffeeShop
//	if _, err := dagger.Create(md, &shop); err != nil {
//		log.Fatal(err)
//	}
//	coffee := shop.Coffee()
//
// Fields with no parameters provide their result type. Fields with one
// parameter inject into it. Build decides this once, from the field types.
package dagger // import "github.com/gta/dagger"
