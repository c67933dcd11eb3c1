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

package daggerevent

import "time"

// Event defines an event emitted by dagger.
type Event interface {
	event() // Only dagger can implement this interface.
}

// Passing events by type to make Event hashable in the future.
func (*ModuleRegistered) event() {}
func (*Provided) event()         {}
func (*Overridden) event()       {}
func (*Resolved) event()         {}
func (*Injected) event()         {}
func (*ComponentBuilt) event()   {}

// ModuleRegistered is emitted after a module was instantiated and its
// providers indexed, or after registration failed.
type ModuleRegistered struct {
	// ModuleName is the name of the module type.
	ModuleName string

	// OutputTypeNames is a list of names of types that are produced by the
	// module's providers.
	OutputTypeNames []string

	// Err is non-nil if the module could not be registered.
	Err error
}

// Provided is emitted when a provider method is added to the provider table.
type Provided struct {
	// ProviderName is the name of the provider method.
	ProviderName string

	// ModuleName is the name of the module that owns the provider.
	ModuleName string

	// TypeName is the name of the type produced by the provider.
	TypeName string

	// Singleton is true if the provider was declared singleton-scoped.
	Singleton bool
}

// Overridden is emitted when a provider replaces one registered earlier for
// the same type.
type Overridden struct {
	TypeName         string
	ProviderName     string
	PreviousProvider string
}

// Resolved is emitted after a constructor or provider was run to produce a
// value. Singleton cache hits are not reported.
type Resolved struct {
	// TypeName is the name of the type that was requested.
	TypeName string

	// ConstructorName is the name of the constructor or provider that ran.
	// It is empty if no binding was found.
	ConstructorName string

	// Singleton is true if the result was stored in the singleton cache.
	Singleton bool

	// Runtime is how long the constructor or provider took, excluding the
	// time spent resolving its dependencies.
	Runtime time.Duration

	// Err is non-nil if the value could not be produced.
	Err error
}

// Injected is emitted after the tagged fields of a value were populated.
type Injected struct {
	// TargetName is the name of the target's type.
	TargetName string

	// FieldNames lists the fields that were assigned.
	FieldNames []string

	// Err is non-nil if injection failed.
	Err error
}

// ComponentBuilt is emitted when a component has been built or failed to
// build.
type ComponentBuilt struct {
	ComponentName  string
	OperationNames []string
	Err            error
}
