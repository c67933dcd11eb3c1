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
	"strings"

	"github.com/pkg/errors"
)

var errNoDefaultConstructor = errors.New("no default constructor: modules must be struct types")

// InvalidModuleError is returned when a type that was not declared with
// Module is registered as one.
type InvalidModuleError struct {
	Module TypeKey
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("%v is not a module: declare it with dagger.Module", e.Module)
}

// ModuleConstructionError is returned when a module could not be
// instantiated, either because it has no default constructor or because its
// initializer failed.
type ModuleConstructionError struct {
	Module TypeKey
	Err    error
}

func (e *ModuleConstructionError) Error() string {
	return fmt.Sprintf("could not construct module %v: %v", e.Module, e.Err)
}

func (e *ModuleConstructionError) Unwrap() error { return e.Err }

// InvalidComponentError is returned by Build when the target is not a
// declared component.
type InvalidComponentError struct {
	Component TypeKey
	Reason    string
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("%v is not a component: %s", e.Component, e.Reason)
}

// NoInjectableConstructorError is returned when the constructor path finds
// no declared constructor for a type.
type NoInjectableConstructorError struct {
	Type TypeKey
}

func (e *NoInjectableConstructorError) Error() string {
	return fmt.Sprintf("%v has no injectable constructor", e.Type)
}

// AmbiguousConstructorError is returned when more than one constructor was
// declared for the same type.
type AmbiguousConstructorError struct {
	Type         TypeKey
	Constructors []string
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("%v has %d injectable constructors: %s",
		e.Type, len(e.Constructors), strings.Join(e.Constructors, ", "))
}

// UnresolvedDependencyError is returned when neither a provider nor a
// constructor exists for the requested type.
type UnresolvedDependencyError struct {
	Type TypeKey
	Err  error
}

func (e *UnresolvedDependencyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unresolved dependency %v", e.Type)
	}
	return fmt.Sprintf("unresolved dependency %v: %v", e.Type, e.Err)
}

func (e *UnresolvedDependencyError) Unwrap() error { return e.Err }

// InjectionTargetError is returned when a value can not receive field
// injection, or when one of its tagged fields can not be assigned.
type InjectionTargetError struct {
	Target TypeKey
	Field  string // empty if the target itself is invalid
	Reason string
}

func (e *InjectionTargetError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("can not inject into %v: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("can not inject field %v.%s: %s", e.Target, e.Field, e.Reason)
}

// InvalidOperationShapeError is returned when a component operation is
// neither a provide nor an inject operation, or is called with arguments
// that do not fit its shape.
type InvalidOperationShapeError struct {
	Component TypeKey
	Operation string
	Reason    string
}

func (e *InvalidOperationShapeError) Error() string {
	return fmt.Sprintf("invalid operation %v.%s: %s", e.Component, e.Operation, e.Reason)
}

// NullInjectionTargetError is returned when injection is requested into a
// nil value.
type NullInjectionTargetError struct {
	Operation string // empty outside of a component
	Target    TypeKey
}

func (e *NullInjectionTargetError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("can not inject into nil %v", e.Target)
	}
	return fmt.Sprintf("%s: can not inject into nil %v", e.Operation, e.Target)
}

// CyclicDependencyError is returned when a type depends on itself, directly
// or through other types.
type CyclicDependencyError struct {
	// Path starts and ends with the same type.
	Path []TypeKey
}

func (e *CyclicDependencyError) Error() string {
	return "cycle detected in dependency graph: " + strings.Join(keyNames(e.Path), " -> ")
}

// PanicError is returned when a constructor or provider panics and the
// registry was built with RecoverFromPanics.
type PanicError struct {
	// Func is the name of the function that panicked.
	Func string

	// Value is the value recovered from the panic.
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %q in func: %q", e.Value, e.Func)
}
