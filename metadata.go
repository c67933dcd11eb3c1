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
	"go.uber.org/multierr"
)

// An Option declares part of the metadata consumed by registries:
// constructors, modules and their providers, and components.
type Option interface {
	fmt.Stringer

	apply(*Metadata)
}

// Metadata is the static description of an object graph: which constructor
// builds each type, which modules exist and what their providers produce,
// and which structs are components.
//
// Metadata is immutable once built and may be shared by any number of
// registries.
type Metadata struct {
	constructors map[TypeKey][]*constructor
	modules      map[TypeKey]*moduleSpec
	components   map[TypeKey]*componentSpec

	err error
}

// NewMetadata applies the given options and returns the resulting metadata.
// All declaration errors are reported together.
func NewMetadata(opts ...Option) (*Metadata, error) {
	md := &Metadata{
		constructors: make(map[TypeKey][]*constructor),
		modules:      make(map[TypeKey]*moduleSpec),
		components:   make(map[TypeKey]*componentSpec),
	}
	for _, opt := range opts {
		opt.apply(md)
	}
	if md.err != nil {
		return nil, md.err
	}
	return md, nil
}

func (md *Metadata) appendErr(err error) {
	md.err = multierr.Append(md.err, err)
}

// IsModule reports whether key was declared with Module.
func (md *Metadata) IsModule(key TypeKey) bool {
	_, ok := md.modules[key]
	return ok
}

// IsComponent reports whether key was declared with Component.
func (md *Metadata) IsComponent(key TypeKey) bool {
	_, ok := md.components[key]
	return ok
}

// Options composes a collection of Options into a single Option.
func Options(opts ...Option) Option {
	return optionGroup(opts)
}

type optionGroup []Option

func (og optionGroup) apply(md *Metadata) {
	for _, opt := range og {
		opt.apply(md)
	}
}

func (og optionGroup) String() string {
	items := make([]string, len(og))
	for i, opt := range og {
		items[i] = opt.String()
	}
	return fmt.Sprintf("dagger.Options(%s)", strings.Join(items, ", "))
}

// Error registers any number of errors with the metadata, making
// NewMetadata fail. It's designed for option-returning functions that may
// fail during their own construction.
func Error(errs ...error) Option {
	return errorOption(errs)
}

type errorOption []error

func (errs errorOption) apply(md *Metadata) {
	md.appendErr(multierr.Combine(errs...))
}

func (errs errorOption) String() string {
	return fmt.Sprintf("dagger.Error(%v)", multierr.Combine(errs...))
}

type componentSpec struct {
	key     TypeKey
	modules []TypeKey
}

// Component declares the struct C as a component: a set of operations
// backed by one registry. The listed modules are the ones Create registers.
//
// Every exported field of C must be a function of one of these shapes:
//
//	func() T           // provide T
//	func() (T, error)  // provide T, reporting failures
//	func(O)            // inject the tagged fields of O
//	func(O) error      // inject, reporting failures
//
// See Build for details.
func Component[C any](modules ...TypeKey) Option {
	return componentOption{
		key:     KeyOf[C](),
		modules: modules,
		caller:  daggerreflect.Caller(),
	}
}

type componentOption struct {
	key     TypeKey
	modules []TypeKey
	caller  string
}

func (o componentOption) apply(md *Metadata) {
	if o.key.Type().Kind() != reflect.Struct {
		md.appendErr(errors.Errorf("dagger.Component from %v: %v is not a struct", o.caller, o.key))
		return
	}
	if _, ok := md.components[o.key]; ok {
		md.appendErr(errors.Errorf("dagger.Component from %v: component %v declared more than once", o.caller, o.key))
		return
	}
	md.components[o.key] = &componentSpec{key: o.key, modules: o.modules}
}

func (o componentOption) String() string {
	return fmt.Sprintf("dagger.Component[%v](%s)", o.key, strings.Join(keyNames(o.modules), ", "))
}
