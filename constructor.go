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

	"github.com/gta/dagger/internal/daggerreflect"
	"github.com/pkg/errors"
)

// function is a constructor or provider func taken apart: the ordered
// dependency keys it takes and the key it produces.
type function struct {
	value reflect.Value
	name  string

	// params excludes the receiver of a provider method expression.
	params     []TypeKey
	out        TypeKey
	returnsErr bool
}

// newFunction inspects fn. The first skip parameters are not dependencies.
func newFunction(fn interface{}, skip int) (*function, error) {
	if fn == nil {
		return nil, errors.New("can't use nil, expected a function")
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	switch {
	case ft.Kind() != reflect.Func:
		return nil, errors.Errorf("must provide a function, got %v (type %v)", fn, ft)
	case fv.IsNil():
		return nil, errors.Errorf("can't use a nil %v", ft)
	case ft.IsVariadic():
		return nil, errors.Errorf("variadic function %v is not supported", ft)
	case ft.NumIn() < skip:
		return nil, errors.Errorf("function %v must take at least %d parameter(s)", ft, skip)
	}

	f := &function{
		value: fv,
		name:  daggerreflect.FuncName(fn),
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != daggerreflect.ErrType() {
			return nil, errors.Errorf("second result of %v must be an error, got %v", ft, ft.Out(1))
		}
		f.returnsErr = true
	default:
		return nil, errors.Errorf("function %v must return T or (T, error)", ft)
	}
	if ft.Out(0) == daggerreflect.ErrType() {
		return nil, errors.Errorf("function %v must produce a value, not only an error", ft)
	}
	f.out = KeyFor(ft.Out(0))

	for i := skip; i < ft.NumIn(); i++ {
		f.params = append(f.params, KeyFor(ft.In(i)))
	}
	return f, nil
}

func (f *function) String() string {
	return fmt.Sprintf("%s -> %v", f.name, f.out)
}

// constructor is an injectable constructor of one type.
type constructor struct {
	*function

	singleton bool
	caller    string
}

// ConstructorOption modifies the default behavior of Constructor.
type ConstructorOption interface {
	applyConstructor(*constructor)
}

// Constructor declares fn as the injectable constructor of the type it
// returns. fn must return T or (T, error); its parameters are the ordered
// dependencies of T, resolved from the registry before fn is called.
//
//	func NewCoffee(bean *Bean) *Coffee
//
//	dagger.Constructor(NewCoffee)
//
// At most one constructor may be declared per type; resolving a type with
// several declared constructors fails with an AmbiguousConstructorError.
func Constructor(fn interface{}, opts ...ConstructorOption) Option {
	return constructorOption{
		fn:     fn,
		opts:   opts,
		caller: daggerreflect.Caller(),
	}
}

type constructorOption struct {
	fn     interface{}
	opts   []ConstructorOption
	caller string
}

func (o constructorOption) apply(md *Metadata) {
	f, err := newFunction(o.fn, 0)
	if err != nil {
		md.appendErr(errors.WithMessagef(err, "dagger.Constructor from %v", o.caller))
		return
	}

	c := &constructor{function: f, caller: o.caller}
	for _, opt := range o.opts {
		opt.applyConstructor(c)
	}
	md.constructors[f.out] = append(md.constructors[f.out], c)
}

func (o constructorOption) String() string {
	return fmt.Sprintf("dagger.Constructor(%s)", daggerreflect.FuncName(o.fn))
}
