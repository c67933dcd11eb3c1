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

	"github.com/gta/dagger/daggerevent"
	"github.com/gta/dagger/internal/daggerreflect"
	"github.com/pkg/errors"
)

// OperationKind tells provide operations from inject operations.
type OperationKind int

const (
	// ProvideOperation resolves and returns a value.
	ProvideOperation OperationKind = iota + 1

	// InjectOperation populates the tagged fields of its argument.
	InjectOperation
)

func (k OperationKind) String() string {
	switch k {
	case ProvideOperation:
		return "provide"
	case InjectOperation:
		return "inject"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(k))
	}
}

// Operation is one operation of a built component.
type Operation struct {
	// Name is the name of the component field.
	Name string

	Kind OperationKind

	// Type is the provided type for provide operations, and the argument
	// type for inject operations.
	Type TypeKey

	returnsErr bool
}

// Handle is a built component. It holds the registry backing the component
// and the operation table computed by Build. Handles are safe for
// concurrent use.
type Handle struct {
	component TypeKey
	registry  *Registry
	ops       map[string]Operation
	order     []string
}

// Registry returns the registry backing the component.
func (h *Handle) Registry() *Registry { return h.registry }

// Operations returns the component's operations in field order.
func (h *Handle) Operations() []Operation {
	ops := make([]Operation, len(h.order))
	for i, name := range h.order {
		ops[i] = h.ops[name]
	}
	return ops
}

// Create builds a component with the modules listed in its Component
// declaration.
//
//	var shop CoffeeShop
//	handle, err := dagger.Create(md, &shop)
func Create(md *Metadata, component interface{}, opts ...RegistryOption) (*Handle, error) {
	var modules []TypeKey
	if t := reflect.TypeOf(component); t != nil && t.Kind() == reflect.Ptr {
		if spec, ok := md.components[KeyFor(t.Elem())]; ok {
			modules = spec.modules
		}
	}
	return Build(md, component, modules, opts...)
}

// Build builds a component backed by a new registry holding the given
// modules.
//
// component must be a non-nil pointer to a struct declared with Component.
// Build classifies each exported field of the struct by its signature and
// assigns it a function that serves the operation from the registry:
//
//	type CoffeeShop struct {
//		Coffee func() *Coffee                // Resolve(*Coffee)
//		Sugar  func() (*Sugar, error)        // Resolve(*Sugar)
//		Inject func(*Customer) error         // Inject(*Customer)
//	}
//
// Operations without an error result panic when they fail. A field that is
// neither a provide nor an inject operation fails the build with an
// InvalidOperationShapeError.
func Build(md *Metadata, component interface{}, modules []TypeKey, opts ...RegistryOption) (_ *Handle, err error) {
	reg := NewRegistry(md, opts...)

	var key TypeKey
	var opNames []string
	defer func() {
		reg.log.LogEvent(&daggerevent.ComponentBuilt{
			ComponentName:  key.String(),
			OperationNames: opNames,
			Err:            err,
		})
	}()

	v := reflect.ValueOf(component)
	if component != nil {
		key = KeyFor(v.Type())
	}
	if component == nil || v.Kind() != reflect.Ptr || v.Type().Elem().Kind() != reflect.Struct || v.IsNil() {
		return nil, &InvalidComponentError{
			Component: key,
			Reason:    "component must be a non-nil pointer to a struct",
		}
	}

	key = KeyFor(v.Type().Elem())
	if !md.IsComponent(key) {
		return nil, &InvalidComponentError{
			Component: key,
			Reason:    "declare it with dagger.Component",
		}
	}

	h := &Handle{
		component: key,
		registry:  reg,
		ops:       make(map[string]Operation),
	}

	t := key.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		op, err := classify(key, f)
		if err != nil {
			return nil, err
		}
		h.ops[op.Name] = op
		h.order = append(h.order, op.Name)
	}

	for _, m := range modules {
		if err := reg.RegisterModule(m); err != nil {
			return nil, errors.WithMessagef(err, "could not build component %v", key)
		}
	}

	elem := v.Elem()
	for _, name := range h.order {
		op := h.ops[name]
		field := elem.FieldByName(name)
		field.Set(reflect.MakeFunc(field.Type(), h.operationFunc(op)))
	}

	opNames = h.order
	return h, nil
}

// classify decides the kind of an operation from the static shape of its
// field.
func classify(component TypeKey, f reflect.StructField) (Operation, error) {
	op := Operation{Name: f.Name}
	ft := f.Type
	errType := daggerreflect.ErrType()

	shapeErr := func(reason string) error {
		return &InvalidOperationShapeError{Component: component, Operation: f.Name, Reason: reason}
	}

	if ft.Kind() != reflect.Func {
		return op, shapeErr(fmt.Sprintf("%v is not a function", ft))
	}
	if ft.IsVariadic() {
		return op, shapeErr(fmt.Sprintf("variadic function %v is not supported", ft))
	}

	switch {
	case ft.NumIn() == 0 && ft.NumOut() >= 1 && ft.NumOut() <= 2 && ft.Out(0) != errType:
		if ft.NumOut() == 2 && ft.Out(1) != errType {
			break
		}
		op.Kind = ProvideOperation
		op.Type = KeyFor(ft.Out(0))
		op.returnsErr = ft.NumOut() == 2
		return op, nil

	case ft.NumIn() == 1 && (ft.NumOut() == 0 || ft.NumOut() == 1 && ft.Out(0) == errType):
		op.Kind = InjectOperation
		op.Type = KeyFor(ft.In(0))
		op.returnsErr = ft.NumOut() == 1
		return op, nil
	}

	return op, shapeErr(fmt.Sprintf(
		"%v must be one of func() T, func() (T, error), func(O) or func(O) error", ft))
}

// operationFunc returns the implementation assigned to the operation's
// field.
func (h *Handle) operationFunc(op Operation) func([]reflect.Value) []reflect.Value {
	errValue := func(err error) reflect.Value {
		if err == nil {
			return reflect.Zero(daggerreflect.ErrType())
		}
		return reflect.ValueOf(&err).Elem()
	}

	switch op.Kind {
	case ProvideOperation:
		return func([]reflect.Value) []reflect.Value {
			v, err := h.registry.resolveTop(op.Type)
			if !op.returnsErr {
				if err != nil {
					panic(err)
				}
				return []reflect.Value{v}
			}
			if err != nil {
				v = reflect.Zero(op.Type.Type())
			}
			return []reflect.Value{v, errValue(err)}
		}

	default:
		return func(args []reflect.Value) []reflect.Value {
			err := h.inject(op, args[0])
			if !op.returnsErr {
				if err != nil {
					panic(err)
				}
				return nil
			}
			return []reflect.Value{errValue(err)}
		}
	}
}

func (h *Handle) inject(op Operation, target reflect.Value) error {
	if isNil(target) {
		return &NullInjectionTargetError{Operation: op.Name, Target: op.Type}
	}
	return h.registry.Inject(target.Interface())
}

// Call invokes the named operation dynamically. Provide operations take no
// arguments and return the resolved value; inject operations take exactly
// one argument and return nil.
func (h *Handle) Call(name string, args ...interface{}) (interface{}, error) {
	op, ok := h.ops[name]
	if !ok {
		return nil, errors.Errorf("component %v has no operation %q", h.component, name)
	}

	shapeErr := func(reason string) error {
		return &InvalidOperationShapeError{Component: h.component, Operation: name, Reason: reason}
	}

	switch op.Kind {
	case ProvideOperation:
		if len(args) != 0 {
			return nil, shapeErr(fmt.Sprintf("provide operation takes no arguments, got %d", len(args)))
		}
		v, err := h.registry.resolveTop(op.Type)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil

	default:
		if len(args) != 1 {
			return nil, shapeErr(fmt.Sprintf("inject operation takes exactly one argument, got %d", len(args)))
		}
		if args[0] == nil {
			return nil, &NullInjectionTargetError{Operation: name, Target: op.Type}
		}
		target := reflect.ValueOf(args[0])
		if !target.Type().AssignableTo(op.Type.Type()) {
			return nil, shapeErr(fmt.Sprintf("argument of type %v is not assignable to %v", target.Type(), op.Type))
		}
		return nil, h.inject(op, target)
	}
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}
