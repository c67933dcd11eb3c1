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

// _injectTag marks a struct field for injection.
//
//	type Activity struct {
//		Network  *NetworkService  `inject:""`
//		Database *DatabaseService `inject:""`
//	}
const _injectTag = "inject"

// Inject resolves the type of every field of target tagged `inject:""` and
// assigns the result, overwriting the field's current value. Untagged fields
// are left alone.
//
// target must be a non-nil pointer to a struct. Tagged fields must be
// exported. Every tagged field is resolved before any is assigned, so target
// is unchanged when Inject fails.
func (r *Registry) Inject(target interface{}) (err error) {
	if target == nil {
		return &NullInjectionTargetError{}
	}

	v := reflect.ValueOf(target)
	key := KeyFor(v.Type())

	var fieldNames []string
	defer func() {
		r.log.LogEvent(&daggerevent.Injected{
			TargetName: key.String(),
			FieldNames: fieldNames,
			Err:        err,
		})
	}()

	if v.Kind() != reflect.Ptr || v.Type().Elem().Kind() != reflect.Struct {
		return &InjectionTargetError{Target: key, Reason: "target must be a pointer to a struct"}
	}
	if v.IsNil() {
		return &NullInjectionTargetError{Target: key}
	}

	elem := v.Elem()
	t := elem.Type()

	var fields []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup(_injectTag); !ok {
			continue
		}
		if !f.IsExported() || !elem.Field(i).CanSet() {
			return &InjectionTargetError{Target: key, Field: f.Name, Reason: "field is not exported"}
		}
		fields = append(fields, i)
	}

	s := newResolution()
	values := make([]reflect.Value, len(fields))
	for j, i := range fields {
		f := t.Field(i)
		dep, err := r.resolve(s, KeyFor(f.Type))
		if err != nil {
			return errors.WithMessagef(err, "could not inject field %v.%s", key, f.Name)
		}
		values[j] = dep
	}

	for j, i := range fields {
		elem.Field(i).Set(values[j])
		fieldNames = append(fieldNames, t.Field(i).Name)
	}
	return nil
}
