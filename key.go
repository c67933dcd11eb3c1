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
	"sort"
)

// TypeKey identifies a concrete type. It is the unit of lookup for every
// binding in a Registry: two keys are equal iff they denote the same type.
//
// The zero TypeKey denotes no type.
type TypeKey struct {
	t reflect.Type
}

// KeyOf returns the TypeKey for T.
//
//	dagger.KeyOf[*Coffee]()
//	dagger.KeyOf[io.Writer]()
func KeyOf[T any]() TypeKey {
	return TypeKey{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// KeyFor returns the TypeKey for an already known reflect.Type.
func KeyFor(t reflect.Type) TypeKey {
	return TypeKey{t: t}
}

// Type returns the reflect.Type this key denotes.
func (k TypeKey) Type() reflect.Type { return k.t }

// IsZero reports whether k denotes no type.
func (k TypeKey) IsZero() bool { return k.t == nil }

func (k TypeKey) String() string {
	if k.t == nil {
		return "<nil>"
	}
	return k.t.String()
}

func sortKeys(keys []TypeKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
}

func keyNames(keys []TypeKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}
