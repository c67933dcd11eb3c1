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
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// Validate checks, without building anything, that every type the registry
// has a binding for can be resolved: all dependencies have a binding, no
// type has several constructors, and there are no cycles.
//
// All problems found are returned together. Validate is meant to be called
// once the registry is populated, as a stricter alternative to finding
// problems on first use.
func (r *Registry) Validate() error {
	v := validator{
		r:     r,
		state: make(map[TypeKey]visitState),
	}

	var errs error
	for _, key := range r.Keys() {
		errs = multierr.Append(errs, v.visit(key))
	}
	return errs
}

type validator struct {
	r     *Registry
	state map[TypeKey]visitState
	path  []TypeKey
}

// visit reports each broken type once: a type whose visit failed is still
// marked visited.
func (v *validator) visit(key TypeKey) error {
	switch v.state[key] {
	case visited:
		return nil
	case visiting:
		var start int
		for i, k := range v.path {
			if k == key {
				start = i
				break
			}
		}
		cycle := append(append([]TypeKey(nil), v.path[start:]...), key)
		return &CyclicDependencyError{Path: cycle}
	}

	if _, ok := v.r.cached(key); ok {
		v.state[key] = visited
		return nil
	}

	v.state[key] = visiting
	v.path = append(v.path, key)
	defer func() {
		v.path = v.path[:len(v.path)-1]
		v.state[key] = visited
	}()

	params, err := v.params(key)
	if err != nil {
		return err
	}

	var errs error
	for _, p := range params {
		if err := v.visit(p); err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "required by %v", key))
		}
	}
	return errs
}

func (v *validator) params(key TypeKey) ([]TypeKey, error) {
	if b, ok := v.r.provider(key); ok {
		return b.params, nil
	}

	c, err := v.r.constructorFor(key)
	if err != nil {
		return nil, err
	}
	return c.params, nil
}
