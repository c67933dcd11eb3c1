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

// Package daggertest provides helpers for tests of code built on dagger.
// Each helper reports failures to the test instead of returning an error.
package daggertest // import "github.com/gta/dagger/daggertest"

import (
	"github.com/gta/dagger"
	"github.com/gta/dagger/daggerevent"
	"github.com/gta/dagger/internal/testutil"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Logf(string, ...interface{})
	Errorf(string, ...interface{})
	FailNow()
}

// NewTestLogger returns a daggerevent.Logger that writes human-readable
// events to the test's log output.
func NewTestLogger(t TB) daggerevent.Logger {
	return &daggerevent.ConsoleLogger{W: testutil.WriteSyncer{T: t}}
}

// NewRegistry builds a registry that logs to t and registers the given
// modules, failing the test if a module can't be registered.
func NewRegistry(t TB, md *dagger.Metadata, modules []dagger.TypeKey, opts ...dagger.RegistryOption) *dagger.Registry {
	r := dagger.NewRegistry(md, withTestLogger(t, opts)...)
	for _, m := range modules {
		if err := r.RegisterModule(m); err != nil {
			t.Errorf("module %v didn't register cleanly: %v", m, err)
			t.FailNow()
		}
	}
	return r
}

// Build calls dagger.Build with a logger that writes to t, failing the test
// if the component can't be built.
func Build(t TB, md *dagger.Metadata, component interface{}, modules []dagger.TypeKey, opts ...dagger.RegistryOption) *dagger.Handle {
	h, err := dagger.Build(md, component, modules, withTestLogger(t, opts)...)
	if err != nil {
		t.Errorf("component didn't build cleanly: %v", err)
		t.FailNow()
	}
	return h
}

// Create is the dagger.Create counterpart of Build.
func Create(t TB, md *dagger.Metadata, component interface{}, opts ...dagger.RegistryOption) *dagger.Handle {
	h, err := dagger.Create(md, component, withTestLogger(t, opts)...)
	if err != nil {
		t.Errorf("component didn't build cleanly: %v", err)
		t.FailNow()
	}
	return h
}

// MustResolve resolves a T from r, failing the test if it can't.
func MustResolve[T any](t TB, r *dagger.Registry) T {
	v, err := dagger.Resolve[T](r)
	if err != nil {
		t.Errorf("couldn't resolve %v: %v", dagger.KeyOf[T](), err)
		t.FailNow()
	}
	return v
}

// MustInject injects the tagged fields of target, failing the test if it
// can't.
func MustInject(t TB, r *dagger.Registry, target interface{}) {
	if err := r.Inject(target); err != nil {
		t.Errorf("couldn't inject %T: %v", target, err)
		t.FailNow()
	}
}

// MustValidate fails the test if r.Validate reports any problem.
func MustValidate(t TB, r *dagger.Registry) {
	if err := r.Validate(); err != nil {
		t.Errorf("registry is not valid: %v", err)
		t.FailNow()
	}
}

// withTestLogger puts the test logger first so that a WithLogger passed by
// the caller still wins.
func withTestLogger(t TB, opts []dagger.RegistryOption) []dagger.RegistryOption {
	return append([]dagger.RegistryOption{dagger.WithLogger(NewTestLogger(t))}, opts...)
}
