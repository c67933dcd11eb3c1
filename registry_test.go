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
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gta/dagger/daggerevent"
	"github.com/gta/dagger/internal/daggerlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingModule struct{}

func (failingModule) Init() error { return errors.New("great sadness") }

type panickingModule struct{}

func (*panickingModule) Init() error { panic("oh no") }

func TestRegisterModule(t *testing.T) {
	t.Parallel()

	t.Run("undeclared module", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(familyMetadata(t))
		err := r.RegisterModule(KeyOf[InitModule]())
		require.Error(t, err)

		var modErr *InvalidModuleError
		require.ErrorAs(t, err, &modErr)
		assert.Equal(t, KeyOf[InitModule](), modErr.Module)
		assert.Equal(t, "dagger.InitModule is not a module: declare it with dagger.Module", err.Error())
	})

	t.Run("module without default constructor", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(familyMetadata(t, Module[map[string]int]()))
		err := r.RegisterModule(KeyOf[map[string]int]())

		var consErr *ModuleConstructionError
		require.ErrorAs(t, err, &consErr)
		assert.Equal(t, KeyOf[map[string]int](), consErr.Module)
		assert.ErrorIs(t, err, errNoDefaultConstructor)
	})

	t.Run("initializer fails", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(familyMetadata(t, Module[failingModule]()))
		err := r.RegisterModule(KeyOf[failingModule]())

		var consErr *ModuleConstructionError
		require.ErrorAs(t, err, &consErr)
		assert.Equal(t, "great sadness", consErr.Err.Error())
		assert.Contains(t, err.Error(), "could not construct module dagger.failingModule")
	})

	t.Run("initializer panics", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(familyMetadata(t, Module[panickingModule]()))
		err := r.RegisterModule(KeyOf[panickingModule]())

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "oh no", panicErr.Value)
		assert.Equal(t, "(*dagger.panickingModule).Init()", panicErr.Func)

		var consErr *ModuleConstructionError
		require.ErrorAs(t, err, &consErr)
	})

	t.Run("registering twice is a no-op", func(t *testing.T) {
		t.Parallel()

		md := familyMetadata(t, Module[InitModule](
			Provides((*InitModule).ProvideReady),
		))
		r := NewRegistry(md)

		before := atomic.LoadInt32(&_initCalls)
		require.NoError(t, r.RegisterModule(KeyOf[InitModule]()))
		require.NoError(t, r.RegisterModule(KeyOf[InitModule]()))
		assert.Equal(t, int32(1), atomic.LoadInt32(&_initCalls)-before)

		ready, err := Resolve[bool](r)
		require.NoError(t, err)
		assert.True(t, ready, "provider must see the initialized module")
	})
}

func TestRegisterModuleOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc      string
		modules   []TypeKey
		wantLabel string
	}{
		{
			desc:      "override registered last",
			modules:   []TypeKey{KeyOf[GrandchildModule](), KeyOf[OverrideModule]()},
			wantLabel: "override",
		},
		{
			desc:      "override registered first",
			modules:   []TypeKey{KeyOf[OverrideModule](), KeyOf[GrandchildModule]()},
			wantLabel: "module",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			spy := new(daggerlog.Spy)
			r := NewRegistry(familyMetadata(t), WithLogger(spy))
			for _, m := range tt.modules {
				require.NoError(t, r.RegisterModule(m))
			}

			gc2, err := Resolve[*Grandchild2](r)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, gc2.label)

			var overridden []*daggerevent.Overridden
			for _, e := range spy.Events() {
				if o, ok := e.(*daggerevent.Overridden); ok {
					overridden = append(overridden, o)
				}
			}
			require.Len(t, overridden, 1)
			assert.Equal(t, "*dagger.Grandchild2", overridden[0].TypeName)
		})
	}
}

func TestRegisterModuleEvents(t *testing.T) {
	t.Parallel()

	spy := new(daggerlog.Spy)
	r := NewRegistry(familyMetadata(t), WithLogger(spy))
	require.NoError(t, r.RegisterModule(KeyOf[GrandchildModule]()))

	assert.Equal(t, []string{"Provided", "Provided", "ModuleRegistered"}, spy.EventTypes())

	events := spy.Events()
	provided := events[1].(*daggerevent.Provided)
	assert.Equal(t, "dagger.GrandchildModule", provided.ModuleName)
	assert.Equal(t, "dagger.Greeter", provided.TypeName)
	assert.True(t, provided.Singleton)

	registered := events[2].(*daggerevent.ModuleRegistered)
	assert.Equal(t, []string{"*dagger.Grandchild2", "dagger.Greeter"}, registered.OutputTypeNames)
	assert.NoError(t, registered.Err)

	spy.Reset()
	err := r.RegisterModule(KeyOf[InitModule]())
	require.Error(t, err)
	require.Len(t, spy.Events(), 1)
	assert.Equal(t, err, spy.Events()[0].(*daggerevent.ModuleRegistered).Err)
}

func TestModuleInstanceIsShared(t *testing.T) {
	t.Parallel()

	r := NewRegistry(familyMetadata(t))
	require.NoError(t, r.RegisterModule(KeyOf[GrandchildModule]()))

	for i := 0; i < 3; i++ {
		_, err := Resolve[*Grandchild2](r)
		require.NoError(t, err)
	}

	mod := r.modules[KeyOf[GrandchildModule]()].Interface().(*GrandchildModule)
	assert.Equal(t, int32(3), atomic.LoadInt32(&mod.calls))
}

func TestKeys(t *testing.T) {
	t.Parallel()

	r := NewRegistry(familyMetadata(t))
	assert.Equal(t, []string{
		"*dagger.Child1",
		"*dagger.Child2",
		"*dagger.Grandchild1",
		"*dagger.Parent12",
	}, keyNames(r.Keys()))

	require.NoError(t, r.RegisterModule(KeyOf[GrandchildModule]()))
	assert.Equal(t, []string{
		"*dagger.Child1",
		"*dagger.Child2",
		"*dagger.Grandchild1",
		"*dagger.Grandchild2",
		"*dagger.Parent12",
		"dagger.Greeter",
	}, keyNames(r.Keys()))
}
