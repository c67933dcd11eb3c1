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

package daggertest

import (
	"testing"

	"github.com/gta/dagger"
	"github.com/gta/dagger/internal/daggerlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type Bean struct{ Origin string }

type Cup struct{ Bean *Bean }

func NewCup(b *Bean) *Cup { return &Cup{Bean: b} }

type RoasterModule struct{}

func (RoasterModule) ProvideBean() *Bean { return &Bean{Origin: "Kenya"} }

type Cafe struct {
	Cup func() *Cup
}

type Barista struct {
	Cup *Cup `inject:""`
}

func metadata(t *testing.T) *dagger.Metadata {
	md, err := dagger.NewMetadata(
		dagger.Constructor(NewCup),
		dagger.Module[RoasterModule](
			dagger.Provides(RoasterModule.ProvideBean, dagger.Singleton()),
		),
		dagger.Component[Cafe](dagger.KeyOf[RoasterModule]()),
	)
	require.NoError(t, err)
	return md
}

func TestTestLogger(t *testing.T) {
	spy := newTB()
	r := NewRegistry(spy, metadata(t), []dagger.TypeKey{dagger.KeyOf[RoasterModule]()})
	assert.Zero(t, spy.failures)
	assert.Contains(t, spy.logs.String(), "[Dagger] MODULE")

	MustResolve[*Cup](spy, r)
	assert.Contains(t, spy.logs.String(), "[Dagger] RESOLVE")
}

func TestSuccess(t *testing.T) {
	md := metadata(t)

	var cafe Cafe
	h := Create(t, md, &cafe)
	assert.Equal(t, "Kenya", cafe.Cup().Bean.Origin)

	cup := MustResolve[*Cup](t, h.Registry())
	assert.Same(t, cafe.Cup().Bean, cup.Bean)

	var b Barista
	MustInject(t, h.Registry(), &b)
	assert.NotNil(t, b.Cup)

	MustValidate(t, h.Registry())

	var other Cafe
	Build(t, md, &other, []dagger.TypeKey{dagger.KeyOf[RoasterModule]()})
	assert.NotSame(t, cafe.Cup().Bean, other.Cup().Bean, "each build gets its own registry")
}

func TestCallerLoggerWins(t *testing.T) {
	spy := new(daggerlog.Spy)
	var cafe Cafe
	Create(t, metadata(t), &cafe, dagger.WithLogger(spy))
	assert.Contains(t, spy.EventTypes(), "ComponentBuilt")
}

func TestFailures(t *testing.T) {
	md := metadata(t)

	tests := []struct {
		desc    string
		give    func(TB)
		wantErr string
	}{
		{
			desc: "NewRegistry",
			give: func(t TB) {
				NewRegistry(t, md, []dagger.TypeKey{dagger.KeyOf[Cup]()})
			},
			wantErr: "module daggertest.Cup didn't register cleanly",
		},
		{
			desc: "Build",
			give: func(t TB) {
				var b Barista
				Build(t, md, &b, nil)
			},
			wantErr: "component didn't build cleanly",
		},
		{
			desc: "Create",
			give: func(t TB) {
				Create(t, md, nil)
			},
			wantErr: "component didn't build cleanly",
		},
		{
			desc: "MustResolve",
			give: func(t TB) {
				MustResolve[*Bean](t, dagger.NewRegistry(md))
			},
			wantErr: "couldn't resolve *daggertest.Bean",
		},
		{
			desc: "MustInject",
			give: func(t TB) {
				MustInject(t, dagger.NewRegistry(md), &Barista{})
			},
			wantErr: "couldn't inject *daggertest.Barista",
		},
		{
			desc: "MustValidate",
			give: func(t TB) {
				MustValidate(t, dagger.NewRegistry(md))
			},
			wantErr: "registry is not valid",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			spy := newTB()
			tt.give(spy)
			assert.Equal(t, 1, spy.failures)
			assert.Contains(t, spy.errors.String(), tt.wantErr)
		})
	}
}
