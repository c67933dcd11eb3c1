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

package daggerevent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

// ctxHandler copies a context value into every record so that UseContext
// can be observed.
type ctxHandler struct{ slog.Handler }

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		r.AddAttrs(slog.String("ctx", v))
	}
	return h.Handler.Handle(ctx, r)
}

func newSlogSpy() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &SlogLogger{Logger: slog.New(ctxHandler{h})}, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	var out []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		m := make(map[string]interface{})
		require.NoError(t, dec.Decode(&m))
		delete(m, "time")
		out = append(out, m)
	}
	return out
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	someError := errors.New("some error")

	tests := []struct {
		name string
		give Event
		want map[string]interface{}
	}{
		{
			name: "ModuleRegistered",
			give: &ModuleRegistered{ModuleName: "coffee.SupplierModule", OutputTypeNames: []string{"*coffee.Bean"}},
			want: map[string]interface{}{
				"level":  "INFO",
				"msg":    "module registered",
				"module": "coffee.SupplierModule",
				"types":  []interface{}{"*coffee.Bean"},
			},
		},
		{
			name: "Provided",
			give: &Provided{ProviderName: "ProvideBean()", ModuleName: "coffee.SupplierModule", TypeName: "*coffee.Bean", Singleton: true},
			want: map[string]interface{}{
				"level":     "INFO",
				"msg":       "provided",
				"provider":  "ProvideBean()",
				"module":    "coffee.SupplierModule",
				"type":      "*coffee.Bean",
				"singleton": true,
			},
		},
		{
			name: "Resolved",
			give: &Resolved{TypeName: "*coffee.Coffee", ConstructorName: "coffee.NewCoffee()", Runtime: time.Second},
			want: map[string]interface{}{
				"level":       "INFO",
				"msg":         "resolved",
				"type":        "*coffee.Coffee",
				"constructor": "coffee.NewCoffee()",
				"singleton":   false,
				"runtime":     "1s",
			},
		},
		{
			name: "ResolvedError",
			give: &Resolved{TypeName: "*coffee.Coffee", Err: someError},
			want: map[string]interface{}{
				"level": "ERROR",
				"msg":   "resolve failed",
				"type":  "*coffee.Coffee",
				"error": "some error",
			},
		},
		{
			name: "InjectedError",
			give: &Injected{TargetName: "*app.Activity", Err: someError},
			want: map[string]interface{}{
				"level":  "ERROR",
				"msg":    "inject failed",
				"target": "*app.Activity",
				"error":  "some error",
			},
		},
		{
			name: "ComponentBuilt",
			give: &ComponentBuilt{ComponentName: "coffee.Shop", OperationNames: []string{"Coffee"}},
			want: map[string]interface{}{
				"level":      "INFO",
				"msg":        "component built",
				"component":  "coffee.Shop",
				"operations": []interface{}{"Coffee"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := newSlogSpy()
			logger.LogEvent(tt.give)

			lines := decodeLines(t, buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0])
		})
	}
}

func TestSlogLoggerOptions(t *testing.T) {
	t.Parallel()

	logger, buf := newSlogSpy()
	logger.UseContext(context.WithValue(context.Background(), ctxKey{}, "request-1"))
	logger.UseLogLevel(slog.LevelDebug)
	logger.UseErrorLevel(slog.LevelWarn)

	logger.LogEvent(&Overridden{TypeName: "*coffee.Bean", ProviderName: "B()", PreviousProvider: "A()"})
	logger.LogEvent(&ModuleRegistered{ModuleName: "coffee.SupplierModule", Err: errors.New("great sadness")})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "request-1", lines[0]["ctx"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "great sadness", lines[1]["error"])
}
