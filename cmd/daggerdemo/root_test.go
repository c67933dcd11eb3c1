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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const _latte = "espresso brewed with premium arabica beans + fresh whole milk = latte"

func TestCoffee(t *testing.T) {
	out, err := run(t, "coffee", "--log-format", "nop", "--orders", "2")
	require.NoError(t, err)
	assert.Equal(t,
		"latte #1: "+_latte+"\n"+
			"latte #2: "+_latte+"\n"+
			"beans shared: true\n"+
			"sugar: 5g of white sugar\n",
		out)
}

func TestUsers(t *testing.T) {
	out, err := run(t, "users", "--log-format", "nop", "--activity", "Main")
	require.NoError(t, err)
	assert.Contains(t, out, "Main before injection: ready=false\n")
	assert.Contains(t, out, "Main after injection: ready=true\n")
	assert.Contains(t, out, "network service shared: true\n")
}

func TestValidateFlag(t *testing.T) {
	out, err := run(t, "coffee", "--log-format", "nop", "--validate", "--orders", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "graph is valid: ")
}

func TestLogFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "console", want: "[Dagger] BUILT"},
		{format: "json", want: `"msg":"component built"`},
		{format: "slog", want: `"msg":"component built"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "coffee", "--log-format", tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err := run(t, "coffee", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log format "xml"`)
}

func TestConfigSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("DAGGER_ORDERS", "3")
		t.Setenv("DAGGER_LOG_FORMAT", "nop")

		out, err := run(t, "coffee")
		require.NoError(t, err)
		assert.Contains(t, out, "latte #3: ")
		assert.NotContains(t, out, "latte #4: ")
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "daggerdemo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log-format: nop\norders: 2\n"), 0o644))

		out, err := run(t, "coffee", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "latte #2: ")
		assert.NotContains(t, out, "[Dagger]")
	})

	t.Run("flag beats config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "daggerdemo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log-format: nop\norders: 2\n"), 0o644))

		out, err := run(t, "coffee", "--config", path, "--orders", "1")
		require.NoError(t, err)
		assert.NotContains(t, out, "latte #2: ")
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := run(t, "coffee", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})
}
