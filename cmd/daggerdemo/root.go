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
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gta/dagger"
	"github.com/gta/dagger/daggerevent"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config is the demo configuration, read from flags, an optional config
// file and DAGGER_* environment variables, in that order of precedence.
type config struct {
	LogFormat string `mapstructure:"log-format"`
	Validate  bool   `mapstructure:"validate"`
	Orders    int    `mapstructure:"orders"`
	Activity  string `mapstructure:"activity"`
}

func newRootCommand(out io.Writer) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "daggerdemo",
		Short:         "Run the dagger example graphs",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("log-format", "console", "event log format: console, json, slog or nop")
	flags.Bool("validate", false, "validate the graph before using it")

	root.AddCommand(newCoffeeCommand(v, out), newUsersCommand(v, out))
	return root
}

func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	v.SetEnvPrefix("DAGGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %q", path)
		}
	}
	return nil
}

func readConfig(v *viper.Viper) (config, error) {
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// newLoggers returns the event logger selected by format and the zap
// logger that application code should write to.
func newLoggers(format string, w io.Writer) (daggerevent.Logger, *zap.Logger, error) {
	switch format {
	case "console":
		return &daggerevent.ConsoleLogger{W: w}, newConsoleZap(w), nil
	case "json":
		z := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			zapcore.DebugLevel,
		))
		return &daggerevent.ZapLogger{Logger: z}, z, nil
	case "slog":
		l := slog.New(slog.NewJSONHandler(w, nil))
		return &daggerevent.SlogLogger{Logger: l}, newConsoleZap(w), nil
	case "nop":
		return daggerevent.NopLogger, zap.NewNop(), nil
	default:
		return nil, nil, errors.Errorf("unknown log format %q", format)
	}
}

func newConsoleZap(w io.Writer) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.InfoLevel,
	))
}

// registryOptions turns the configuration into registry options.
func registryOptions(cfg config, w io.Writer) ([]dagger.RegistryOption, *zap.Logger, error) {
	events, z, err := newLoggers(cfg.LogFormat, w)
	if err != nil {
		return nil, nil, err
	}
	return []dagger.RegistryOption{dagger.WithLogger(events), dagger.RecoverFromPanics()}, z, nil
}

func validate(cfg config, r *dagger.Registry, w io.Writer) error {
	if !cfg.Validate {
		return nil
	}
	if err := r.Validate(); err != nil {
		return errors.WithMessage(err, "invalid graph")
	}
	fmt.Fprintf(w, "graph is valid: %d bindings\n", len(r.Keys()))
	return nil
}
