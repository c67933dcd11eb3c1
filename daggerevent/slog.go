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
	"context"
	"log/slog"
)

var _ Logger = (*SlogLogger)(nil)

// SlogLogger a dagger event logger that logs events using a slog logger.
type SlogLogger struct {
	Logger *slog.Logger

	ctx        context.Context
	logLevel   slog.Level
	errorLevel *slog.Level
}

// UseContext sets the context that will be used when logging to slog.
func (l *SlogLogger) UseContext(ctx context.Context) {
	l.ctx = ctx
}

// UseLogLevel sets the level of non-error logs emitted by dagger to level.
func (l *SlogLogger) UseLogLevel(level slog.Level) {
	l.logLevel = level
}

// UseErrorLevel sets the level of error logs emitted by dagger to level.
func (l *SlogLogger) UseErrorLevel(level slog.Level) {
	l.errorLevel = &level
}

func (l *SlogLogger) context() context.Context {
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

func (l *SlogLogger) logEvent(msg string, fields ...any) {
	l.Logger.Log(l.context(), l.logLevel, msg, fields...)
}

func (l *SlogLogger) logError(msg string, fields ...any) {
	lvl := slog.LevelError
	if l.errorLevel != nil {
		lvl = *l.errorLevel
	}

	l.Logger.Log(l.context(), lvl, msg, fields...)
}

// LogEvent logs the given event to the provided slog logger.
func (l *SlogLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *ModuleRegistered:
		if e.Err != nil {
			l.logError("module registration failed",
				slog.String("module", e.ModuleName),
				slogErr(e.Err))
		} else {
			l.logEvent("module registered",
				slog.String("module", e.ModuleName),
				slog.Any("types", e.OutputTypeNames))
		}
	case *Provided:
		l.logEvent("provided",
			slog.String("provider", e.ProviderName),
			slog.String("module", e.ModuleName),
			slog.String("type", e.TypeName),
			slog.Bool("singleton", e.Singleton),
		)
	case *Overridden:
		l.logEvent("provider overridden",
			slog.String("type", e.TypeName),
			slog.String("provider", e.ProviderName),
			slog.String("previous", e.PreviousProvider),
		)
	case *Resolved:
		if e.Err != nil {
			l.logError("resolve failed",
				slog.String("type", e.TypeName),
				slogErr(e.Err))
		} else {
			l.logEvent("resolved",
				slog.String("type", e.TypeName),
				slog.String("constructor", e.ConstructorName),
				slog.Bool("singleton", e.Singleton),
				slog.String("runtime", e.Runtime.String()),
			)
		}
	case *Injected:
		if e.Err != nil {
			l.logError("inject failed",
				slog.String("target", e.TargetName),
				slogErr(e.Err))
		} else {
			l.logEvent("injected",
				slog.String("target", e.TargetName),
				slog.Any("fields", e.FieldNames))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.logError("component build failed",
				slog.String("component", e.ComponentName),
				slogErr(e.Err))
		} else {
			l.logEvent("component built",
				slog.String("component", e.ComponentName),
				slog.Any("operations", e.OperationNames))
		}
	}
}

func slogErr(err error) slog.Attr {
	return slog.String("error", err.Error())
}
