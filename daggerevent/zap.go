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
	"go.uber.org/zap"
)

// ZapLogger is a dagger event logger that logs events to Zap.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *ModuleRegistered:
		if e.Err != nil {
			l.Logger.Error("module registration failed",
				zap.String("module", e.ModuleName),
				zap.Error(e.Err))
		} else {
			l.Logger.Info("module registered",
				zap.String("module", e.ModuleName),
				zap.Strings("types", e.OutputTypeNames))
		}
	case *Provided:
		l.Logger.Info("provided",
			zap.String("provider", e.ProviderName),
			zap.String("module", e.ModuleName),
			zap.String("type", e.TypeName),
			maybeBool("singleton", e.Singleton),
		)
	case *Overridden:
		l.Logger.Warn("provider overridden",
			zap.String("type", e.TypeName),
			zap.String("provider", e.ProviderName),
			zap.String("previous", e.PreviousProvider),
		)
	case *Resolved:
		if e.Err != nil {
			l.Logger.Error("resolve failed",
				zap.String("type", e.TypeName),
				maybeString("constructor", e.ConstructorName),
				zap.Error(e.Err))
		} else {
			l.Logger.Debug("resolved",
				zap.String("type", e.TypeName),
				zap.String("constructor", e.ConstructorName),
				maybeBool("singleton", e.Singleton),
				zap.String("runtime", e.Runtime.String()),
			)
		}
	case *Injected:
		if e.Err != nil {
			l.Logger.Error("inject failed",
				zap.String("target", e.TargetName),
				zap.Error(e.Err))
		} else {
			l.Logger.Info("injected",
				zap.String("target", e.TargetName),
				zap.Strings("fields", e.FieldNames))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.Logger.Error("component build failed",
				zap.String("component", e.ComponentName),
				zap.Error(e.Err))
		} else {
			l.Logger.Info("component built",
				zap.String("component", e.ComponentName),
				zap.Strings("operations", e.OperationNames))
		}
	}
}

func maybeBool(name string, b bool) zap.Field {
	if b {
		return zap.Bool(name, true)
	}
	return zap.Skip()
}

func maybeString(name, s string) zap.Field {
	if s == "" {
		return zap.Skip()
	}
	return zap.String(name, s)
}
