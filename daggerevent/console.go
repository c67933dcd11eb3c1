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
	"fmt"
	"io"
	"strings"
)

// ConsoleLogger is a dagger event logger that attempts to write
// human-readable messages to the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	fmt.Fprintf(l.W, "[Dagger] "+msg+"\n", args...)
}

// LogEvent logs the given event to the provided writer.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *ModuleRegistered:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to register module %s: %v", e.ModuleName, e.Err)
		} else {
			l.logf("MODULE\t%s [%s]", e.ModuleName, strings.Join(e.OutputTypeNames, ", "))
		}
	case *Provided:
		if e.Singleton {
			l.logf("PROVIDE\t%s <= %s (singleton)", e.TypeName, e.ProviderName)
		} else {
			l.logf("PROVIDE\t%s <= %s", e.TypeName, e.ProviderName)
		}
	case *Overridden:
		l.logf("OVERRIDE\t%s <= %s (was %s)", e.TypeName, e.ProviderName, e.PreviousProvider)
	case *Resolved:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to resolve %s: %v", e.TypeName, e.Err)
		} else {
			l.logf("RESOLVE\t%s <= %s in %s", e.TypeName, e.ConstructorName, e.Runtime)
		}
	case *Injected:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to inject %s: %v", e.TargetName, e.Err)
		} else {
			l.logf("INJECT\t%s [%s]", e.TargetName, strings.Join(e.FieldNames, ", "))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to build component %s: %v", e.ComponentName, e.Err)
		} else {
			l.logf("BUILT\t\t%s [%s]", e.ComponentName, strings.Join(e.OperationNames, ", "))
		}
	}
}
