// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stack captures and formats call stacks for the errors package.
package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	maxDepth = 8       // maximum number of frames kept in a trace
	ellipsis = "\t..." // appended when a trace is truncated
)

// Stack is a snapshot of program counters.
type Stack []uintptr

// New captures the current call stack. skip is the number of frames to omit;
// skip=0 makes the caller of New the innermost frame.
func New(skip int) Stack {
	pc := make([]uintptr, maxDepth+1)
	return Stack(pc[:runtime.Callers(skip+2, pc)])
}

// String renders s with one "\tat func (file:line)" line per frame.
func (s Stack) String() string {
	var lines []string
	frames := runtime.CallersFrames(s)
	for {
		f, more := frames.Next()
		lines = append(lines, fmt.Sprintf("\tat %s (%s:%d)", f.Function, filepath.Base(f.File), f.Line))
		if !more {
			break
		}
		if len(lines) >= maxDepth {
			lines = append(lines, ellipsis)
			break
		}
	}
	return strings.Join(lines, "\n")
}
