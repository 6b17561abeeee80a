// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// timestampLayout is prepended to messages by a SinkLogger with timestamps on.
const timestampLayout = "2006-01-02T15:04:05.000000Z "

// Sink is a destination of formatted logs, e.g. a file or the console.
type Sink interface {
	Log(msg string)
}

// SinkLogger filters logs by level and forwards them to a Sink.
type SinkLogger struct {
	level     Level
	timestamp bool
	sink      Sink
}

// NewSinkLogger creates a SinkLogger. Logs below level are dropped. If
// timestamp is true, a UTC timestamp is prepended to each message.
func NewSinkLogger(level Level, timestamp bool, sink Sink) *SinkLogger {
	return &SinkLogger{level: level, timestamp: timestamp, sink: sink}
}

// Log sends a log to the sink.
func (l *SinkLogger) Log(level Level, ts time.Time, msg string) {
	if level < l.level {
		return
	}
	if l.timestamp {
		msg = ts.UTC().Format(timestampLayout) + msg
	}
	l.sink.Log(msg)
}

// WriterSink writes each log as a line to an io.Writer. Writes are serialized.
type WriterSink struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Log writes msg followed by a newline.
func (s *WriterSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, msg)
}

// FuncSink is a Sink that calls a function. Calls are serialized.
type FuncSink struct {
	f  func(msg string)
	mu sync.Mutex
}

// NewFuncSink creates a FuncSink.
func NewFuncSink(f func(msg string)) *FuncSink {
	return &FuncSink{f: f}
}

// Log passes msg to the function.
func (s *FuncSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f(msg)
}
