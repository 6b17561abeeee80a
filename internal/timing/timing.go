// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package timing records how long each part of a run takes.
package timing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// clk is replaced in unit tests with a fake clock.
var clk clock.Clock = clock.NewClock()

// SetClock makes stages and Now use c and returns a function restoring the
// previous clock.
func SetClock(c clock.Clock) (restore func()) {
	prev := clk
	clk = c
	return func() { clk = prev }
}

// Now returns the current time of the clock stages are timed with.
func Now() time.Time {
	return clk.Now()
}

// Log holds nested stages.
type Log struct {
	// Root contains all stages as descendants. It is never started or ended
	// and its timestamps are meaningless.
	Root *Stage
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{Root: &Stage{}}
}

// Empty reports whether l has no stages.
func (l *Log) Empty() bool {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()
	return len(l.Root.Children) == 0
}

// WritePretty writes l to w as nested JSON arrays of [seconds, name, children]:
//
//	[[4.000, "tests/a/x.cmake", [
//	         [1.000, "prepare"],
//	         [3.000, "configure"]]],
//	 [0.531, "tests/b/y.cmake"]]
//
// The format is meant for people and is lossy.
func (l *Log) WritePretty(w io.Writer) error {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	// Errors are sticky in bufio.Writer and surface on Flush.
	bw := bufio.NewWriter(w)
	io.WriteString(bw, "[")
	for i, s := range l.Root.Children {
		var indent string
		if i > 0 {
			indent = " "
		}
		if err := s.writePretty(bw, indent, " ", i == len(l.Root.Children)-1); err != nil {
			return err
		}
	}
	io.WriteString(bw, "]\n")
	return bw.Flush()
}

type jsonLog struct {
	Stages []*Stage `json:"stages"`
}

// MarshalJSON marshals Log as JSON.
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonLog{Stages: l.Root.Children})
}

var _ json.Marshaler = (*Log)(nil)

// Stage is a timed unit of work.
type Stage struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Children  []*Stage  `json:"children"`

	mu sync.Mutex // protects EndTime and Children
}

// StartChild starts a child stage of s. It returns nil if s has ended.
func (s *Stage) StartChild(name string) *Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.EndTime.IsZero() {
		return nil
	}
	c := &Stage{Name: name, StartTime: clk.Now()}
	s.Children = append(s.Children, c)
	return c
}

// End ends s and any children still open. It is safe on a nil receiver.
func (s *Stage) End() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.EndTime.IsZero() {
		return
	}
	for _, c := range s.Children {
		c.End()
	}
	s.EndTime = clk.Now()
}

// Duration returns the elapsed time of s, measured up to now if s is open.
func (s *Stage) Duration() time.Duration {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

func (s *Stage) elapsed() time.Duration {
	if s.EndTime.IsZero() {
		return clk.Now().Sub(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// writePretty writes s and its children as a JSON array. The first line is
// indented by initialIndent and following lines by followIndent. If last is
// false, a comma and newline follow the array.
func (s *Stage) writePretty(w *bufio.Writer, initialIndent, followIndent string, last bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := json.Marshal(&s.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s[%0.3f, %s", initialIndent, s.elapsed().Seconds(), name)

	if len(s.Children) > 0 {
		io.WriteString(w, ", [\n")
		ci := followIndent + strings.Repeat(" ", 8)
		for i, c := range s.Children {
			if err := c.writePretty(w, ci, ci, i == len(s.Children)-1); err != nil {
				return err
			}
		}
		io.WriteString(w, "]")
	}

	io.WriteString(w, "]")
	if !last {
		io.WriteString(w, ",\n")
	}
	return nil
}
