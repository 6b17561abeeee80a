// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// installFakeClock replaces clk for the duration of the test.
func installFakeClock(t *testing.T) *fakeclock.FakeClock {
	fc := fakeclock.NewFakeClock(time.Unix(0, 0))
	t.Cleanup(SetClock(fc))
	return fc
}

func writePretty(t *testing.T, l *Log) string {
	t.Helper()
	var b bytes.Buffer
	if err := l.WritePretty(&b); err != nil {
		t.Fatal("WritePretty failed: ", err)
	}
	return b.String()
}

func TestEmpty(t *testing.T) {
	l := NewLog()
	if !l.Empty() {
		t.Error("Empty() = false for new log")
	}
	s := l.Root.StartChild("discover")
	if l.Empty() {
		t.Error("Empty() = true with open stage")
	}
	s.End()
	if l.Empty() {
		t.Error("Empty() = true with closed stage")
	}
}

func TestEndClosesChildren(t *testing.T) {
	fc := installFakeClock(t)

	l := NewLog()
	file := l.Root.StartChild("a/x.cmake")
	configure := file.StartChild("configure")
	fc.Increment(2 * time.Second)
	file.End()

	if configure.EndTime.IsZero() {
		t.Error("Child stage was not ended")
	}
	if d := configure.Duration(); d != 2*time.Second {
		t.Errorf("Child duration = %v; want 2s", d)
	}
	if s := file.StartChild("late"); s != nil {
		t.Error("StartChild on an ended stage returned non-nil")
	}
}

func TestWritePretty(t *testing.T) {
	fc := installFakeClock(t)

	l := NewLog()
	a := l.Root.StartChild("a/x.cmake")
	prep := a.StartChild("prepare")
	fc.Increment(time.Second)
	prep.End()
	conf := a.StartChild("configure")
	fc.Increment(3 * time.Second)
	conf.End()
	a.End()
	b := l.Root.StartChild("b/y.cmake")
	fc.Increment(500 * time.Millisecond)
	b.End()

	const want = `[[4.000, "a/x.cmake", [
         [1.000, "prepare"],
         [3.000, "configure"]]],
 [0.500, "b/y.cmake"]]
`
	if got := writePretty(t, l); got != want {
		t.Errorf("WritePretty wrote:\n%s\nwant:\n%s", got, want)
	}
}

func TestWritePrettyEmpty(t *testing.T) {
	if got := writePretty(t, NewLog()); got != "[]\n" {
		t.Errorf("WritePretty = %q; want %q", got, "[]\n")
	}
}

func TestMarshalJSON(t *testing.T) {
	fc := installFakeClock(t)

	l := NewLog()
	s := l.Root.StartChild("a/x.cmake")
	fc.Increment(time.Second)
	s.StartChild("test").End()
	s.End()

	b, err := json.Marshal(l)
	if err != nil {
		t.Fatal("Marshal failed: ", err)
	}
	type stage struct {
		Name      string    `json:"name"`
		StartTime time.Time `json:"startTime"`
		EndTime   time.Time `json:"endTime"`
		Children  []stage   `json:"children"`
	}
	var got struct {
		Stages []stage `json:"stages"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal("Unmarshal failed: ", err)
	}
	start := time.Unix(0, 0)
	end := start.Add(time.Second)
	want := []stage{{
		Name:      "a/x.cmake",
		StartTime: start,
		EndTime:   end,
		Children:  []stage{{Name: "test", StartTime: end, EndTime: end}},
	}}
	if diff := cmp.Diff(got.Stages, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Marshaled stages mismatch (-got +want):\n%s", diff)
	}
}

func TestNow(t *testing.T) {
	fc := installFakeClock(t)
	fc.Increment(time.Minute)
	if got, want := Now(), time.Unix(60, 0); !got.Equal(want) {
		t.Errorf("Now() = %v; want %v", got, want)
	}
}

func TestSetClockRestores(t *testing.T) {
	orig := clk
	restore := SetClock(fakeclock.NewFakeClock(time.Unix(0, 0)))
	if clk == orig {
		t.Error("SetClock didn't replace the clock")
	}
	restore()
	if clk != orig {
		t.Error("restore didn't bring back the previous clock")
	}
}
