// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lwbtn/cmaketest/internal/logging"
)

type entry struct {
	Level logging.Level
	Msg   string
}

func recorder(entries *[]entry) *logging.FuncLogger {
	return logging.NewFuncLogger(func(level logging.Level, ts time.Time, msg string) {
		*entries = append(*entries, entry{level, msg})
	})
}

func TestNoLogger(t *testing.T) {
	ctx := context.Background()
	if logging.HasLogger(ctx) {
		t.Error("HasLogger(context.Background()) = true; want false")
	}
	// Logging without a logger is allowed and discarded.
	logging.Info(ctx, "dropped")
	logging.Debugf(ctx, "dropped %d", 1)
}

func TestAttachLoggerPropagates(t *testing.T) {
	var parent, child []entry
	ctx := logging.AttachLogger(context.Background(), recorder(&parent))
	cctx := logging.AttachLogger(ctx, recorder(&child))

	logging.Info(ctx, "Test path: ", "/src/a")
	logging.Debugf(cctx, "cmake exited with %d", 2)

	wantParent := []entry{
		{logging.LevelInfo, "Test path: /src/a"},
		{logging.LevelDebug, "cmake exited with 2"},
	}
	if diff := cmp.Diff(parent, wantParent); diff != "" {
		t.Errorf("Parent logs mismatch (-got +want):\n%s", diff)
	}
	wantChild := []entry{{logging.LevelDebug, "cmake exited with 2"}}
	if diff := cmp.Diff(child, wantChild); diff != "" {
		t.Errorf("Child logs mismatch (-got +want):\n%s", diff)
	}
}

func TestInvalidUTF8Removed(t *testing.T) {
	var got []entry
	ctx := logging.AttachLogger(context.Background(), recorder(&got))
	logging.Info(ctx, "ninja: \xff done")
	if diff := cmp.Diff(got, []entry{{logging.LevelInfo, "ninja:  done"}}); diff != "" {
		t.Errorf("Logs mismatch (-got +want):\n%s", diff)
	}
}

func TestSinkLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSinkLogger(logging.LevelInfo, false, logging.NewWriterSink(&buf))
	logger.Log(logging.LevelDebug, time.Unix(0, 0), "hidden")
	logger.Log(logging.LevelInfo, time.Unix(0, 0), "Run test")
	if got, want := buf.String(), "Run test\n"; got != want {
		t.Errorf("Output = %q; want %q", got, want)
	}
}

func TestSinkLoggerTimestamp(t *testing.T) {
	var msgs []string
	logger := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewFuncSink(func(msg string) {
		msgs = append(msgs, msg)
	}))
	logger.Log(logging.LevelDebug, time.Date(2026, 10, 19, 1, 2, 3, 4000, time.UTC), "x")
	want := []string{"2026-10-19T01:02:03.000004Z x"}
	if diff := cmp.Diff(msgs, want); diff != "" {
		t.Errorf("Messages mismatch (-got +want):\n%s", diff)
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b []entry
	la, lb := recorder(&a), recorder(&b)
	ml := logging.NewMultiLogger(la, lb)
	ml.Log(logging.LevelInfo, time.Now(), "one")
	ml.Log(logging.LevelDebug, time.Now(), "two")

	want := []entry{{logging.LevelInfo, "one"}, {logging.LevelDebug, "two"}}
	if diff := cmp.Diff(a, want); diff != "" {
		t.Errorf("First logger mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(b, want); diff != "" {
		t.Errorf("Second logger mismatch (-got +want):\n%s", diff)
	}
}

func TestLevelString(t *testing.T) {
	for _, tc := range []struct {
		level logging.Level
		want  string
	}{
		{logging.LevelDebug, "DEBUG"},
		{logging.LevelInfo, "INFO"},
		{logging.Level(7), "UNKNOWN"},
	} {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() = %q; want %q", int(tc.level), got, tc.want)
		}
	}
}
