// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package report records what happened to each test definition during a run.
//
// The aggregate status is the bitwise OR of every tool exit status and is
// all the exit code reflects. The per-file and per-stage records kept here
// only make the failing step visible afterwards.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lwbtn/cmaketest/errors"
	"github.com/lwbtn/cmaketest/internal/logging"
	"github.com/lwbtn/cmaketest/internal/timing"
)

// Stage names one step of the per-file pipeline.
type Stage string

const (
	// StagePrepare removes and recreates the scratch directory.
	StagePrepare Stage = "prepare"
	// StageConfigure runs the build-configuration tool.
	StageConfigure Stage = "configure"
	// StageBuild runs the build tool.
	StageBuild Stage = "build"
	// StageTest runs the test runner.
	StageTest Stage = "test"
)

// StageResult is the outcome of one stage.
type StageResult struct {
	Stage    Stage         `json:"stage"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration"`
}

// FileResult is the outcome of one test definition.
type FileResult struct {
	// Path is the absolute path of the test definition.
	Path string `json:"path"`
	// BuildDir is the scratch directory used for it.
	BuildDir string `json:"buildDir"`
	// Stages are in execution order.
	Stages []StageResult `json:"stages"`
	// Status is the OR of all stage statuses.
	Status int `json:"status"`
}

// Add records a stage and folds its status into r.Status.
func (r *FileResult) Add(stage Stage, status int, d time.Duration) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Status: status, Duration: d})
	r.Status |= status
}

// Failed returns the stages that returned non-zero.
func (r *FileResult) Failed() []Stage {
	var failed []Stage
	for _, s := range r.Stages {
		if s.Status != 0 {
			failed = append(failed, s.Stage)
		}
	}
	return failed
}

// Summary is the outcome of a whole run.
type Summary struct {
	Root      string        `json:"root"`
	CI        bool          `json:"ci"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Files     []*FileResult `json:"files"`
	// Timing holds the stage timings of the run, if recorded.
	Timing *timing.Log `json:"timing,omitempty"`
	// Status is the OR of all file statuses.
	Status int `json:"status"`
}

// Add appends r and folds its status into s.Status.
func (s *Summary) Add(r *FileResult) {
	s.Files = append(s.Files, r)
	s.Status |= r.Status
}

// ExitCode maps the aggregate status to a process exit code.
func (s *Summary) ExitCode() int {
	if s.Status != 0 {
		return 1
	}
	return 0
}

// Failed returns the results of files whose status is non-zero, in run order.
func (s *Summary) Failed() []*FileResult {
	var failed []*FileResult
	for _, r := range s.Files {
		if r.Status != 0 {
			failed = append(failed, r)
		}
	}
	return failed
}

// Log writes a short summary to the logger of ctx.
func (s *Summary) Log(ctx context.Context) {
	failed := s.Failed()
	logging.Infof(ctx, "%d test definition(s), %d failed", len(s.Files), len(failed))
	for _, r := range failed {
		logging.Infof(ctx, "  FAIL %s (%s)", r.Path, describe(r))
	}
}

func describe(r *FileResult) string {
	var parts []string
	for _, st := range r.Stages {
		if st.Status != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", st.Stage, st.Status))
		}
	}
	return strings.Join(parts, " ")
}

// WriteJSON writes s to path, replacing any existing file.
func (s *Summary) WriteJSON(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal results")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return errors.Wrap(err, "failed to write results")
	}
	return nil
}
