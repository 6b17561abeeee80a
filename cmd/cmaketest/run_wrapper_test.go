// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"

	"github.com/lwbtn/cmaketest/internal/config"
	"github.com/lwbtn/cmaketest/internal/logging"
	"github.com/lwbtn/cmaketest/internal/report"
	"github.com/lwbtn/cmaketest/internal/timing"
)

// stubRunWrapper is a stub implementation of runWrapper used for testing.
type stubRunWrapper struct {
	runCfg      *config.Config // config passed to run
	runRoot     string         // root passed to run
	runDeadline bool           // whether ctx passed to run had a deadline
	runRes      *report.Summary
	runErr      error
	runLog      string // logged at debug level by run if non-empty
	runNoStage  bool   // run doesn't record a timing stage

	findCfg  *config.Config // config passed to find
	findRoot string         // root passed to find
	findRes  []string
	findErr  error
}

func (w *stubRunWrapper) run(ctx context.Context, cfg *config.Config, root string) (*report.Summary, error) {
	w.runCfg = cfg
	w.runRoot = root
	_, w.runDeadline = ctx.Deadline()
	if !w.runNoStage {
		_, st := timing.Start(ctx, "stub")
		defer st.End()
	}
	if w.runLog != "" {
		logging.Debug(ctx, w.runLog)
	}
	return w.runRes, w.runErr
}

func (w *stubRunWrapper) find(cfg *config.Config, root string) ([]string, error) {
	w.findCfg = cfg
	w.findRoot = root
	return w.findRes, w.findErr
}
