// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"

	"github.com/lwbtn/cmaketest/internal/config"
	"github.com/lwbtn/cmaketest/internal/discover"
	"github.com/lwbtn/cmaketest/internal/orchestrate"
	"github.com/lwbtn/cmaketest/internal/report"
)

// runWrapper lets tests stub out the orchestrate and discover packages.
type runWrapper interface {
	// run calls orchestrate.Run.
	run(ctx context.Context, cfg *config.Config, root string) (*report.Summary, error)
	// find calls discover.Find.
	find(cfg *config.Config, root string) ([]string, error)
}

// realRunWrapper calls the real packages.
type realRunWrapper struct{}

func (realRunWrapper) run(ctx context.Context, cfg *config.Config, root string) (*report.Summary, error) {
	return orchestrate.Run(ctx, cfg, root)
}

func (realRunWrapper) find(cfg *config.Config, root string) ([]string, error) {
	return discover.Find(root, cfg.Pattern, cfg.BuildDirName)
}
