// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package orchestrate configures, builds and tests every CMake test definition
// found under a root directory.
//
// Files are processed one at a time. For each file the scratch build directory
// next to it is reset, then cmake configures it, cmake builds it and ctest
// runs it. Every stage runs even if an earlier one failed, and a failing file
// never stops the files after it. All exit statuses are ORed into one
// aggregate status.
//
// The process working directory is never changed; every tool gets an explicit
// working directory instead.
package orchestrate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lwbtn/cmaketest/errors"
	"github.com/lwbtn/cmaketest/internal/config"
	"github.com/lwbtn/cmaketest/internal/discover"
	"github.com/lwbtn/cmaketest/internal/logging"
	"github.com/lwbtn/cmaketest/internal/report"
	"github.com/lwbtn/cmaketest/internal/timing"
	"github.com/lwbtn/cmaketest/internal/toolexec"
)

// statusPrepareFailed is ORed into a file's status when its scratch directory
// cannot be created.
const statusPrepareFailed = 1

// Orchestrator runs the per-file pipeline.
type Orchestrator struct {
	cfg  *config.Config
	root string
}

// New returns an Orchestrator for the test definitions under root. root must
// be absolute.
func New(cfg *config.Config, root string) *Orchestrator {
	return &Orchestrator{cfg: cfg, root: root}
}

// Run discovers the test definitions under root and processes them. The
// returned error is only about discovery; tool failures are reported through
// Summary.Status.
func Run(ctx context.Context, cfg *config.Config, root string) (*report.Summary, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve root")
	}
	ctx = ensureTiming(ctx)

	_, st := timing.Start(ctx, "discover")
	files, err := discover.Find(root, cfg.Pattern, cfg.BuildDirName)
	st.End()
	if err != nil {
		return nil, err
	}
	return New(cfg, root).Run(ctx, files), nil
}

// Run processes files in order and returns the results. It only stops early
// if ctx is canceled, in which case the remaining files are left untouched
// and the aggregate status is marked failed.
func (o *Orchestrator) Run(ctx context.Context, files []string) *report.Summary {
	ctx = ensureTiming(ctx)
	s := &report.Summary{Root: o.root, StartTime: timing.Now()}
	defer func() { s.EndTime = timing.Now() }()

	logging.Infof(ctx, "Found %d test definition(s)", len(files))
	for _, f := range files {
		logging.Info(ctx, "  ", f)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			logging.Infof(ctx, "Run aborted before %s: %v", f, context.Cause(ctx))
			s.Status |= 1
			break
		}
		s.Add(o.runFile(ctx, f))
	}
	return s
}

// runFile runs all stages for one test definition.
func (o *Orchestrator) runFile(ctx context.Context, file string) *report.FileResult {
	name, err := filepath.Rel(o.root, file)
	if err != nil {
		name = file
	}
	ctx, st := timing.Start(ctx, name)
	defer st.End()

	dir := filepath.Dir(file)
	res := &report.FileResult{Path: file, BuildDir: filepath.Join(dir, o.cfg.BuildDirName)}
	logging.Info(ctx, "Test path: ", dir)
	if src := o.cfg.ResolveSourceDir(o.root, file); !hasBuildDescription(src) {
		logging.Infof(ctx, "Warning: no %s in %s", config.BuildDescription, src)
	}

	if status := o.stage(ctx, res, report.StagePrepare, func(ctx context.Context) int {
		if err := ResetBuildDir(res.BuildDir); err != nil {
			logging.Infof(ctx, "Failed to prepare %s: %v", res.BuildDir, err)
			return statusPrepareFailed
		}
		return 0
	}); status != 0 {
		return res
	}

	logging.Info(ctx, "Configure the CMake")
	o.stage(ctx, res, report.StageConfigure, func(ctx context.Context) int {
		return toolexec.Run(ctx, res.BuildDir, o.cfg.CMake, o.ConfigureArgs(file, res.BuildDir)...)
	})

	logging.Info(ctx, "Compile")
	o.stage(ctx, res, report.StageBuild, func(ctx context.Context) int {
		return toolexec.Run(ctx, res.BuildDir, o.cfg.CMake, BuildArgs()...)
	})

	logging.Info(ctx, "Run test")
	o.stage(ctx, res, report.StageTest, func(ctx context.Context) int {
		return toolexec.Run(ctx, res.BuildDir, o.cfg.CTest, o.TestArgs()...)
	})
	return res
}

// stage times f, records its status in res and returns it.
func (o *Orchestrator) stage(ctx context.Context, res *report.FileResult, name report.Stage, f func(ctx context.Context) int) int {
	ctx, st := timing.Start(ctx, string(name))
	status := f(ctx)
	st.End()
	res.Add(name, status, st.Duration())
	return status
}

// ConfigureArgs returns the arguments of the configure step for file.
func (o *Orchestrator) ConfigureArgs(file, buildDir string) []string {
	args := []string{
		"-DCMAKE_C_COMPILER=" + o.cfg.CCompiler,
		"-DCMAKE_CXX_COMPILER=" + o.cfg.CXXCompiler,
		"-S" + o.cfg.ResolveSourceDir(o.root, file),
		"-B" + buildDir,
		"-G", o.cfg.Generator,
		"-D" + o.cfg.TestFileVar + "=" + file,
	}
	return append(args, o.cfg.ConfigureArgs...)
}

// BuildArgs returns the arguments of the build step, run in the build
// directory.
func BuildArgs() []string {
	return []string{"--build", "."}
}

// TestArgs returns the arguments of the test step, run in the build
// directory.
func (o *Orchestrator) TestArgs() []string {
	return []string{".", "--output-on-failure", "-C", o.cfg.BuildConfig}
}

func hasBuildDescription(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, config.BuildDescription))
	return err == nil
}

// ResetBuildDir removes buildDir, ignoring any error, and creates it again.
// Only the creation can fail.
func ResetBuildDir(buildDir string) error {
	os.RemoveAll(buildDir)
	if err := os.Mkdir(buildDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create build dir")
	}
	return nil
}

// ensureTiming attaches a timing log to ctx unless it already carries one, so
// stage durations are always measured.
func ensureTiming(ctx context.Context) context.Context {
	if _, _, ok := timing.FromContext(ctx); ok {
		return ctx
	}
	return timing.NewContext(ctx, timing.NewLog())
}
