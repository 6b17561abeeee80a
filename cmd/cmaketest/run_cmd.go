// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/lwbtn/cmaketest/errors"
	"github.com/lwbtn/cmaketest/internal/command"
	"github.com/lwbtn/cmaketest/internal/logging"
	"github.com/lwbtn/cmaketest/internal/report"
	"github.com/lwbtn/cmaketest/internal/timing"
)

const (
	fullLogName  = "full.txt"     // file in results dir containing the debug log
	timingName   = "timing.json"  // file in results dir containing timing information
	resultsName  = "results.json" // file in results dir containing per-file results
	timeoutUnits = time.Second    // units of -timeout
)

// runCmd implements subcommands.Command to configure, build and test every
// test definition under a root directory.
type runCmd struct {
	cfgFlags *configFlags
	github   bool          // run from a GitHub workflow
	resDir   string        // directory for full.txt, timing.json and results.json
	timeout  time.Duration // overall timeout; 0 for none
	wrapper  runWrapper    // can be set by tests to stub out calls
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd() *runCmd {
	return &runCmd{cfgFlags: newConfigFlags(), wrapper: realRunWrapper{}}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "configure, build and test CMake test definitions" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... [root]

Description:
	Finds every test definition under root (default: the current directory).
	For each one, resets the scratch build directory next to it, configures it
	with cmake, builds it and runs ctest in it. Exits with 1 if any tool
	failed.

Flags:
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.github, "github", false, "mark the run as a GitHub workflow run (recorded in results)")
	f.StringVar(&r.resDir, "resultsdir", "", "directory for the debug log, timing and results (default: none)")
	f.Var(command.NewDurationFlag(timeoutUnits, &r.timeout, 0), "timeout", "overall timeout in seconds (0 for none)")
	r.cfgFlags.SetFlags(f)
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	root, err := rootArg(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, "\n"+r.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := r.cfgFlags.load(f, root)
	if err != nil {
		logging.Info(ctx, "Failed to load config: ", err)
		return subcommands.ExitFailure
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.timeout, errors.Errorf("run timeout reached (%v)", r.timeout))
		defer cancel()
	}

	tl := timing.NewLog()
	ctx = timing.NewContext(ctx, tl)

	if r.resDir != "" {
		lg, closeLog, err := r.openResults()
		if err != nil {
			logging.Info(ctx, "Failed to prepare results dir: ", err)
			return subcommands.ExitFailure
		}
		defer closeLog()
		ctx = logging.AttachLogger(ctx, lg)
		defer func() {
			if err := r.writeTiming(tl); err != nil {
				logging.Info(ctx, "Failed to write timing: ", err)
			}
		}()
	}

	logging.Debug(ctx, "Command line: ", strings.Join(os.Args, " "))
	if r.github {
		logging.Debug(ctx, "Running as a GitHub workflow")
	}

	s, err := r.wrapper.run(ctx, cfg, root)
	if err != nil {
		logging.Info(ctx, "Failed to run: ", err)
		return subcommands.ExitFailure
	}
	s.CI = r.github
	s.Log(ctx)
	if cause := context.Cause(ctx); cause != nil {
		logging.Info(ctx, "Run aborted: ", cause)
	}

	if r.resDir != "" {
		s.Timing = tl
		if err := s.WriteJSON(filepath.Join(r.resDir, resultsName)); err != nil {
			logging.Info(ctx, "Failed to write results: ", err)
			return subcommands.ExitFailure
		}
	}
	return exitStatus(s)
}

// exitStatus maps a run summary to the process exit status.
func exitStatus(s *report.Summary) subcommands.ExitStatus {
	if s.ExitCode() != 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// openResults creates the results dir and returns a debug-level logger
// writing to full.txt in it. The returned function closes the log file.
func (r *runCmd) openResults() (logging.Logger, func(), error) {
	if err := os.MkdirAll(r.resDir, 0755); err != nil {
		return nil, nil, errors.Wrap(err, "failed to create results dir")
	}
	f, err := os.Create(filepath.Join(r.resDir, fullLogName))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create log file")
	}
	lg := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(f))
	return lg, func() { f.Close() }, nil
}

// writeTiming writes tl to timing.json in the results dir. Nothing is
// written if no stage was recorded.
func (r *runCmd) writeTiming(tl *timing.Log) error {
	if tl.Empty() {
		return nil
	}
	f, err := os.Create(filepath.Join(r.resDir, timingName))
	if err != nil {
		return errors.Wrap(err, "failed to create timing file")
	}
	defer f.Close()
	return tl.WritePretty(f)
}
