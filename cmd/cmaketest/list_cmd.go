// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/lwbtn/cmaketest/internal/logging"
)

// listCmd implements subcommands.Command to list the test definitions that
// run would process.
type listCmd struct {
	json     bool // marshal results to JSON instead of printing paths
	cfgFlags *configFlags
	stdout   io.Writer
	wrapper  runWrapper
}

var _ = subcommands.Command(&listCmd{})

func newListCmd(stdout io.Writer) *listCmd {
	return &listCmd{
		cfgFlags: newConfigFlags(),
		stdout:   stdout,
		wrapper:  realRunWrapper{},
	}
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list test definitions" }
func (*listCmd) Usage() string {
	return `Usage: list [flag]... [root]

Description:
	Prints the test definitions under root (default: the current directory),
	one per line.

Flags:
`
}

func (lc *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&lc.json, "json", false, "print full information as JSON")
	lc.cfgFlags.SetFlags(f)
}

func (lc *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	root, err := rootArg(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, "\n"+lc.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := lc.cfgFlags.load(f, root)
	if err != nil {
		logging.Info(ctx, "Failed to load config: ", err)
		return subcommands.ExitFailure
	}

	files, err := lc.wrapper.find(cfg, root)
	if err != nil {
		logging.Info(ctx, "Failed to find test definitions: ", err)
		return subcommands.ExitFailure
	}

	if err := lc.printFiles(files); err != nil {
		logging.Info(ctx, "Failed to write files: ", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (lc *listCmd) printFiles(files []string) error {
	if lc.json {
		if files == nil {
			files = []string{}
		}
		enc := json.NewEncoder(lc.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}
	for _, p := range files {
		if _, err := fmt.Fprintln(lc.stdout, p); err != nil {
			return err
		}
	}
	return nil
}
