// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the cmaketest executable, which configures, builds
// and runs every CMake test definition in a source tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/lwbtn/cmaketest/internal/command"
	"github.com/lwbtn/cmaketest/internal/logging"
)

// Version is the version info of this command. It is filled in at build time.
var Version = "<unknown>"

// newLogger creates the console logger based on the global flags.
func newLogger(verbose, logTime bool) logging.Logger {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.NewSinkLogger(level, logTime, logging.NewWriterSink(os.Stdout))
}

// installSignalHandler restores the terminal before the process exits on
// SIGINT or SIGTERM, since deferred functions do not run then.
func installSignalHandler(ctx context.Context) {
	var st *term.State
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		var err error
		if st, err = term.GetState(fd); err != nil {
			logging.Debug(ctx, "Failed to get terminal state: ", err)
		}
	}
	command.InstallSignalHandler(os.Stdout, func(os.Signal) {
		if st != nil {
			term.Restore(fd, st)
		}
	})
}

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions run before os.Exit.
func doMain() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newRunCmd(), "")
	subcommands.Register(newListCmd(os.Stdout), "")

	version := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "log command lines and other debug output")
	logTime := flag.Bool("logtime", false, "prefix logs with a timestamp")
	flag.Parse()

	if *version {
		fmt.Printf("cmaketest version %s\n", Version)
		return 0
	}

	ctx := logging.AttachLogger(context.Background(), newLogger(*verbose, *logTime))
	installSignalHandler(ctx)

	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
