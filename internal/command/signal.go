// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

var selfName = filepath.Base(os.Args[0])

// InstallSignalHandler handles the first SIGINT or SIGTERM by printing a
// message to out, calling callback, and exiting with status 1. On SIGTERM
// direct child processes (the running cmake or ctest) are terminated too.
func InstallSignalHandler(out io.Writer, callback func(sig os.Signal)) {
	ch := make(chan os.Signal, 1)
	go func() {
		sig := <-ch
		fmt.Fprintf(out, "\n%s: Caught %v signal; exiting\n", selfName, sig)
		callback(sig)
		if sig == unix.SIGTERM {
			if err := TerminateChildren(); err != nil {
				fmt.Fprintf(out, "%s: Failed to terminate subprocesses: %v\n", selfName, err)
			}
		}
		os.Exit(1)
	}()
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
}

// TerminateChildren sends SIGTERM to every direct child of this process.
func TerminateChildren() error {
	procs, err := process.Processes()
	if err != nil {
		return err
	}
	self := int32(os.Getpid())
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil || ppid != self {
			continue
		}
		p.Terminate()
	}
	return nil
}
