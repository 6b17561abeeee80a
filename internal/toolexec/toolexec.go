// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package toolexec runs external build and test tools.
//
// Tools report failure through their exit status, so Run returns a status
// instead of an error. Output is streamed line by line to the logger attached
// to the context.
package toolexec

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/lwbtn/cmaketest/internal/logging"
)

const (
	// StatusNotStarted is returned when a tool cannot be started, matching
	// the shell's status for a missing command.
	StatusNotStarted = 127

	// signalBase is added to the signal number of a killed tool.
	signalBase = 128

	// maxLineSize is the longest output line kept intact.
	maxLineSize = 1024 * 1024
)

// waitDelay bounds how long a canceled tool may keep running after SIGTERM
// before it is killed, and how long output is read after the tool exits.
var waitDelay = 10 * time.Second

// Run runs name with args in dir and blocks until it exits. It returns the
// exit status, signalBase plus the signal number if the tool was killed by a
// signal, or StatusNotStarted if it could not be run at all.
//
// If ctx is canceled, the tool is sent SIGTERM and killed after waitDelay.
// Output still held open by its descendants is abandoned after waitDelay too.
func Run(ctx context.Context, dir, name string, args ...string) int {
	logging.Debugf(ctx, "Running %s in %s", QuoteArgs(append([]string{name}, args...)), dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Cancel = func() error { return cmd.Process.Signal(unix.SIGTERM) }
	cmd.WaitDelay = waitDelay

	// cmd copies output into the pipes, so Wait and WaitDelay govern the
	// copying instead of the readers.
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	var g errgroup.Group
	g.Go(func() error { return pump(ctx, stdoutR) })
	g.Go(func() error { return pump(ctx, stderrR) })
	closePipes := func() {
		stdoutW.Close()
		stderrW.Close()
		if err := g.Wait(); err != nil {
			logging.Debugf(ctx, "Failed to read output of %s: %v", name, err)
		}
	}

	if err := cmd.Start(); err != nil {
		closePipes()
		logging.Infof(ctx, "Failed to run %s: %v", name, err)
		return StatusNotStarted
	}

	err := cmd.Wait()
	closePipes()
	status := exitStatus(cmd.ProcessState)
	if err != nil && status == 0 {
		// Wait fails after a clean exit when WaitDelay expired with the
		// output still held open by a descendant.
		logging.Debugf(ctx, "%s: %v", name, err)
		status = 1
	}
	logging.Debugf(ctx, "%s exited with status %d", name, status)
	return status
}

// pump logs each line read from r. It reads r to the end even if nothing
// can be logged, so the tool never blocks on a full pipe.
func pump(ctx context.Context, r io.Reader) error {
	if !logging.HasLogger(ctx) {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		logging.Info(ctx, sc.Text())
	}
	if err := sc.Err(); err != nil {
		io.Copy(io.Discard, r)
		return err
	}
	return nil
}

func exitStatus(ps *os.ProcessState) int {
	if ps == nil {
		return 1
	}
	if code := ps.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return signalBase + int(ws.Signal())
	}
	return 1
}
