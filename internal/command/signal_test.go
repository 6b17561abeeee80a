// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command_test

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/lwbtn/cmaketest/internal/command"
)

func TestTerminateChildren(t *testing.T) {
	cmd := exec.Command("sleep", "60")
	if err := cmd.Start(); err != nil {
		t.Fatal("Failed to start sleep: ", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := command.TerminateChildren(); err != nil {
		t.Fatal("TerminateChildren failed: ", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		t.Fatal("Child was not terminated")
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() || ws.Signal() != syscall.SIGTERM {
		t.Errorf("Child exited with %v; want SIGTERM", cmd.ProcessState)
	}
}
