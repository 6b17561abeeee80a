// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Invocation is one recorded call of a fake tool.
type Invocation struct {
	Tool string // base name of the fake tool
	Dir  string // working directory of the call
	Args string // arguments joined by single spaces
}

// FakeTools installs shell scripts standing in for external tools. Every call
// appends a line to a shared log so tests can check order, arguments and
// working directories.
type FakeTools struct {
	Dir string // directory holding the scripts
	log string
}

// NewFakeTools creates an empty FakeTools in dir.
func NewFakeTools(dir string) (*FakeTools, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	log := filepath.Join(dir, "invocations.log")
	if err := os.WriteFile(log, nil, 0644); err != nil {
		return nil, err
	}
	return &FakeTools{Dir: dir, log: log}, nil
}

// Install writes an executable named name. The script records its call and
// then runs body, which may inspect "$*" and "$PWD" and must end with an exit
// status (an empty body exits 0). It returns the script's path.
func (f *FakeTools) Install(name, body string) (string, error) {
	path := filepath.Join(f.Dir, name)
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\t%%s\\t%%s\\n' %s \"$PWD\" \"$*\" >> %s\n%s\n",
		shellQuote(name), shellQuote(f.log), body)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return "", err
	}
	return path, nil
}

// Invocations returns the recorded calls in order.
func (f *FakeTools) Invocations() ([]Invocation, error) {
	b, err := os.ReadFile(f.log)
	if err != nil {
		return nil, err
	}
	var invs []Invocation
	for _, line := range strings.Split(strings.TrimSuffix(string(b), "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed invocation %q", line)
		}
		invs = append(invs, Invocation{Tool: parts[0], Dir: parts[1], Args: parts[2]})
	}
	return invs, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
