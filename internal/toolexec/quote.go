// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolexec

import (
	"regexp"
	"strings"
)

// safeRE matches arguments a POSIX shell takes literally. A leading "=" is
// excluded because zsh expands it.
var safeRE = regexp.MustCompile(`^[-\w@%+:,./][-\w@%+:,./=]*$`)

// Quote quotes s for a shell command line unless it is already safe.
func Quote(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// QuoteArgs quotes each argument and joins them with spaces, giving a
// command line that can be pasted into a shell to repeat a step by hand.
func QuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}
