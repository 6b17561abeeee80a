// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolexec

import "time"

// SetWaitDelay replaces waitDelay and returns a function restoring it.
func SetWaitDelay(d time.Duration) (restore func()) {
	prev := waitDelay
	waitDelay = d
	return func() { waitDelay = prev }
}
