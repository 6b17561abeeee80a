// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package discover finds CMake test-definition files in a source tree.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lwbtn/cmaketest/errors"
)

// Find walks root and returns the absolute paths of files whose base name
// matches the glob pattern. A path containing excludeDir anywhere, root
// included, is never returned, and matching directories are not descended
// into. Hidden entries below root are skipped unless pattern itself starts
// with a dot, and symlinks to regular files are matched like regular files.
// Paths are in walk order, which is lexical within each directory.
func Find(root, pattern, excludeDir string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "bad pattern %q", pattern)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve root")
	}
	if fi, err := os.Stat(abs); err != nil {
		return nil, errors.Wrap(err, "failed to stat root")
	} else if !fi.IsDir() {
		return nil, errors.Errorf("%s is not a directory", abs)
	}

	paths := []string{}
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if Excluded(p, excludeDir) || (p != abs && hidden(d.Name(), pattern)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); !ok || !isFile(p, d) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", abs)
	}
	return paths, nil
}

// Excluded reports whether p contains excludeDir.
func Excluded(p, excludeDir string) bool {
	return strings.Contains(p, excludeDir)
}

// hidden reports whether name is a dot entry that pattern does not ask for.
func hidden(name, pattern string) bool {
	return strings.HasPrefix(name, ".") && !strings.HasPrefix(pattern, ".")
}

// isFile reports whether p is a regular file or a symlink to one.
func isFile(p string, d fs.DirEntry) bool {
	switch {
	case d.Type().IsRegular():
		return true
	case d.Type()&fs.ModeSymlink != 0:
		fi, err := os.Stat(p)
		return err == nil && fi.Mode().IsRegular()
	default:
		return false
	}
}
