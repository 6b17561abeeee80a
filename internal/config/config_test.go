// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package config_test

import (
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lwbtn/cmaketest/internal/config"
	"github.com/lwbtn/cmaketest/testutil"
)

func TestDefaultIsValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Error("Default config is invalid: ", err)
	}
}

func TestLoad(t *testing.T) {
	td := t.TempDir()
	if err := testutil.WriteFiles(td, map[string]string{
		"cfg.yaml": `
generator: Unix Makefiles
c_compiler: clang
configure_args:
  - -DLWBTN_DEV=ON
  - -Wdev
`,
	}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	if err := cfg.Load(filepath.Join(td, "cfg.yaml")); err != nil {
		t.Fatal("Load failed: ", err)
	}
	want := config.Default()
	want.Generator = "Unix Makefiles"
	want.CCompiler = "clang"
	want.ConfigureArgs = []string{"-DLWBTN_DEV=ON", "-Wdev"}
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Errorf("Config mismatch (-got +want):\n%s", diff)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	td := t.TempDir()
	if err := testutil.WriteFiles(td, map[string]string{"cfg.yaml": "genrator: Ninja\n"}); err != nil {
		t.Fatal(err)
	}
	if err := config.Default().Load(filepath.Join(td, "cfg.yaml")); err == nil {
		t.Error("Load accepted an unknown key")
	}
}

func TestLoadMissing(t *testing.T) {
	if err := config.Default().Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoadDefault(t *testing.T) {
	td := t.TempDir()
	cfg := config.Default()
	if loaded, err := cfg.LoadDefault(td); err != nil || loaded {
		t.Errorf("LoadDefault on empty dir = (%v, %v); want (false, nil)", loaded, err)
	}

	if err := testutil.WriteFiles(td, map[string]string{config.DefaultFileName: "build_dir: out\n"}); err != nil {
		t.Fatal(err)
	}
	if loaded, err := cfg.LoadDefault(td); err != nil || !loaded {
		t.Errorf("LoadDefault = (%v, %v); want (true, nil)", loaded, err)
	}
	if cfg.BuildDirName != "out" {
		t.Errorf("BuildDirName = %q; want %q", cfg.BuildDirName, "out")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	flagCfg := config.Default()
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flagCfg.SetFlags(fs)
	if err := fs.Parse([]string{"-generator=Unix Makefiles", "-buildconfig=Release", "-configureargs=-DA=1,-DB=2"}); err != nil {
		t.Fatal("Parse failed: ", err)
	}

	td := t.TempDir()
	if err := testutil.WriteFiles(td, map[string]string{"cfg.yaml": "generator: Ninja Multi-Config\ncxx_compiler: clang++\n"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	if err := cfg.Load(filepath.Join(td, "cfg.yaml")); err != nil {
		t.Fatal("Load failed: ", err)
	}
	cfg.Overrides(fs, flagCfg)

	want := config.Default()
	want.Generator = "Unix Makefiles"
	want.CXXCompiler = "clang++"
	want.BuildConfig = "Release"
	want.ConfigureArgs = []string{"-DA=1", "-DB=2"}
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Errorf("Config mismatch (-got +want):\n%s", diff)
	}
}

func TestBadBuildConfigFlag(t *testing.T) {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	config.Default().SetFlags(fs)
	if err := fs.Parse([]string{"-buildconfig=Fast"}); err == nil {
		t.Error("Parse accepted -buildconfig=Fast")
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(c *config.Config)
		errSub string
	}{
		{"empty tool", func(c *config.Config) { c.CMake = "" }, "cmake"},
		{"several empty", func(c *config.Config) { c.Generator, c.Pattern = "", "" }, "generator, pattern"},
		{"bad pattern", func(c *config.Config) { c.Pattern = "[" }, "bad pattern"},
		{"nested build dir", func(c *config.Config) { c.BuildDirName = "a/b" }, "single path element"},
		{"dot build dir", func(c *config.Config) { c.BuildDirName = ".." }, "single path element"},
		{"unknown build config", func(c *config.Config) { c.BuildConfig = "Fast" }, "unknown build_config"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("Validate() = %q; want it to contain %q", err, tc.errSub)
			}
		})
	}
}

func TestResolveSourceDir(t *testing.T) {
	const root = "/src/lwbtn/tests"
	for _, tc := range []struct {
		sourceDir string
		file      string
		want      string
	}{
		{"", root + "/a/x.cmake", root},
		{"", root + "/a/b/x.cmake", root + "/a"},
		{"", root + "/x.cmake", "/src/lwbtn"},
		{"..", root + "/a/b/x.cmake", "/src/lwbtn"},
		{"/opt/proj/", root + "/a/b/x.cmake", "/opt/proj"},
	} {
		cfg := config.Default()
		cfg.SourceDir = tc.sourceDir
		if got := cfg.ResolveSourceDir(root, tc.file); got != tc.want {
			t.Errorf("ResolveSourceDir(%q, %q) with SourceDir=%q = %q; want %q", root, tc.file, tc.sourceDir, got, tc.want)
		}
	}
}
