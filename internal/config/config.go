// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config holds the settings for discovering and running CMake test
// definitions.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"

	"github.com/lwbtn/cmaketest/errors"
	"github.com/lwbtn/cmaketest/internal/command"
)

const (
	// DefaultFileName is the config file looked up in the root directory
	// when -config is not given.
	DefaultFileName = "cmaketest.yaml"

	// BuildDescription is the file the configure tool reads from the source
	// directory.
	BuildDescription = "CMakeLists.txt"
)

// BuildConfigs lists the values accepted for BuildConfig.
var BuildConfigs = []string{"Debug", "Release", "RelWithDebInfo", "MinSizeRel"}

// Config describes how test definitions are found and exercised.
type Config struct {
	// CMake and CTest are the names or paths of the external tools.
	CMake string `yaml:"cmake"`
	CTest string `yaml:"ctest"`
	// CCompiler and CXXCompiler are passed as CMAKE_C_COMPILER and
	// CMAKE_CXX_COMPILER.
	CCompiler   string `yaml:"c_compiler"`
	CXXCompiler string `yaml:"cxx_compiler"`
	// Generator is the CMake generator, e.g. "Ninja".
	Generator string `yaml:"generator"`
	// Pattern is a glob matched against file base names.
	Pattern string `yaml:"pattern"`
	// BuildDirName is the scratch directory created next to each test
	// definition. Paths containing it are skipped by discovery.
	BuildDirName string `yaml:"build_dir"`
	// SourceDir holds CMakeLists.txt. Relative paths are resolved against
	// the root directory; empty means the parent of each test definition's
	// directory.
	SourceDir string `yaml:"source_dir"`
	// TestFileVar is the CMake cache variable that receives the path of the
	// test definition.
	TestFileVar string `yaml:"test_file_var"`
	// BuildConfig is passed to ctest as -C.
	BuildConfig string `yaml:"build_config"`
	// ConfigureArgs are appended to the configure command line.
	ConfigureArgs []string `yaml:"configure_args"`
}

// Default returns the settings the project has always been tested with.
func Default() *Config {
	return &Config{
		CMake:        "cmake",
		CTest:        "ctest",
		CCompiler:    "gcc",
		CXXCompiler:  "g++",
		Generator:    "Ninja",
		Pattern:      "*.cmake",
		BuildDirName: "__build__",
		TestFileVar:  "TEST_CMAKE_FILE_NAME",
		BuildConfig:  "Debug",
	}
}

// Load reads the YAML file at path over the values already in c. Unknown keys
// are rejected.
func (c *Config) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

// LoadDefault loads DefaultFileName from root if it exists. It reports
// whether a file was loaded.
func (c *Config) LoadDefault(root string) (bool, error) {
	path := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, "failed to stat config")
	}
	return true, c.Load(path)
}

// SetFlags registers flags overriding c's fields on f. Flag defaults are the
// current values of c, so a file should be loaded first when flags and files
// are combined; Overrides handles the other order.
func (c *Config) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.CMake, "cmake", c.CMake, "build-configuration and build tool")
	f.StringVar(&c.CTest, "ctest", c.CTest, "test-runner tool")
	f.StringVar(&c.CCompiler, "cc", c.CCompiler, "C compiler passed to cmake")
	f.StringVar(&c.CXXCompiler, "cxx", c.CXXCompiler, "C++ compiler passed to cmake")
	f.StringVar(&c.Generator, "generator", c.Generator, "cmake generator")
	f.StringVar(&c.Pattern, "pattern", c.Pattern, "glob matching test-definition file names")
	f.StringVar(&c.BuildDirName, "builddir", c.BuildDirName, "scratch build directory name")
	f.StringVar(&c.SourceDir, "sourcedir", c.SourceDir, "directory containing "+BuildDescription+", relative to root (default: parent of each test definition's directory)")
	f.StringVar(&c.TestFileVar, "testfilevar", c.TestFileVar, "cmake variable receiving the test-definition path")

	valid := make(map[string]int)
	for i, n := range BuildConfigs {
		valid[n] = i
	}
	def := c.BuildConfig
	if _, ok := valid[def]; !ok {
		def = BuildConfigs[0]
	}
	bc := command.NewEnumFlag(valid, func(v int) { c.BuildConfig = BuildConfigs[v] }, def)
	f.Var(bc, "buildconfig", fmt.Sprintf("configuration passed to ctest (%s; default %q)", bc.QuotedValues(), bc.Default()))
	f.Var(command.NewListFlag(",", func(v []string) { c.ConfigureArgs = v }, c.ConfigureArgs), "configureargs", "comma-separated extra arguments for the configure step")
}

// Overrides copies into c the fields of o whose flags were explicitly set on
// f. It lets flags win over a config file that is loaded after parsing.
func (c *Config) Overrides(f *flag.FlagSet, o *Config) {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "cmake":
			c.CMake = o.CMake
		case "ctest":
			c.CTest = o.CTest
		case "cc":
			c.CCompiler = o.CCompiler
		case "cxx":
			c.CXXCompiler = o.CXXCompiler
		case "generator":
			c.Generator = o.Generator
		case "pattern":
			c.Pattern = o.Pattern
		case "builddir":
			c.BuildDirName = o.BuildDirName
		case "sourcedir":
			c.SourceDir = o.SourceDir
		case "testfilevar":
			c.TestFileVar = o.TestFileVar
		case "buildconfig":
			c.BuildConfig = o.BuildConfig
		case "configureargs":
			c.ConfigureArgs = append([]string(nil), o.ConfigureArgs...)
		}
	})
}

// Validate checks that c can be used for a run.
func (c *Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"cmake":         c.CMake,
		"ctest":         c.CTest,
		"c_compiler":    c.CCompiler,
		"cxx_compiler":  c.CXXCompiler,
		"generator":     c.Generator,
		"pattern":       c.Pattern,
		"build_dir":     c.BuildDirName,
		"test_file_var": c.TestFileVar,
		"build_config":  c.BuildConfig,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.Errorf("empty settings: %s", strings.Join(missing, ", "))
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return errors.Wrapf(err, "bad pattern %q", c.Pattern)
	}
	if strings.ContainsRune(c.BuildDirName, filepath.Separator) || c.BuildDirName == "." || c.BuildDirName == ".." {
		return errors.Errorf("build_dir %q must be a single path element", c.BuildDirName)
	}
	if !slices.Contains(BuildConfigs, c.BuildConfig) {
		return errors.Errorf("unknown build_config %q", c.BuildConfig)
	}
	return nil
}

// ResolveSourceDir returns the absolute source directory used to configure
// file, a test definition under root. By default it is the parent of the
// directory holding file.
func (c *Config) ResolveSourceDir(root, file string) string {
	switch {
	case c.SourceDir == "":
		return filepath.Dir(filepath.Dir(file))
	case filepath.IsAbs(c.SourceDir):
		return filepath.Clean(c.SourceDir)
	default:
		return filepath.Join(root, c.SourceDir)
	}
}
