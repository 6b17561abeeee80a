// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"

	"github.com/lwbtn/cmaketest/errors"
	"github.com/lwbtn/cmaketest/internal/config"
)

// configFlags holds the flags shared by run and list.
type configFlags struct {
	path string         // -config
	cfg  *config.Config // values of the override flags
}

func newConfigFlags() *configFlags {
	return &configFlags{cfg: config.Default()}
}

func (c *configFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "config", "", "YAML config file (default: "+config.DefaultFileName+" in root, if present)")
	c.cfg.SetFlags(f)
}

// rootArg returns the root directory named on the command line, defaulting
// to the current directory.
func rootArg(f *flag.FlagSet) (string, error) {
	switch f.NArg() {
	case 0:
		return ".", nil
	case 1:
		return f.Arg(0), nil
	default:
		return "", errors.Errorf("too many arguments: %q", f.Args())
	}
}

// load builds the effective config: defaults, then the config file, then
// flags given explicitly on f.
func (c *configFlags) load(f *flag.FlagSet, root string) (*config.Config, error) {
	cfg := config.Default()
	if c.path != "" {
		if err := cfg.Load(c.path); err != nil {
			return nil, err
		}
	} else if _, err := cfg.LoadDefault(root); err != nil {
		return nil, err
	}
	cfg.Overrides(f, c.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
