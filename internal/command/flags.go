// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command contains helpers shared by command-line entry points.
package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EnumFlag implements flag.Value by mapping a fixed set of strings to ints.
type EnumFlag struct {
	valid  map[string]int
	assign func(val int)
	def    string
	cur    string
}

// NewEnumFlag returns an EnumFlag accepting the keys of valid. assign is
// called with the mapped value on every successful Set, including once now
// for def. It panics if def is not a key of valid.
func NewEnumFlag(valid map[string]int, assign func(val int), def string) *EnumFlag {
	f := &EnumFlag{valid: valid, assign: assign, def: def}
	if err := f.Set(def); err != nil {
		panic(err)
	}
	return f
}

// Default returns the value used when the flag is not given.
func (f *EnumFlag) Default() string { return f.def }

// QuotedValues returns the accepted values quoted, sorted and comma-separated.
func (f *EnumFlag) QuotedValues() string {
	var qs []string
	for n := range f.valid {
		qs = append(qs, strconv.Quote(n))
	}
	sort.Strings(qs)
	return strings.Join(qs, ", ")
}

func (f *EnumFlag) String() string { return f.cur }

// Set implements flag.Value.
func (f *EnumFlag) Set(v string) error {
	ev, ok := f.valid[v]
	if !ok {
		return fmt.Errorf("must be in %s", f.QuotedValues())
	}
	f.cur = v
	f.assign(ev)
	return nil
}

// ListFlag implements flag.Value for a list of strings joined by a separator.
type ListFlag struct {
	sep    string
	assign func([]string)
	cur    []string
}

// NewListFlag returns a ListFlag splitting on sep. assign is called with def
// now and with the parsed list on every Set.
func NewListFlag(sep string, assign func([]string), def []string) *ListFlag {
	f := &ListFlag{sep: sep, assign: assign, cur: def}
	assign(def)
	return f
}

func (f *ListFlag) String() string { return strings.Join(f.cur, f.sep) }

// Set implements flag.Value. An empty string yields an empty list.
func (f *ListFlag) Set(v string) error {
	var vals []string
	if v != "" {
		vals = strings.Split(v, f.sep)
	}
	f.cur = vals
	f.assign(vals)
	return nil
}

// DurationFlag implements flag.Value for an integer count of units.
type DurationFlag struct {
	units time.Duration
	dst   *time.Duration
}

// NewDurationFlag returns a DurationFlag that stores its value multiplied by
// units into dst. dst is set to def now.
func NewDurationFlag(units time.Duration, dst *time.Duration, def time.Duration) *DurationFlag {
	*dst = def
	return &DurationFlag{units: units, dst: dst}
}

func (f *DurationFlag) String() string {
	if f.dst == nil {
		return ""
	}
	return strconv.FormatInt(int64(*f.dst/f.units), 10)
}

// Set implements flag.Value.
func (f *DurationFlag) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("negative duration %d", n)
	}
	*f.dst = time.Duration(n) * f.units
	return nil
}
