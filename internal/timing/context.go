// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import "context"

type logKey struct{}
type stageKey struct{}

// NewContext returns a context carrying l. Stages started on it become
// top-level stages of l.
func NewContext(ctx context.Context, l *Log) context.Context {
	ctx = context.WithValue(ctx, logKey{}, l)
	return context.WithValue(ctx, stageKey{}, l.Root)
}

// FromContext returns the Log and the current stage carried by ctx.
func FromContext(ctx context.Context) (*Log, *Stage, bool) {
	l, ok := ctx.Value(logKey{}).(*Log)
	if !ok {
		return nil, nil, false
	}
	s, ok := ctx.Value(stageKey{}).(*Stage)
	if !ok {
		return nil, nil, false
	}
	return l, s, true
}

// Start starts a stage named name as a child of the current stage of ctx. The
// returned context makes the new stage current. If ctx has no Log, the
// returned stage is nil; Stage.End accepts that.
func Start(ctx context.Context, name string) (context.Context, *Stage) {
	_, parent, ok := FromContext(ctx)
	if !ok {
		return ctx, nil
	}
	s := parent.StartChild(name)
	if s == nil {
		return ctx, nil
	}
	return context.WithValue(ctx, stageKey{}, s), s
}
