// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"context"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/skill"
)

// Wait runs for a number of ticks and then succeeds.
// Parameters: ticks (int, default 1).
type Wait struct {
	remaining int
}

func (*Wait) Name() string { return "wait" }

func (s *Wait) Init(_ context.Context, b skill.Binding) core.Status {
	s.remaining = b.Params.IntOr("ticks", 1)
	if s.remaining < 1 {
		return core.Fatal(core.ReasonInvalidInput, "ticks must be positive")
	}
	return core.Success()
}

func (s *Wait) Tick(context.Context) core.Status {
	s.remaining--
	if s.remaining > 0 {
		return core.Running()
	}
	return core.Success()
}

func (*Wait) Cancel(context.Context) {}

// Set writes a value to the blackboard.
// Parameters: key (string, required), value (any).
type Set struct {
	board interface{ Set(string, any) }
	key   string
	value any
}

func (*Set) Name() string { return "set" }

func (s *Set) Init(_ context.Context, b skill.Binding) core.Status {
	if st := b.Params.Require("key"); !st.Succeeded() {
		return st
	}
	key, ok := b.Params.String("key")
	if !ok || key == "" {
		return core.Fatal(core.ReasonInvalidInput, "key must be a non-empty string")
	}
	s.board = b.Board
	s.key = key
	s.value = b.Params["value"]
	return core.Success()
}

func (s *Set) Tick(context.Context) core.Status {
	s.board.Set(s.key, s.value)
	return core.Success()
}

func (*Set) Cancel(context.Context) {}
