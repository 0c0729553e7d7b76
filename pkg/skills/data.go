// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"context"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/skill"
)

// Record persists a value through the data engine.
// Parameters: key (string, required), value (any; a "$ref" reads the
// blackboard like any other parameter).
type Record struct {
	data  engine.Data
	key   string
	value any
}

func (*Record) Name() string { return "record" }

func (s *Record) Init(_ context.Context, b skill.Binding) core.Status {
	if st := b.Params.Require("key"); !st.Succeeded() {
		return st
	}
	data, st := b.Engines.Data()
	if !st.Succeeded() {
		// Missing engine category is a configuration error; never
		// downgrade it to a tree-recoverable failure.
		return st
	}
	s.data = data
	s.key, _ = b.Params.String("key")
	s.value = b.Params["value"]
	return core.Success()
}

func (s *Record) Tick(ctx context.Context) core.Status {
	return s.data.Save(ctx, s.key, s.value)
}

func (*Record) Cancel(context.Context) {}

// Recall loads a stored value onto the blackboard.
// Parameters: key (string, required), to (blackboard key, default key).
type Recall struct {
	data  engine.Data
	board *blackboard.Blackboard
	key   string
	to    string
}

func (*Recall) Name() string { return "recall" }

func (s *Recall) Init(_ context.Context, b skill.Binding) core.Status {
	if st := b.Params.Require("key"); !st.Succeeded() {
		return st
	}
	data, st := b.Engines.Data()
	if !st.Succeeded() {
		return st
	}
	s.data = data
	s.board = b.Board
	s.key, _ = b.Params.String("key")
	s.to = b.Params.StringOr("to", s.key)
	return core.Success()
}

func (s *Recall) Tick(ctx context.Context) core.Status {
	value, st := s.data.Fetch(ctx, s.key)
	if !st.Succeeded() {
		return st
	}
	s.board.Set(s.to, value)
	return core.Success()
}

func (*Recall) Cancel(context.Context) {}
