// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"context"

	"github.com/praxislabs/praxis/pkg/core"
)

// NoopName is the registered name of the built-in no-op skill.
const NoopName = "noop"

// Noop succeeds on its first tick without touching any engine. Used for
// placeholder nodes and tests.
type Noop struct{}

// NewNoop constructs a no-op skill.
func NewNoop() Skill { return &Noop{} }

// Name implements Skill.
func (*Noop) Name() string { return NoopName }

// Init implements Skill.
func (*Noop) Init(context.Context, Binding) core.Status { return core.Success() }

// Tick implements Skill.
func (*Noop) Tick(context.Context) core.Status {
	return core.Status{Flag: core.FlagSuccess, Reason: core.ReasonSuccessfulTermination}
}

// Cancel implements Skill.
func (*Noop) Cancel(context.Context) {}
