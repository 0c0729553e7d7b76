// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package skill defines the leaf unit of work in a behavior tree: the
// Skill interface, the state machine wrapping every skill with one
// uniform lifecycle, the parameter decoder, and the name registry.
package skill

import (
	"context"
	"fmt"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
)

// State is the lifecycle position of a skill instance.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateRunning
	StateSucceeded
	StateFailed
	StateFatal
)

// String returns the canonical lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether no further ticking may occur from this state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateFatal
}

// Binding is everything a skill instance is bound to at run time: its
// resolved parameters, the run's blackboard, and the engine group.
type Binding struct {
	Params  Params
	Board   *blackboard.Blackboard
	Engines *engine.Group
}

// Skill is a leaf unit of work. Implementations hold no hardware state;
// every side effect goes through the engine group or the blackboard.
//
// Init performs one-time setup and may return Fatal (configuration or
// programmer error) or Failed (expected precondition not met, decided by
// the skill's own policy). Tick advances the skill one step and returns
// Running until a terminal verdict; every suspension point is an explicit
// Running return, never a hidden wait. Cancel is called when an enclosing
// node discards the skill before it terminates; it must release any
// engine-held resource such as an in-flight motion.
type Skill interface {
	Name() string
	Init(ctx context.Context, b Binding) core.Status
	Tick(ctx context.Context) core.Status
	Cancel(ctx context.Context)
}

// Runner wraps one skill with the uniform lifecycle
// Created → Initialized → Running → {Succeeded, Failed, Fatal}.
// Ticking a terminal runner is rejected: the stored verdict is returned
// and no transition occurs.
type Runner struct {
	skill  Skill
	state  State
	status core.Status
}

// NewRunner wraps a skill in the Created state.
func NewRunner(s Skill) *Runner {
	return &Runner{skill: s, status: core.Running()}
}

// Name returns the wrapped skill's name.
func (r *Runner) Name() string { return r.skill.Name() }

// State returns the current lifecycle state.
func (r *Runner) State() State { return r.state }

// Status returns the most recent status. For a terminal runner this is
// the terminal verdict.
func (r *Runner) Status() core.Status { return r.status }

// Init binds the skill and performs its one-time setup. A non-success
// from the skill's Init moves the runner straight to a terminal state:
// Fatal stays Fatal, anything else becomes Failed.
func (r *Runner) Init(ctx context.Context, b Binding) core.Status {
	if r.state != StateCreated {
		return core.Fatal(core.ReasonProcessFailure,
			"init called in state %s", r.state).WithOrigin(r.skill.Name())
	}
	st := r.skill.Init(ctx, b)
	switch {
	case st.Succeeded():
		r.state = StateInitialized
		r.status = core.Running()
	case st.IsFatal():
		r.state = StateFatal
		r.status = st.WithOrigin(r.skill.Name())
	default:
		r.state = StateFailed
		r.status = core.Failed(st.Reason, "%s", st.Message).WithOrigin(r.skill.Name())
	}
	return r.status
}

// Tick advances the skill one step and maps its verdict onto the
// lifecycle. The first tick moves Initialized to Running.
func (r *Runner) Tick(ctx context.Context) core.Status {
	switch r.state {
	case StateCreated:
		return core.Fatal(core.ReasonProcessFailure,
			"tick before init").WithOrigin(r.skill.Name())
	case StateSucceeded, StateFailed, StateFatal:
		// Terminal; reject without transition.
		return r.status
	case StateInitialized:
		r.state = StateRunning
	}

	st := r.skill.Tick(ctx)
	switch st.Flag {
	case core.FlagRunning:
		r.status = core.Running()
	case core.FlagSuccess:
		r.state = StateSucceeded
		r.status = st.WithOrigin(r.skill.Name())
	case core.FlagFailed:
		r.state = StateFailed
		r.status = st.WithOrigin(r.skill.Name())
	default:
		r.state = StateFatal
		r.status = st.WithOrigin(r.skill.Name())
	}
	return r.status
}

// CancelRun discards a non-terminal runner. The skill's Cancel hook runs
// so engine-held resources are released, then the runner terminates as
// Failed with ReasonCancelled. Cancelling a terminal runner is a no-op.
func (r *Runner) CancelRun(ctx context.Context) {
	if r.state.Terminal() {
		return
	}
	if r.state == StateRunning || r.state == StateInitialized {
		r.skill.Cancel(ctx)
	}
	r.state = StateFailed
	r.status = core.Failed(core.ReasonCancelled, "cancelled by parent").WithOrigin(r.skill.Name())
}
