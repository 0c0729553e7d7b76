// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"context"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/skill"
)

// Move solves a target pose through the kinematics engine, hands the
// joint solution to the controller, and polls until the motion settles.
// Parameters: target (pose, required), frame (string, default "world"),
// ticks (int, engine default when omitted).
type Move struct {
	kin    engine.Kinematics
	ctrl   engine.Controller
	target core.Pose
	frame  string
	ticks  int
	issued bool
}

func (*Move) Name() string { return "move" }

func (s *Move) Init(_ context.Context, b skill.Binding) core.Status {
	if st := b.Params.Require("target"); !st.Succeeded() {
		return st
	}
	target, ok := b.Params.Pose("target")
	if !ok {
		return core.Fatal(core.ReasonInvalidInput, "target is not a pose")
	}
	kin, st := b.Engines.Kinematics()
	if !st.Succeeded() {
		return st
	}
	ctrl, st := b.Engines.Controller()
	if !st.Succeeded() {
		return st
	}
	s.kin = kin
	s.ctrl = ctrl
	s.target = target
	s.frame = b.Params.StringOr("frame", "world")
	s.ticks = b.Params.IntOr("ticks", 0)
	return core.Success()
}

func (s *Move) Tick(ctx context.Context) core.Status {
	if !s.issued {
		joints, st := s.kin.Solve(ctx, s.target, s.frame)
		if !st.Succeeded() {
			// Unreachable targets are an expected failure the tree can
			// route around; Fatal passes through untouched.
			return st
		}
		st = s.ctrl.Execute(ctx, engine.Command{
			Kind:   engine.KindMotion,
			Target: s.target,
			Joints: joints,
			Ticks:  s.ticks,
		})
		if !st.Succeeded() {
			return st
		}
		s.issued = true
		return core.Running()
	}

	st := s.ctrl.Update(ctx)
	if st.Flag == core.FlagRunning {
		return core.Running()
	}
	return st
}

// Cancel halts the in-flight motion so the controller is released
// before the skill is discarded.
func (s *Move) Cancel(ctx context.Context) {
	if s.issued && s.ctrl != nil {
		s.ctrl.Execute(ctx, engine.Command{Kind: engine.KindHalt})
	}
}

// Gripper drives the gripper to an aperture and waits for completion.
// The grasp variant closes to 0, the release variant opens to 1;
// an explicit aperture parameter overrides either.
type Gripper struct {
	name     string
	aperture float64
	ctrl     engine.Controller
	issued   bool
}

func (s *Gripper) Name() string { return s.name }

func (s *Gripper) Init(_ context.Context, b skill.Binding) core.Status {
	ctrl, st := b.Engines.Controller()
	if !st.Succeeded() {
		return st
	}
	s.ctrl = ctrl
	s.aperture = b.Params.FloatOr("aperture", s.aperture)
	if s.aperture < 0 || s.aperture > 1 {
		return core.Fatal(core.ReasonInvalidInput, "aperture %v outside [0, 1]", s.aperture)
	}
	return core.Success()
}

func (s *Gripper) Tick(ctx context.Context) core.Status {
	if !s.issued {
		st := s.ctrl.Execute(ctx, engine.Command{Kind: engine.KindGripper, Gripper: s.aperture})
		if !st.Succeeded() {
			return st
		}
		s.issued = true
		return core.Running()
	}
	st := s.ctrl.Update(ctx)
	if st.Flag == core.FlagRunning {
		return core.Running()
	}
	return st
}

func (s *Gripper) Cancel(ctx context.Context) {
	if s.issued && s.ctrl != nil {
		s.ctrl.Execute(ctx, engine.Command{Kind: engine.KindHalt})
	}
}

// Stop triggers the controller's emergency stop and reports Fatal: an
// emergency stop always aborts the whole run.
type Stop struct {
	ctrl engine.Controller
}

func (*Stop) Name() string { return "stop" }

func (s *Stop) Init(_ context.Context, b skill.Binding) core.Status {
	ctrl, st := b.Engines.Controller()
	if !st.Succeeded() {
		return st
	}
	s.ctrl = ctrl
	return core.Success()
}

func (s *Stop) Tick(ctx context.Context) core.Status {
	if st := s.ctrl.EmergencyStop(ctx); st.IsFatal() {
		return st
	}
	return core.Fatal(core.ReasonEmergencyStop, "emergency stop requested")
}

func (*Stop) Cancel(context.Context) {}
