// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package kin provides an analytical kinematics engine for a spherical
// arm model: base pose, a reach radius, and three positioning joints
// (yaw, pitch, extension). It is a reference implementation of the
// kinematics contract, not a motion planner.
package kin

import (
	"context"
	"math"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
)

// Name is the registry implementation id.
const Name = "analytic"

// Register adds the analytic kinematics engine to a registry.
func Register(r *engine.Registry) error {
	return r.Register(engine.CategoryKinematics, Name, func(id string) engine.Engine {
		return New(id)
	})
}

var jointNames = []string{"yaw", "pitch", "extension"}

// Engine solves reachability against a cached arm model. Stateless
// across calls beyond the model loaded at assembly.
type Engine struct {
	id    string
	base  core.Pose
	reach float64
}

// New creates an unloaded kinematics engine.
func New(id string) *Engine {
	return &Engine{id: id}
}

// ID returns the engine id assigned at assembly.
func (e *Engine) ID() string { return e.id }

// Load applies settings. Recognized keys: reach (float, meters, default
// 1.0) and base {x, y, z}.
func (e *Engine) Load(_ context.Context, settings map[string]any) core.Status {
	e.reach = 1.0
	e.base = core.IdentityPose()
	if settings == nil {
		return core.Success()
	}
	if v, ok := settings["reach"]; ok {
		reach, ok := asFloat(v)
		if !ok || reach <= 0 {
			return core.Fatal(core.ReasonInvalidInput, "reach must be a positive number, got %v", v)
		}
		e.reach = reach
	}
	if raw, ok := settings["base"]; ok {
		fields, ok := raw.(map[string]any)
		if !ok {
			return core.Fatal(core.ReasonInvalidInput, "base must be a mapping")
		}
		if v, ok := asFloat(fields["x"]); ok {
			e.base.Position.X = v
		}
		if v, ok := asFloat(fields["y"]); ok {
			e.base.Position.Y = v
		}
		if v, ok := asFloat(fields["z"]); ok {
			e.base.Position.Z = v
		}
	}
	return core.Success()
}

// Close releases nothing; the model is plain data.
func (e *Engine) Close(context.Context) core.Status {
	return core.Success()
}

// Solve maps a target pose to joint values, or Failed when the target is
// outside the arm's reach. Only the "world" and "base" frames are known;
// "world" targets are transformed into the base frame first.
func (e *Engine) Solve(_ context.Context, target core.Pose, frame string) (engine.JointState, core.Status) {
	var local core.Point
	switch frame {
	case "", "world":
		local = e.base.Inverse().Apply(target.Position)
	case "base":
		local = target.Position
	default:
		return engine.JointState{}, core.Failed(core.ReasonInvalidInput, "unknown reference frame %q", frame)
	}

	dist := local.Norm()
	if dist > e.reach {
		return engine.JointState{}, core.Failed(core.ReasonOutOfReach,
			"target %.3fm away exceeds reach %.3fm", dist, e.reach).WithOrigin(e.id)
	}

	yaw := math.Atan2(local.Y, local.X)
	planar := math.Hypot(local.X, local.Y)
	pitch := math.Atan2(local.Z, planar)
	return engine.JointState{
		Names:     append([]string(nil), jointNames...),
		Positions: []float64{yaw, pitch, dist},
	}, core.Success()
}

// Forward returns the end-effector pose in the world frame for a joint
// configuration produced by Solve.
func (e *Engine) Forward(_ context.Context, joints engine.JointState) (core.Pose, core.Status) {
	if len(joints.Positions) != len(jointNames) {
		return core.Pose{}, core.Failed(core.ReasonInvalidInput,
			"expected %d joint positions, got %d", len(jointNames), len(joints.Positions))
	}
	yaw, pitch, ext := joints.Positions[0], joints.Positions[1], joints.Positions[2]
	local := core.Point{
		X: ext * math.Cos(pitch) * math.Cos(yaw),
		Y: ext * math.Cos(pitch) * math.Sin(yaw),
		Z: ext * math.Sin(pitch),
	}
	return core.Pose{
		Position:    e.base.Apply(local),
		Orientation: e.base.Orientation.Mul(core.FromYaw(yaw)).Normalize(),
	}, core.Success()
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
