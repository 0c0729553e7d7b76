// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package sim provides the in-memory simulation engine used for dry runs
// and tests. It satisfies both the controller and world-constructor
// contracts: commands complete after a configurable number of update
// ticks and object poses live in a world model.
package sim

import (
	"context"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/world"
)

// Name is the registry implementation id.
const Name = "sim"

const defaultMotionTicks = 3

// Register adds the simulation engine to a registry under the simulation,
// controller, and world categories.
func Register(r *engine.Registry) error {
	factory := func(id string) engine.Engine { return New(id) }
	for _, c := range []engine.Category{
		engine.CategorySimulation,
		engine.CategoryController,
		engine.CategoryWorld,
	} {
		if err := r.Register(c, Name, factory); err != nil {
			return err
		}
	}
	return nil
}

type pending struct {
	cmd       engine.Command
	remaining int
}

// Engine is the simulation engine. It is driven by the single control
// thread of the orchestrator tick loop and holds no locks.
type Engine struct {
	id          string
	motionTicks int
	state       engine.ControllerState
	inflight    *pending
	model       *world.Model
	stopped     bool
}

// New creates an unloaded simulation engine.
func New(id string) *Engine {
	return &Engine{id: id, model: world.NewModel()}
}

// ID returns the engine id assigned at assembly.
func (e *Engine) ID() string { return e.id }

// Load applies settings. Recognized keys: motion_ticks (int, default 3),
// objects (list of {id, x, y, z, radius} seeding the world model).
func (e *Engine) Load(_ context.Context, settings map[string]any) core.Status {
	e.motionTicks = defaultMotionTicks
	e.state = engine.ControllerState{Base: core.IdentityPose(), Gripper: 1}
	if settings == nil {
		return core.Success()
	}
	if v, ok := settings["motion_ticks"]; ok {
		ticks, ok := asInt(v)
		if !ok || ticks < 1 {
			return core.Fatal(core.ReasonInvalidInput, "motion_ticks must be a positive integer, got %v", v)
		}
		e.motionTicks = ticks
	}
	if raw, ok := settings["objects"]; ok {
		if st := e.seedObjects(raw); !st.Succeeded() {
			return st
		}
	}
	return core.Success()
}

// Close discards in-flight work.
func (e *Engine) Close(context.Context) core.Status {
	e.inflight = nil
	e.state.Moving = false
	return core.Success()
}

// Execute accepts a command. A halt clears the in-flight command; any
// other command while one is in flight fails with ReasonBusy.
func (e *Engine) Execute(_ context.Context, cmd engine.Command) core.Status {
	if e.stopped {
		return e.stopStatus()
	}
	if cmd.Kind == engine.KindHalt {
		e.inflight = nil
		e.state.Moving = false
		return core.Success()
	}
	if e.inflight != nil {
		return core.Failed(core.ReasonBusy, "command already in flight")
	}
	ticks := cmd.Ticks
	if ticks <= 0 {
		if cmd.Kind == engine.KindGripper {
			ticks = 1
		} else {
			ticks = e.motionTicks
		}
	}
	e.inflight = &pending{cmd: cmd, remaining: ticks}
	e.state.Moving = true
	return core.Success()
}

// Update advances the in-flight command one tick. Running while work
// remains, Success once idle.
func (e *Engine) Update(context.Context) core.Status {
	if e.stopped {
		return e.stopStatus()
	}
	if e.inflight == nil {
		return core.Success()
	}
	e.inflight.remaining--
	if e.inflight.remaining > 0 {
		return core.Running()
	}
	e.apply(e.inflight.cmd)
	e.inflight = nil
	e.state.Moving = false
	return core.Success()
}

// EmergencyStop halts all motion immediately and latches: every later
// Execute and Update returns Fatal.
func (e *Engine) EmergencyStop(context.Context) core.Status {
	e.stopped = true
	e.inflight = nil
	e.state.Moving = false
	e.state.Stopped = true
	return core.Success()
}

// State returns a copy of the actuator state.
func (e *Engine) State(context.Context) (engine.ControllerState, core.Status) {
	st := e.state
	st.Joints = engine.JointState{
		Names:     append([]string(nil), e.state.Joints.Names...),
		Positions: append([]float64(nil), e.state.Joints.Positions...),
	}
	return st, core.Success()
}

// PlaceObject adds or replaces an object in the world model.
func (e *Engine) PlaceObject(_ context.Context, obj world.Object) core.Status {
	if obj.ID == "" {
		return core.Failed(core.ReasonInvalidInput, "object id is required")
	}
	e.model.Place(obj)
	return core.Success()
}

// RemoveObject deletes an object from the world model.
func (e *Engine) RemoveObject(_ context.Context, id string) core.Status {
	if !e.model.Remove(id) {
		return core.Failed(core.ReasonNotFound, "object %q not in world", id)
	}
	return core.Success()
}

// Object returns one object from the world model.
func (e *Engine) Object(_ context.Context, id string) (world.Object, core.Status) {
	obj, ok := e.model.Get(id)
	if !ok {
		return world.Object{}, core.Failed(core.ReasonNotFound, "object %q not in world", id)
	}
	return obj, core.Success()
}

// Objects returns every object in the world model, sorted by id.
func (e *Engine) Objects(context.Context) ([]world.Object, core.Status) {
	return e.model.All(), core.Success()
}

func (e *Engine) apply(cmd engine.Command) {
	switch cmd.Kind {
	case engine.KindMotion:
		e.state.Joints = cmd.Joints
	case engine.KindGripper:
		e.state.Gripper = cmd.Gripper
		// Closing onto something counts as contact.
		e.state.Contact = cmd.Gripper < 0.5
	}
}

func (e *Engine) stopStatus() core.Status {
	return core.Fatal(core.ReasonEmergencyStop, "emergency stop latched").WithOrigin(e.id)
}

func (e *Engine) seedObjects(raw any) core.Status {
	items, ok := raw.([]any)
	if !ok {
		return core.Fatal(core.ReasonInvalidInput, "objects must be a list")
	}
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return core.Fatal(core.ReasonInvalidInput, "object entries must be mappings")
		}
		id, _ := fields["id"].(string)
		if id == "" {
			return core.Fatal(core.ReasonInvalidInput, "object entry missing id")
		}
		obj := world.Object{ID: id, Pose: core.IdentityPose()}
		if v, ok := asFloat(fields["x"]); ok {
			obj.Pose.Position.X = v
		}
		if v, ok := asFloat(fields["y"]); ok {
			obj.Pose.Position.Y = v
		}
		if v, ok := asFloat(fields["z"]); ok {
			obj.Pose.Position.Z = v
		}
		if v, ok := asFloat(fields["radius"]); ok {
			obj.Radius = v
		}
		e.model.Place(obj)
	}
	return core.Success()
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
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
