// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine defines the dispatch layer between skills and the
// pluggable hardware/simulation subsystems: one narrow interface per
// engine category, a factory registry, and the per-run Group that routes
// skill calls to whichever concrete engine is configured.
package engine

import (
	"context"
	"time"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/world"
)

// Category names one of the five engine slots of a run.
type Category string

const (
	CategoryKinematics Category = "kinematics"
	CategoryController Category = "controller"
	CategoryData       Category = "data"
	CategoryWorld      Category = "world"
	CategorySimulation Category = "simulation"
)

// Categories lists every valid category in slot order.
func Categories() []Category {
	return []Category{
		CategoryKinematics,
		CategoryController,
		CategoryData,
		CategoryWorld,
		CategorySimulation,
	}
}

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryKinematics, CategoryController, CategoryData, CategoryWorld, CategorySimulation:
		return true
	}
	return false
}

// Engine is the lifecycle every concrete engine shares. Load is called
// once during group assembly, Close once on every run exit path.
type Engine interface {
	ID() string
	Load(ctx context.Context, settings map[string]any) core.Status
	Close(ctx context.Context) core.Status
}

// JointState is a named joint configuration.
type JointState struct {
	Names     []string
	Positions []float64
}

// CommandKind selects what a controller command does.
type CommandKind string

const (
	// KindMotion moves the arm to a joint target over some ticks.
	KindMotion CommandKind = "motion"

	// KindGripper drives the gripper to an aperture in [0, 1].
	KindGripper CommandKind = "gripper"

	// KindHalt gracefully stops the in-flight command without latching an
	// emergency stop. Used on skill cancellation.
	KindHalt CommandKind = "halt"
)

// Command is one actuator instruction issued by a skill.
type Command struct {
	Kind    CommandKind
	Target  core.Pose
	Joints  JointState
	Gripper float64
	// Ticks is how many update cycles the command takes; 0 uses the
	// engine default.
	Ticks int
}

// ControllerState is the queryable actuator state.
type ControllerState struct {
	Joints  JointState
	Base    core.Pose
	Gripper float64
	Moving  bool
	Contact bool
	Stopped bool // emergency stop latched
}

// Kinematics solves reachability. Implementations are stateless across
// calls beyond the cached robot model.
type Kinematics interface {
	Engine
	// Solve returns a joint solution for the target pose in the given
	// reference frame, or a Failed status when unreachable.
	Solve(ctx context.Context, target core.Pose, frame string) (JointState, core.Status)
	// Forward returns the end-effector pose for a joint configuration.
	Forward(ctx context.Context, joints JointState) (core.Pose, core.Status)
}

// Controller issues motion and gripper commands to a live or simulated
// actuator. At most one command is in flight per engine; Execute while a
// command is in flight returns Failed with ReasonBusy.
type Controller interface {
	Engine
	// Execute accepts a command. It does not wait for completion.
	Execute(ctx context.Context, cmd Command) core.Status
	// Update advances in-flight work one tick. It returns Running while a
	// command is in flight, Success once idle, and Fatal after an
	// emergency stop.
	Update(ctx context.Context) core.Status
	// EmergencyStop halts all motion. It takes effect before the next
	// Update returns and latches a Fatal state.
	EmergencyStop(ctx context.Context) core.Status
	// State queries joint, contact, and stop state.
	State(ctx context.Context) (ControllerState, core.Status)
}

// Data persists and retrieves task-scoped data; purely request/response.
type Data interface {
	Engine
	Save(ctx context.Context, key string, value any) core.Status
	// Fetch returns the stored value for key, or Failed with
	// ReasonNotFound when absent.
	Fetch(ctx context.Context, key string) (any, core.Status)
	// RecordEvent appends a node lifecycle event to the run audit log.
	RecordEvent(ctx context.Context, ev Event) core.Status
	// Events returns the audit events recorded for a run, oldest first.
	Events(ctx context.Context, runID string) ([]Event, core.Status)
}

// WorldConstructor builds and updates the environment description
// consumed by kinematics and controller engines.
type WorldConstructor interface {
	Engine
	PlaceObject(ctx context.Context, obj world.Object) core.Status
	RemoveObject(ctx context.Context, id string) core.Status
	Object(ctx context.Context, id string) (world.Object, core.Status)
	Objects(ctx context.Context) ([]world.Object, core.Status)
}

// Simulation substitutes for controller plus world in dry-run
// configurations; it satisfies both contracts so skills stay
// engine-agnostic.
type Simulation interface {
	Controller
	WorldConstructor
}

// Event is one node lifecycle entry in the run audit log.
type Event struct {
	RunID    string
	NodePath string
	Node     string
	Phase    string // started | succeeded | failed | fatal | cancelled
	Message  string
	At       time.Time
}
