// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/telemetry"
)

// Group is the set of engines assembled for one run: at most one engine
// per category. It is shared by every skill in the run and gives them one
// call surface independent of which concrete engine answers.
//
// Accessors return a Fatal status when the category is absent: addressing
// a missing engine is a configuration error, not a runtime failure. When a
// simulation engine is configured it stands in for absent controller and
// world slots.
type Group struct {
	kinematics Kinematics
	controller Controller
	data       Data
	world      WorldConstructor
	simulation Simulation
	metrics    *telemetry.RunMetrics
	closed     bool
}

// SetMetrics installs a recorder counting category dispatches. A nil
// recorder disables counting.
func (g *Group) SetMetrics(m *telemetry.RunMetrics) { g.metrics = m }

// dispatch counts one category resolution on the run metrics and passes
// the status through.
func (g *Group) dispatch(c Category, st core.Status) core.Status {
	g.metrics.RecordEngineCall(context.Background(), string(c), "resolve", st.Flag.String())
	return st
}

// Has reports whether the category resolves to an engine, counting the
// simulation substitution for controller and world.
func (g *Group) Has(c Category) bool {
	switch c {
	case CategoryKinematics:
		return g.kinematics != nil
	case CategoryController:
		return g.controller != nil || g.simulation != nil
	case CategoryData:
		return g.data != nil
	case CategoryWorld:
		return g.world != nil || g.simulation != nil
	case CategorySimulation:
		return g.simulation != nil
	}
	return false
}

// Kinematics returns the kinematics engine.
func (g *Group) Kinematics() (Kinematics, core.Status) {
	if g.kinematics == nil {
		return nil, g.dispatch(CategoryKinematics, missing(CategoryKinematics))
	}
	return g.kinematics, g.dispatch(CategoryKinematics, core.Success())
}

// Controller returns the controller engine, or the simulation engine when
// no controller is configured.
func (g *Group) Controller() (Controller, core.Status) {
	if g.controller != nil {
		return g.controller, g.dispatch(CategoryController, core.Success())
	}
	if g.simulation != nil {
		return g.simulation, g.dispatch(CategoryController, core.Success())
	}
	return nil, g.dispatch(CategoryController, missing(CategoryController))
}

// Data returns the data engine.
func (g *Group) Data() (Data, core.Status) {
	if g.data == nil {
		return nil, g.dispatch(CategoryData, missing(CategoryData))
	}
	return g.data, g.dispatch(CategoryData, core.Success())
}

// World returns the world-constructor engine, or the simulation engine
// when no world constructor is configured.
func (g *Group) World() (WorldConstructor, core.Status) {
	if g.world != nil {
		return g.world, g.dispatch(CategoryWorld, core.Success())
	}
	if g.simulation != nil {
		return g.simulation, g.dispatch(CategoryWorld, core.Success())
	}
	return nil, g.dispatch(CategoryWorld, missing(CategoryWorld))
}

// Simulation returns the simulation engine.
func (g *Group) Simulation() (Simulation, core.Status) {
	if g.simulation == nil {
		return nil, g.dispatch(CategorySimulation, missing(CategorySimulation))
	}
	return g.simulation, g.dispatch(CategorySimulation, core.Success())
}

// Close shuts every engine down, in reverse category order so the
// controller stops before the data engine flushes. Safe to call more
// than once; later calls are no-ops. The first non-success status wins.
func (g *Group) Close(ctx context.Context) core.Status {
	if g.closed {
		return core.Success()
	}
	g.closed = true

	result := core.Success()
	engines := []Engine{}
	if g.simulation != nil {
		engines = append(engines, g.simulation)
	}
	if g.world != nil {
		engines = append(engines, g.world)
	}
	if g.controller != nil {
		engines = append(engines, g.controller)
	}
	if g.kinematics != nil {
		engines = append(engines, g.kinematics)
	}
	if g.data != nil {
		engines = append(engines, g.data)
	}
	for _, e := range engines {
		if st := e.Close(ctx); !st.Succeeded() && result.Succeeded() {
			result = st.WithOrigin(e.ID())
		}
	}
	return result
}

func missing(c Category) core.Status {
	return core.Fatal(core.ReasonMissingEngine, "engine category %q not configured for this run", c)
}
