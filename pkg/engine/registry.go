// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/praxislabs/praxis/pkg/errors"
	"github.com/praxislabs/praxis/pkg/telemetry"
)

// Factory constructs an unloaded engine instance with the given id.
type Factory func(id string) Engine

// Selection picks a concrete implementation for one category, with
// free-form settings handed to the engine's Load.
type Selection struct {
	Impl     string
	Settings map[string]any
}

// Registry maps (category, implementation name) to engine factories.
// Implementations register before a run starts; Assemble builds a Group
// from per-run selections.
type Registry struct {
	mu        sync.RWMutex
	factories map[Category]map[string]Factory
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Category]map[string]Factory)}
}

// Register adds a factory under a category and implementation name.
// Duplicate registration is an error.
func (r *Registry) Register(c Category, name string, f Factory) error {
	if !c.Valid() {
		return errors.Newf(errors.CodeInvalidInput, "unknown engine category %q", c)
	}
	if name == "" || f == nil {
		return errors.Newf(errors.CodeInvalidInput, "engine registration needs a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byName := r.factories[c]
	if byName == nil {
		byName = make(map[string]Factory)
		r.factories[c] = byName
	}
	if _, dup := byName[name]; dup {
		return errors.Newf(errors.CodeInvalidInput, "engine %q already registered for category %q", name, c)
	}
	byName[name] = f
	return nil
}

// Implementations lists the registered implementation names for a
// category, sorted.
func (r *Registry) Implementations(c Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories[c]))
	for name := range r.factories[c] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assemble builds the engine group for one run. Every selected engine is
// constructed, loaded with its settings, and checked against its category
// contract. Any failure is a configuration error: engines loaded so far
// are closed and the error returned.
func (r *Registry) Assemble(ctx context.Context, selections map[Category]Selection) (*Group, error) {
	group := &Group{}
	for _, c := range Categories() {
		sel, ok := selections[c]
		if !ok {
			continue
		}
		eng, err := r.build(ctx, c, sel)
		if err != nil {
			group.Close(ctx)
			return nil, err
		}
		if err := group.install(c, eng); err != nil {
			eng.Close(ctx)
			group.Close(ctx)
			return nil, err
		}
	}
	for c := range selections {
		if !c.Valid() {
			group.Close(ctx)
			return nil, errors.Newf(errors.CodeInvalidInput, "unknown engine category %q in configuration", c)
		}
	}
	return group, nil
}

func (r *Registry) build(ctx context.Context, c Category, sel Selection) (Engine, error) {
	r.mu.RLock()
	factory := r.factories[c][sel.Impl]
	r.mu.RUnlock()
	if factory == nil {
		return nil, errors.Newf(errors.CodeUnknownNode, "no %q engine registered under category %q", sel.Impl, c).
			WithContext("available", r.Implementations(c))
	}
	eng := factory(fmt.Sprintf("%s/%s", c, sel.Impl))
	if st := eng.Load(ctx, sel.Settings); !st.Succeeded() {
		eng.Close(ctx)
		return nil, errors.Newf(errors.CodeInvalidInput, "load engine %s: %s", eng.ID(), st).
			WithAttribute(telemetry.AttrEngineCategory, string(c)).
			WithAttribute(telemetry.AttrEngineID, eng.ID())
	}
	return eng, nil
}

func (g *Group) install(c Category, eng Engine) error {
	contract := func(c Category, want string) error {
		return errors.Newf(errors.CodeInvalidInput,
			"engine %q does not satisfy the %s contract (%s)", eng.ID(), c, want)
	}
	switch c {
	case CategoryKinematics:
		k, ok := eng.(Kinematics)
		if !ok {
			return contract(c, "Kinematics")
		}
		g.kinematics = k
	case CategoryController:
		ctrl, ok := eng.(Controller)
		if !ok {
			return contract(c, "Controller")
		}
		g.controller = ctrl
	case CategoryData:
		d, ok := eng.(Data)
		if !ok {
			return contract(c, "Data")
		}
		g.data = d
	case CategoryWorld:
		w, ok := eng.(WorldConstructor)
		if !ok {
			return contract(c, "WorldConstructor")
		}
		g.world = w
	case CategorySimulation:
		s, ok := eng.(Simulation)
		if !ok {
			return contract(c, "Simulation")
		}
		g.simulation = s
	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown engine category %q", c)
	}
	return nil
}
