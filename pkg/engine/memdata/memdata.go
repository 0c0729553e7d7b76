// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package memdata provides an in-memory data engine for tests and runs
// that need task-scoped persistence without a backing file.
package memdata

import (
	"context"
	"sync"
	"time"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
)

// Name is the registry implementation id.
const Name = "memory"

// Register adds the in-memory data engine to a registry.
func Register(r *engine.Registry) error {
	return r.Register(engine.CategoryData, Name, func(id string) engine.Engine {
		return New(id)
	})
}

// Engine keeps documents and audit events in maps.
type Engine struct {
	id     string
	mu     sync.RWMutex
	docs   map[string]any
	events []engine.Event
}

// New creates an in-memory data engine.
func New(id string) *Engine {
	return &Engine{id: id, docs: make(map[string]any)}
}

// ID returns the engine id assigned at assembly.
func (e *Engine) ID() string { return e.id }

// Load accepts any settings; none are recognized.
func (e *Engine) Load(context.Context, map[string]any) core.Status {
	return core.Success()
}

// Close discards nothing so tests can inspect state after a run.
func (e *Engine) Close(context.Context) core.Status {
	return core.Success()
}

// Save stores the value under key.
func (e *Engine) Save(_ context.Context, key string, value any) core.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs[key] = value
	return core.Success()
}

// Fetch returns the stored value for key.
func (e *Engine) Fetch(_ context.Context, key string) (any, core.Status) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.docs[key]
	if !ok {
		return nil, core.Failed(core.ReasonNotFound, "no document for key %q", key).WithOrigin(e.id)
	}
	return v, core.Success()
}

// RecordEvent appends an audit event.
func (e *Engine) RecordEvent(_ context.Context, ev engine.Event) core.Status {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return core.Success()
}

// Events returns the audit events for a run, oldest first.
func (e *Engine) Events(_ context.Context, runID string) ([]engine.Event, core.Status) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []engine.Event
	for _, ev := range e.events {
		if ev.RunID == runID {
			out = append(out, ev)
		}
	}
	return out, core.Success()
}
