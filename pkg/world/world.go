// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package world models the environment description maintained by
// world-constructor engines and consumed by kinematics and controller
// engines: object poses with bounding spheres.
package world

import (
	"sort"
	"sync"

	"github.com/praxislabs/praxis/pkg/core"
)

// Object is one item in the environment.
type Object struct {
	ID     string
	Pose   core.Pose
	Radius float64 // bounding sphere, meters
	Labels map[string]string
}

// Model is a registry of environment objects.
type Model struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewModel creates an empty world model.
func NewModel() *Model {
	return &Model{objects: make(map[string]Object)}
}

// Place adds or replaces an object.
func (m *Model) Place(obj Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.ID] = obj
}

// Remove deletes an object, reporting whether it existed.
func (m *Model) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	delete(m.objects, id)
	return ok
}

// Get returns an object by id.
func (m *Model) Get(id string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	return obj, ok
}

// All returns every object, sorted by id.
func (m *Model) All() []Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Object, 0, len(m.objects))
	for _, obj := range m.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the object count.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Blocking returns the first object whose bounding sphere overlaps the
// given point within clearance. Objects are checked in id order so the
// result is deterministic.
func (m *Model) Blocking(target core.Point, clearance float64) (Object, bool) {
	for _, obj := range m.All() {
		if obj.Pose.Position.Distance(target) < obj.Radius+clearance {
			return obj, true
		}
	}
	return Object{}, false
}
