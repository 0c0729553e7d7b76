// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package blackboard implements the run-scoped key/value store shared by
// every node of one task execution.
package blackboard

import (
	"sort"
	"sync"
)

// Blackboard maps string keys to arbitrary values. It is created empty at
// run start, mutated by skills during execution, and discarded at run end.
// Last writer wins; there is no delete beyond overwrite.
//
// One logical control thread drives the tick loop, so writes need no
// coordination with each other. The mutex keeps Snapshot safe for
// observers reading from other goroutines (telemetry, audit hooks).
type Blackboard struct {
	mu      sync.RWMutex
	entries map[string]any
}

// New creates an empty blackboard.
func New() *Blackboard {
	return &Blackboard{entries: make(map[string]any)}
}

// Set stores value under key, overwriting unconditionally. It has no
// failure mode.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = value
}

// Get returns the stored value for key. Absence is a legitimate case
// (first use of a computed value) and is reported through ok, never an
// error.
func (b *Blackboard) Get(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.entries[key]
	return v, ok
}

// Len returns the number of stored entries.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Keys returns the stored keys in sorted order.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the board for diagnostics.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]any, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}
