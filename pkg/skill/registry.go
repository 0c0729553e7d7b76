// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"sort"
	"sync"

	"github.com/praxislabs/praxis/pkg/errors"
)

// Constructor builds a fresh skill instance for one leaf node.
type Constructor func() Skill

// Registry maps leaf type names to skill constructors. It is populated
// by skill libraries before a run starts; the decoder resolves every
// leaf against it while parsing.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty skill registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a constructor under a leaf type name. Duplicate
// registration is an error.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return errors.Newf(errors.CodeInvalidInput, "skill registration needs a name and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctors[name]; dup {
		return errors.Newf(errors.CodeInvalidInput, "skill %q already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Resolve returns the constructor for a leaf type name.
func (r *Registry) Resolve(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[name]
	return ctor, ok
}

// Names returns the registered leaf type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
