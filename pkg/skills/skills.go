// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package skills is the default skill library: generic leaf behaviors
// that exercise the engine contracts (motion, gripper, persistence,
// blackboard plumbing). Robot-specific skill bodies live outside this
// repository and register through the same interface.
package skills

import (
	"github.com/praxislabs/praxis/pkg/skill"
)

// RegisterAll adds every default skill, plus the built-in no-op, to a
// registry.
func RegisterAll(reg *skill.Registry) error {
	ctors := map[string]skill.Constructor{
		skill.NoopName: skill.NewNoop,
		"wait":         func() skill.Skill { return &Wait{} },
		"set":          func() skill.Skill { return &Set{} },
		"record":       func() skill.Skill { return &Record{} },
		"recall":       func() skill.Skill { return &Recall{} },
		"move":         func() skill.Skill { return &Move{} },
		"grasp":        func() skill.Skill { return &Gripper{name: "grasp"} },
		"release":      func() skill.Skill { return &Gripper{name: "release", aperture: 1.0} },
		"stop":         func() skill.Skill { return &Stop{} },
	}
	for name, ctor := range ctors {
		if err := reg.Register(name, ctor); err != nil {
			return err
		}
	}
	return nil
}
