// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"strings"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/core"
)

// Params holds the resolved parameter values for one skill instance.
// Produced by Resolve before the skill's first tick and discarded when
// the skill terminates.
type Params map[string]any

// Resolve produces runtime parameters from a node's declared parameters.
// A string value of the form "$key" is a blackboard reference and is
// replaced by the stored entry; a missing entry is Fatal, surfaced before
// the skill's first tick. A literal leading dollar is escaped as "$$".
func Resolve(declared map[string]any, board *blackboard.Blackboard) (Params, core.Status) {
	out := make(Params, len(declared))
	for name, value := range declared {
		s, ok := value.(string)
		if !ok || !strings.HasPrefix(s, "$") {
			out[name] = value
			continue
		}
		if strings.HasPrefix(s, "$$") {
			out[name] = s[1:]
			continue
		}
		key := s[1:]
		stored, ok := board.Get(key)
		if !ok {
			return nil, core.Fatal(core.ReasonUnresolvedParameter,
				"parameter %q references blackboard key %q with no entry", name, key)
		}
		out[name] = stored
	}
	return out, core.Success()
}

// Require checks that every named parameter is present, returning Fatal
// for the first one missing.
func (p Params) Require(names ...string) core.Status {
	for _, name := range names {
		if _, ok := p[name]; !ok {
			return core.Fatal(core.ReasonUnresolvedParameter, "required parameter %q not declared", name)
		}
	}
	return core.Success()
}

// String returns a string parameter.
func (p Params) String(name string) (string, bool) {
	s, ok := p[name].(string)
	return s, ok
}

// StringOr returns a string parameter or a default.
func (p Params) StringOr(name, def string) string {
	if s, ok := p.String(name); ok {
		return s
	}
	return def
}

// Float returns a numeric parameter as float64. YAML and JSON decoders
// produce a mix of int and float64, both are accepted.
func (p Params) Float(name string) (float64, bool) {
	switch n := p[name].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// FloatOr returns a numeric parameter or a default.
func (p Params) FloatOr(name string, def float64) float64 {
	if f, ok := p.Float(name); ok {
		return f
	}
	return def
}

// Int returns an integer parameter.
func (p Params) Int(name string) (int, bool) {
	switch n := p[name].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// IntOr returns an integer parameter or a default.
func (p Params) IntOr(name string, def int) int {
	if n, ok := p.Int(name); ok {
		return n
	}
	return def
}

// Bool returns a boolean parameter.
func (p Params) Bool(name string) (bool, bool) {
	b, ok := p[name].(bool)
	return b, ok
}

// Pose decodes a pose parameter. Accepted forms: a core.Pose (usually a
// blackboard entry written by an earlier skill) or a mapping with x/y/z
// and optional qx/qy/qz/qw.
func (p Params) Pose(name string) (core.Pose, bool) {
	switch v := p[name].(type) {
	case core.Pose:
		return v, true
	case map[string]any:
		pose := core.IdentityPose()
		get := func(key string) (float64, bool) {
			switch n := v[key].(type) {
			case float64:
				return n, true
			case int:
				return float64(n), true
			}
			return 0, false
		}
		if f, ok := get("x"); ok {
			pose.Position.X = f
		}
		if f, ok := get("y"); ok {
			pose.Position.Y = f
		}
		if f, ok := get("z"); ok {
			pose.Position.Z = f
		}
		qx, okx := get("qx")
		qy, oky := get("qy")
		qz, okz := get("qz")
		qw, okw := get("qw")
		if okx || oky || okz || okw {
			pose.Orientation = core.Quaternion{X: qx, Y: qy, Z: qz, W: qw}.Normalize()
		}
		return pose, true
	}
	return core.Pose{}, false
}
