// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Praxis telemetry. These follow OpenTelemetry
// naming conventions where applicable.
const (
	// Run attributes
	AttrRunID     = "praxis.run.id"
	AttrRunStatus = "praxis.run.status"
	AttrRunTicks  = "praxis.run.ticks"

	// Node attributes
	AttrNodePath   = "praxis.node.path"
	AttrNodeName   = "praxis.node.name"
	AttrNodeKind   = "praxis.node.kind"
	AttrNodeStatus = "praxis.node.status"

	// Skill attributes
	AttrSkillName = "praxis.skill.name"

	// Engine attributes
	AttrEngineCategory = "praxis.engine.category"
	AttrEngineID       = "praxis.engine.id"
	AttrEngineOp       = "praxis.engine.op"
)

// RunAttributes returns the standard attribute set for a run span.
func RunAttributes(runID, status string, ticks int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrRunStatus, status),
		attribute.Int(AttrRunTicks, ticks),
	}
}

// NodeAttributes returns the standard attribute set for a node span.
func NodeAttributes(path, name, kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrNodePath, path),
		attribute.String(AttrNodeName, name),
		attribute.String(AttrNodeKind, kind),
	}
}
