// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics tracks run outcomes, tick throughput, and skill/engine
// activity for production monitoring.
type RunMetrics struct {
	runCounter        metric.Int64Counter
	tickCounter       metric.Int64Counter
	skillDuration     metric.Float64Histogram
	engineCallCounter metric.Int64Counter
}

// NewRunMetrics creates a run metrics tracker with OTEL meters.
func NewRunMetrics() (*RunMetrics, error) {
	meter := otel.Meter("praxis/orchestrator")

	runCounter, err := meter.Int64Counter(
		"praxis.runs.total",
		metric.WithDescription("Completed runs by final status"),
	)
	if err != nil {
		return nil, err
	}

	tickCounter, err := meter.Int64Counter(
		"praxis.ticks.total",
		metric.WithDescription("Orchestrator tick cycles executed"),
	)
	if err != nil {
		return nil, err
	}

	skillDuration, err := meter.Float64Histogram(
		"praxis.skill.duration_ms",
		metric.WithDescription("Wall time from skill init to terminal status"),
	)
	if err != nil {
		return nil, err
	}

	engineCallCounter, err := meter.Int64Counter(
		"praxis.engine.calls.total",
		metric.WithDescription("Engine calls by category and status"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		runCounter:        runCounter,
		tickCounter:       tickCounter,
		skillDuration:     skillDuration,
		engineCallCounter: engineCallCounter,
	}, nil
}

// RecordRun records a completed run and its final status.
func (m *RunMetrics) RecordRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.runCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRunStatus, status),
	))
}

// RecordTick records one orchestrator tick cycle.
func (m *RunMetrics) RecordTick(ctx context.Context) {
	if m == nil {
		return
	}
	m.tickCounter.Add(ctx, 1)
}

// RecordSkill records a skill reaching a terminal state.
func (m *RunMetrics) RecordSkill(ctx context.Context, name, status string, durationMs float64) {
	if m == nil {
		return
	}
	m.skillDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String(AttrSkillName, name),
		attribute.String(AttrNodeStatus, status),
	))
}

// RecordEngineCall records a dispatched engine call.
func (m *RunMetrics) RecordEngineCall(ctx context.Context, category, op, status string) {
	if m == nil {
		return
	}
	m.engineCallCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrEngineCategory, category),
		attribute.String(AttrEngineOp, op),
		attribute.String(AttrNodeStatus, status),
	))
}
