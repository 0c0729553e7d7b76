// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator owns the top-level run loop: one blackboard and
// one engine group per run, a tick loop driving the tree walk, and the
// final run report.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/bt"
	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/skill"
	"github.com/praxislabs/praxis/pkg/telemetry"
)

// Result is the public outcome of one run.
type Result struct {
	// Status is the root node's terminal verdict, or the abort status.
	Status core.Status
	RunID  string
	Ticks  int

	// LastNode and LastPath identify the deepest node that executed
	// before the terminal condition, for diagnosis.
	LastNode string
	LastPath string

	// Aborted distinguishes "run aborted" (Fatal) from "task failed"
	// (tree logic reached a negative verdict).
	Aborted bool
}

// Options tune one run.
type Options struct {
	// MaxTicks bounds the tick loop; 0 means the default of 10000.
	// Exceeding the bound cancels the walk and fails the run.
	MaxTicks int

	// TickInterval paces the loop; 0 ticks as fast as possible.
	TickInterval time.Duration

	// Defaults are per-skill default parameters from the library
	// manifest.
	Defaults map[string]map[string]any

	// StartNode resumes the tree from the node at this index path
	// (e.g. "0.2"), skipping the completed prefix. Empty starts at
	// the root.
	StartNode string
}

const defaultMaxTicks = 10000

// Orchestrator executes parsed trees against assembled engine groups.
type Orchestrator struct {
	skills  *skill.Registry
	engines *engine.Registry
	metrics *telemetry.RunMetrics
	tracer  trace.Tracer
	log     *slog.Logger
}

// New creates an orchestrator. metrics may be nil.
func New(skills *skill.Registry, engines *engine.Registry, metrics *telemetry.RunMetrics) *Orchestrator {
	return &Orchestrator{
		skills:  skills,
		engines: engines,
		metrics: metrics,
		tracer:  otel.Tracer("praxis/orchestrator"),
		log:     slog.Default(),
	}
}

// Run executes one tree against the selected engines. The blackboard and
// engine group are created here and live exactly as long as the run;
// engines are closed on every exit path. A returned error means the run
// never started (configuration failure); tree verdicts, including Fatal
// aborts, are reported in the Result.
func (o *Orchestrator) Run(ctx context.Context, root *bt.TaskNode, selections map[engine.Category]engine.Selection, opts Options) (Result, error) {
	ctx, runID := core.EnsureRunID(ctx)
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Run", trace.WithAttributes(
		attribute.String(telemetry.AttrRunID, runID),
	))
	defer span.End()

	group, err := o.engines.Assemble(ctx, selections)
	if err != nil {
		o.log.Error("run.assemble.error",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		return Result{RunID: runID, Aborted: true,
			Status: core.Fatal(core.ReasonInvalidInput, "%s", err.Error())}, err
	}
	defer group.Close(ctx)
	group.SetMetrics(o.metrics)

	board := blackboard.New()
	walkOpts := []bt.WalkOption{bt.WithRunID(runID), bt.WithMetrics(o.metrics)}
	if opts.Defaults != nil {
		walkOpts = append(walkOpts, bt.WithDefaults(opts.Defaults))
	}
	if opts.StartNode != "" {
		walkOpts = append(walkOpts, bt.WithStartPath(opts.StartNode))
	}
	if data, st := group.Data(); st.Succeeded() {
		walkOpts = append(walkOpts, bt.WithHook(func(ev engine.Event) {
			if st := data.RecordEvent(ctx, ev); !st.Succeeded() {
				o.log.Warn("run.audit.error",
					slog.String("run_id", runID),
					slog.String("error", st.String()),
				)
			}
		}))
	}
	walk := bt.NewWalk(root, o.skills, board, group, walkOpts...)

	o.log.Info("run.start",
		slog.String("run_id", runID),
		slog.Int("nodes", root.Count()),
	)
	result := o.loop(ctx, walk, runID, opts)
	result.RunID = runID

	span.SetAttributes(telemetry.RunAttributes(runID, result.Status.Flag.String(), result.Ticks)...)
	o.metrics.RecordRun(ctx, result.Status.Flag.String())
	o.log.Info("run.complete",
		slog.String("run_id", runID),
		slog.String("status", result.Status.String()),
		slog.Int("ticks", result.Ticks),
		slog.Bool("aborted", result.Aborted),
		slog.String("last_node", result.LastNode),
	)
	return result, nil
}

func (o *Orchestrator) loop(ctx context.Context, walk *bt.Walk, runID string, opts Options) Result {
	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = defaultMaxTicks
	}

	var ticks int
	for {
		if err := ctx.Err(); err != nil {
			walk.Cancel(ctx)
			return o.report(walk, ticks,
				core.Failed(core.ReasonCancelled, "run context cancelled: %v", err), false)
		}
		if ticks >= maxTicks {
			walk.Cancel(ctx)
			return o.report(walk, ticks,
				core.Failed(core.ReasonTimeout, "tick budget of %d exhausted", maxTicks), false)
		}

		ticks++
		o.metrics.RecordTick(ctx)
		st := walk.Tick(ctx)

		if st.IsFatal() {
			// Fatal aborts immediately regardless of tree structure;
			// cancel releases any engine-held resources.
			walk.Cancel(ctx)
			return o.report(walk, ticks, st, true)
		}
		if st.Terminal() {
			return o.report(walk, ticks, st, false)
		}
		if opts.TickInterval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.TickInterval):
			}
		}
	}
}

func (o *Orchestrator) report(walk *bt.Walk, ticks int, st core.Status, aborted bool) Result {
	name, path := walk.LastNode()
	return Result{
		Status:   st,
		Ticks:    ticks,
		LastNode: name,
		LastPath: path,
		Aborted:  aborted,
	}
}
