// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package bt

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/skill"
	"github.com/praxislabs/praxis/pkg/telemetry"
)

// EventHook receives node lifecycle events during a walk. Used by the
// orchestrator to feed the run audit log.
type EventHook func(ev engine.Event)

// Walk drives one execution of a parsed tree. It owns the per-node
// runtime state (skill runners, child cursors, decorator counters) and
// presents one Tick call to the orchestrator. A single control thread
// must drive it.
type Walk struct {
	root      *TaskNode
	registry  *skill.Registry
	board     *blackboard.Blackboard
	engines   *engine.Group
	defaults  map[string]map[string]any
	hook      EventHook
	runID     string
	metrics   *telemetry.RunMetrics
	startPath string
	tracer    trace.Tracer

	states map[*TaskNode]*nodeState
	done   bool
	result core.Status

	lastNodeName string
	lastNodePath string
}

type nodeState struct {
	done      bool
	status    core.Status
	childIdx  int
	runner    *skill.Runner
	repeats   int
	ticks     int
	startedAt time.Time
}

// WalkOption configures a Walk.
type WalkOption func(*Walk)

// WithDefaults supplies per-skill default parameters from the skill
// library manifest, merged under each leaf's declared parameters.
func WithDefaults(defaults map[string]map[string]any) WalkOption {
	return func(w *Walk) { w.defaults = defaults }
}

// WithHook installs a node lifecycle event hook.
func WithHook(hook EventHook) WalkOption {
	return func(w *Walk) { w.hook = hook }
}

// WithRunID tags emitted events with the run id.
func WithRunID(id string) WalkOption {
	return func(w *Walk) { w.runID = id }
}

// WithMetrics records skill terminal transitions on the given run
// metrics. A nil recorder disables recording.
func WithMetrics(m *telemetry.RunMetrics) WalkOption {
	return func(w *Walk) { w.metrics = m }
}

// WithStartPath resumes execution from the node at the given index path
// (e.g. "0.2.1"). Siblings ordered before the path are marked as
// already completed, so a sequence fast-forwards to the resume point
// instead of re-running the finished prefix. An empty path starts at
// the root as usual; a path that does not address a node in the tree
// makes the first Tick return Fatal.
func WithStartPath(path string) WalkOption {
	return func(w *Walk) { w.startPath = path }
}

// NewWalk prepares a tree execution bound to one blackboard and one
// engine group.
func NewWalk(root *TaskNode, reg *skill.Registry, board *blackboard.Blackboard, group *engine.Group, opts ...WalkOption) *Walk {
	w := &Walk{
		root:     root,
		registry: reg,
		board:    board,
		engines:  group,
		tracer:   otel.Tracer("praxis/bt"),
		states:   make(map[*TaskNode]*nodeState),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.startPath != "" {
		if st := w.seedStart(w.startPath); !st.Succeeded() {
			w.done = true
			w.result = st
		}
	}
	return w
}

// seedStart marks every node ordered before the start path as already
// terminal, so the first Tick resumes at the addressed node.
func (w *Walk) seedStart(path string) core.Status {
	idx, err := parsePath(path)
	if err != nil || len(idx) == 0 || idx[0] != 0 {
		return core.Fatal(core.ReasonInvalidInput, "start path %q is not a node index path", path)
	}
	node := w.root
	for _, i := range idx[1:] {
		if i < 0 || i >= len(node.Children) {
			return core.Fatal(core.ReasonInvalidInput, "start path %q does not address a node", path)
		}
		for j := 0; j < i; j++ {
			w.markCompleted(node, node.Children[j])
		}
		node = node.Children[i]
	}
	return core.Success()
}

// markCompleted seeds a terminal state for a subtree skipped on resume.
// Under a fallback the skipped branch must have failed, otherwise the
// earlier run would not have moved past it.
func (w *Walk) markCompleted(parent, n *TaskNode) {
	st := core.Success()
	if parent.Kind == KindFallback {
		st = core.Failed(core.ReasonProcessFailure, "skipped on resume")
	}
	w.states[n] = &nodeState{done: true, status: st}
}

func parsePath(path string) ([]int, error) {
	parts := strings.Split(path, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Tick advances the tree one cycle. It returns Running until the root
// reaches a terminal state; after that the terminal result is returned
// unchanged and no node is ticked again.
func (w *Walk) Tick(ctx context.Context) core.Status {
	if w.done {
		return w.result
	}
	st := w.tick(ctx, w.root, []int{0})
	if st.Terminal() {
		w.done = true
		w.result = st
	}
	return st
}

// Done reports whether the root reached a terminal state.
func (w *Walk) Done() bool { return w.done }

// Result returns the root's terminal status once Done.
func (w *Walk) Result() core.Status { return w.result }

// LastNode returns the name and index path of the most recently executed
// leaf, for the final run report.
func (w *Walk) LastNode() (name, path string) {
	return w.lastNodeName, w.lastNodePath
}

// Cancel aborts the walk, cancelling every non-terminal skill so
// engine-held resources are released.
func (w *Walk) Cancel(ctx context.Context) {
	w.cancelSubtree(ctx, w.root, []int{0})
	if !w.done {
		w.done = true
		w.result = core.Failed(core.ReasonCancelled, "walk cancelled")
	}
}

func (w *Walk) state(n *TaskNode) *nodeState {
	s, ok := w.states[n]
	if !ok {
		s = &nodeState{status: core.Running()}
		w.states[n] = s
	}
	return s
}

func (w *Walk) tick(ctx context.Context, n *TaskNode, path []int) core.Status {
	s := w.state(n)
	if s.done {
		return s.status
	}
	switch n.Kind {
	case KindLeaf:
		return w.tickLeaf(ctx, n, s, path)
	case KindSequence:
		return w.tickSequence(ctx, n, s, path)
	case KindFallback:
		return w.tickFallback(ctx, n, s, path)
	case KindParallel:
		return w.tickParallel(ctx, n, s, path)
	case KindRepeat:
		return w.tickRepeat(ctx, n, s, path)
	case KindInvert:
		return w.tickInvert(ctx, n, s, path)
	case KindTimeout:
		return w.tickTimeout(ctx, n, s, path)
	default:
		return w.finalize(ctx, n, s, path,
			core.Fatal(core.ReasonUnknownNode, "unhandled node kind %q", n.Kind))
	}
}

func (w *Walk) tickLeaf(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	w.lastNodeName = n.Name
	w.lastNodePath = PathString(path)

	if s.runner == nil {
		st := w.initLeaf(ctx, n, s, path)
		if st.Terminal() {
			return st
		}
	}

	ctx, span := w.tracer.Start(ctx, "bt.leaf.tick", trace.WithAttributes(
		attribute.String(telemetry.AttrNodePath, PathString(path)),
		attribute.String(telemetry.AttrSkillName, n.Skill),
	))
	st := s.runner.Tick(ctx)
	span.SetAttributes(attribute.String(telemetry.AttrNodeStatus, st.Flag.String()))
	span.End()

	if st.Terminal() {
		return w.finalize(ctx, n, s, path, st)
	}
	return st
}

// initLeaf resolves the leaf's parameters against the blackboard and
// runs the skill's one-time setup. Both happen before the first tick;
// an unresolved required parameter terminates the leaf as Fatal without
// the skill ever running.
func (w *Walk) initLeaf(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	ctor, ok := w.registry.Resolve(n.Skill)
	if !ok {
		return w.finalize(ctx, n, s, path,
			core.Fatal(core.ReasonUnknownNode, "skill %q is not registered", n.Skill))
	}

	declared := make(map[string]any)
	for k, v := range w.defaults[n.Skill] {
		declared[k] = v
	}
	for k, v := range n.Params {
		declared[k] = v
	}
	params, st := skill.Resolve(declared, w.board)
	if !st.Succeeded() {
		return w.finalize(ctx, n, s, path, st)
	}

	s.runner = skill.NewRunner(ctor())
	s.startedAt = time.Now()
	w.emit(n, path, "started", "")
	st = s.runner.Init(ctx, skill.Binding{Params: params, Board: w.board, Engines: w.engines})
	if st.Terminal() {
		return w.finalize(ctx, n, s, path, st)
	}
	return core.Running()
}

func (w *Walk) tickSequence(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	for s.childIdx < len(n.Children) {
		child := n.Children[s.childIdx]
		st := w.tick(ctx, child, childPath(path, s.childIdx))
		if !st.Terminal() {
			return st
		}
		if !st.Succeeded() {
			// Failed or Fatal aborts the sequence with the same verdict;
			// later siblings are never started.
			return w.finalize(ctx, n, s, path, st)
		}
		s.childIdx++
	}
	return w.finalize(ctx, n, s, path, core.Success())
}

func (w *Walk) tickFallback(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	var last core.Status
	for s.childIdx < len(n.Children) {
		child := n.Children[s.childIdx]
		st := w.tick(ctx, child, childPath(path, s.childIdx))
		if !st.Terminal() {
			return st
		}
		if st.Succeeded() {
			return w.finalize(ctx, n, s, path, st)
		}
		if st.IsFatal() {
			return w.finalize(ctx, n, s, path, st)
		}
		last = st
		s.childIdx++
	}
	return w.finalize(ctx, n, s, path, last)
}

func (w *Walk) tickParallel(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	// Cooperative concurrency: every non-terminal child advances one
	// step per cycle.
	for i, child := range n.Children {
		if w.state(child).done {
			continue
		}
		st := w.tick(ctx, child, childPath(path, i))
		if st.IsFatal() {
			w.cancelChildren(ctx, n, path)
			return w.finalize(ctx, n, s, path, st)
		}
	}

	succeeded, failed := 0, 0
	for _, child := range n.Children {
		cs := w.state(child)
		if !cs.done {
			continue
		}
		if cs.status.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}

	// Failure threshold checked first as the conservative tie-break.
	if failed >= n.FailureCount {
		w.cancelChildren(ctx, n, path)
		return w.finalize(ctx, n, s, path, core.Failed(core.ReasonProcessFailure,
			"%d of %d children failed", failed, len(n.Children)))
	}
	if succeeded >= n.SuccessCount {
		w.cancelChildren(ctx, n, path)
		return w.finalize(ctx, n, s, path, core.Success())
	}
	return core.Running()
}

func (w *Walk) tickRepeat(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	child := n.Children[0]
	st := w.tick(ctx, child, childPath(path, 0))
	if !st.Terminal() {
		return st
	}
	if st.IsFatal() {
		return w.finalize(ctx, n, s, path, st)
	}
	s.repeats++
	if s.repeats >= n.Limit {
		return w.finalize(ctx, n, s, path, st)
	}
	// Re-initialize the child for the next round.
	w.resetSubtree(child)
	return core.Running()
}

func (w *Walk) tickInvert(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	st := w.tick(ctx, n.Children[0], childPath(path, 0))
	switch st.Flag {
	case core.FlagRunning:
		return st
	case core.FlagSuccess:
		return w.finalize(ctx, n, s, path, core.Failed(core.ReasonProcessFailure, "child succeeded under invert"))
	case core.FlagFailed:
		return w.finalize(ctx, n, s, path, core.Success())
	default:
		return w.finalize(ctx, n, s, path, st)
	}
}

func (w *Walk) tickTimeout(ctx context.Context, n *TaskNode, s *nodeState, path []int) core.Status {
	s.ticks++
	child := n.Children[0]
	st := w.tick(ctx, child, childPath(path, 0))
	if st.Terminal() {
		return w.finalize(ctx, n, s, path, st)
	}
	if s.ticks >= n.BudgetTicks {
		w.cancelSubtree(ctx, child, childPath(path, 0))
		return w.finalize(ctx, n, s, path, core.Failed(core.ReasonTimeout,
			"child did not terminate within %d ticks", n.BudgetTicks))
	}
	return core.Running()
}

// finalize records a node's terminal status. The origin keeps the
// deepest producer, so control nodes only tag themselves when the status
// came from their own policy.
func (w *Walk) finalize(ctx context.Context, n *TaskNode, s *nodeState, path []int, st core.Status) core.Status {
	st = st.WithOrigin(n.Name + "@" + PathString(path))
	s.done = true
	s.status = st
	if n.Leaf() {
		w.emit(n, path, phaseFor(st), st.Message)
		w.recordSkill(ctx, n, s, st)
	}
	return st
}

// recordSkill reports a skill's terminal transition on the run metrics.
// Leaves that never reached Init (unknown skill, unresolved parameter)
// are not timed.
func (w *Walk) recordSkill(ctx context.Context, n *TaskNode, s *nodeState, st core.Status) {
	if s.startedAt.IsZero() {
		return
	}
	elapsed := float64(time.Since(s.startedAt)) / float64(time.Millisecond)
	w.metrics.RecordSkill(ctx, n.Skill, st.Flag.String(), elapsed)
}

func (w *Walk) cancelChildren(ctx context.Context, n *TaskNode, path []int) {
	for i, child := range n.Children {
		w.cancelSubtree(ctx, child, childPath(path, i))
	}
}

// cancelSubtree transitions every non-terminal node under n to a
// terminal aborted state. Leaf skills get their Cancel hook first so an
// in-flight engine operation is released before the node is discarded.
func (w *Walk) cancelSubtree(ctx context.Context, n *TaskNode, path []int) {
	s := w.state(n)
	if s.done {
		return
	}
	for i, child := range n.Children {
		w.cancelSubtree(ctx, child, childPath(path, i))
	}
	if n.Leaf() && s.runner != nil {
		s.runner.CancelRun(ctx)
		s.done = true
		s.status = s.runner.Status()
		w.emit(n, path, "cancelled", "")
		w.recordSkill(ctx, n, s, s.status)
		return
	}
	if n.Leaf() && s.runner == nil {
		// Never started; nothing to release.
		return
	}
	s.done = true
	s.status = core.Failed(core.ReasonCancelled, "cancelled by parent")
}

// resetSubtree clears runtime state under n so a repeat decorator can
// re-initialize the child after a terminal result.
func (w *Walk) resetSubtree(n *TaskNode) {
	delete(w.states, n)
	for _, child := range n.Children {
		w.resetSubtree(child)
	}
}

func (w *Walk) emit(n *TaskNode, path []int, phase, message string) {
	if w.hook == nil {
		return
	}
	w.hook(engine.Event{
		RunID:    w.runID,
		NodePath: PathString(path),
		Node:     n.Name,
		Phase:    phase,
		Message:  message,
	})
}

func phaseFor(st core.Status) string {
	switch st.Flag {
	case core.FlagSuccess:
		return "succeeded"
	case core.FlagFatal:
		return "fatal"
	default:
		return "failed"
	}
}

func childPath(path []int, idx int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = idx
	return out
}
