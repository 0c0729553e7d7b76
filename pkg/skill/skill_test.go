package skill

import (
	"context"
	"testing"

	"github.com/praxislabs/praxis/pkg/blackboard"
	"github.com/praxislabs/praxis/pkg/core"
)

// scripted is a test skill that returns a fixed init status and then a
// scripted sequence of tick statuses, counting every call.
type scripted struct {
	name       string
	initStatus core.Status
	ticks      []core.Status
	initCalls  int
	tickCalls  int
	cancels    int
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Init(context.Context, Binding) core.Status {
	s.initCalls++
	return s.initStatus
}

func (s *scripted) Tick(context.Context) core.Status {
	idx := s.tickCalls
	s.tickCalls++
	if idx >= len(s.ticks) {
		idx = len(s.ticks) - 1
	}
	return s.ticks[idx]
}

func (s *scripted) Cancel(context.Context) { s.cancels++ }

func TestRunnerLifecycle(t *testing.T) {
	sk := &scripted{
		name:       "scan",
		initStatus: core.Success(),
		ticks:      []core.Status{core.Running(), core.Running(), core.Success()},
	}
	r := NewRunner(sk)
	ctx := context.Background()

	if r.State() != StateCreated {
		t.Fatalf("fresh runner state = %s", r.State())
	}
	if st := r.Init(ctx, Binding{}); st.Terminal() {
		t.Fatalf("init returned terminal status %v", st)
	}
	if r.State() != StateInitialized {
		t.Fatalf("state after init = %s", r.State())
	}

	if st := r.Tick(ctx); st.Terminal() {
		t.Fatalf("first tick terminal: %v", st)
	}
	if r.State() != StateRunning {
		t.Fatalf("state after first tick = %s", r.State())
	}
	r.Tick(ctx)
	st := r.Tick(ctx)
	if !st.Succeeded() || r.State() != StateSucceeded {
		t.Fatalf("expected success, got %v in state %s", st, r.State())
	}
	if sk.tickCalls != 3 {
		t.Fatalf("skill ticked %d times, want 3", sk.tickCalls)
	}
}

func TestRunnerTickBeforeInit(t *testing.T) {
	r := NewRunner(&scripted{name: "scan", ticks: []core.Status{core.Success()}})
	st := r.Tick(context.Background())
	if !st.IsFatal() || st.Reason != core.ReasonProcessFailure {
		t.Fatalf("tick before init must be fatal, got %v", st)
	}
}

func TestRunnerTerminalTickRejected(t *testing.T) {
	sk := &scripted{name: "scan", initStatus: core.Success(),
		ticks: []core.Status{core.Failed(core.ReasonNotFound, "gone")}}
	r := NewRunner(sk)
	ctx := context.Background()
	r.Init(ctx, Binding{})
	first := r.Tick(ctx)
	if first.Flag != core.FlagFailed {
		t.Fatalf("expected failure, got %v", first)
	}
	// Further ticks return the stored verdict without running the skill.
	again := r.Tick(ctx)
	if again != first {
		t.Fatalf("terminal verdict changed: %v != %v", again, first)
	}
	if sk.tickCalls != 1 {
		t.Fatalf("terminal runner ticked the skill again (%d calls)", sk.tickCalls)
	}
}

func TestRunnerInitFatalVsFailed(t *testing.T) {
	fatal := NewRunner(&scripted{name: "scan",
		initStatus: core.Fatal(core.ReasonMissingEngine, "no controller")})
	st := fatal.Init(context.Background(), Binding{})
	if !st.IsFatal() || fatal.State() != StateFatal {
		t.Fatalf("fatal init downgraded: %v in state %s", st, fatal.State())
	}
	if st.Origin != "scan" {
		t.Fatalf("init status missing origin: %q", st.Origin)
	}

	failed := NewRunner(&scripted{name: "scan",
		initStatus: core.Failed(core.ReasonNotFound, "no grasp pose")})
	st = failed.Init(context.Background(), Binding{})
	if st.Flag != core.FlagFailed || failed.State() != StateFailed {
		t.Fatalf("failed init mishandled: %v in state %s", st, failed.State())
	}
}

func TestRunnerDoubleInit(t *testing.T) {
	r := NewRunner(&scripted{name: "scan", initStatus: core.Success(),
		ticks: []core.Status{core.Running()}})
	ctx := context.Background()
	r.Init(ctx, Binding{})
	if st := r.Init(ctx, Binding{}); !st.IsFatal() {
		t.Fatalf("second init must be fatal, got %v", st)
	}
}

func TestRunnerCancel(t *testing.T) {
	sk := &scripted{name: "scan", initStatus: core.Success(),
		ticks: []core.Status{core.Running()}}
	r := NewRunner(sk)
	ctx := context.Background()
	r.Init(ctx, Binding{})
	r.Tick(ctx)

	r.CancelRun(ctx)
	if sk.cancels != 1 {
		t.Fatalf("cancel hook called %d times, want 1", sk.cancels)
	}
	if r.State() != StateFailed {
		t.Fatalf("cancelled runner state = %s", r.State())
	}
	if st := r.Status(); st.Reason != core.ReasonCancelled {
		t.Fatalf("cancelled status = %v", st)
	}

	// Cancelling again, or cancelling a terminal runner, is a no-op.
	r.CancelRun(ctx)
	if sk.cancels != 1 {
		t.Fatalf("terminal cancel reached the skill")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("scan", func() Skill { return &scripted{name: "scan"} }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("scan", func() Skill { return &scripted{name: "scan"} }); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := reg.Register("", nil); err == nil {
		t.Fatalf("empty registration must fail")
	}
	if _, ok := reg.Resolve("scan"); !ok {
		t.Fatalf("registered skill did not resolve")
	}
	if _, ok := reg.Resolve("ghost"); ok {
		t.Fatalf("unregistered skill resolved")
	}
}

func TestNoop(t *testing.T) {
	r := NewRunner(NewNoop())
	ctx := context.Background()
	if st := r.Init(ctx, Binding{Board: blackboard.New()}); st.Terminal() {
		t.Fatalf("noop init: %v", st)
	}
	st := r.Tick(ctx)
	if !st.Succeeded() || st.Reason != core.ReasonSuccessfulTermination {
		t.Fatalf("noop tick: %v", st)
	}
}
