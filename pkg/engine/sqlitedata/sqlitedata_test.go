package sqlitedata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
)

func loaded(t *testing.T) *Engine {
	t.Helper()
	e := New("data/sqlite")
	if st := e.Load(context.Background(), nil); !st.Succeeded() {
		t.Fatalf("load: %v", st)
	}
	t.Cleanup(func() { e.Close(context.Background()) })
	return e
}

func TestSaveFetchRoundtrip(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	doc := map[string]any{"x": 0.4, "label": "crate"}
	if st := e.Save(ctx, "grasp_pose", doc); !st.Succeeded() {
		t.Fatalf("save: %v", st)
	}
	got, st := e.Fetch(ctx, "grasp_pose")
	if !st.Succeeded() {
		t.Fatalf("fetch: %v", st)
	}
	m, ok := got.(map[string]any)
	if !ok || m["x"] != 0.4 || m["label"] != "crate" {
		t.Fatalf("fetched document = %#v", got)
	}

	// Upsert keeps one row per key.
	if st := e.Save(ctx, "grasp_pose", "replaced"); !st.Succeeded() {
		t.Fatalf("upsert: %v", st)
	}
	got, _ = e.Fetch(ctx, "grasp_pose")
	if got != "replaced" {
		t.Fatalf("upsert did not replace: %#v", got)
	}
}

func TestFetchMissing(t *testing.T) {
	e := loaded(t)
	_, st := e.Fetch(context.Background(), "never_saved")
	if st.Flag != core.FlagFailed || st.Reason != core.ReasonNotFound {
		t.Fatalf("missing key = %v", st)
	}
}

func TestEventsPerRun(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	for _, ev := range []engine.Event{
		{RunID: "run-a", NodePath: "0.0", Node: "grasp", Phase: "started"},
		{RunID: "run-a", NodePath: "0.0", Node: "grasp", Phase: "succeeded"},
		{RunID: "run-b", NodePath: "0", Node: "noop", Phase: "started"},
	} {
		if st := e.RecordEvent(ctx, ev); !st.Succeeded() {
			t.Fatalf("record: %v", st)
		}
	}

	events, st := e.Events(ctx, "run-a")
	if !st.Succeeded() {
		t.Fatalf("events: %v", st)
	}
	if len(events) != 2 {
		t.Fatalf("run-a events = %d, want 2", len(events))
	}
	if events[0].Phase != "started" || events[1].Phase != "succeeded" {
		t.Fatalf("events out of order: %#v", events)
	}
	if events[0].At.IsZero() {
		t.Fatalf("timestamp not filled in")
	}
}

func TestFileBackedPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praxis.db")
	ctx := context.Background()

	e := New("data/sqlite")
	if st := e.Load(ctx, map[string]any{"path": path}); !st.Succeeded() {
		t.Fatalf("load: %v", st)
	}
	e.Save(ctx, "count", 3)
	if st := e.Close(ctx); !st.Succeeded() {
		t.Fatalf("close: %v", st)
	}

	// Reopening the same file sees the document.
	e = New("data/sqlite")
	if st := e.Load(ctx, map[string]any{"path": path}); !st.Succeeded() {
		t.Fatalf("reload: %v", st)
	}
	defer e.Close(ctx)
	got, st := e.Fetch(ctx, "count")
	if !st.Succeeded() || got != float64(3) {
		t.Fatalf("persisted document = %#v, %v", got, st)
	}
}

func TestUnloadedEngine(t *testing.T) {
	e := New("data/sqlite")
	if st := e.Save(context.Background(), "k", 1); !st.IsFatal() {
		t.Fatalf("unloaded save = %v", st)
	}
}
