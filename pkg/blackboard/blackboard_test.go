package blackboard

import (
	"reflect"
	"testing"
)

func TestSetGetRoundtrip(t *testing.T) {
	b := New()
	b.Set("grasp_pose", map[string]float64{"x": 0.4, "y": 0.1})
	v, ok := b.Get("grasp_pose")
	if !ok {
		t.Fatalf("expected entry to exist")
	}
	got, ok := v.(map[string]float64)
	if !ok || got["x"] != 0.4 {
		t.Fatalf("value not returned intact: %#v", v)
	}
}

func TestGetMissing(t *testing.T) {
	b := New()
	v, ok := b.Get("never_written")
	if ok || v != nil {
		t.Fatalf("missing key must report ok=false, got %#v, %v", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	b := New()
	b.Set("count", 1)
	b.Set("count", 2)
	v, _ := b.Get("count")
	if v != 2 {
		t.Fatalf("last writer must win, got %v", v)
	}
	if b.Len() != 1 {
		t.Fatalf("overwrite must not grow the board, len = %d", b.Len())
	}
}

func TestKeysSorted(t *testing.T) {
	b := New()
	b.Set("zeta", 1)
	b.Set("alpha", 2)
	b.Set("mu", 3)
	want := []string{"alpha", "mu", "zeta"}
	if got := b.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	b := New()
	b.Set("a", 1)
	snap := b.Snapshot()
	snap["a"] = 99
	snap["b"] = 2
	if v, _ := b.Get("a"); v != 1 {
		t.Fatalf("snapshot mutation leaked into board: %v", v)
	}
	if b.Len() != 1 {
		t.Fatalf("snapshot mutation grew the board")
	}
}
