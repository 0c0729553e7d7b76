package world

import (
	"testing"

	"github.com/praxislabs/praxis/pkg/core"
)

func TestPlaceGetRemove(t *testing.T) {
	m := NewModel()
	m.Place(Object{ID: "crate", Pose: core.IdentityPose(), Radius: 0.2})
	obj, ok := m.Get("crate")
	if !ok || obj.Radius != 0.2 {
		t.Fatalf("Get = %#v, %v", obj, ok)
	}
	if !m.Remove("crate") {
		t.Fatalf("Remove must report the object existed")
	}
	if m.Remove("crate") {
		t.Fatalf("second Remove must report absence")
	}
	if m.Len() != 0 {
		t.Fatalf("model not empty after remove")
	}
}

func TestPlaceReplaces(t *testing.T) {
	m := NewModel()
	m.Place(Object{ID: "bin", Radius: 0.1})
	m.Place(Object{ID: "bin", Radius: 0.3})
	if m.Len() != 1 {
		t.Fatalf("replace grew the model")
	}
	obj, _ := m.Get("bin")
	if obj.Radius != 0.3 {
		t.Fatalf("replace kept stale object: %#v", obj)
	}
}

func TestAllSorted(t *testing.T) {
	m := NewModel()
	m.Place(Object{ID: "table"})
	m.Place(Object{ID: "bin"})
	m.Place(Object{ID: "crate"})
	all := m.All()
	if len(all) != 3 || all[0].ID != "bin" || all[1].ID != "crate" || all[2].ID != "table" {
		t.Fatalf("All not sorted by id: %#v", all)
	}
}

func TestBlocking(t *testing.T) {
	m := NewModel()
	m.Place(Object{ID: "crate", Pose: core.Pose{Position: core.Point{X: 1}}, Radius: 0.2})
	if _, blocked := m.Blocking(core.Point{X: 3}, 0.1); blocked {
		t.Fatalf("distant point must not be blocked")
	}
	obj, blocked := m.Blocking(core.Point{X: 1.25}, 0.1)
	if !blocked || obj.ID != "crate" {
		t.Fatalf("expected crate to block, got %#v, %v", obj, blocked)
	}
}
