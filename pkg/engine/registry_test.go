package engine

import (
	"context"
	"testing"

	"github.com/praxislabs/praxis/pkg/core"
	praxiserrors "github.com/praxislabs/praxis/pkg/errors"
)

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()
	factory := func(id string) Engine { k := &fakeKinematics{}; k.id = id; return k }

	if err := r.Register(CategoryKinematics, "analytic", factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(CategoryKinematics, "analytic", factory); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := r.Register(Category("telepathy"), "x", factory); err == nil {
		t.Fatalf("unknown category must fail")
	}
	if err := r.Register(CategoryKinematics, "", factory); err == nil {
		t.Fatalf("empty name must fail")
	}

	impls := r.Implementations(CategoryKinematics)
	if len(impls) != 1 || impls[0] != "analytic" {
		t.Fatalf("Implementations = %v", impls)
	}
}

func TestAssemble(t *testing.T) {
	r := NewRegistry()
	var built *fakeKinematics
	r.Register(CategoryKinematics, "analytic", func(id string) Engine {
		built = &fakeKinematics{}
		built.id = id
		return built
	})

	group, err := r.Assemble(context.Background(), map[Category]Selection{
		CategoryKinematics: {Impl: "analytic", Settings: map[string]any{"reach": 0.8}},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if built.id != "kinematics/analytic" {
		t.Fatalf("engine id = %q", built.id)
	}
	if built.loaded["reach"] != 0.8 {
		t.Fatalf("settings not passed to Load: %#v", built.loaded)
	}
	if kin, st := group.Kinematics(); !st.Succeeded() || kin == nil {
		t.Fatalf("assembled engine not installed: %v", st)
	}
}

func TestAssembleUnknownImplementation(t *testing.T) {
	r := NewRegistry()
	_, err := r.Assemble(context.Background(), map[Category]Selection{
		CategoryController: {Impl: "ghost"},
	})
	if err == nil {
		t.Fatalf("unknown implementation must fail assembly")
	}
	if pe := praxiserrors.AsPraxisError(err); pe.Code != praxiserrors.CodeUnknownNode {
		t.Fatalf("unexpected code %s", pe.Code)
	}
}

func TestAssembleLoadFailureClosesEngines(t *testing.T) {
	r := NewRegistry()
	var kin *fakeKinematics
	r.Register(CategoryKinematics, "analytic", func(id string) Engine {
		kin = &fakeKinematics{}
		kin.id = id
		return kin
	})
	r.Register(CategoryController, "broken", func(id string) Engine {
		c := &fakeController{}
		c.id = id
		c.loadStatus = core.Fatal(core.ReasonConnectionError, "no hardware")
		return c
	})

	_, err := r.Assemble(context.Background(), map[Category]Selection{
		CategoryKinematics: {Impl: "analytic"},
		CategoryController: {Impl: "broken"},
	})
	if err == nil {
		t.Fatalf("load failure must fail assembly")
	}
	if kin.closed == 0 {
		t.Fatalf("previously loaded engine not closed on failure")
	}
}

func TestAssembleContractViolation(t *testing.T) {
	r := NewRegistry()
	// A kinematics factory registered under the controller category does
	// not satisfy the controller contract.
	r.Register(CategoryController, "wrong", func(id string) Engine {
		k := &fakeKinematics{}
		k.id = id
		return k
	})
	_, err := r.Assemble(context.Background(), map[Category]Selection{
		CategoryController: {Impl: "wrong"},
	})
	if err == nil {
		t.Fatalf("contract violation must fail assembly")
	}
}

func TestAssembleUnknownCategory(t *testing.T) {
	r := NewRegistry()
	_, err := r.Assemble(context.Background(), map[Category]Selection{
		Category("telepathy"): {Impl: "sim"},
	})
	if err == nil {
		t.Fatalf("unknown category in selections must fail assembly")
	}
}
