package sim

import (
	"context"
	"testing"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/world"
)

func loaded(t *testing.T, settings map[string]any) *Engine {
	t.Helper()
	e := New("simulation/sim")
	if st := e.Load(context.Background(), settings); !st.Succeeded() {
		t.Fatalf("load: %v", st)
	}
	return e
}

func TestMotionCompletesAfterTicks(t *testing.T) {
	e := loaded(t, map[string]any{"motion_ticks": 2})
	ctx := context.Background()

	joints := engine.JointState{Names: []string{"yaw"}, Positions: []float64{0.5}}
	if st := e.Execute(ctx, engine.Command{Kind: engine.KindMotion, Joints: joints}); !st.Succeeded() {
		t.Fatalf("execute: %v", st)
	}
	if st := e.Update(ctx); st.Terminal() {
		t.Fatalf("first update must still be running: %v", st)
	}
	if st := e.Update(ctx); !st.Succeeded() {
		t.Fatalf("second update must complete the motion: %v", st)
	}

	state, _ := e.State(ctx)
	if state.Moving {
		t.Fatalf("state still moving after completion")
	}
	if len(state.Joints.Positions) != 1 || state.Joints.Positions[0] != 0.5 {
		t.Fatalf("joint target not applied: %#v", state.Joints)
	}
}

func TestBusyRejectsSecondCommand(t *testing.T) {
	e := loaded(t, nil)
	ctx := context.Background()
	e.Execute(ctx, engine.Command{Kind: engine.KindMotion})
	st := e.Execute(ctx, engine.Command{Kind: engine.KindGripper, Gripper: 0})
	if st.Flag != core.FlagFailed || st.Reason != core.ReasonBusy {
		t.Fatalf("second command must fail busy, got %v", st)
	}
}

func TestHaltClearsInflight(t *testing.T) {
	e := loaded(t, nil)
	ctx := context.Background()
	e.Execute(ctx, engine.Command{Kind: engine.KindMotion})
	if st := e.Execute(ctx, engine.Command{Kind: engine.KindHalt}); !st.Succeeded() {
		t.Fatalf("halt: %v", st)
	}
	// The controller is idle again: a new command is accepted and the
	// stop is not latched.
	if st := e.Execute(ctx, engine.Command{Kind: engine.KindGripper, Gripper: 0.2}); !st.Succeeded() {
		t.Fatalf("command after halt: %v", st)
	}
}

func TestGripperContact(t *testing.T) {
	e := loaded(t, nil)
	ctx := context.Background()
	e.Execute(ctx, engine.Command{Kind: engine.KindGripper, Gripper: 0})
	if st := e.Update(ctx); !st.Succeeded() {
		t.Fatalf("gripper must settle in one tick: %v", st)
	}
	state, _ := e.State(ctx)
	if !state.Contact || state.Gripper != 0 {
		t.Fatalf("closed gripper state = %#v", state)
	}

	e.Execute(ctx, engine.Command{Kind: engine.KindGripper, Gripper: 1})
	e.Update(ctx)
	state, _ = e.State(ctx)
	if state.Contact {
		t.Fatalf("open gripper still reports contact")
	}
}

func TestEmergencyStopLatches(t *testing.T) {
	e := loaded(t, nil)
	ctx := context.Background()
	e.Execute(ctx, engine.Command{Kind: engine.KindMotion})
	if st := e.EmergencyStop(ctx); !st.Succeeded() {
		t.Fatalf("emergency stop: %v", st)
	}
	state, _ := e.State(ctx)
	if !state.Stopped || state.Moving {
		t.Fatalf("stop not reflected in state: %#v", state)
	}
	if st := e.Execute(ctx, engine.Command{Kind: engine.KindMotion}); !st.IsFatal() {
		t.Fatalf("execute after stop must be fatal, got %v", st)
	}
	if st := e.Update(ctx); !st.IsFatal() || st.Reason != core.ReasonEmergencyStop {
		t.Fatalf("update after stop must be fatal, got %v", st)
	}
}

func TestWorldObjects(t *testing.T) {
	e := loaded(t, map[string]any{"objects": []any{
		map[string]any{"id": "crate", "x": 0.4, "y": 0.1, "radius": 0.2},
	}})
	ctx := context.Background()

	obj, st := e.Object(ctx, "crate")
	if !st.Succeeded() || obj.Pose.Position.X != 0.4 {
		t.Fatalf("seeded object = %#v, %v", obj, st)
	}
	if st := e.PlaceObject(ctx, world.Object{ID: "bin", Radius: 0.3}); !st.Succeeded() {
		t.Fatalf("place: %v", st)
	}
	all, _ := e.Objects(ctx)
	if len(all) != 2 || all[0].ID != "bin" {
		t.Fatalf("Objects = %#v", all)
	}
	if st := e.RemoveObject(ctx, "crate"); !st.Succeeded() {
		t.Fatalf("remove: %v", st)
	}
	if st := e.RemoveObject(ctx, "crate"); st.Reason != core.ReasonNotFound {
		t.Fatalf("second remove = %v", st)
	}
	if st := e.PlaceObject(ctx, world.Object{}); st.Succeeded() {
		t.Fatalf("object without id accepted")
	}
}

func TestLoadValidation(t *testing.T) {
	e := New("simulation/sim")
	if st := e.Load(context.Background(), map[string]any{"motion_ticks": 0}); !st.IsFatal() {
		t.Fatalf("zero motion_ticks accepted: %v", st)
	}
	e = New("simulation/sim")
	if st := e.Load(context.Background(), map[string]any{"objects": "crate"}); !st.IsFatal() {
		t.Fatalf("non-list objects accepted: %v", st)
	}
}

func TestRegisterCoversThreeCategories(t *testing.T) {
	r := engine.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, c := range []engine.Category{
		engine.CategorySimulation, engine.CategoryController, engine.CategoryWorld,
	} {
		impls := r.Implementations(c)
		if len(impls) != 1 || impls[0] != Name {
			t.Fatalf("category %s implementations = %v", c, impls)
		}
	}
}
