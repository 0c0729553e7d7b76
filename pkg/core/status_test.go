package core

import "testing"

func TestStatusFlagTerminal(t *testing.T) {
	if FlagRunning.Terminal() {
		t.Fatalf("running must not be terminal")
	}
	for _, f := range []StatusFlag{FlagSuccess, FlagFailed, FlagFatal} {
		if !f.Terminal() {
			t.Fatalf("%s must be terminal", f)
		}
	}
}

func TestStatusConstructors(t *testing.T) {
	if st := Success(); !st.Succeeded() || st.IsFatal() {
		t.Fatalf("unexpected success status: %v", st)
	}
	if st := Running(); st.Terminal() {
		t.Fatalf("running must not be terminal")
	}
	st := Failed(ReasonNotFound, "no object %q", "crate")
	if st.Flag != FlagFailed || st.Reason != ReasonNotFound {
		t.Fatalf("unexpected failed status: %v", st)
	}
	if st.Message != `no object "crate"` {
		t.Fatalf("message not formatted: %q", st.Message)
	}
	st = Fatal(ReasonEmergencyStop, "stop")
	if !st.IsFatal() || !st.Terminal() {
		t.Fatalf("fatal must be terminal and fatal: %v", st)
	}
}

func TestStatusOriginDeepestWins(t *testing.T) {
	st := Failed(ReasonProcessFailure, "grasp slipped").WithOrigin("grasp@0.1.2")
	st = st.WithOrigin("sequence@0.1")
	st = st.WithOrigin("root@0")
	if st.Origin != "grasp@0.1.2" {
		t.Fatalf("expected deepest origin kept, got %q", st.Origin)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		st   Status
		want string
	}{
		{Success(), "success"},
		{Running(), "running"},
		{Failed(ReasonTimeout, "budget exhausted"), "failed/timeout: budget exhausted"},
		{Fatal(ReasonMissingEngine, "no controller").WithOrigin("move@0.0"), "fatal/missing_engine: no controller (move@0.0)"},
	}
	for _, tt := range tests {
		if got := tt.st.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFlagStringUnknown(t *testing.T) {
	if got := StatusFlag(7).String(); got != "unknown(7)" {
		t.Fatalf("unexpected rendering %q", got)
	}
}
