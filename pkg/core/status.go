// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package core holds the value types shared by every Praxis component:
// execution statuses, geometry primitives, and run-scoped context helpers.
package core

import "fmt"

// StatusFlag is the coarse verdict of a node, skill, or engine call.
type StatusFlag int

const (
	// FlagRunning means the operation has not terminated yet and must be
	// ticked again.
	FlagRunning StatusFlag = 0

	// FlagSuccess is a successful terminal verdict.
	FlagSuccess StatusFlag = 1

	// FlagFailed is an expected negative verdict, recoverable by tree logic.
	FlagFailed StatusFlag = -1

	// FlagFatal is an unrecoverable verdict that aborts the whole run.
	FlagFatal StatusFlag = -2
)

// String returns the canonical lower-case name of the flag.
func (f StatusFlag) String() string {
	switch f {
	case FlagRunning:
		return "running"
	case FlagSuccess:
		return "success"
	case FlagFailed:
		return "failed"
	case FlagFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Terminal reports whether the flag ends execution of its producer.
func (f StatusFlag) Terminal() bool {
	return f != FlagRunning
}

// StatusReason refines a status for diagnosis and error taxonomy.
type StatusReason string

const (
	ReasonNone                  StatusReason = ""
	ReasonSuccessfulTermination StatusReason = "successful_termination"
	ReasonProcessFailure        StatusReason = "process_failure"
	ReasonMissingEngine         StatusReason = "missing_engine"
	ReasonUnresolvedParameter   StatusReason = "unresolved_parameter"
	ReasonUnknownNode           StatusReason = "unknown_node"
	ReasonEmergencyStop         StatusReason = "emergency_stop"
	ReasonConnectionError       StatusReason = "connection_error"
	ReasonNotFound              StatusReason = "not_found"
	ReasonTimeout               StatusReason = "timeout"
	ReasonCancelled             StatusReason = "cancelled"
	ReasonInvalidInput          StatusReason = "invalid_input"
	ReasonOutOfReach            StatusReason = "out_of_reach"
	ReasonBusy                  StatusReason = "busy"
)

// Status is the uniform result of one tick, engine call, or whole run.
// Once a producer reports a terminal Status it must not be ticked again.
type Status struct {
	Flag    StatusFlag
	Reason  StatusReason
	Message string

	// Origin names the component that produced the status, e.g. a node
	// path or an engine id. Used for the final run report.
	Origin string
}

// Success returns a plain successful status.
func Success() Status {
	return Status{Flag: FlagSuccess}
}

// Running returns a non-terminal status.
func Running() Status {
	return Status{Flag: FlagRunning}
}

// Failed returns an expected, tree-recoverable negative status.
func Failed(reason StatusReason, format string, args ...any) Status {
	return Status{Flag: FlagFailed, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Fatal returns an unrecoverable status that aborts the run.
func Fatal(reason StatusReason, format string, args ...any) Status {
	return Status{Flag: FlagFatal, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Terminal reports whether the status ends execution of its producer.
func (s Status) Terminal() bool {
	return s.Flag.Terminal()
}

// Succeeded reports a successful terminal status.
func (s Status) Succeeded() bool {
	return s.Flag == FlagSuccess
}

// IsFatal reports an unrecoverable terminal status.
func (s Status) IsFatal() bool {
	return s.Flag == FlagFatal
}

// WithOrigin returns a copy of the status tagged with the producing
// component. An existing origin is kept: the deepest producer wins.
func (s Status) WithOrigin(origin string) Status {
	if s.Origin == "" {
		s.Origin = origin
	}
	return s
}

// String renders the status for logs and run reports.
func (s Status) String() string {
	out := s.Flag.String()
	if s.Reason != ReasonNone {
		out += "/" + string(s.Reason)
	}
	if s.Message != "" {
		out += ": " + s.Message
	}
	if s.Origin != "" {
		out += " (" + s.Origin + ")"
	}
	return out
}
