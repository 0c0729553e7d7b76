// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package bt implements the behavior-tree decoder: parsing a tree
// description into task nodes, resolving leaves against the skill
// registry, and walking the tree tick by tick with sequence, fallback,
// parallel, and decorator semantics.
package bt

import (
	"strconv"
	"strings"
)

// Kind is the control-node kind or the leaf marker of a task node.
type Kind string

const (
	KindSequence Kind = "sequence"
	KindFallback Kind = "fallback"
	KindParallel Kind = "parallel"
	KindRepeat   Kind = "repeat"
	KindInvert   Kind = "invert"
	KindTimeout  Kind = "timeout"
	KindLeaf     Kind = "node"
)

// TaskNode is one node of the parsed tree. Owned by the decoder for the
// lifetime of one run and immutable once parsed.
type TaskNode struct {
	Kind     Kind
	Name     string
	Children []*TaskNode

	// Leaf only: the registered skill name and its declared parameters.
	// Parameter values are literals or blackboard references resolved at
	// the leaf's first visit.
	Skill  string
	Params map[string]any

	// Parallel only: terminate with Success once SuccessCount children
	// succeeded, with Failed once FailureCount children failed.
	SuccessCount int
	FailureCount int

	// Repeat only: total number of child runs.
	Limit int

	// Timeout only: tick budget before the child is cancelled.
	BudgetTicks int
}

// Leaf reports whether the node is a skill leaf.
func (n *TaskNode) Leaf() bool {
	return n.Kind == KindLeaf
}

// Count returns the number of nodes in the subtree including n.
func (n *TaskNode) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// PathString renders a node index path like [0 1 2] as "0.1.2".
func PathString(path []int) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}
