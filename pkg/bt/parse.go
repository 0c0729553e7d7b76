// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package bt

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/praxislabs/praxis/pkg/errors"
	"github.com/praxislabs/praxis/pkg/skill"
)

// document is the wire schema of a tree description.
type document struct {
	Root struct {
		Name string   `json:"name" yaml:"name"`
		Tree *nodeDoc `json:"tree" yaml:"tree"`
	} `json:"root" yaml:"root"`
}

type nodeDoc struct {
	Type         string         `json:"type" yaml:"type"`
	Name         string         `json:"name" yaml:"name"`
	Skill        string         `json:"skill" yaml:"skill"`
	Params       map[string]any `json:"params" yaml:"params"`
	Children     []*nodeDoc     `json:"children" yaml:"children"`
	SuccessCount int            `json:"success_count" yaml:"success_count"`
	FailureCount int            `json:"failure_count" yaml:"failure_count"`
	Limit        int            `json:"limit" yaml:"limit"`
	BudgetTicks  int            `json:"budget_ticks" yaml:"budget_ticks"`
}

// ParseJSON decodes a JSON tree description and resolves every leaf
// against the skill registry.
func ParseJSON(data []byte, reg *skill.Registry) (*TaskNode, error) {
	if len(data) == 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "empty JSON payload")
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "parse json tree", err)
	}
	return build(&doc, reg)
}

// ParseYAML decodes a YAML tree description and resolves every leaf
// against the skill registry.
func ParseYAML(data []byte, reg *skill.Registry) (*TaskNode, error) {
	if len(data) == 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "empty YAML payload")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "parse yaml tree", err)
	}
	return build(&doc, reg)
}

func build(doc *document, reg *skill.Registry) (*TaskNode, error) {
	if doc.Root.Tree == nil {
		return nil, errors.Newf(errors.CodeInvalidInput, "tree description has no root.tree")
	}
	if reg == nil {
		return nil, errors.Newf(errors.CodeInvalidInput, "skill registry is required")
	}
	return buildNode(doc.Root.Tree, reg, []int{0})
}

func buildNode(d *nodeDoc, reg *skill.Registry, path []int) (*TaskNode, error) {
	kind := Kind(d.Type)
	at := PathString(path)
	switch kind {
	case KindLeaf:
		return buildLeaf(d, reg, at)
	case KindSequence, KindFallback, KindParallel, KindRepeat, KindInvert, KindTimeout:
	default:
		return nil, errors.Newf(errors.CodeUnknownNode, "unknown node type %q at %s", d.Type, at)
	}

	if len(d.Children) == 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "%s node at %s has no children", kind, at)
	}
	node := &TaskNode{Kind: kind, Name: d.Name}
	if node.Name == "" {
		node.Name = string(kind)
	}
	for i, child := range d.Children {
		built, err := buildNode(child, reg, append(append([]int(nil), path...), i))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, built)
	}

	switch kind {
	case KindParallel:
		if err := fillParallel(node, d, at); err != nil {
			return nil, err
		}
	case KindRepeat:
		node.Limit = d.Limit
		if node.Limit == 0 {
			node.Limit = 1
		}
		if node.Limit < 1 {
			return nil, errors.Newf(errors.CodeInvalidInput, "repeat limit at %s must be positive", at)
		}
		if len(node.Children) != 1 {
			return nil, errors.Newf(errors.CodeInvalidInput, "repeat node at %s wraps exactly one child", at)
		}
	case KindInvert:
		if len(node.Children) != 1 {
			return nil, errors.Newf(errors.CodeInvalidInput, "invert node at %s wraps exactly one child", at)
		}
	case KindTimeout:
		if len(node.Children) != 1 {
			return nil, errors.Newf(errors.CodeInvalidInput, "timeout node at %s wraps exactly one child", at)
		}
		node.BudgetTicks = d.BudgetTicks
		if node.BudgetTicks < 1 {
			return nil, errors.Newf(errors.CodeInvalidInput, "timeout node at %s needs a positive budget_ticks", at)
		}
	}
	return node, nil
}

func buildLeaf(d *nodeDoc, reg *skill.Registry, at string) (*TaskNode, error) {
	if d.Skill == "" {
		return nil, errors.Newf(errors.CodeInvalidInput, "leaf at %s is missing a skill name", at)
	}
	if len(d.Children) != 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "leaf %q at %s must not have children", d.Skill, at)
	}
	if _, ok := reg.Resolve(d.Skill); !ok {
		// Unresolved names are a fatal parse error, caught before any tick.
		return nil, errors.Newf(errors.CodeUnknownNode, "skill %q at %s is not registered", d.Skill, at).
			WithContext("registered", reg.Names())
	}
	name := d.Name
	if name == "" {
		name = d.Skill
	}
	return &TaskNode{Kind: KindLeaf, Name: name, Skill: d.Skill, Params: d.Params}, nil
}

func fillParallel(node *TaskNode, d *nodeDoc, at string) error {
	n := len(node.Children)
	node.SuccessCount = d.SuccessCount
	if node.SuccessCount == 0 {
		node.SuccessCount = n
	}
	if node.SuccessCount < 1 || node.SuccessCount > n {
		return errors.Newf(errors.CodeInvalidInput,
			"parallel success_count %d at %s must be in 1..%d", node.SuccessCount, at, n)
	}
	node.FailureCount = d.FailureCount
	if node.FailureCount == 0 {
		// Fail as soon as the success threshold becomes unreachable.
		node.FailureCount = n - node.SuccessCount + 1
	}
	if node.FailureCount < 1 || node.FailureCount > n {
		return errors.Newf(errors.CodeInvalidInput,
			"parallel failure_count %d at %s must be in 1..%d", node.FailureCount, at, n)
	}
	return nil
}
