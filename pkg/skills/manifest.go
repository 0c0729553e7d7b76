// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the skill library description: per-skill default
// parameters merged under every leaf's declared parameters. Robots with
// custom skill tuning ship their own manifest file.
type Manifest struct {
	Skills map[string]map[string]any `yaml:"skills"`
}

// LoadManifest parses a YAML library manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse library manifest: %w", err)
	}
	return &m, nil
}

// Defaults returns the per-skill default parameters, nil when the
// manifest is empty.
func (m *Manifest) Defaults() map[string]map[string]any {
	if m == nil {
		return nil
	}
	return m.Skills
}
