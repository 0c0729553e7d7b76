// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package bt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/praxislabs/praxis/pkg/errors"
	"github.com/praxislabs/praxis/pkg/skill"
)

// LoadFile loads a tree description from a YAML or JSON file, sniffing
// the format when the extension is neither.
func LoadFile(path string, reg *skill.Registry) (*TaskNode, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Newf(errors.CodeInvalidInput, "tree path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "read tree file", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data, reg)
	case ".yaml", ".yml":
		return ParseYAML(data, reg)
	default:
		return parseAuto(data, reg)
	}
}

func parseAuto(data []byte, reg *skill.Registry) (*TaskNode, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return ParseJSON(data, reg)
	}
	node, yamlErr := ParseYAML(data, reg)
	if yamlErr == nil {
		return node, nil
	}
	if node, err := ParseJSON(data, reg); err == nil {
		return node, nil
	}
	return nil, yamlErr
}
