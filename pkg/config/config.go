// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Praxis run configuration from YAML files and the
// environment.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig               `koanf:"log"`
	Telemetry TelemetryConfig         `koanf:"telemetry"`
	Run       RunConfig               `koanf:"run"`
	Engines   map[string]EngineConfig `koanf:"engines"`
	Library   string                  `koanf:"library"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type RunConfig struct {
	// Tree is the default tree description file for `praxis run`.
	Tree string `koanf:"tree"`
	// MaxTicks bounds the tick loop; exceeding it fails the run.
	MaxTicks int `koanf:"max_ticks"`
	// TickIntervalMS paces the loop; 0 ticks as fast as possible.
	TickIntervalMS int `koanf:"tick_interval_ms"`
}

// EngineConfig selects a concrete engine for one category.
type EngineConfig struct {
	Engine   string         `koanf:"engine"`
	Settings map[string]any `koanf:"settings"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.exporter", "stdout")
	k.Set("run.max_ticks", 10000)
	k.Set("run.tick_interval_ms", 0)

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV. Double underscore separates key segments so
	// keys with underscores stay addressable
	// (PRAXIS_RUN__MAX_TICKS -> run.max_ticks).
	if err := k.Load(env.Provider("PRAXIS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "PRAXIS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
