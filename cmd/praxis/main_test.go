package main

import (
	"testing"

	"github.com/praxislabs/praxis/pkg/config"
	"github.com/praxislabs/praxis/pkg/engine"
)

func TestBuildRegistries(t *testing.T) {
	skillReg, engineReg, err := buildRegistries()
	if err != nil {
		t.Fatalf("build registries: %v", err)
	}
	if _, ok := skillReg.Resolve("move"); !ok {
		t.Fatalf("default skill library not registered: %v", skillReg.Names())
	}
	if impls := engineReg.Implementations(engine.CategorySimulation); len(impls) != 1 {
		t.Fatalf("simulation implementations = %v", impls)
	}
	if impls := engineReg.Implementations(engine.CategoryData); len(impls) != 2 {
		t.Fatalf("data implementations = %v", impls)
	}
}

func TestEngineSelections(t *testing.T) {
	cfg := &config.Config{Engines: map[string]config.EngineConfig{
		"simulation": {Engine: "sim", Settings: map[string]any{"motion_ticks": 2}},
		"data":       {Engine: "memory"},
	}}
	selections, err := engineSelections(cfg)
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	if selections[engine.CategorySimulation].Impl != "sim" {
		t.Fatalf("selections = %#v", selections)
	}
	if selections[engine.CategoryData].Impl != "memory" {
		t.Fatalf("selections = %#v", selections)
	}

	bad := &config.Config{Engines: map[string]config.EngineConfig{
		"telepathy": {Engine: "sim"},
	}}
	if _, err := engineSelections(bad); err == nil {
		t.Fatalf("unknown category accepted")
	}

	empty := &config.Config{Engines: map[string]config.EngineConfig{
		"controller": {},
	}}
	if _, err := engineSelections(empty); err == nil {
		t.Fatalf("category without implementation accepted")
	}
}
