// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Command praxis runs behavior-tree task descriptions against configured
// engines.
//
// Usage:
//
//	praxis [flags] run [tree-file]
//	praxis [flags] validate [tree-file]
//	praxis version
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/praxislabs/praxis/pkg/bt"
	"github.com/praxislabs/praxis/pkg/config"
	"github.com/praxislabs/praxis/pkg/engine"
	"github.com/praxislabs/praxis/pkg/engine/kin"
	"github.com/praxislabs/praxis/pkg/engine/memdata"
	"github.com/praxislabs/praxis/pkg/engine/sim"
	"github.com/praxislabs/praxis/pkg/engine/sqlitedata"
	"github.com/praxislabs/praxis/pkg/orchestrator"
	"github.com/praxislabs/praxis/pkg/skill"
	"github.com/praxislabs/praxis/pkg/skills"
	"github.com/praxislabs/praxis/pkg/telemetry"
)

const version = "0.3.0"

const (
	exitOK     = 0
	exitFailed = 1
	exitFatal  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := flag.String("config", "", "path to the YAML config file")
	asJSON := flag.Bool("json", false, "print the run result as JSON")
	startNode := flag.String("start", "", "resume the tree from this node index path, e.g. 0.2")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return exitFailed
	}
	cmd := args[0]
	if cmd == "version" {
		fmt.Println("praxis", version)
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fatal("load config: %v", err)
	}
	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	treePath := cfg.Run.Tree
	if len(args) > 1 {
		treePath = args[1]
	}

	switch cmd {
	case "run":
		return runTree(ctx, cfg, treePath, *startNode, *asJSON)
	case "validate":
		return validateTree(cfg, treePath)
	default:
		printUsage()
		return fatal("unknown command %q", cmd)
	}
}

func runTree(ctx context.Context, cfg *config.Config, treePath, startNode string, asJSON bool) int {
	shutdown, err := telemetry.InitWithConfig("praxis", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fatal("init telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdown(shutdownCtx)
	}()

	skillReg, engineReg, err := buildRegistries()
	if err != nil {
		return fatal("build registries: %v", err)
	}
	root, err := bt.LoadFile(treePath, skillReg)
	if err != nil {
		return fatal("load tree: %v", err)
	}
	selections, err := engineSelections(cfg)
	if err != nil {
		return fatal("engine config: %v", err)
	}

	opts := orchestrator.Options{
		MaxTicks:     cfg.Run.MaxTicks,
		TickInterval: time.Duration(cfg.Run.TickIntervalMS) * time.Millisecond,
		StartNode:    startNode,
	}
	if cfg.Library != "" {
		manifest, err := skills.LoadManifest(cfg.Library)
		if err != nil {
			return fatal("load library: %v", err)
		}
		opts.Defaults = manifest.Defaults()
	}

	metrics, err := telemetry.NewRunMetrics()
	if err != nil {
		return fatal("init metrics: %v", err)
	}
	orch := orchestrator.New(skillReg, engineReg, metrics)
	result, err := orch.Run(ctx, root, selections, opts)
	if err != nil {
		return fatal("run: %v", err)
	}

	printResult(result, asJSON)
	switch {
	case result.Aborted:
		return exitFatal
	case result.Status.Succeeded():
		return exitOK
	default:
		return exitFailed
	}
}

func validateTree(cfg *config.Config, treePath string) int {
	skillReg, _, err := buildRegistries()
	if err != nil {
		return fatal("build registries: %v", err)
	}
	root, err := bt.LoadFile(treePath, skillReg)
	if err != nil {
		return fatal("load tree: %v", err)
	}
	if _, err := engineSelections(cfg); err != nil {
		return fatal("engine config: %v", err)
	}
	fmt.Printf("ok: %d nodes, %d skills registered\n", root.Count(), len(skillReg.Names()))
	return exitOK
}

func buildRegistries() (*skill.Registry, *engine.Registry, error) {
	skillReg := skill.NewRegistry()
	if err := skills.RegisterAll(skillReg); err != nil {
		return nil, nil, err
	}
	engineReg := engine.NewRegistry()
	for _, register := range []func(*engine.Registry) error{
		sim.Register,
		kin.Register,
		sqlitedata.Register,
		memdata.Register,
	} {
		if err := register(engineReg); err != nil {
			return nil, nil, err
		}
	}
	return skillReg, engineReg, nil
}

func engineSelections(cfg *config.Config) (map[engine.Category]engine.Selection, error) {
	selections := make(map[engine.Category]engine.Selection, len(cfg.Engines))
	for name, ec := range cfg.Engines {
		c := engine.Category(name)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown engine category %q", name)
		}
		if ec.Engine == "" {
			return nil, fmt.Errorf("engine category %q has no implementation selected", name)
		}
		selections[c] = engine.Selection{Impl: ec.Engine, Settings: ec.Settings}
	}
	return selections, nil
}

func printResult(result orchestrator.Result, asJSON bool) {
	if asJSON {
		out := struct {
			RunID    string `json:"run_id"`
			Status   string `json:"status"`
			Reason   string `json:"reason,omitempty"`
			Message  string `json:"message,omitempty"`
			Origin   string `json:"origin,omitempty"`
			Ticks    int    `json:"ticks"`
			LastNode string `json:"last_node,omitempty"`
			LastPath string `json:"last_path,omitempty"`
			Aborted  bool   `json:"aborted"`
		}{
			RunID:    result.RunID,
			Status:   result.Status.Flag.String(),
			Reason:   string(result.Status.Reason),
			Message:  result.Status.Message,
			Origin:   result.Status.Origin,
			Ticks:    result.Ticks,
			LastNode: result.LastNode,
			LastPath: result.LastPath,
			Aborted:  result.Aborted,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}
	verdict := "task " + result.Status.Flag.String()
	if result.Aborted {
		verdict = "run aborted"
	}
	fmt.Printf("%s: %s (run %s, %d ticks", verdict, result.Status, result.RunID, result.Ticks)
	if result.LastNode != "" {
		fmt.Printf(", last node %s@%s", result.LastNode, result.LastPath)
	}
	fmt.Println(")")
}

func fatal(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "praxis: %s\n", fmt.Sprintf(format, args...))
	return exitFatal
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `praxis %s - behavior-tree task sequencing

Usage:
  praxis [flags] run [tree-file]       execute a tree against configured engines
  praxis [flags] validate [tree-file]  parse the tree and config, report diagnostics
  praxis version                       print the version

Flags:
  -config path   YAML config file (env PRAXIS_* overrides)
  -json          print the run result as JSON
  -start path    resume the tree from this node index path, e.g. 0.2
`, version)
}
