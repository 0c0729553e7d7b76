// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitedata provides the SQLite-backed data engine: keyed JSON
// documents for task-scoped data plus the run audit log.
package sqlitedata

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/praxislabs/praxis/pkg/core"
	"github.com/praxislabs/praxis/pkg/engine"
)

// Name is the registry implementation id.
const Name = "sqlite"

// Register adds the SQLite data engine to a registry.
func Register(r *engine.Registry) error {
	return r.Register(engine.CategoryData, Name, func(id string) engine.Engine {
		return New(id)
	})
}

// Engine persists task data and audit events in SQLite.
type Engine struct {
	id string
	db *sql.DB
}

// New creates an unloaded SQLite data engine.
func New(id string) *Engine {
	return &Engine{id: id}
}

// ID returns the engine id assigned at assembly.
func (e *Engine) ID() string { return e.id }

// Load opens the database and ensures the schema. Recognized settings:
// path (default ":memory:").
func (e *Engine) Load(ctx context.Context, settings map[string]any) core.Status {
	path := ":memory:"
	if v, ok := settings["path"].(string); ok && v != "" {
		path = v
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return core.Fatal(core.ReasonConnectionError, "open sqlite %q: %v", path, err).WithOrigin(e.id)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return core.Fatal(core.ReasonConnectionError, "ensure schema: %v", err).WithOrigin(e.id)
	}
	e.db = db
	return core.Success()
}

// Close closes the database.
func (e *Engine) Close(context.Context) core.Status {
	if e.db == nil {
		return core.Success()
	}
	err := e.db.Close()
	e.db = nil
	if err != nil {
		return core.Failed(core.ReasonConnectionError, "close sqlite: %v", err).WithOrigin(e.id)
	}
	return core.Success()
}

// Save upserts a keyed JSON document.
func (e *Engine) Save(ctx context.Context, key string, value any) core.Status {
	if st := e.ready(); !st.Succeeded() {
		return st
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return core.Failed(core.ReasonInvalidInput, "encode %q: %v", key, err).WithOrigin(e.id)
	}
	_, err = e.db.ExecContext(ctx, `
		INSERT INTO praxis_documents (key, value_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, key, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.Failed(core.ReasonConnectionError, "save %q: %v", key, err).WithOrigin(e.id)
	}
	return core.Success()
}

// Fetch returns the stored document for key, decoded from JSON.
func (e *Engine) Fetch(ctx context.Context, key string) (any, core.Status) {
	if st := e.ready(); !st.Succeeded() {
		return nil, st
	}
	var payload string
	err := e.db.QueryRowContext(ctx,
		`SELECT value_json FROM praxis_documents WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, core.Failed(core.ReasonNotFound, "no document for key %q", key).WithOrigin(e.id)
	}
	if err != nil {
		return nil, core.Failed(core.ReasonConnectionError, "fetch %q: %v", key, err).WithOrigin(e.id)
	}
	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, core.Failed(core.ReasonInvalidInput, "decode %q: %v", key, err).WithOrigin(e.id)
	}
	return value, core.Success()
}

// RecordEvent appends a node lifecycle event to the run audit log.
func (e *Engine) RecordEvent(ctx context.Context, ev engine.Event) core.Status {
	if st := e.ready(); !st.Succeeded() {
		return st
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO praxis_run_events (run_id, node_path, node, phase, message, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.RunID, ev.NodePath, ev.Node, ev.Phase, ev.Message, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.Failed(core.ReasonConnectionError, "record event: %v", err).WithOrigin(e.id)
	}
	return core.Success()
}

// Events returns the audit events for a run, oldest first.
func (e *Engine) Events(ctx context.Context, runID string) ([]engine.Event, core.Status) {
	if st := e.ready(); !st.Succeeded() {
		return nil, st
	}
	rows, err := e.db.QueryContext(ctx, `
		SELECT run_id, node_path, node, phase, message, at
		FROM praxis_run_events WHERE run_id = ? ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, core.Failed(core.ReasonConnectionError, "list events: %v", err).WithOrigin(e.id)
	}
	defer rows.Close()

	var out []engine.Event
	for rows.Next() {
		var ev engine.Event
		var at string
		if err := rows.Scan(&ev.RunID, &ev.NodePath, &ev.Node, &ev.Phase, &ev.Message, &at); err != nil {
			return nil, core.Failed(core.ReasonConnectionError, "scan event: %v", err).WithOrigin(e.id)
		}
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			ev.At = ts
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Failed(core.ReasonConnectionError, "list events: %v", err).WithOrigin(e.id)
	}
	return out, core.Success()
}

func (e *Engine) ready() core.Status {
	if e.db == nil {
		return core.Fatal(core.ReasonConnectionError, "data engine not loaded").WithOrigin(e.id)
	}
	return core.Success()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS praxis_documents (
			key        TEXT PRIMARY KEY,
			value_json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS praxis_run_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			node_path TEXT NOT NULL,
			node      TEXT NOT NULL,
			phase     TEXT NOT NULL,
			message   TEXT,
			at        TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_praxis_run_events_run ON praxis_run_events (run_id);
	`)
	return err
}
