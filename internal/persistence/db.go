// Package persistence provides SQLite-based storage for simulation runs:
// run metadata, per-agent knowledge snapshots, the decision log and events.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/engine"
)

// ErrNotFound is returned when a run, snapshot or meta key does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; WAL readers do not block it.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		agents INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		tuning_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		culture TEXT NOT NULL,
		triple_count INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		plan_json TEXT NOT NULL,
		triples_json TEXT NOT NULL,
		PRIMARY KEY (run_id, tick, agent_id)
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		agent_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		brain TEXT NOT NULL,
		action TEXT NOT NULL,
		name TEXT NOT NULL,
		target INTEGER,
		urgency REAL NOT NULL,
		score REAL NOT NULL,
		rationale TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_agent ON snapshots(run_id, agent_id, tick);
	CREATE INDEX IF NOT EXISTS idx_decisions_agent ON decisions(run_id, agent_id, tick);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ── Runs ──────────────────────────────────────────────────────────────

// Run is one simulation started from a seed and a tuning.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	Agents    int    `db:"agents" json:"agents"`
	StartedAt int64  `db:"started_at" json:"started_at"` // unix seconds
	Tuning    string `db:"tuning_json" json:"tuning"`
}

// Started returns when the run began.
func (r Run) Started() time.Time { return time.Unix(r.StartedAt, 0) }

// CreateRun records a new run and returns it.
func (db *DB) CreateRun(ctx context.Context, seed int64, agents int, t config.Tuning) (Run, error) {
	tuning, err := json.Marshal(t)
	if err != nil {
		return Run{}, fmt.Errorf("encode tuning: %w", err)
	}
	r := Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		Agents:    agents,
		StartedAt: time.Now().Unix(),
		Tuning:    string(tuning),
	}
	_, err = db.conn.NamedExecContext(ctx, `INSERT INTO runs (id, seed, agents, started_at, tuning_json)
		VALUES (:id, :seed, :agents, :started_at, :tuning_json)`, r)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return r, nil
}

// GetRun loads a run by id.
func (db *DB) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := db.conn.GetContext(ctx, &r, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return r, err
}

// LatestRun returns the most recently started run.
func (db *DB) LatestRun(ctx context.Context) (Run, error) {
	var r Run
	err := db.conn.GetContext(ctx, &r, "SELECT * FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	return r, err
}

// Runs lists every run, newest first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := db.conn.SelectContext(ctx, &runs, "SELECT * FROM runs ORDER BY started_at DESC, rowid DESC")
	return runs, err
}

// ── Meta ──────────────────────────────────────────────────────────────

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.GetContext(ctx, &value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}

// ── Whole-simulation save ─────────────────────────────────────────────

// SaveSimulation writes a knowledge snapshot of every agent, the decisions
// and events newer than since, and the run's last tick. It reads the
// simulation under its read lock.
func (db *DB) SaveSimulation(ctx context.Context, runID string, sim *engine.Simulation, since uint64) error {
	var err error
	sim.Read(func(s *engine.Simulation) {
		tick := s.LastTick
		slog.Info("saving run state", "run", runID, "tick", tick, "agents", len(s.Agents))

		if err = db.SaveSnapshot(ctx, runID, tick, s.Agents); err != nil {
			err = fmt.Errorf("save snapshot: %w", err)
			return
		}
		if err = db.SaveDecisions(ctx, runID, s.Agents, since); err != nil {
			err = fmt.Errorf("save decisions: %w", err)
			return
		}
		if err = db.SaveEvents(ctx, runID, s.Events, since); err != nil {
			err = fmt.Errorf("save events: %w", err)
			return
		}
		if err = db.SaveMeta(ctx, "last_tick:"+runID, fmt.Sprintf("%d", tick)); err != nil {
			err = fmt.Errorf("save meta: %w", err)
		}
	})
	return err
}
