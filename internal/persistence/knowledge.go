package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/engine"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// PlanRecord is a committed plan and the index of the step in progress.
type PlanRecord struct {
	Steps  []actions.Template `json:"steps,omitempty"`
	Cursor int                `json:"cursor"`
}

// Snapshot is one agent's saved mind at a tick.
type Snapshot struct {
	RunID   string        `json:"run_id"`
	Tick    uint64        `json:"tick"`
	AgentID mind.EntityID `json:"agent_id"`
	Name    string        `json:"name"`
	Culture string        `json:"culture"`
	State   psyche.State  `json:"state"`
	Plan    PlanRecord    `json:"plan"`
	Triples []mind.Triple `json:"triples"`
}

type snapshotRow struct {
	RunID       string `db:"run_id"`
	Tick        uint64 `db:"tick"`
	AgentID     uint64 `db:"agent_id"`
	Name        string `db:"name"`
	Culture     string `db:"culture"`
	TripleCount int    `db:"triple_count"`
	StateJSON   string `db:"state_json"`
	PlanJSON    string `db:"plan_json"`
	TriplesJSON string `db:"triples_json"`
}

// SaveSnapshot writes the personal knowledge of every agent at tick,
// replacing any snapshot already taken at that tick.
func (db *DB) SaveSnapshot(ctx context.Context, runID string, tick uint64, list []*agents.Agent) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `INSERT OR REPLACE INTO snapshots
		(run_id, tick, agent_id, name, culture, triple_count, state_json, plan_json, triples_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range list {
		triples := a.Beliefs.Triples()
		triplesJSON, err := json.Marshal(triples)
		if err != nil {
			return fmt.Errorf("encode knowledge of agent %d: %w", a.ID, err)
		}
		stateJSON, _ := json.Marshal(a.State)
		var plan PlanRecord
		if a.Brain != nil && a.Brain.Deliberative != nil {
			plan.Steps, plan.Cursor = a.Brain.Deliberative.Plan()
		}
		planJSON, _ := json.Marshal(plan)

		_, err = stmt.ExecContext(ctx,
			runID, tick, uint64(a.ID), a.Name, a.Culture.String(), len(triples),
			string(stateJSON), string(planJSON), string(triplesJSON),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot of agent %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the newest snapshot of an agent at or before tick.
// A zero tick means the newest snapshot overall.
func (db *DB) LoadSnapshot(ctx context.Context, runID string, id mind.EntityID, tick uint64) (Snapshot, error) {
	var row snapshotRow
	var err error
	if tick == 0 {
		err = db.conn.GetContext(ctx, &row, `SELECT * FROM snapshots
			WHERE run_id = ? AND agent_id = ? ORDER BY tick DESC LIMIT 1`, runID, uint64(id))
	} else {
		err = db.conn.GetContext(ctx, &row, `SELECT * FROM snapshots
			WHERE run_id = ? AND agent_id = ? AND tick <= ? ORDER BY tick DESC LIMIT 1`, runID, uint64(id), tick)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot of agent %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		RunID:   row.RunID,
		Tick:    row.Tick,
		AgentID: mind.EntityID(row.AgentID),
		Name:    row.Name,
		Culture: row.Culture,
	}
	if err := json.Unmarshal([]byte(row.TriplesJSON), &snap.Triples); err != nil {
		return Snapshot{}, fmt.Errorf("decode knowledge of agent %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(row.StateJSON), &snap.State); err != nil {
		return Snapshot{}, fmt.Errorf("decode state of agent %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(row.PlanJSON), &snap.Plan); err != nil {
		return Snapshot{}, fmt.Errorf("decode plan of agent %d: %w", id, err)
	}
	return snap, nil
}

// Restore rebuilds a knowledge store from a snapshot on top of the given
// ontology and shared blocks.
func (s Snapshot) Restore(onto *mind.Ontology, shared ...*mind.Block) *mind.Store {
	st := mind.NewStore(onto, shared...)
	st.Replace(s.Triples)
	return st
}

// KnowledgeCount is the size of one agent's mind at its latest snapshot.
type KnowledgeCount struct {
	AgentID uint64 `db:"agent_id" json:"agent_id"`
	Name    string `db:"name" json:"name"`
	Culture string `db:"culture" json:"culture"`
	Tick    uint64 `db:"tick" json:"tick"`
	Triples int    `db:"triple_count" json:"triples"`
}

// KnowledgeCounts lists every agent's latest snapshot size in a run.
func (db *DB) KnowledgeCounts(ctx context.Context, runID string) ([]KnowledgeCount, error) {
	var counts []KnowledgeCount
	err := db.conn.SelectContext(ctx, &counts, `SELECT s.agent_id, s.name, s.culture, s.tick, s.triple_count
		FROM snapshots s
		JOIN (SELECT agent_id, MAX(tick) AS tick FROM snapshots WHERE run_id = ? GROUP BY agent_id) latest
			ON latest.agent_id = s.agent_id AND latest.tick = s.tick
		WHERE s.run_id = ?
		ORDER BY s.agent_id`, runID, runID)
	return counts, err
}

// ── Decisions ─────────────────────────────────────────────────────────

// DecisionRecord is a persisted decision.
type DecisionRecord struct {
	AgentID   uint64        `db:"agent_id" json:"agent_id"`
	Tick      uint64        `db:"tick" json:"tick"`
	Brain     string        `db:"brain" json:"brain"`
	Action    string        `db:"action" json:"action"`
	Name      string        `db:"name" json:"name"`
	Target    sql.NullInt64 `db:"target" json:"-"`
	Urgency   float64       `db:"urgency" json:"urgency"`
	Score     float64       `db:"score" json:"score"`
	Rationale string        `db:"rationale" json:"rationale"`
}

// SaveDecisions appends every logged decision newer than since.
func (db *DB) SaveDecisions(ctx context.Context, runID string, list []*agents.Agent, since uint64) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range list {
		for _, d := range a.Decisions {
			if d.Tick <= since {
				continue
			}
			var target sql.NullInt64
			if d.Target != nil {
				target = sql.NullInt64{Int64: int64(*d.Target), Valid: true}
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO decisions
				(run_id, agent_id, tick, brain, action, name, target, urgency, score, rationale)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, uint64(a.ID), d.Tick, d.Brain.String(), d.Action.String(), d.Name,
				target, d.Urgency, d.Score, d.Rationale,
			)
			if err != nil {
				return fmt.Errorf("insert decision of agent %d: %w", a.ID, err)
			}
		}
	}

	return tx.Commit()
}

// RecentDecisions returns up to limit decisions of a run, newest first.
// A zero agent id selects every agent.
func (db *DB) RecentDecisions(ctx context.Context, runID string, agent mind.EntityID, limit int) ([]DecisionRecord, error) {
	var out []DecisionRecord
	const cols = "agent_id, tick, brain, action, name, target, urgency, score, rationale"
	var err error
	if agent == 0 {
		err = db.conn.SelectContext(ctx, &out,
			"SELECT "+cols+" FROM decisions WHERE run_id = ? ORDER BY tick DESC, id DESC LIMIT ?",
			runID, limit)
	} else {
		err = db.conn.SelectContext(ctx, &out,
			"SELECT "+cols+" FROM decisions WHERE run_id = ? AND agent_id = ? ORDER BY tick DESC, id DESC LIMIT ?",
			runID, uint64(agent), limit)
	}
	return out, err
}

// ── Events ────────────────────────────────────────────────────────────

// SaveEvents appends the events newer than since.
func (db *DB) SaveEvents(ctx context.Context, runID string, events []engine.Event, since uint64) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if e.Tick <= since {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			runID, e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent limit events of a run, newest first.
func (db *DB) RecentEvents(ctx context.Context, runID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.SelectContext(ctx, &events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return events, err
}
