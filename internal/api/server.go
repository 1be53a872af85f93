// Package api provides the read-only HTTP API for observing a running
// simulation: agents, their plans and urgencies, and queries against what
// each of them believes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/engine"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/persistence"
	"github.com/talgya/mini-mind/internal/psyche"
	"github.com/talgya/mini-mind/internal/social"
)

const (
	defaultLimit = 50
	maxLimit     = 2000
)

// Server serves the simulation state over HTTP.
type Server struct {
	Sim   *engine.Simulation
	Eng   *engine.Engine  // optional; status reports speed and running
	DB    *persistence.DB // optional; enables /history
	RunID string          // run whose history /history serves
	Addr  string          // listen address, e.g. ":8080"

	// QueryLimiter throttles knowledge queries per client. Nil uses the
	// default of 600 per minute.
	QueryLimiter *RateLimiter
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limiter := s.QueryLimiter
	if limiter == nil {
		limiter = NewRateLimiter(600, time.Minute)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/agents", s.handleAgents)
	mux.HandleFunc("GET /api/v1/agents/{id}", s.handleAgentDetail)
	mux.HandleFunc("GET /api/v1/agents/{id}/knowledge", RateLimitMiddleware(limiter, s.handleKnowledge))
	mux.HandleFunc("GET /api/v1/agents/{id}/decisions", s.handleDecisions)
	mux.HandleFunc("GET /api/v1/conversations", s.handleConversations)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	return mux
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "history", s.DB != nil)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("HTTP API stopped")
	return nil
}

// ── Status & world ────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Sim.Snapshot()
	tick := s.Sim.CurrentTick()
	status := map[string]any{
		"tick":     tick,
		"sim_time": engine.SimTime(tick, s.Sim.Tuning.Engine.TicksPerSecond),
		"stats":    stats,
	}
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed
		status["running"] = s.Eng.Running()
	}
	if s.RunID != "" {
		status["run"] = s.RunID
	}
	writeJSON(w, status)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)
	category := r.URL.Query().Get("category")

	var events []engine.Event
	s.Sim.Read(func(sim *engine.Simulation) {
		for i := len(sim.Events) - 1; i >= 0 && len(events) < limit; i-- {
			if category == "" || sim.Events[i].Category == category {
				events = append(events, sim.Events[i])
			}
		}
	})
	writeJSON(w, map[string]any{"events": events})
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	var convs []social.Conversation
	s.Sim.Read(func(sim *engine.Simulation) {
		convs = sim.Conversations.Active()
	})
	writeJSON(w, map[string]any{"conversations": convs})
}

// ── Agents ────────────────────────────────────────────────────────────

type agentSummary struct {
	ID         mind.EntityID `json:"id"`
	Name       string        `json:"name"`
	Culture    string        `json:"culture"`
	Tile       mind.Tile     `json:"tile"`
	Activity   string        `json:"activity,omitempty"`
	TopUrgency string        `json:"top_urgency,omitempty"`
	Hunger     float64       `json:"hunger"`
	Energy     float64       `json:"energy"`
	Pain       float64       `json:"pain"`
	Knowledge  int           `json:"knowledge"`
}

func summarize(a *agents.Agent) agentSummary {
	sum := agentSummary{
		ID:        a.ID,
		Name:      a.Name,
		Culture:   a.Culture.String(),
		Tile:      a.Tile(),
		Hunger:    a.State.Needs.Hunger,
		Energy:    a.State.Needs.Energy,
		Pain:      a.State.Pain,
		Knowledge: a.Beliefs.Len(),
	}
	if a.Activity != nil {
		sum.Activity = a.Activity.Template.Name
	}
	if len(a.Urgencies) > 0 {
		sum.TopUrgency = a.Urgencies[0].Source.String()
	}
	return sum
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	var list []agentSummary
	s.Sim.Read(func(sim *engine.Simulation) {
		list = make([]agentSummary, 0, len(sim.Agents))
		for _, a := range sim.Agents {
			list = append(list, summarize(a))
		}
	})
	slices.SortFunc(list, func(a, b agentSummary) int { return int(a.ID) - int(b.ID) })
	writeJSON(w, map[string]any{"agents": list})
}

type stepView struct {
	Name   string         `json:"name"`
	Action string         `json:"action"`
	Target *mind.EntityID `json:"target,omitempty"`
	Tile   *mind.Tile     `json:"tile,omitempty"`
	Cost   float64        `json:"cost"`
}

type planView struct {
	Goal     []string   `json:"goal,omitempty"`
	Priority float64    `json:"priority,omitempty"`
	Steps    []stepView `json:"steps"`
	Cursor   int        `json:"cursor"`
}

type urgencyView struct {
	Source string  `json:"source"`
	Value  float64 `json:"value"`
}

type proposalView struct {
	Brain     string  `json:"brain"`
	Action    string  `json:"action"`
	Urgency   float64 `json:"urgency"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

type brainView struct {
	Winner    string         `json:"winner,omitempty"`
	Powers    brains.Powers  `json:"powers"`
	Proposals []proposalView `json:"proposals"`
}

type decisionView struct {
	Tick      uint64         `json:"tick"`
	Brain     string         `json:"brain"`
	Action    string         `json:"action"`
	Target    *mind.EntityID `json:"target,omitempty"`
	Urgency   float64        `json:"urgency"`
	Score     float64        `json:"score"`
	Rationale string         `json:"rationale"`
}

type agentDetail struct {
	agentSummary
	State        psyche.State           `json:"state"`
	Urgencies    []urgencyView          `json:"urgencies"`
	Plan         planView               `json:"plan"`
	Brain        brainView              `json:"brain"`
	Decisions    []decisionView         `json:"decisions"`
	Conversation *social.InConversation `json:"conversation,omitempty"`
	Visible      []brains.Sighting      `json:"visible"`
}

func viewDecisions(ds []agents.Decision) []decisionView {
	out := make([]decisionView, 0, len(ds))
	for _, d := range ds {
		out = append(out, decisionView{
			Tick:      d.Tick,
			Brain:     d.Brain.String(),
			Action:    d.Name,
			Target:    d.Target,
			Urgency:   d.Urgency,
			Score:     d.Score,
			Rationale: d.Rationale,
		})
	}
	return out
}

func detail(sim *engine.Simulation, a *agents.Agent) agentDetail {
	d := agentDetail{
		agentSummary: summarize(a),
		State:        a.State,
		Decisions:    viewDecisions(agents.RecentDecisions(a, 10)),
		Visible:      a.Visible,
	}
	for _, u := range a.Urgencies {
		d.Urgencies = append(d.Urgencies, urgencyView{Source: u.Source.String(), Value: u.Value})
	}
	if a.Goal != nil {
		for _, c := range a.Goal.Conditions {
			d.Plan.Goal = append(d.Plan.Goal, c.String())
		}
		d.Plan.Priority = a.Goal.Priority
	}

	b := a.Brain
	steps, cursor := b.Deliberative.Plan()
	d.Plan.Cursor = cursor
	for _, st := range steps {
		v := stepView{Name: st.Name, Action: st.Type.String(), Target: st.TargetEntity, Cost: st.Cost}
		if st.TargetPos != nil {
			t := mind.TileOf(*st.TargetPos)
			v.Tile = &t
		}
		d.Plan.Steps = append(d.Plan.Steps, v)
	}

	d.Brain.Powers = b.Powers
	if b.Winner != nil {
		d.Brain.Winner = b.Winner.String()
	}
	for _, p := range b.Proposals {
		d.Brain.Proposals = append(d.Brain.Proposals, proposalView{
			Brain:     p.Brain.String(),
			Action:    p.Action.Name,
			Urgency:   p.Urgency,
			Score:     brains.Score(p, b.Powers),
			Rationale: p.Rationale,
		})
	}

	if seat, ok := sim.Conversations.Seat(a.ID); ok {
		d.Conversation = &seat
	}
	return d
}

// agentFrom resolves the {id} path value. It writes the error response and
// returns false when the agent does not exist.
func agentFrom(w http.ResponseWriter, r *http.Request) (mind.EntityID, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid agent ID", http.StatusBadRequest)
		return 0, false
	}
	return mind.EntityID(id), true
}

func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := agentFrom(w, r)
	if !ok {
		return
	}
	var out *agentDetail
	s.Sim.Read(func(sim *engine.Simulation) {
		if a := sim.AgentIndex[id]; a != nil {
			d := detail(sim, a)
			out = &d
		}
	})
	if out == nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	id, ok := agentFrom(w, r)
	if !ok {
		return
	}
	limit := queryLimit(r)
	var out []decisionView
	found := false
	s.Sim.Read(func(sim *engine.Simulation) {
		if a := sim.AgentIndex[id]; a != nil {
			found = true
			out = viewDecisions(agents.RecentDecisions(a, limit))
		}
	})
	if !found {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"agent": id, "decisions": out})
}

// handleKnowledge answers a pattern query against one agent's beliefs,
// including what it inherits from its culture and the ontology.
func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := agentFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	kq, err := parseQuery(q.Get("s"), q.Get("p"), q.Get("o"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := queryLimit(r)

	var triples []mind.Triple
	found := false
	s.Sim.Read(func(sim *engine.Simulation) {
		if a := sim.AgentIndex[id]; a != nil {
			found = true
			triples = kq.run(a.Beliefs)
		}
	})
	if !found {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	total := len(triples)
	if total > limit {
		triples = triples[:limit]
	}
	writeJSON(w, map[string]any{
		"agent":   id,
		"pattern": kq.pattern.String(),
		"total":   total,
		"triples": viewTriples(triples),
	})
}

// ── Saved history ─────────────────────────────────────────────────────

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil || s.RunID == "" {
		http.Error(w, "history not available", http.StatusNotFound)
		return
	}
	var agent mind.EntityID
	if v := r.URL.Query().Get("agent"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid agent ID", http.StatusBadRequest)
			return
		}
		agent = mind.EntityID(id)
	}
	decisions, err := s.DB.RecentDecisions(r.Context(), s.RunID, agent, queryLimit(r))
	if err != nil {
		slog.Error("history query failed", "run", s.RunID, "error", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"run": s.RunID, "decisions": decisions})
}

// ── Helpers ───────────────────────────────────────────────────────────

func queryLimit(r *http.Request) int {
	limit := defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	return limit
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
