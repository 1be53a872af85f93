// Simulation ties together all world systems and runs them each tick.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/planner"
	"github.com/talgya/mini-mind/internal/social"
	"github.com/talgya/mini-mind/internal/world"
)

// Simulation holds the complete world state and wires systems together.
// Step holds the write lock for a whole tick; readers go through Read.
type Simulation struct {
	mu sync.RWMutex

	Tuning        config.Tuning
	World         *world.World
	Ontology      *mind.Ontology
	Registry      *actions.Registry
	Planner       *planner.Planner
	Agents        []*agents.Agent
	AgentIndex    map[mind.EntityID]*agents.Agent
	Conversations *social.Manager
	Spawner       *agents.Spawner
	Events        []Event // Recent events, trimmed to maxEvents
	LastTick      uint64  // Most recent tick processed
	Stats         SimStats

	rng         *rand.Rand // execution-phase randomness; sequential use only
	nextEpisode uint64
	interrupted []*agents.Activity // per agent index, filled by the cohort
}

const maxEvents = 1000

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "social", "violence", "food", ...
}

// SimStats tracks aggregate statistics.
type SimStats struct {
	Agents        int     `json:"agents"`
	Objects       int     `json:"objects"`
	Conversations int     `json:"conversations"`
	ActivePlans   int     `json:"active_plans"`
	Decisions     uint64  `json:"decisions"`
	Completed     uint64  `json:"completed"`
	Failed        uint64  `json:"failed"`
	AvgHunger     float64 `json:"avg_hunger"`
	AvgEnergy     float64 `json:"avg_energy"`
	Knowledge     int     `json:"knowledge"` // personal triples across all agents
}

// NewSimulation generates a world from tuning and seed and populates it.
func NewSimulation(t config.Tuning, seed int64) *Simulation {
	gen := world.DefaultGenConfig()
	gen.Width, gen.Height = t.World.Width, t.World.Height
	gen.Seed = seed
	gen.RegrowInterval = t.World.RegrowInterval
	gen.MaxApples, gen.MaxBerries = t.World.MaxApples, t.World.MaxBerries
	w := world.Generate(gen)

	onto := mind.DefaultOntology()
	reg := actions.DefaultRegistry()
	p := planner.New(reg,
		planner.WithMaxIterations(t.Planner.MaxIterations),
		planner.WithUnmetWeight(t.Planner.UnmetWeight),
	)
	spawner := agents.NewSpawner(seed, onto, p)
	pop := spawner.SpawnPopulation(w, t.Agents.Count, t.Cultures(), 0)

	return NewSimulationFrom(t, w, onto, reg, p, spawner, pop, seed)
}

// NewSimulationFrom assembles a simulation from prepared parts.
func NewSimulationFrom(t config.Tuning, w *world.World, onto *mind.Ontology, reg *actions.Registry, p *planner.Planner, spawner *agents.Spawner, pop []*agents.Agent, seed int64) *Simulation {
	index := make(map[mind.EntityID]*agents.Agent, len(pop))
	for _, a := range pop {
		index[a.ID] = a
	}
	sim := &Simulation{
		Tuning:        t,
		World:         w,
		Ontology:      onto,
		Registry:      reg,
		Planner:       p,
		Agents:        pop,
		AgentIndex:    index,
		Conversations: social.NewManager(),
		Spawner:       spawner,
		rng:           rand.New(rand.NewSource(seed + 500)),
	}
	sim.updateStats()
	return sim
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// Read runs fn while no tick is in progress.
func (s *Simulation) Read(fn func(*Simulation)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
}

// Step runs one tick: perception, decay and decisions in parallel across
// agents, then execution, drift and housekeeping in order.
func (s *Simulation) Step(ctx context.Context, tick uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	eng := s.Tuning.Engine

	if err := s.perceive(ctx, tick); err != nil {
		return fmt.Errorf("perception: %w", err)
	}
	if err := s.forget(ctx, tick); err != nil {
		return fmt.Errorf("decay: %w", err)
	}
	if err := s.think(ctx, tick); err != nil {
		return fmt.Errorf("decisions: %w", err)
	}
	s.handleInterruptions(tick)

	for _, a := range s.Agents {
		s.execute(a, tick)
	}

	dt := 1 / eng.TicksPerSecond
	for _, a := range s.Agents {
		agents.Drift(a, s.Registry, dt)
		if ShouldRun(tick, a.ID, eng.EmotionInterval) {
			agents.Settle(a, s.Tuning.Emotions, float64(max(eng.EmotionInterval, 1))*dt)
		}
	}

	if ShouldRun(tick, 0, eng.PerceptionInterval) {
		if n := s.Conversations.Cleanup(tick, eng.ConversationTimeout); n > 0 {
			slog.Debug("conversations timed out", "tick", tick, "count", n)
		}
	}
	s.World.Regrow(tick)

	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}

	// Once a sim-minute: statistics and a progress line.
	if minute := uint64(eng.TicksPerSecond * 60); minute > 0 && tick%minute == 0 {
		s.updateStats()
		slog.Info("simulation progress",
			"tick", humanize.Comma(int64(tick)),
			"time", SimTime(tick, eng.TicksPerSecond),
			"agents", s.Stats.Agents,
			"decisions", humanize.Comma(int64(s.Stats.Decisions)),
			"completed", humanize.Comma(int64(s.Stats.Completed)),
			"failed", humanize.Comma(int64(s.Stats.Failed)),
			"conversations", s.Stats.Conversations,
			"knowledge", humanize.Comma(int64(s.Stats.Knowledge)),
			"avg_hunger", fmt.Sprintf("%.1f", s.Stats.AvgHunger),
		)
	}
	return nil
}

func (s *Simulation) addEvent(tick uint64, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

// RecentEvents returns up to n of the newest events, oldest first.
func (s *Simulation) RecentEvents(n int) []Event {
	start := max(len(s.Events)-n, 0)
	return append([]Event(nil), s.Events[start:]...)
}

func (s *Simulation) updateStats() {
	st := SimStats{
		Agents:        len(s.Agents),
		Objects:       len(s.World.Objects()),
		Conversations: len(s.Conversations.Active()),
		Decisions:     s.Stats.Decisions,
		Completed:     s.Stats.Completed,
		Failed:        s.Stats.Failed,
	}
	for _, a := range s.Agents {
		st.AvgHunger += a.State.Needs.Hunger
		st.AvgEnergy += a.State.Needs.Energy
		st.Knowledge += a.Beliefs.Len()
		if _, ok := a.Brain.Deliberative.Current(); ok {
			st.ActivePlans++
		}
	}
	if n := float64(len(s.Agents)); n > 0 {
		st.AvgHunger /= n
		st.AvgEnergy /= n
	}
	s.Stats = st
}

// Snapshot refreshes and returns the aggregate statistics.
func (s *Simulation) Snapshot() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateStats()
	return s.Stats
}
