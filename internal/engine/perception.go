package engine

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Confidence of a sighting falls off with distance but never below the
// floor.
const (
	confidenceFalloff = 256.0
	confidenceFloor   = 0.3
)

// sightConfidence is how sure an agent is of something dist units away.
func sightConfidence(dist float64) float64 {
	return max(confidenceFloor, 1-dist/confidenceFalloff)
}

// cohort runs fn for every agent due under interval, in parallel with at
// most Engine.Workers at once. Each call may touch only its own agent.
func (s *Simulation) cohort(ctx context.Context, tick, interval uint64, due func(*agents.Agent) bool, fn func(i int, a *agents.Agent)) error {
	g, ctx := errgroup.WithContext(ctx)
	if w := s.Tuning.Engine.Workers; w > 0 {
		g.SetLimit(w)
	}
	for i, a := range s.Agents {
		if !ShouldRun(tick, a.ID, interval) && (due == nil || !due(a)) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i, a)
			return nil
		})
	}
	return g.Wait()
}

// perceive refreshes what due agents believe about themselves and their
// surroundings.
func (s *Simulation) perceive(ctx context.Context, tick uint64) error {
	return s.cohort(ctx, tick, s.Tuning.Engine.PerceptionInterval, nil, func(_ int, a *agents.Agent) {
		s.perceiveSelf(a, tick)
		a.Visible = s.perceiveSurroundings(a, tick)
	})
}

func (s *Simulation) perceiveSelf(a *agents.Agent, tick uint64) {
	b := a.Beliefs
	st := &a.State
	b.PerceiveSelf(mind.LocatedAt, mind.TileValue(a.Tile()), tick)
	b.PerceiveSelf(mind.Hunger, mind.Int(int64(math.Round(st.Needs.Hunger))), tick)
	b.PerceiveSelf(mind.Energy, mind.Int(int64(math.Round(st.Needs.Energy))), tick)
	b.PerceiveSelf(mind.Pain, mind.Int(int64(math.Round(st.Pain))), tick)
	b.PerceiveSelf(mind.SocialDrive, mind.Int(int64(math.Round(st.Drives.Social*100))), tick)

	// Inventory: every carried kind, and zero for kinds believed carried
	// but gone.
	for _, t := range b.Query(mind.Self(), mind.Contains, mind.Any) {
		if c, _, ok := t.Object.AsItem(); ok && st.Inventory.Count(c) == 0 {
			b.PerceiveSelf(mind.Contains, mind.Item(c, 0), tick)
		}
	}
	for _, it := range st.Inventory.Items {
		b.PerceiveSelf(mind.Contains, mind.Item(it.Concept, it.Quantity), tick)
	}
}

// perceiveSurroundings writes what a sees of objects and other agents
// within the perception radius and returns the sightings.
func (s *Simulation) perceiveSurroundings(a *agents.Agent, tick uint64) []brains.Sighting {
	radius := float64(s.Tuning.World.PerceptionRadius) * mind.TileSize
	b := a.Beliefs
	var seen []brains.Sighting

	for _, o := range s.World.Within(a.Position, radius) {
		conf := sightConfidence(a.Position.Distance(o.Pos))
		b.PerceiveEntity(o.ID, mind.LocatedAt, mind.TileValue(o.Tile()), tick, conf)
		b.PerceiveEntity(o.ID, mind.IsA, mind.ConceptValue(o.Kind), tick, conf)

		// What it holds now replaces whatever was believed before.
		b.RemoveMatching(mind.Match(mind.EntityNode(o.ID), mind.Contains, mind.Any))
		for _, it := range o.Inventory.Items {
			b.PerceiveEntity(o.ID, mind.Contains, mind.Item(it.Concept, it.Quantity), tick, conf)
		}
		if r := o.Regrowth; r != nil && o.Inventory.Count(r.Item) == 0 {
			b.PerceiveEntity(o.ID, mind.Contains, mind.Item(r.Item, 0), tick, conf)
		}
		for _, act := range o.Affords {
			b.PerceiveEntity(o.ID, mind.Affords, mind.ActionValue(act), tick, conf)
		}
		seen = append(seen, brains.Sighting{ID: o.ID, Pos: o.Pos})
	}

	for _, other := range s.Agents {
		if other.ID == a.ID {
			continue
		}
		dist := a.Position.Distance(other.Position)
		if dist > radius {
			continue
		}
		conf := sightConfidence(dist)
		b.PerceiveEntity(other.ID, mind.LocatedAt, mind.TileValue(other.Tile()), tick, conf)
		b.PerceiveEntity(other.ID, mind.IsA, mind.ConceptValue(mind.Person), tick, conf)
		if cur := other.Current(); cur != nil {
			b.PerceiveEntity(other.ID, mind.Doing, mind.ActionValue(*cur), tick, conf)
		}
		b.PerceiveEntity(other.ID, mind.AppearsMood, mind.ConceptValue(appearsMood(&other.State)), tick, conf)
		b.PerceiveEntity(other.ID, mind.AppearsInjured, mind.Bool(other.State.Pain > 50), tick, conf)
		seen = append(seen, brains.Sighting{ID: other.ID, Pos: other.Position})
	}
	return seen
}

// appearsMood is the mood concept others read off an agent's face.
func appearsMood(st *psyche.State) mind.Concept {
	e := &st.Emotions
	strongest, level := mind.Calm, 0.3
	for _, c := range []struct {
		emotion mind.EmotionType
		concept mind.Concept
	}{
		{mind.Joy, mind.Happy},
		{mind.Sadness, mind.Sad},
		{mind.Anger, mind.Angry},
		{mind.Fear, mind.Fearful},
	} {
		if v := e.Intensity(c.emotion); v > level {
			strongest, level = c.concept, v
		}
	}
	return strongest
}

// forget runs memory decay and consolidation for due agents.
func (s *Simulation) forget(ctx context.Context, tick uint64) error {
	eng := s.Tuning.Engine
	if err := s.cohort(ctx, tick, eng.DecayInterval, nil, func(_ int, a *agents.Agent) {
		a.Beliefs.Decay(tick, s.Tuning.Memory)
	}); err != nil {
		return err
	}
	return s.cohort(ctx, tick, eng.ConsolidationInterval, nil, func(_ int, a *agents.Agent) {
		a.Beliefs.Consolidate(a.ID, tick, eng.TicksPerSecond)
	})
}
