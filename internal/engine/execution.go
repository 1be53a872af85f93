// Action execution: runs each agent's current activity against the
// world, one agent at a time.
package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Movement, in world units per second unless noted.
const (
	walkSpeed      = 32.0
	fleeSpeed      = 48.0
	approachLimit  = 10.0 // seconds spent closing in on a target before giving up
	fleeDistance   = 6 * mind.TileSize
	wanderDistance = 3 * mind.TileSize
	exploreMin     = 4 * mind.TileSize
	exploreMax     = 10 * mind.TileSize
)

// reachFor is how close a proximity action must be to its target.
func reachFor(t mind.ActionType) float64 {
	switch t {
	case mind.ActTalk, mind.ActIntroduce:
		return actions.ConversationRange
	}
	return mind.TileSize
}

// execute advances a's activity by one tick.
func (s *Simulation) execute(a *agents.Agent, tick uint64) {
	act := a.Activity
	if act == nil {
		return
	}
	action, err := s.Registry.Get(act.Template.Type)
	if err != nil {
		slog.Warn("dropping activity", "agent", a.ID, "error", err)
		a.Activity = nil
		return
	}
	tpl := act.Template
	ctx := s.actionContext(a, tpl, tick)

	if act.Elapsed == 0 {
		if action.RequiresProximity() && ctx.TargetFound {
			if a.Position.Distance(ctx.TargetPosition) > reachFor(tpl.Type) {
				if float64(act.Approach) >= approachLimit*s.Tuning.Engine.TicksPerSecond {
					s.finish(a, actions.Failed(tpl, actions.Fail(actions.TooFar)), tick)
					return
				}
				act.Approach++
				if _, blocked := s.move(a, ctx.TargetPosition, walkSpeed); blocked {
					s.finish(a, actions.Failed(tpl, actions.Fail(actions.PathBlocked)), tick)
				}
				return
			}
		}
		if f := action.CanStart(tpl, ctx); f != nil {
			s.finish(a, actions.Failed(tpl, f), tick)
			return
		}
	}
	act.Elapsed++

	switch tpl.Kind.Tag {
	case actions.KindInstant:
		s.finish(a, action.Complete(tpl, ctx), tick)

	case actions.KindTimed:
		if tpl.Kind.Ticks != actions.Forever && act.Elapsed >= tpl.Kind.Ticks {
			s.finish(a, action.Complete(tpl, ctx), tick)
		}

	case actions.KindMovement:
		if act.Dest == nil {
			dest := s.destination(a, tpl)
			act.Dest = &dest
		}
		speed := walkSpeed
		if tpl.Type == mind.ActFlee {
			speed = fleeSpeed
		}
		arrived, blocked := s.move(a, *act.Dest, speed)
		switch {
		case blocked:
			s.finish(a, actions.Failed(tpl, actions.Fail(actions.PathBlocked)), tick)
		case arrived:
			s.finish(a, action.Complete(tpl, s.actionContext(a, tpl, tick)), tick)
		}
	}
}

// actionContext describes a's situation and its target to the action.
func (s *Simulation) actionContext(a *agents.Agent, tpl actions.Template, tick uint64) *actions.Context {
	ctx := &actions.Context{
		Self:     a.ID,
		Tick:     tick,
		State:    &a.State,
		Beliefs:  a.Beliefs,
		Position: a.Position,
	}
	if id, ok := tpl.Target(); ok {
		ctx.TargetPosition, ctx.TargetInventory, ctx.TargetFound = s.locate(id)
	}
	return ctx
}

// locate finds an agent or object by id.
func (s *Simulation) locate(id mind.EntityID) (mind.Vec2, *psyche.Inventory, bool) {
	if other, ok := s.AgentIndex[id]; ok {
		return other.Position, &other.State.Inventory, true
	}
	if o, ok := s.World.Object(id); ok {
		return o.Pos, &o.Inventory, true
	}
	return mind.Vec2{}, nil, false
}

// move steps a toward dest. Water blocks unless a already stands in it.
func (s *Simulation) move(a *agents.Agent, dest mind.Vec2, speed float64) (arrived, blocked bool) {
	step := speed / s.Tuning.Engine.TicksPerSecond
	d := a.Position.Distance(dest)
	next := dest
	if d > step {
		next = mind.Vec2{
			X: a.Position.X + (dest.X-a.Position.X)*step/d,
			Y: a.Position.Y + (dest.Y-a.Position.Y)*step/d,
		}
	}
	next = s.World.Map.Clamp(next)
	if !s.World.Map.Walkable(mind.TileOf(next)) && s.World.Map.Walkable(a.Tile()) {
		return false, true
	}
	a.Position = next
	return d <= step, false
}

// destination picks where a movement activity heads.
func (s *Simulation) destination(a *agents.Agent, tpl actions.Template) mind.Vec2 {
	switch tpl.Type {
	case mind.ActWalk:
		if tpl.TargetPos != nil {
			return *tpl.TargetPos
		}
	case mind.ActFlee:
		if threat, ok := s.threat(a, tpl); ok {
			dx, dy := a.Position.X-threat.X, a.Position.Y-threat.Y
			if n := math.Hypot(dx, dy); n > 0 {
				return s.World.Map.Clamp(mind.Vec2{
					X: a.Position.X + dx/n*fleeDistance,
					Y: a.Position.Y + dy/n*fleeDistance,
				})
			}
		}
		return s.around(a.Position, fleeDistance, fleeDistance)
	case mind.ActExplore:
		return s.unexplored(a)
	case mind.ActWander:
		return s.around(a.Position, mind.TileSize, wanderDistance)
	}
	return a.Position
}

// threat is what a is running from: the flee target, else the nearest
// thing in view.
func (s *Simulation) threat(a *agents.Agent, tpl actions.Template) (mind.Vec2, bool) {
	if id, ok := tpl.Target(); ok {
		if pos, _, found := s.locate(id); found {
			return pos, true
		}
	}
	best, bestD, found := mind.Vec2{}, math.Inf(1), false
	for _, v := range a.Visible {
		if d := a.Position.Distance(v.Pos); d < bestD {
			best, bestD, found = v.Pos, d, true
		}
	}
	return best, found
}

// around picks a walkable point between lo and hi units from center.
func (s *Simulation) around(center mind.Vec2, lo, hi float64) mind.Vec2 {
	for range 8 {
		angle := s.rng.Float64() * 2 * math.Pi
		dist := lo + s.rng.Float64()*(hi-lo)
		p := s.World.Map.Clamp(mind.Vec2{
			X: center.X + math.Cos(angle)*dist,
			Y: center.Y + math.Sin(angle)*dist,
		})
		if s.World.Map.Walkable(mind.TileOf(p)) {
			return p
		}
	}
	return center
}

// unexplored prefers a destination tile a knows nothing about.
func (s *Simulation) unexplored(a *agents.Agent) mind.Vec2 {
	var fallback mind.Vec2
	for i := range 8 {
		p := s.around(a.Position, exploreMin, exploreMax)
		if i == 0 {
			fallback = p
		}
		if len(a.Beliefs.Query(mind.AnyNode, mind.LocatedAt, mind.TileValue(mind.TileOf(p)))) == 0 {
			return p
		}
	}
	return fallback
}

// finish ends a's activity with out: beliefs, plan, witnesses and social
// consequences all hear about it.
func (s *Simulation) finish(a *agents.Agent, out actions.Outcome, tick uint64) {
	a.Activity = nil
	if out.OK() {
		s.Stats.Completed++
	} else {
		s.Stats.Failed++
	}

	actions.UpdateBeliefs(a.Beliefs, out, tick)
	a.Brain.Deliberative.Observe(out)

	if out.OK() {
		s.witness(a, out, tick)
		s.interact(a, out, tick)
	}

	attrs := []any{"agent", a.ID, "tick", tick, "action", out.Action}
	if !out.OK() {
		attrs = append(attrs, "failure", out.Failure.Error())
	}
	slog.Debug("activity finished", attrs...)
}

// witness writes a completed action into the episodic memory of the actor
// and of everyone who saw it, and stirs the onlookers' emotions.
func (s *Simulation) witness(a *agents.Agent, out actions.Outcome, tick uint64) {
	s.nextEpisode++
	ep := mind.Episode{ID: s.nextEpisode, Actor: a.ID, Action: out.Action, Target: out.Target, Tick: tick}
	a.Beliefs.RecordEpisode(a.ID, ep)

	radius := float64(s.Tuning.World.PerceptionRadius) * mind.TileSize
	for _, other := range s.Agents {
		if other.ID == a.ID {
			continue
		}
		role := psyche.RoleWitness
		if out.Target != nil && *out.Target == other.ID {
			role = psyche.RoleTarget
		} else if other.Position.Distance(a.Position) > radius {
			continue
		}
		if !other.Beliefs.RecordEpisode(other.ID, ep) {
			continue
		}
		for _, e := range psyche.Interpret(other.Beliefs, out.Action, role, &a.ID, other.State.Traits, s.Tuning.Emotions) {
			other.State.Emotions.Add(e.Type, e.Intensity)
		}
	}
}
