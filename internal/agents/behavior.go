// Agent decision cycle: urgencies become a goal, the three brains bid,
// and the winner becomes the agent's activity.
package agents

import (
	"log/slog"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/nervous"
)

// Env is what an agent's decision cycle reads from the host.
type Env struct {
	Tick         uint64
	Nervous      nervous.Config
	Registry     *actions.Registry
	Visible      []brains.Sighting
	Conversation *brains.Conversation
	MaxDecisions int
}

// Think runs one decision cycle for a. It reports whether a new activity
// was started; continuing the current one, or having nothing to do, leaves
// the activity untouched.
func Think(a *Agent, env Env) bool {
	in := nervous.InputsFrom(&a.State, a.Current())
	a.Urgencies = nervous.Generate(env.Nervous, in)
	if g, ok := nervous.Formulate(a.Urgencies, env.Nervous.GoalThreshold); ok {
		a.Goal = &g
	} else {
		a.Goal = nil
	}

	sit := &brains.Situation{
		Self:         a.ID,
		Tick:         env.Tick,
		State:        &a.State,
		Beliefs:      a.Beliefs,
		Position:     a.Position,
		Visible:      env.Visible,
		Current:      a.Current(),
		Conversation: env.Conversation,
		Goal:         a.Goal,
		Registry:     env.Registry,
	}
	chosen, ok := a.Brain.Decide(sit)
	if !ok {
		return false
	}
	if a.Activity != nil && sameIntent(a.Activity.Template, chosen.Action) {
		return false
	}

	a.Activity = &Activity{Template: chosen.Action, StartedAt: env.Tick}
	AddDecision(a, Decision{
		Tick:      env.Tick,
		Brain:     chosen.Brain,
		Action:    chosen.Action.Type,
		Name:      chosen.Action.Name,
		Target:    chosen.Action.TargetEntity,
		Urgency:   chosen.Urgency,
		Score:     brains.Score(chosen, a.Brain.Powers),
		Rationale: chosen.Rationale,
	}, env.MaxDecisions)

	slog.Debug("agent decided",
		"agent", a.ID,
		"tick", env.Tick,
		"brain", chosen.Brain,
		"action", chosen.Action.Name,
		"urgency", chosen.Urgency,
		"why", chosen.Rationale,
	)
	return true
}

// sameIntent reports whether two templates do the same thing to the same
// target, so re-choosing the running action does not restart it.
func sameIntent(a, b actions.Template) bool {
	if a.Type != b.Type {
		return false
	}
	if !sameEntity(a.TargetEntity, b.TargetEntity) {
		return false
	}
	switch {
	case a.TargetPos == nil && b.TargetPos == nil:
		return true
	case a.TargetPos == nil || b.TargetPos == nil:
		return false
	}
	return mind.TileOf(*a.TargetPos) == mind.TileOf(*b.TargetPos)
}

func sameEntity(a, b *mind.EntityID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
