// Decision cohort: staggered, parallel decision cycles, then the
// sequential bookkeeping for agents that switched activity.
package engine

import (
	"context"
	"log/slog"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
)

// think runs the decision cycle for agents due this tick. Idle agents also
// think on their perception cadence so a finished action is followed up
// promptly. Each cycle touches only its own agent; the activity it
// replaces is parked in s.interrupted for handleInterruptions.
func (s *Simulation) think(ctx context.Context, tick uint64) error {
	eng := s.Tuning.Engine
	if cap(s.interrupted) < len(s.Agents) {
		s.interrupted = make([]*agents.Activity, len(s.Agents))
	}
	s.interrupted = s.interrupted[:len(s.Agents)]
	clear(s.interrupted)

	started := make([]bool, len(s.Agents))
	idle := func(a *agents.Agent) bool {
		return a.Activity == nil && ShouldRun(tick, a.ID, eng.PerceptionInterval)
	}
	err := s.cohort(ctx, tick, eng.ThinkingInterval, idle, func(i int, a *agents.Agent) {
		prev := a.Activity
		env := agents.Env{
			Tick:         tick,
			Nervous:      s.Tuning.Nervous,
			Registry:     s.Registry,
			Visible:      a.Visible,
			Conversation: s.conversationOf(a.ID),
			MaxDecisions: eng.DecisionLog,
		}
		if agents.Think(a, env) {
			started[i] = true
			s.interrupted[i] = prev
		}
	})
	if err != nil {
		return err
	}
	for _, ok := range started {
		if ok {
			s.Stats.Decisions++
		}
	}
	return nil
}

// conversationOf is a's seat in a live conversation as the brains see it.
func (s *Simulation) conversationOf(id mind.EntityID) *brains.Conversation {
	seat, ok := s.Conversations.Seat(id)
	if !ok {
		return nil
	}
	return &brains.Conversation{
		ID:           seat.ConversationID.String(),
		Partner:      seat.Partner,
		MyTurn:       seat.MyTurn,
		OwesResponse: seat.OwesResponse,
	}
}

// handleInterruptions closes out activities replaced mid-run: the outcome
// reaches the belief updater and the plan, and a conversation the agent
// walked away from on its own turn is abandoned.
func (s *Simulation) handleInterruptions(tick uint64) {
	for i, prev := range s.interrupted {
		if prev == nil {
			continue
		}
		a := s.Agents[i]
		out := actions.Failed(prev.Template, actions.Fail(actions.Interrupted))
		actions.UpdateBeliefs(a.Beliefs, out, tick)

		slog.Debug("activity interrupted",
			"agent", a.ID,
			"tick", tick,
			"was", prev.Template.Name,
			"now", a.Activity.Template.Name,
		)
	}

	for _, a := range s.Agents {
		if a.Activity == nil {
			continue
		}
		seat, ok := s.Conversations.Seat(a.ID)
		if !ok || !seat.MyTurn || isTurnFor(a.Activity.Template, seat.Partner) {
			continue
		}
		s.abandon(a, tick)
	}
}

// isTurnFor reports whether t continues a conversation with partner.
func isTurnFor(t actions.Template, partner mind.EntityID) bool {
	if t.Type != mind.ActTalk {
		return false
	}
	target, ok := t.Target()
	return ok && target == partner
}
