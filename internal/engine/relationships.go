// Social consequences of actions: introductions, conversation turns,
// violence and walking away mid-conversation.
package engine

import (
	"log/slog"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/social"
)

const (
	attackDamage    = 15.0
	listenerRelief  = 0.05 // social drive a listener sheds per turn
	snubSadness     = 0.2
	abandonValence  = -0.3
	turnValence     = 0.3
	answeredValence = 0.5
)

// interact applies what a completed action means between two agents.
func (s *Simulation) interact(a *agents.Agent, out actions.Outcome, tick uint64) {
	switch out.Action {
	case mind.ActIntroduce:
		other := s.partner(out.Target)
		if other == nil {
			return
		}
		social.Met(a.Beliefs, other.ID, tick)
		social.Met(other.Beliefs, a.ID, tick)
		s.addEvent(tick, "social", "%s met %s", a.Name, other.Name)

	case mind.ActTalk:
		if out.Speech != nil {
			s.speak(a, *out.Speech, tick)
		}

	case mind.ActAttack:
		victim := s.partner(out.Target)
		if victim == nil {
			return
		}
		victim.State.Hurt(attackDamage)
		social.Attacked(victim.Beliefs, a.ID, tick)
		s.addEvent(tick, "violence", "%s attacked %s", a.Name, victim.Name)
	}
}

func (s *Simulation) partner(id *mind.EntityID) *agents.Agent {
	if id == nil {
		return nil
	}
	return s.AgentIndex[*id]
}

// speak takes a's conversational turn. A speaker who owes an answer
// replies from what it knows; whatever is said reaches the listener as
// hearsay.
func (s *Simulation) speak(a *agents.Agent, sp actions.Speech, tick uint64) {
	listener := s.AgentIndex[sp.Partner]
	if listener == nil {
		return
	}
	topic, content := sp.Topic, sp.Content
	valence := turnValence
	if seat, ok := s.Conversations.Seat(a.ID); ok && seat.Partner == listener.ID && seat.OwesResponse {
		if c, ok := s.Conversations.Get(seat.ConversationID); ok {
			if question, ok := c.LastTurn(); ok {
				topic, content = social.Reply(a.Beliefs, question)
				if len(content) > 0 {
					valence = answeredValence
				}
			}
		}
	}

	id, turn := s.Conversations.Say(a.ID, listener.ID, topic, content, tick)
	if len(content) > 0 {
		listener.Beliefs.LearnHearsay(a.ID, content, tick)
	}
	social.Talked(a.Beliefs, listener.ID, tick)
	social.Talked(listener.Beliefs, a.ID, tick)
	listener.State.Drives.Social = max(listener.State.Drives.Social-listenerRelief, 0)

	s.nextEpisode++
	ep := mind.Episode{ID: s.nextEpisode, Actor: a.ID, Action: mind.ActSocial, Target: &listener.ID, Tick: tick}
	a.Beliefs.RecordSocial(a.ID, ep, turnValence)
	listener.Beliefs.RecordSocial(listener.ID, ep, valence)

	slog.Debug("conversation turn",
		"conversation", id,
		"speaker", a.ID,
		"listener", listener.ID,
		"intent", turn.Intent,
		"facts", len(content),
	)
	if turn.Intent == social.Farewell {
		s.addEvent(tick, "social", "%s and %s finished talking", a.Name, listener.Name)
	}
}

// abandon ends a's conversation because a did something else on its turn.
func (s *Simulation) abandon(a *agents.Agent, tick uint64) {
	ab, ok := s.Conversations.Leave(a.ID)
	if !ok {
		return
	}
	other := s.AgentIndex[ab.Abandoned]
	if other == nil {
		return
	}
	s.nextEpisode++
	ep := mind.Episode{ID: s.nextEpisode, Actor: a.ID, Action: mind.ActSocial, Target: &other.ID, Tick: tick}
	other.Beliefs.RecordSocial(other.ID, ep, abandonValence)
	other.State.Emotions.Add(mind.Sadness, snubSadness)
	s.addEvent(tick, "social", "%s walked away from %s", a.Name, other.Name)
}
