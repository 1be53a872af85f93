package brains

import (
	"fmt"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
)

// ProposeAssociative reacts to learned associations: who and what the
// agent has feelings about, and whose turn it is in a conversation. A turn
// owed in a conversation wins outright; otherwise the most urgent candidate
// is returned.
func ProposeAssociative(sit *Situation) (Proposal, bool) {
	var (
		best  Proposal
		found bool
	)
	consider := func(p Proposal, ok bool) {
		if ok && (!found || p.Urgency > best.Urgency) {
			best, found = p, true
		}
	}

	s := sit.State
	social := s.Drives.Social

	// A turn in an ongoing conversation overrides every other association.
	if c := sit.Conversation; c != nil && c.MyTurn {
		partner := c.Partner
		switch {
		case c.OwesResponse:
			if p, ok := sit.talk(Associative, partner, actions.Topic{Kind: actions.TopicGeneral}, 90, "answering my partner"); ok {
				return p, true
			}
		case social > 0.2:
			if p, ok := sit.talk(Associative, partner, actions.Topic{Kind: actions.TopicGeneral}, 70, "keeping the conversation going"); ok {
				return p, true
			}
		}
	}

	for _, v := range sit.Visible {
		feel := triggered(sit.Beliefs, v.ID)
		id := v.ID
		if f := feel[mind.Fear]; f > 0.3 {
			consider(sit.propose(Associative, mind.ActFlee, &id, nil, f*80, fmt.Sprintf("entity %d frightens me", id)))
		}
		if j := feel[mind.Joy]; j > 0.3 {
			consider(sit.propose(Associative, mind.ActWalk, nil, ptr(v.Pos), j*50, fmt.Sprintf("drawn to entity %d", id)))
		}
		if a := feel[mind.Anger]; a > 0.5 {
			consider(sit.propose(Associative, mind.ActAttack, &id, nil, a*60, fmt.Sprintf("entity %d angers me", id)))
		}
	}

	if f := s.Emotions.Intensity(mind.Fear); f > 0.7 {
		consider(sit.propose(Associative, mind.ActFlee, nil, nil, f*90, fmt.Sprintf("afraid (%.2f)", f)))
	}

	if social > 0.3 && sit.Conversation == nil {
		for _, v := range sit.Visible {
			n := mind.EntityNode(v.ID)
			if !sit.Beliefs.IsA(n, mind.Person) {
				continue
			}
			if sit.Beliefs.Has(n, mind.Introduced, mind.Bool(true)) {
				trust := trustOf(sit.Beliefs, v.ID)
				if trust >= 0 {
					consider(sit.talk(Associative, v.ID, actions.Topic{Kind: actions.TopicGeneral}, social*40+trust*10, fmt.Sprintf("lonely, and I trust %d", v.ID)))
				}
				continue
			}
			id := v.ID
			consider(sit.propose(Associative, mind.ActIntroduce, &id, nil, social*35, fmt.Sprintf("lonely, meeting %d", v.ID)))
		}
	}
	return best, found
}

func (s *Situation) talk(k Kind, partner mind.EntityID, topic actions.Topic, urgency float64, why string) (Proposal, bool) {
	p, ok := s.propose(k, mind.ActTalk, &partner, nil, urgency, why)
	if ok {
		p.Action.Topic = &topic
	}
	return p, ok
}

// triggered sums the emotions e evokes, directly and through every type
// the agent believes it has.
func triggered(beliefs *mind.Store, e mind.EntityID) map[mind.EmotionType]float64 {
	out := make(map[mind.EmotionType]float64)
	add := func(n mind.Node) {
		for _, t := range beliefs.Query(n, mind.TriggersEmotion, mind.Any) {
			if t.Object.Kind == mind.ValueEmotion {
				out[t.Object.Emotion] += t.Object.Float
			}
		}
	}
	n := mind.EntityNode(e)
	add(n)
	for _, c := range beliefs.AllTypes(n) {
		add(mind.ConceptNode(c))
	}
	return out
}

func trustOf(beliefs *mind.Store, e mind.EntityID) float64 {
	v, ok := beliefs.Get(mind.EntityNode(e), mind.Trust)
	if !ok {
		return 0
	}
	f, _ := v.AsFloat()
	return f
}
