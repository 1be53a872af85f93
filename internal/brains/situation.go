package brains

import (
	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Sighting is an entity currently in view.
type Sighting struct {
	ID  mind.EntityID `json:"id"`
	Pos mind.Vec2     `json:"pos"`
}

// Conversation is the agent's part in an ongoing conversation.
type Conversation struct {
	ID           string        `json:"id"`
	Partner      mind.EntityID `json:"partner"`
	MyTurn       bool          `json:"my_turn"`
	OwesResponse bool          `json:"owes_response"`
}

// Situation is everything the brains read in one decision cycle. Only
// Beliefs is mutated, and only by the deliberative brain's bookkeeping.
type Situation struct {
	Self         mind.EntityID
	Tick         uint64
	State        *psyche.State
	Beliefs      *mind.Store
	Position     mind.Vec2
	Visible      []Sighting
	Current      *mind.ActionType // running activity
	Conversation *Conversation
	Goal         *mind.Goal
	Registry     *actions.Registry
}

func (s *Situation) doing(a mind.ActionType) bool {
	return s.Current != nil && *s.Current == a
}

func (s *Situation) template(a mind.ActionType, target *mind.EntityID, pos *mind.Vec2) (actions.Template, bool) {
	t, err := s.Registry.Template(a, target, pos)
	return t, err == nil
}

func (s *Situation) propose(k Kind, a mind.ActionType, target *mind.EntityID, pos *mind.Vec2, urgency float64, why string) (Proposal, bool) {
	t, ok := s.template(a, target, pos)
	if !ok {
		return Proposal{}, false
	}
	return Proposal{Brain: k, Action: t, Urgency: urgency, Rationale: why}, true
}

// knownPosition is where the agent believes e is.
func knownPosition(beliefs *mind.Store, e mind.EntityID) (mind.Vec2, bool) {
	v, ok := beliefs.Get(mind.EntityNode(e), mind.LocatedAt)
	if !ok {
		return mind.Vec2{}, false
	}
	tile, ok := v.AsTile()
	if !ok {
		return mind.Vec2{}, false
	}
	return tile.Center(), true
}

func ptr[T any](v T) *T { return &v }
