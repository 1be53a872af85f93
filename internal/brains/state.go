package brains

import "github.com/talgya/mini-mind/internal/planner"

// State is one agent's brain between decision cycles.
type State struct {
	Winner       *Kind              `json:"winner,omitempty"`
	Proposals    []Proposal         `json:"proposals"`
	Powers       Powers             `json:"powers"`
	Chosen       *Proposal          `json:"chosen,omitempty"`
	Deliberative *DeliberativeBrain `json:"-"`
}

// NewState returns an idle brain whose deliberation plans with p.
func NewState(p *planner.Planner) *State {
	return &State{Deliberative: NewDeliberative(p)}
}

// WasWinner reports whether k won the previous cycle.
func (s *State) WasWinner(k Kind) bool { return s.Winner != nil && *s.Winner == k }

// Decide runs every brain on sit and arbitrates. It returns false when no
// brain has anything worth doing, in which case the current action stands
// and the previous winner is kept.
func (s *State) Decide(sit *Situation) (Proposal, bool) {
	var proposals []Proposal
	if p, ok := ProposeReflexive(sit, s.WasWinner(Reflexive)); ok {
		proposals = append(proposals, p)
	}
	if p, ok := ProposeAssociative(sit); ok {
		proposals = append(proposals, p)
	}
	if p, ok := s.Deliberative.Propose(sit); ok {
		proposals = append(proposals, p)
	}
	s.Proposals = proposals
	s.Powers = ComputePowers(sit.State)

	chosen, ok := Arbitrate(s.Proposals, s.Powers)
	if !ok {
		s.Chosen = nil
		return Proposal{}, false
	}
	s.Chosen = &chosen
	s.Winner = ptr(chosen.Brain)
	return chosen, true
}
