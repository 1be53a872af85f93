// Package brains holds the three competing decision makers (reflexive,
// associative and deliberative) and the arbitration that picks between
// their proposals.
package brains

import (
	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Kind identifies a brain.
type Kind uint8

const (
	Reflexive Kind = iota
	Associative
	Deliberative
)

func (k Kind) String() string {
	switch k {
	case Reflexive:
		return "reflexive"
	case Associative:
		return "associative"
	case Deliberative:
		return "deliberative"
	}
	return "brain(?)"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Proposal is one brain's bid for what to do next.
type Proposal struct {
	Brain     Kind             `json:"brain"`
	Action    actions.Template `json:"action"`
	Urgency   float64          `json:"urgency"`
	Rationale string           `json:"rationale"`
}

// Powers is how much authority each brain currently has.
type Powers struct {
	Reflexive    float64 `json:"reflexive"`
	Associative  float64 `json:"associative"`
	Deliberative float64 `json:"deliberative"`
}

// Of returns k's power.
func (p Powers) Of(k Kind) float64 {
	switch k {
	case Reflexive:
		return p.Reflexive
	case Associative:
		return p.Associative
	case Deliberative:
		return p.Deliberative
	}
	return 0
}

// ComputePowers derives authority from the agent's condition. Bodily
// distress hands control to reflexes, emotion and stress to associations,
// and a calm, alert, conscientious mind to deliberation.
func ComputePowers(s *psyche.State) Powers {
	unit := func(v float64) float64 { return min(max(v, 0), 1) }
	hungerF := unit(s.Needs.Hunger / 100)
	hungerF *= hungerF
	painF := unit(s.Pain / 100)
	painF *= painF
	fatigue := 1 - unit(s.Needs.Energy/100)
	fatigueF := fatigue * fatigue * fatigue
	fear := s.Emotions.Intensity(mind.Fear)

	stress := unit(s.Emotions.Stress / 100)
	volatility := 0.5 + s.Traits.Neuroticism*0.5
	associative := 25 + s.Emotions.TotalIntensity()*50*volatility*(1+stress*0.5)

	alertPenalty := 0.0
	if a := s.Consciousness.Alertness; a < 0.5 {
		alertPenalty = (0.5 - a) * 2
	}
	deliberative := (30 + s.Traits.Conscientiousness*40) *
		(1 - stress*0.5) *
		(1 - (hungerF+painF)*0.3) *
		(1 - alertPenalty)

	return Powers{
		Reflexive:    hungerF*100 + painF*100 + fatigueF*80 + fear*50,
		Associative:  associative,
		Deliberative: deliberative,
	}
}

// Score is what a proposal is worth under the given powers.
func Score(p Proposal, pw Powers) float64 { return p.Urgency * pw.Of(p.Brain) }

// Arbitrate picks the proposal with the highest urgency × power. Nothing
// wins when there are no proposals or every score is zero.
func Arbitrate(proposals []Proposal, pw Powers) (Proposal, bool) {
	var (
		best   Proposal
		bestSc float64
		found  bool
	)
	for _, p := range proposals {
		if sc := Score(p, pw); sc > bestSc {
			best, bestSc, found = p, sc, true
		}
	}
	return best, found
}
