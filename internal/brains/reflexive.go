package brains

import (
	"fmt"

	"github.com/talgya/mini-mind/internal/mind"
)

// ProposeReflexive reacts to raw bodily state. wasWinner lowers every bar
// so a reflex that took control keeps it until the need has really eased.
func ProposeReflexive(sit *Situation, wasWinner bool) (Proposal, bool) {
	s := sit.State
	hysteresis := func(continuing, starting float64) float64 {
		if wasWinner {
			return continuing
		}
		return starting
	}
	energy, hunger := s.Needs.Energy, s.Needs.Hunger

	if sit.doing(mind.ActSleep) {
		if energy >= 90 {
			return sit.propose(Reflexive, mind.ActWakeUp, nil, nil, 50, fmt.Sprintf("rested at %.0f energy, waking", energy))
		}
		return sit.propose(Reflexive, mind.ActSleep, nil, nil, 100-energy, fmt.Sprintf("still tired at %.0f energy", energy))
	}

	hasFood := s.Inventory.HasEdible(sit.Beliefs.Ontology())

	if stress := s.Emotions.Stress; stress > hysteresis(70, 90) {
		switch {
		case hunger > 30 && hasFood:
			return sit.propose(Reflexive, mind.ActEat, nil, nil, 100, fmt.Sprintf("snapped at stress %.0f, eating", stress))
		case hunger > 50:
			return sit.propose(Reflexive, mind.ActExplore, nil, nil, 95, fmt.Sprintf("snapped at stress %.0f, searching for food", stress))
		case energy < 50:
			return sit.propose(Reflexive, mind.ActSleep, nil, nil, 100, fmt.Sprintf("snapped at stress %.0f, collapsing", stress))
		default:
			return sit.propose(Reflexive, mind.ActFlee, nil, nil, 90, fmt.Sprintf("snapped at stress %.0f, hiding", stress))
		}
	}

	if pain := s.Pain; pain > hysteresis(50, 70) {
		return sit.propose(Reflexive, mind.ActIdle, nil, nil, pain, fmt.Sprintf("pain %.0f, can't move", pain))
	}
	if hunger > hysteresis(60, 80) && hasFood {
		return sit.propose(Reflexive, mind.ActEat, nil, nil, hunger, fmt.Sprintf("starving at %.0f, eating", hunger))
	}
	if energy < hysteresis(30, 15) {
		return sit.propose(Reflexive, mind.ActSleep, nil, nil, 100-energy, fmt.Sprintf("exhausted at %.0f energy", energy))
	}
	if fear := s.Emotions.Intensity(mind.Fear); fear > hysteresis(0.5, 0.8) {
		return sit.propose(Reflexive, mind.ActFlee, nil, nil, fear*100, fmt.Sprintf("terrified (%.2f), fleeing", fear))
	}
	return Proposal{}, false
}
