package nervous

import "github.com/talgya/mini-mind/internal/mind"

// PriorityScale puts goal priorities on the same 0–100 footing as the
// urgencies the other brains propose with.
const PriorityScale = 100.0

// Formulate turns the top urgency into a goal when it is at least
// threshold. Sources with no desired state yield a goal with no
// conditions, which plans to nothing.
func Formulate(urgencies []Urgency, threshold float64) (mind.Goal, bool) {
	if len(urgencies) == 0 {
		return mind.Goal{}, false
	}
	top := urgencies[0]
	for _, u := range urgencies[1:] {
		if u.Value > top.Value {
			top = u
		}
	}
	if top.Value < threshold {
		return mind.Goal{}, false
	}
	return mind.Goal{Conditions: Desired(top.Source), Priority: top.Value * PriorityScale}, true
}

// Desired is the state that relieves s.
func Desired(s Source) []mind.Pattern {
	self := mind.Self()
	switch s {
	case Hunger:
		return []mind.Pattern{mind.Match(self, mind.Hunger, mind.Int(0))}
	case Energy:
		return []mind.Pattern{mind.Match(self, mind.Energy, mind.Int(100))}
	case Social:
		return []mind.Pattern{mind.Match(self, mind.SocialDrive, mind.Int(0))}
	case Pain:
		return []mind.Pattern{mind.Match(self, mind.Pain, mind.Int(0))}
	}
	return nil
}
