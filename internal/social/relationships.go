package social

import "github.com/talgya/mini-mind/internal/mind"

// How much one event moves an attitude, on the -1..1 scale.
const (
	talkTrust       = 0.05
	talkAffection   = 0.1
	attackTrust     = 0.3
	attackAffection = 0.2
)

// Attitudes is how one agent regards another.
type Attitudes struct {
	Trust     float64 `json:"trust"`
	Affection float64 `json:"affection"`
}

// AttitudesOf reads what beliefs hold about other.
func AttitudesOf(beliefs *mind.Store, other mind.EntityID) Attitudes {
	n := mind.EntityNode(other)
	read := func(p mind.Predicate) float64 {
		if v, ok := beliefs.Get(n, p); ok {
			f, _ := v.AsFloat()
			return f
		}
		return 0
	}
	return Attitudes{Trust: read(mind.Trust), Affection: read(mind.Affection)}
}

// Met records a completed introduction.
func Met(beliefs *mind.Store, other mind.EntityID, tick uint64) {
	n := mind.EntityNode(other)
	meta := mind.Experience(tick)
	beliefs.Assert(mind.Triple{Subject: n, Predicate: mind.Introduced, Object: mind.Bool(true), Meta: meta})
	beliefs.Assert(mind.Triple{Subject: n, Predicate: mind.Knows, Object: mind.Bool(true), Meta: meta})
	adjust(beliefs, other, 0, 0, tick)
}

// Talked warms the speaker toward partner.
func Talked(beliefs *mind.Store, partner mind.EntityID, tick uint64) {
	adjust(beliefs, partner, talkTrust, talkAffection, tick)
}

// Attacked sours the victim on the attacker.
func Attacked(beliefs *mind.Store, attacker mind.EntityID, tick uint64) {
	adjust(beliefs, attacker, -attackTrust, -attackAffection, tick)
}

func adjust(beliefs *mind.Store, other mind.EntityID, dTrust, dAffection float64, tick uint64) {
	a := AttitudesOf(beliefs, other)
	a.Trust = clamp(a.Trust + dTrust)
	a.Affection = clamp(a.Affection + dAffection)

	n := mind.EntityNode(other)
	meta := mind.Experience(tick)
	beliefs.Assert(mind.Triple{Subject: n, Predicate: mind.Trust, Object: mind.Attitude(a.Trust), Meta: meta})
	beliefs.Assert(mind.Triple{Subject: n, Predicate: mind.Affection, Object: mind.Attitude(a.Affection), Meta: meta})

	beliefs.RemoveMatching(mind.Match(n, mind.Relationship, mind.Any))
	beliefs.Assert(mind.Triple{Subject: n, Predicate: mind.Relationship, Object: mind.ConceptValue(Classify(a)), Meta: meta})
}

// Classify names the relationship a pair of attitudes amounts to.
func Classify(a Attitudes) mind.Concept {
	switch {
	case a.Trust <= -0.5:
		return mind.Enemy
	case a.Affection <= -0.3:
		return mind.Rival
	case a.Affection >= 0.5 && a.Trust >= 0.3:
		return mind.Friend
	}
	return mind.Acquaintance
}

func clamp(v float64) float64 { return min(max(v, -1), 1) }
