package mind

import (
	"math"
	"slices"
)

// recencyHalfLife is how quickly old episodes lose weight when forming
// impressions, in simulated seconds.
const recencyHalfLife = 300.0

type episodeSummary struct {
	id      uint64
	tick    uint64
	valence float64
}

// Consolidate folds episodic memories about other actors into semantic
// beliefs: an actor whose episodes are consistently negative becomes
// Hostile, consistently positive becomes Friendly. An actor holds at most
// one of the two, and each belief cites the episodes that support it. It returns the number of beliefs formed.
func (s *Store) Consolidate(self EntityID, now uint64, ticksPerSecond float64) int {
	actors := make(map[uint64]EntityID)
	valences := make(map[uint64]float64)
	ticks := make(map[uint64]uint64)

	for i := range s.triples {
		t := &s.triples[i]
		if t.Subject.Kind != NodeEvent {
			continue
		}
		id := t.Subject.ID
		switch t.Predicate {
		case Actor:
			if a, ok := t.Object.AsEntity(); ok && a != self {
				actors[id] = a
			}
		case FeltEmotion:
			if t.Object.Kind == ValueEmotion {
				valences[id] = t.Object.Emotion.Valence()
			}
		case Timestamp:
			ticks[id] = uint64(max(t.Object.Int, 0))
		}
	}

	byActor := make(map[EntityID][]episodeSummary)
	for id, actor := range actors {
		v, ok := valences[id]
		if !ok {
			continue
		}
		byActor[actor] = append(byActor[actor], episodeSummary{id: id, tick: ticks[id], valence: v})
	}

	if ticksPerSecond <= 0 {
		ticksPerSecond = 1
	}
	halfLife := recencyHalfLife * ticksPerSecond

	formed := 0
	for actor, eps := range byActor {
		var weighted, total float64
		evidence := make([]uint64, 0, len(eps))
		for _, e := range eps {
			age := 0.0
			if now > e.tick {
				age = float64(now - e.tick)
			}
			recency := math.Pow(0.5, age/halfLife)
			w := (0.2 + math.Abs(e.valence)*0.8) * (0.3 + recency*0.7)
			weighted += e.valence * w
			total += w
			evidence = append(evidence, e.id)
		}
		if total == 0 {
			continue
		}
		slices.Sort(evidence)
		aggregate := weighted / total
		confidence := min(max(total/2, 0), 1)
		if confidence <= 0.4 {
			continue
		}

		var trait Concept
		switch {
		case aggregate < -0.3:
			trait = Hostile
		case aggregate > 0.3:
			trait = Friendly
		default:
			continue
		}
		// An impression replaces the previous one, evidence included.
		node := EntityNode(actor)
		s.Remove(node, HasTrait, ConceptValue(Hostile))
		s.Remove(node, HasTrait, ConceptValue(Friendly))
		s.Assert(Triple{
			Subject:   node,
			Predicate: HasTrait,
			Object:    ConceptValue(trait),
			Meta: Metadata{
				Source:     SourceInferred,
				Memory:     MemorySemantic,
				Timestamp:  now,
				Confidence: confidence,
				Salience:   confidence,
				Evidence:   evidence,
			},
		})
		formed++
	}
	return formed
}
