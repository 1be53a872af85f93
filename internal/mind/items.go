package mind

// CountOf returns how many of c the subject is believed to hold. The first
// record found wins, so a personal count shadows cultural knowledge.
func (s *Store) CountOf(subject Node, c Concept) uint32 {
	var n uint32
	s.each(Pattern{Subject: subject, Predicate: Contains}, func(t *Triple) bool {
		if t.Object.Kind == ValueItem && t.Object.Concept == c {
			n = t.Object.Qty
			return false
		}
		return true
	})
	return n
}

// HasAny reports whether the subject holds at least one c.
func (s *Store) HasAny(subject Node, c Concept) bool {
	return s.CountOf(subject, c) > 0
}

// HasAnyItems reports whether the subject holds anything at all.
func (s *Store) HasAnyItems(subject Node) bool {
	found := false
	s.each(Pattern{Subject: subject, Predicate: Contains}, func(t *Triple) bool {
		if t.Object.Kind == ValueItem && t.Object.Qty > 0 {
			found = true
			return false
		}
		return true
	})
	return found
}

// ConfidenceOf returns the confidence that the subject holds c, or 0 when
// it is unknown or known to be empty.
func (s *Store) ConfidenceOf(subject Node, c Concept) float64 {
	conf := 0.0
	s.each(Pattern{Subject: subject, Predicate: Contains}, func(t *Triple) bool {
		if t.Object.Kind == ValueItem && t.Object.Concept == c && t.Object.Qty > 0 {
			conf = t.Meta.Confidence
			return false
		}
		return true
	})
	return conf
}

// EdibleItems returns the concepts the subject holds that are food.
func (s *Store) EdibleItems(subject Node) []Concept {
	var out []Concept
	s.each(Pattern{Subject: subject, Predicate: Contains}, func(t *Triple) bool {
		if t.Object.Kind == ValueItem && t.Object.Qty > 0 &&
			(s.IsA(ConceptNode(t.Object.Concept), Food) || s.HasTrait(ConceptNode(t.Object.Concept), Edible)) {
			out = append(out, t.Object.Concept)
		}
		return true
	})
	return out
}

// Sources returns entities other than self believed to hold at least one c.
func (s *Store) Sources(c Concept) []EntityID {
	var out []EntityID
	seen := make(map[EntityID]struct{})
	s.each(Pattern{Predicate: Contains}, func(t *Triple) bool {
		id, ok := t.Subject.Entity()
		if !ok || t.Object.Kind != ValueItem || t.Object.Concept != c || t.Object.Qty == 0 {
			return true
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return true
	})
	return out
}
