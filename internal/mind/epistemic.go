package mind

// KnowledgeGap returns the item concept an agent would need to ask about
// before it can pursue pat: pat asks self to hold some c, and no entity
// other than self is known to have any.
func (s *Store) KnowledgeGap(pat Pattern) (Concept, bool) {
	if pat.Subject.Kind != NodeSelf || pat.Predicate != Contains || pat.Object.Kind != ValueItem {
		return 0, false
	}
	c := pat.Object.Concept
	if len(s.Sources(c)) > 0 {
		return 0, false
	}
	return c, true
}

// WantedItem maps a goal onto the item concept that would satisfy it,
// where one exists. Hunger wants food; an explicit possession pattern
// wants its item.
func (s *Store) WantedItem(g Goal) (Concept, bool) {
	for _, p := range g.Conditions {
		switch {
		case p.Predicate == Contains && p.Object.Kind == ValueItem:
			return p.Object.Concept, true
		case p.Subject.Kind == NodeSelf && p.Predicate == Hunger:
			for _, c := range []Concept{Apple, Berry} {
				if s.IsA(ConceptNode(c), Food) {
					return c, true
				}
			}
			return Apple, true
		}
	}
	return 0, false
}
