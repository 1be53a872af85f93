package mind

// Episode is something that happened in view of an agent.
type Episode struct {
	ID     uint64
	Actor  EntityID
	Action ActionType
	Target *EntityID
	Tick   uint64
}

// Feeling returns the emotion an action evokes from its ontology category:
// violence frightens, sociability pleases. Other actions are not memorable.
func (s *Store) Feeling(a ActionType) (EmotionType, float64, bool) {
	switch {
	case s.IsA(ActionNode(a), ViolentAction):
		return Fear, 0.8, true
	case s.IsA(ActionNode(a), SocialAction):
		return Joy, 0.5, true
	}
	return 0, 0, false
}

// RecordEpisode writes an emotionally significant episode as a cluster of
// triples on an event node. Episodes involving self are twice as salient
// as merely witnessed ones. It reports whether anything was recorded.
func (s *Store) RecordEpisode(self EntityID, ep Episode) bool {
	emotion, intensity, ok := s.Feeling(ep.Action)
	if !ok {
		return false
	}
	importance := 0.5
	if ep.Actor == self || (ep.Target != nil && *ep.Target == self) {
		importance = 1
	}
	s.writeEpisode(ep, Emotion(emotion, intensity), intensity*importance)
	return true
}

// RecordSocial writes a social exchange between self and a partner. The
// valence sign picks joy or sadness.
func (s *Store) RecordSocial(self EntityID, ep Episode, valence float64) bool {
	if ep.Actor != self && (ep.Target == nil || *ep.Target != self) {
		return false
	}
	emotion, intensity := Joy, valence
	if valence <= 0 {
		emotion, intensity = Sadness, -valence
	}
	s.writeEpisode(ep, Emotion(emotion, intensity), intensity)
	return true
}

func (s *Store) writeEpisode(ep Episode, felt Value, salience float64) {
	meta := Metadata{
		Source:     SourceExperienced,
		Memory:     MemoryEpisodic,
		Timestamp:  ep.Tick,
		Confidence: 1,
		Salience:   salience,
	}
	ev := EventNode(ep.ID)
	s.Assert(Triple{Subject: ev, Predicate: Actor, Object: EntityValue(ep.Actor), Meta: meta})
	s.Assert(Triple{Subject: ev, Predicate: ActionTaken, Object: ActionValue(ep.Action), Meta: meta})
	if ep.Target != nil {
		s.Assert(Triple{Subject: ev, Predicate: Target, Object: EntityValue(*ep.Target), Meta: meta})
	}
	s.Assert(Triple{Subject: ev, Predicate: Timestamp, Object: Int(int64(ep.Tick)), Meta: meta})
	s.Assert(Triple{Subject: ev, Predicate: FeltEmotion, Object: felt, Meta: meta})
}

// LearnHearsay stores facts another agent told us, at reduced confidence.
func (s *Store) LearnHearsay(from EntityID, facts []Triple, tick uint64) int {
	for _, f := range facts {
		s.Assert(Triple{
			Subject:   f.Subject,
			Predicate: f.Predicate,
			Object:    f.Object,
			Meta:      Hearsay(tick, from, 0.7),
		})
	}
	return len(facts)
}

// KnownAbout returns personal facts worth telling someone asking about c:
// where c can be found and what produces it.
func (s *Store) KnownAbout(c Concept) []Triple {
	var out []Triple
	for _, id := range s.Sources(c) {
		for _, t := range s.Query(EntityNode(id), Contains, Any) {
			if t.Object.Kind == ValueItem && t.Object.Concept == c {
				out = append(out, t)
			}
		}
		out = append(out, s.Query(EntityNode(id), LocatedAt, Any)...)
	}
	for _, t := range s.Query(AnyNode, Produces, Any) {
		if t.Object.Kind == ValueItem && t.Object.Concept == c {
			out = append(out, t)
		}
	}
	return out
}
