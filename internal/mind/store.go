package mind

import "slices"

type subjectPred struct {
	s Node
	p Predicate
}

// Store is one agent's knowledge. Personal triples live in a backing list
// with three derived indices; shared cultural blocks and the ontology are
// read through, never written.
//
// A Store is owned by a single agent and is not safe for concurrent use.
type Store struct {
	ontology *Ontology
	shared   []*Block

	triples       []Triple
	bySubject     map[Node][]int
	bySubjectPred map[subjectPred]int // functional predicates only
	byPredicate   map[Predicate][]int
}

// NewStore creates an empty store layered over ontology and any shared
// blocks. Both are held by reference.
func NewStore(ontology *Ontology, shared ...*Block) *Store {
	s := &Store{ontology: ontology}
	for _, b := range shared {
		if b != nil {
			s.shared = append(s.shared, b)
		}
	}
	s.rebuild()
	return s
}

// Ontology returns the taxonomy the store reads through to.
func (s *Store) Ontology() *Ontology { return s.ontology }

// Shared returns the attached cultural blocks.
func (s *Store) Shared() []*Block { return slices.Clone(s.shared) }

// AddShared attaches another shared block.
func (s *Store) AddShared(b *Block) {
	if b != nil {
		s.shared = append(s.shared, b)
	}
}

// Len returns the number of personal triples.
func (s *Store) Len() int { return len(s.triples) }

// Triples returns a copy of the personal triples.
func (s *Store) Triples() []Triple { return slices.Clone(s.triples) }

// Replace discards every personal triple and loads ts in their place.
func (s *Store) Replace(ts []Triple) {
	s.triples = slices.Clone(ts)
	s.rebuild()
}

func (s *Store) rebuild() {
	s.bySubject = make(map[Node][]int, len(s.triples))
	s.bySubjectPred = make(map[subjectPred]int)
	s.byPredicate = make(map[Predicate][]int)
	for i := range s.triples {
		s.index(i)
	}
}

func (s *Store) index(i int) {
	t := &s.triples[i]
	s.bySubject[t.Subject] = append(s.bySubject[t.Subject], i)
	s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], i)
	if t.Predicate.Functional() {
		s.bySubjectPred[subjectPred{t.Subject, t.Predicate}] = i
	}
}

// removeWhere drops every personal triple matching fn and rebuilds the
// indices when anything was removed.
func (s *Store) removeWhere(fn func(*Triple) bool) int {
	before := len(s.triples)
	s.triples = slices.DeleteFunc(s.triples, func(t Triple) bool { return fn(&t) })
	n := before - len(s.triples)
	if n > 0 {
		s.rebuild()
	}
	return n
}

// Assert inserts t or replaces what it supersedes:
//   - Contains with an item object replaces the subject's record for the
//     same item concept;
//   - other functional predicates replace the subject's single value;
//   - an identical non-functional fact only has its timestamp and
//     confidence refreshed.
//
// Replacement keeps the incoming metadata; the superseded triple's history
// is discarded.
func (s *Store) Assert(t Triple) {
	switch {
	case t.Predicate == Contains && t.Object.Kind == ValueItem:
		if s.hasLocal(t.Subject, func(o *Triple) bool {
			return o.Predicate == Contains && o.Object.Kind == ValueItem && o.Object.Concept == t.Object.Concept
		}) {
			s.removeWhere(func(o *Triple) bool {
				return o.Subject == t.Subject && o.Predicate == Contains &&
					o.Object.Kind == ValueItem && o.Object.Concept == t.Object.Concept
			})
		}
	case t.Predicate.Functional():
		if _, ok := s.bySubjectPred[subjectPred{t.Subject, t.Predicate}]; ok {
			s.removeWhere(func(o *Triple) bool {
				return o.Subject == t.Subject && o.Predicate == t.Predicate
			})
		}
	default:
		for _, i := range s.bySubject[t.Subject] {
			o := &s.triples[i]
			if o.Predicate == t.Predicate && o.Object == t.Object {
				o.Meta.Timestamp = t.Meta.Timestamp
				o.Meta.Confidence = t.Meta.Confidence
				return
			}
		}
	}
	s.triples = append(s.triples, t)
	s.index(len(s.triples) - 1)
}

func (s *Store) hasLocal(subject Node, fn func(*Triple) bool) bool {
	for _, i := range s.bySubject[subject] {
		if fn(&s.triples[i]) {
			return true
		}
	}
	return false
}

// Remove deletes the personal triple exactly matching (subject, p, o).
func (s *Store) Remove(subject Node, p Predicate, o Value) bool {
	return s.removeWhere(func(t *Triple) bool {
		return t.Subject == subject && t.Predicate == p && t.Object == o
	}) > 0
}

// RemoveMatching deletes every personal triple matching pat.
func (s *Store) RemoveMatching(pat Pattern) int {
	return s.removeWhere(pat.matchesPtr)
}

func (p Pattern) matchesPtr(t *Triple) bool { return p.Matches(*t) }

// Query returns every triple matching the given slots across all layers:
// personal first, then shared blocks, then the ontology. Zero values are
// wildcards.
func (s *Store) Query(subject Node, p Predicate, o Value) []Triple {
	pat := Pattern{Subject: subject, Predicate: p, Object: o}
	var out []Triple
	s.each(pat, func(t *Triple) bool {
		out = append(out, *t)
		return true
	})
	return out
}

// each visits matching triples in layer order until fn returns false.
func (s *Store) each(pat Pattern, fn func(*Triple) bool) {
	if !s.eachLocal(pat, fn) {
		return
	}
	for _, b := range s.shared {
		for i := range b.triples {
			if pat.Matches(b.triples[i]) && !fn(&b.triples[i]) {
				return
			}
		}
	}
	if s.ontology == nil {
		return
	}
	for i := range s.ontology.triples {
		if pat.Matches(s.ontology.triples[i]) && !fn(&s.ontology.triples[i]) {
			return
		}
	}
}

// eachLocal picks the most selective personal index for pat.
func (s *Store) eachLocal(pat Pattern, fn func(*Triple) bool) bool {
	visit := func(idx []int) bool {
		for _, i := range idx {
			if pat.Matches(s.triples[i]) && !fn(&s.triples[i]) {
				return false
			}
		}
		return true
	}

	hasSubject := !pat.Subject.IsAny()
	hasPred := pat.Predicate != AnyPredicate
	switch {
	case hasSubject && hasPred && pat.Predicate.Functional():
		if i, ok := s.bySubjectPred[subjectPred{pat.Subject, pat.Predicate}]; ok {
			return visit([]int{i})
		}
		return true
	case hasSubject:
		return visit(s.bySubject[pat.Subject])
	case hasPred:
		return visit(s.byPredicate[pat.Predicate])
	}
	for i := range s.triples {
		if pat.Matches(s.triples[i]) && !fn(&s.triples[i]) {
			return false
		}
	}
	return true
}

// Get returns the first value of (subject, p), personal before shared
// before ontology.
func (s *Store) Get(subject Node, p Predicate) (Value, bool) {
	var v Value
	found := false
	s.each(Pattern{Subject: subject, Predicate: p}, func(t *Triple) bool {
		v, found = t.Object, true
		return false
	})
	return v, found
}

// Lookup is Get returning the whole triple.
func (s *Store) Lookup(subject Node, p Predicate) (Triple, bool) {
	var out Triple
	found := false
	s.each(Pattern{Subject: subject, Predicate: p}, func(t *Triple) bool {
		out, found = *t, true
		return false
	})
	return out, found
}

// Has reports whether the exact fact is known in any layer.
func (s *Store) Has(subject Node, p Predicate, o Value) bool {
	found := false
	s.each(Pattern{Subject: subject, Predicate: p, Object: o}, func(*Triple) bool {
		found = true
		return false
	})
	return found
}

// IsA reports whether n is target, directly or by inheritance. Concept
// nodes resolve through the ontology cache; everything else walks IsA
// edges across all layers with a visited set.
func (s *Store) IsA(n Node, target Concept) bool {
	if n.Kind == NodeConcept && s.ontology.IsA(n.Concept, target) {
		return true
	}
	found := false
	s.walkTypes(n, func(c Concept) bool {
		if s.ontology.IsA(c, target) {
			found = true
		}
		return !found
	})
	return found
}

// HasTrait reports whether n carries trait, directly or through any of its
// types.
func (s *Store) HasTrait(n Node, trait Concept) bool {
	if n.Kind == NodeConcept && s.ontology.HasTrait(n.Concept, trait) {
		return true
	}
	if s.Has(n, HasTrait, ConceptValue(trait)) {
		return true
	}
	found := false
	s.walkTypes(n, func(c Concept) bool {
		if s.ontology.HasTrait(c, trait) || s.Has(ConceptNode(c), HasTrait, ConceptValue(trait)) {
			found = true
		}
		return !found
	})
	return found
}

// AllTypes returns every concept n is a kind of, nearest first.
func (s *Store) AllTypes(n Node) []Concept {
	var out []Concept
	s.walkTypes(n, func(c Concept) bool {
		out = append(out, c)
		return true
	})
	return out
}

// walkTypes visits every concept reachable from n over IsA edges in any
// layer, breadth first, each at most once.
func (s *Store) walkTypes(n Node, fn func(Concept) bool) {
	visited := map[Node]struct{}{n: {}}
	queue := []Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		stop := false
		s.each(Pattern{Subject: cur, Predicate: IsA}, func(t *Triple) bool {
			c, ok := t.Object.AsConcept()
			if !ok {
				return true
			}
			next := ConceptNode(c)
			if _, seen := visited[next]; seen {
				return true
			}
			visited[next] = struct{}{}
			if !fn(c) {
				stop = true
				return false
			}
			queue = append(queue, next)
			return true
		})
		if stop {
			return
		}
	}
}

// Satisfied reports whether some known triple matches pat. A zero-quantity
// item records absence and never satisfies. Item objects match their exact
// quantity, so "holds at least one" is spelled with a wildcard object.
func (s *Store) Satisfied(pat Pattern) bool {
	found := false
	s.each(pat, func(t *Triple) bool {
		if t.Object.Present() {
			found = true
			return false
		}
		return true
	})
	return found
}

// PatternConfidence returns the highest confidence among triples that
// satisfy pat, or 0.
func (s *Store) PatternConfidence(pat Pattern) float64 {
	best := 0.0
	s.each(pat, func(t *Triple) bool {
		if t.Object.Present() && t.Meta.Confidence > best {
			best = t.Meta.Confidence
		}
		return true
	})
	return best
}

// PerceiveSelf records a fresh reading of the agent's own state.
func (s *Store) PerceiveSelf(p Predicate, o Value, tick uint64) {
	s.Assert(Triple{Subject: Self(), Predicate: p, Object: o, Meta: Perception(tick)})
}

// PerceiveEntity records a sighting of another entity.
func (s *Store) PerceiveEntity(id EntityID, p Predicate, o Value, tick uint64, confidence float64) {
	meta := Perception(tick)
	meta.Confidence = confidence
	s.Assert(Triple{Subject: EntityNode(id), Predicate: p, Object: o, Meta: meta})
}
