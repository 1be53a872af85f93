package mind

import "slices"

// Ontology is the shared, immutable taxonomy. Every agent's Store holds the
// same *Ontology; nothing mutates it after construction.
type Ontology struct {
	triples   []Triple
	parents   map[Concept][]Concept            // direct IsA parents
	ancestors map[Concept]map[Concept]struct{} // transitive IsA closure
	traits    map[Concept]map[Concept]struct{} // direct and inherited traits
}

// NewOntology builds an ontology and precomputes its closures. IsA cycles
// are tolerated; each walk stops at concepts it has already visited.
func NewOntology(triples []Triple) *Ontology {
	o := &Ontology{
		triples:   slices.Clone(triples),
		parents:   make(map[Concept][]Concept),
		ancestors: make(map[Concept]map[Concept]struct{}),
		traits:    make(map[Concept]map[Concept]struct{}),
	}

	direct := make(map[Concept][]Concept)
	for _, t := range o.triples {
		if t.Subject.Kind != NodeConcept || t.Object.Kind != ValueConcept {
			continue
		}
		child, obj := t.Subject.Concept, t.Object.Concept
		switch t.Predicate {
		case IsA:
			if !slices.Contains(o.parents[child], obj) {
				o.parents[child] = append(o.parents[child], obj)
			}
		case HasTrait:
			direct[child] = append(direct[child], obj)
		}
	}

	concepts := make(map[Concept]struct{})
	for c := range o.parents {
		concepts[c] = struct{}{}
	}
	for c := range direct {
		concepts[c] = struct{}{}
	}

	for c := range concepts {
		anc := make(map[Concept]struct{})
		traits := make(map[Concept]struct{})
		for _, tr := range direct[c] {
			traits[tr] = struct{}{}
		}
		stack := slices.Clone(o.parents[c])
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := anc[p]; seen {
				continue
			}
			anc[p] = struct{}{}
			for _, tr := range direct[p] {
				traits[tr] = struct{}{}
			}
			stack = append(stack, o.parents[p]...)
		}
		if len(anc) > 0 {
			o.ancestors[c] = anc
		}
		if len(traits) > 0 {
			o.traits[c] = traits
		}
	}
	return o
}

// IsA reports whether c is parent or a descendant of parent. Every concept
// is itself.
func (o *Ontology) IsA(c, parent Concept) bool {
	if c == parent {
		return true
	}
	if o == nil {
		return false
	}
	_, ok := o.ancestors[c][parent]
	return ok
}

// HasTrait reports whether c has trait directly or through an ancestor.
func (o *Ontology) HasTrait(c, trait Concept) bool {
	if o == nil {
		return false
	}
	_, ok := o.traits[c][trait]
	return ok
}

// Parents returns the direct IsA parents of c.
func (o *Ontology) Parents(c Concept) []Concept {
	if o == nil {
		return nil
	}
	return slices.Clone(o.parents[c])
}

// Len returns the number of taxonomy triples.
func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return len(o.triples)
}

// Triples returns a copy of the taxonomy triples.
func (o *Ontology) Triples() []Triple {
	if o == nil {
		return nil
	}
	return slices.Clone(o.triples)
}

// DefaultOntology returns the built-in world taxonomy: categories, traits,
// action categories and the emotions actions trigger.
func DefaultOntology() *Ontology {
	var ts []Triple
	isA := func(c, parent Concept) {
		ts = append(ts, NewTriple(ConceptNode(c), IsA, ConceptValue(parent)))
	}
	trait := func(c, tr Concept) {
		ts = append(ts, NewTriple(ConceptNode(c), HasTrait, ConceptValue(tr)))
	}
	category := func(a ActionType, c Concept) {
		ts = append(ts, NewTriple(ActionNode(a), IsA, ConceptValue(c)))
	}
	triggers := func(a ActionType, e EmotionType, f float64) {
		ts = append(ts, NewTriple(ActionNode(a), TriggersEmotion, Emotion(e, f)))
	}

	for _, c := range []Concept{Person, Animal, Plant, Object, Food, Resource} {
		isA(c, Physical)
	}
	for _, c := range []Concept{Apple, Berry} {
		isA(c, Food)
		isA(c, Resource)
		isA(c, Plant)
	}
	isA(AppleTree, Plant)
	isA(BerryBush, Plant)
	isA(Deer, Animal)
	isA(Wood, Resource)
	isA(Water, Resource)
	isA(Stone, Object)
	isA(Stick, Object)

	trait(Food, Edible)
	trait(Person, Sentient)
	trait(Animal, Sentient)
	trait(Deer, Prey)
	trait(Plant, Harvestable)
	trait(AppleTree, Harvestable)
	trait(BerryBush, Harvestable)

	category(ActWave, SocialAction)
	category(ActTalk, SocialAction)
	category(ActIntroduce, SocialAction)
	category(ActAttack, ViolentAction)
	category(ActFlee, ViolentAction)
	category(ActEat, SurvivalAction)
	category(ActSleep, SurvivalAction)
	category(ActHarvest, SurvivalAction)
	category(ActWalk, MovementAction)
	category(ActWander, MovementAction)
	category(ActExplore, MovementAction)

	triggers(ActAttack, Fear, 0.8)
	triggers(ActWave, Joy, 0.5)
	triggers(ActEat, Joy, 0.3)
	triggers(ActHarvest, Joy, 0.2)

	return NewOntology(ts)
}
