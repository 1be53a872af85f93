package mind

import (
	"fmt"
	"slices"
	"strings"
)

// Block is an immutable set of triples shared by reference between
// stores, such as the knowledge every member of a culture starts with.
type Block struct {
	Name    string
	triples []Triple
}

// NewBlock copies ts into a new shared block.
func NewBlock(name string, ts []Triple) *Block {
	return &Block{Name: name, triples: slices.Clone(ts)}
}

// Len returns the number of triples in the block.
func (b *Block) Len() int { return len(b.triples) }

// Triples returns a copy of the block's triples.
func (b *Block) Triples() []Triple { return slices.Clone(b.triples) }

// Culture selects which inherited knowledge an agent is born with.
type Culture uint8

const (
	Nomad Culture = iota
	Farmer
	Hunter
	Gatherer
)

var cultureNames = [...]string{"nomad", "farmer", "hunter", "gatherer"}

// Cultures lists every culture.
func Cultures() []Culture { return []Culture{Nomad, Farmer, Hunter, Gatherer} }

func (c Culture) String() string {
	if int(c) < len(cultureNames) {
		return cultureNames[c]
	}
	return "culture(?)"
}

// ParseCulture resolves a culture by name.
func ParseCulture(s string) (Culture, error) {
	for i, n := range cultureNames {
		if strings.EqualFold(n, s) {
			return Culture(i), nil
		}
	}
	return 0, fmt.Errorf("unknown culture %q", s)
}

// Description is a one-line summary of what the culture knows.
func (c Culture) Description() string {
	switch c {
	case Nomad:
		return "Wanderers who know basic survival"
	case Farmer:
		return "Settlers who know how to grow food"
	case Hunter:
		return "Hunters who know how to track and kill"
	case Gatherer:
		return "Foragers who know which plants are safe"
	}
	return ""
}

// CultureBlock builds the shared knowledge block for c.
func CultureBlock(c Culture) *Block {
	var ts []Triple
	add := func(s Node, p Predicate, o Value) {
		ts = append(ts, Triple{Subject: s, Predicate: p, Object: o, Meta: Cultural()})
	}
	con, val := ConceptNode, ConceptValue

	// Everyone.
	add(con(Food), HasTrait, val(Edible))
	add(ActionNode(ActEat), Satisfies, val(Food))

	switch c {
	case Nomad:
		add(con(Apple), IsA, val(Food))
		add(con(Water), IsA, val(Resource))
		add(con(AppleTree), Produces, Item(Apple, 1))
		add(con(AppleTree), Affords, ActionValue(ActHarvest))
	case Farmer:
		add(con(AppleTree), Produces, Item(Apple, 1))
		add(con(AppleTree), HasTrait, val(Harvestable))
		add(con(AppleTree), Affords, ActionValue(ActHarvest))
		add(con(Apple), IsA, val(Food))
		add(con(AppleTree), RegenerationRate, Float(10))
	case Hunter:
		add(con(Animal), IsA, val(Food))
		add(con(Animal), HasTrait, val(Harvestable))
		add(con(Deer), TriggersEmotion, Emotion(Joy, 0.4))
		add(ActionNode(ActAttack), TriggersEmotion, Emotion(Anger, 0.3))
	case Gatherer:
		add(con(Apple), IsA, val(Food))
		add(con(AppleTree), Produces, Item(Apple, 1))
		add(con(AppleTree), HasTrait, val(Harvestable))
		add(con(AppleTree), Affords, ActionValue(ActHarvest))
		add(con(Berry), IsA, val(Food))
		add(con(BerryBush), Produces, Item(Berry, 1))
		add(con(BerryBush), HasTrait, val(Harvestable))
		add(con(BerryBush), Affords, ActionValue(ActHarvest))
	}
	return NewBlock(c.String(), ts)
}
