// Package mind holds an agent's beliefs: typed (subject, predicate, object)
// triples with provenance, layered over shared cultural blocks and an
// immutable taxonomy.
package mind

import (
	"fmt"
	"strings"
)

// Concept is a closed vocabulary of nameable categories and traits.
type Concept uint8

const (
	Thing Concept = iota
	Physical
	Abstract

	Person
	Animal
	Plant
	Object
	Food
	Resource

	Apple
	AppleTree
	Berry
	BerryBush
	Wood
	Water
	Stone
	Stick
	Deer

	// Traits.
	Edible
	Prey
	Dangerous
	Safe
	Friendly
	Hostile
	Neutral
	Sentient
	Harvestable
	Awake
	Asleep

	// Action categories.
	SocialAction
	ViolentAction
	SurvivalAction
	MovementAction

	// Moods.
	Happy
	Sad
	Angry
	Fearful
	Calm

	// Relationship standings.
	Stranger
	Acquaintance
	Friend
	Rival
	Enemy

	conceptCount
)

var conceptNames = [conceptCount]string{
	"Thing", "Physical", "Abstract",
	"Person", "Animal", "Plant", "Object", "Food", "Resource",
	"Apple", "AppleTree", "Berry", "BerryBush", "Wood", "Water", "Stone", "Stick", "Deer",
	"Edible", "Prey", "Dangerous", "Safe", "Friendly", "Hostile", "Neutral", "Sentient",
	"Harvestable", "Awake", "Asleep",
	"SocialAction", "ViolentAction", "SurvivalAction", "MovementAction",
	"Happy", "Sad", "Angry", "Fearful", "Calm",
	"Stranger", "Acquaintance", "Friend", "Rival", "Enemy",
}

func (c Concept) String() string {
	if c < conceptCount {
		return conceptNames[c]
	}
	return "Concept(?)"
}

// Predicate is a closed relation vocabulary. The zero value is the
// wildcard used by patterns and queries.
type Predicate uint8

const (
	AnyPredicate Predicate = iota

	// Taxonomy.
	IsA
	HasTrait

	// Spatial and physical.
	LocatedAt
	Contains

	// Interaction.
	Affords
	Produces
	Consumes
	Satisfies
	Requires
	RegenerationRate
	LastObserved

	// Self-state.
	Hunger
	Energy
	Pain
	SocialDrive

	// Episodic.
	Actor
	ActionTaken
	Target
	Result
	Timestamp
	FeltEmotion

	// Social.
	Relationship
	TrustsFor
	Knows
	Introduced
	NameOf
	Trust
	Affection
	Respect
	PowerBalance

	// Observed state of others.
	Doing
	AppearsMood
	AppearsInjured
	Heading

	Explored
	TriggersEmotion

	predicateCount
)

var predicateNames = [predicateCount]string{
	"*",
	"IsA", "HasTrait",
	"LocatedAt", "Contains",
	"Affords", "Produces", "Consumes", "Satisfies", "Requires", "RegenerationRate", "LastObserved",
	"Hunger", "Energy", "Pain", "SocialDrive",
	"Actor", "ActionTaken", "Target", "Result", "Timestamp", "FeltEmotion",
	"Relationship", "TrustsFor", "Knows", "Introduced", "NameOf", "Trust", "Affection", "Respect", "PowerBalance",
	"Doing", "AppearsMood", "AppearsInjured", "Heading",
	"Explored", "TriggersEmotion",
}

func (p Predicate) String() string {
	if p < predicateCount {
		return predicateNames[p]
	}
	return "Predicate(?)"
}

var functional = [predicateCount]bool{
	LocatedAt:        true,
	Hunger:           true,
	Energy:           true,
	Pain:             true,
	SocialDrive:      true,
	RegenerationRate: true,
	LastObserved:     true,
	Actor:            true,
	ActionTaken:      true,
	Target:           true,
	Result:           true,
	Timestamp:        true,
	Trust:            true,
	Affection:        true,
	Respect:          true,
	PowerBalance:     true,
	NameOf:           true,
	Doing:            true,
	AppearsMood:      true,
	AppearsInjured:   true,
	Heading:          true,
}

// Functional reports whether a subject may hold at most one value for p.
// Contains is not functional; it is keyed per item concept instead.
func (p Predicate) Functional() bool {
	return p < predicateCount && functional[p]
}

// ActionType identifies an action kind. It is shared by the knowledge
// model (episodes, affordances) and the action catalog.
type ActionType uint8

const (
	ActIdle ActionType = iota
	ActEat
	ActSleep
	ActWakeUp
	ActDrink
	ActHarvest
	ActPickup
	ActDrop
	ActWalk
	ActWander
	ActExplore
	ActWave
	ActTalk
	ActIntroduce
	ActAttack
	ActFlee
	ActSocial

	actionTypeCount
)

var actionNames = [actionTypeCount]string{
	"Idle", "Eat", "Sleep", "WakeUp", "Drink", "Harvest", "Pickup", "Drop",
	"Walk", "Wander", "Explore", "Wave", "Talk", "Introduce", "Attack", "Flee", "Social",
}

func (a ActionType) String() string {
	if a < actionTypeCount {
		return actionNames[a]
	}
	return "Action(?)"
}

// ActionTypes returns every action type in declaration order.
func ActionTypes() []ActionType {
	out := make([]ActionType, 0, actionTypeCount)
	for a := ActionType(0); a < actionTypeCount; a++ {
		out = append(out, a)
	}
	return out
}

// EmotionType enumerates the basic emotions.
type EmotionType uint8

const (
	Joy EmotionType = iota
	Sadness
	Fear
	Anger
	Surprise
	Disgust
)

var emotionNames = [...]string{"Joy", "Sadness", "Fear", "Anger", "Surprise", "Disgust"}

func (e EmotionType) String() string {
	if int(e) < len(emotionNames) {
		return emotionNames[e]
	}
	return "Emotion(?)"
}

// Valence is the signed affective weight of an emotion, used when
// aggregating experiences into beliefs.
func (e EmotionType) Valence() float64 {
	switch e {
	case Joy:
		return 1.0
	case Surprise:
		return 0.2
	case Sadness:
		return -0.5
	case Fear:
		return -1.0
	case Anger:
		return -0.8
	case Disgust:
		return -0.7
	}
	return 0
}

// ── Name lookup ───────────────────────────────────────────────────────

func lookup(names []string, s string) (int, bool) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}

// ParseConcept resolves a concept by name, ignoring case.
func ParseConcept(s string) (Concept, error) {
	if i, ok := lookup(conceptNames[:], s); ok {
		return Concept(i), nil
	}
	return 0, fmt.Errorf("unknown concept %q", s)
}

// ParsePredicate resolves a predicate by name, ignoring case.
func ParsePredicate(s string) (Predicate, error) {
	if i, ok := lookup(predicateNames[:], s); ok && i > 0 {
		return Predicate(i), nil
	}
	return 0, fmt.Errorf("unknown predicate %q", s)
}

// ParseActionType resolves an action type by name, ignoring case.
func ParseActionType(s string) (ActionType, error) {
	if i, ok := lookup(actionNames[:], s); ok {
		return ActionType(i), nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}
