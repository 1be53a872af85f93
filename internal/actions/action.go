// Package actions is the catalog of things an agent can do: what each
// action needs and achieves in belief space (for the planner), what it
// costs the body while it runs, and what it does to the world when it
// finishes.
package actions

import (
	"math"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// ConversationRange is how close two agents must be to talk, in world units.
const ConversationRange = 32.0

// Forever is the duration of timed actions that only end when interrupted.
const Forever = math.MaxUint32

// KindTag distinguishes how an action runs.
type KindTag uint8

const (
	KindInstant  KindTag = iota // completes the tick it starts
	KindTimed                   // completes after a fixed number of ticks
	KindMovement                // completes on arrival
)

// Kind is how an action runs and, for timed actions, for how long.
type Kind struct {
	Tag   KindTag `json:"tag"`
	Ticks uint32  `json:"ticks,omitempty"`
}

// Instant is an action that completes immediately.
func Instant() Kind { return Kind{Tag: KindInstant} }

// Timed is an action that completes after ticks.
func Timed(ticks uint32) Kind { return Kind{Tag: KindTimed, Ticks: ticks} }

// Movement is an action that completes on arrival at its target.
func Movement() Kind { return Kind{Tag: KindMovement} }

// TargetType is what an action is aimed at.
type TargetType uint8

const (
	TargetNone TargetType = iota
	TargetEntity
	TargetPosition
)

// TopicKind is what a conversation turn is about.
type TopicKind uint8

const (
	TopicGeneral  TopicKind = iota // small talk
	TopicLocation                  // where is a concept to be found
	TopicState                     // how is an entity
	TopicPerson                    // what about someone
	TopicHelp
)

// Topic is the subject of a Talk action.
type Topic struct {
	Kind    TopicKind     `json:"kind"`
	Concept mind.Concept  `json:"concept,omitempty"`
	Entity  mind.EntityID `json:"entity,omitempty"`
}

// Asking reports whether the topic is a question.
func (t Topic) Asking() bool {
	switch t.Kind {
	case TopicLocation, TopicState, TopicPerson, TopicHelp:
		return true
	}
	return false
}

// Template is a concrete, targeted instance of an action: the unit the
// planner chains and the engine executes.
type Template struct {
	Name          string          `json:"name"`
	Type          mind.ActionType `json:"type"`
	Kind          Kind            `json:"kind"`
	TargetEntity  *mind.EntityID  `json:"target_entity,omitempty"`
	TargetPos     *mind.Vec2      `json:"target_pos,omitempty"`
	Topic         *Topic          `json:"topic,omitempty"`
	Content       []mind.Triple   `json:"content,omitempty"` // knowledge to share when talking
	Preconditions []mind.Pattern  `json:"preconditions,omitempty"`
	Effects       []mind.Triple   `json:"effects,omitempty"`
	Cost          float64         `json:"cost"`
}

// Target returns the entity target, if any.
func (t Template) Target() (mind.EntityID, bool) {
	if t.TargetEntity == nil {
		return 0, false
	}
	return *t.TargetEntity, true
}

// Context is what an action sees when it starts, runs and completes. The
// target fields are filled by the host when the target still exists.
type Context struct {
	Self     mind.EntityID
	Tick     uint64
	State    *psyche.State
	Beliefs  *mind.Store
	Position mind.Vec2

	TargetFound     bool
	TargetPosition  mind.Vec2
	TargetInventory *psyche.Inventory
}

// Action is one entry of the catalog.
type Action interface {
	Type() mind.ActionType
	Name() string
	TargetType() TargetType
	Kind() Kind
	Cost() float64
	RequiresProximity() bool

	// Preconditions and Effects describe the action in belief space for
	// the given target.
	Preconditions(target *mind.EntityID, pos *mind.Vec2) []mind.Pattern
	Effects(target *mind.EntityID, pos *mind.Vec2) []mind.Triple

	// IsPlanValid rejects instantiations the agent's knowledge says are
	// pointless, before they reach the planner.
	IsPlanValid(beliefs *mind.Store, target *mind.EntityID) bool

	// CanStart is checked against reality when the action is about to run.
	CanStart(t Template, ctx *Context) *Failure

	// Runtime is the per-second effect on the body while the action runs.
	Runtime() psyche.Effects

	// Complete applies the action's world effects and reports what happened.
	Complete(t Template, ctx *Context) Outcome
}

// ToTemplate instantiates a for the given target. Proximity actions with a
// known position gain a "be there" precondition.
func ToTemplate(a Action, target *mind.EntityID, pos *mind.Vec2) Template {
	pre := a.Preconditions(target, pos)
	if a.RequiresProximity() && pos != nil {
		at := mind.SelfAt(mind.TileOf(*pos))
		if !containsPattern(pre, at) {
			pre = append(pre, at)
		}
	}
	return Template{
		Name:          a.Name(),
		Type:          a.Type(),
		Kind:          a.Kind(),
		TargetEntity:  target,
		TargetPos:     pos,
		Preconditions: pre,
		Effects:       a.Effects(target, pos),
		Cost:          a.Cost(),
	}
}

func containsPattern(ps []mind.Pattern, p mind.Pattern) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// base supplies the catalog defaults; concrete actions override what
// differs.
type base struct{}

func (base) TargetType() TargetType                                  { return TargetNone }
func (base) Cost() float64                                           { return 1 }
func (base) RequiresProximity() bool                                 { return false }
func (base) Preconditions(*mind.EntityID, *mind.Vec2) []mind.Pattern { return nil }
func (base) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple        { return nil }
func (base) IsPlanValid(*mind.Store, *mind.EntityID) bool            { return true }
func (base) CanStart(Template, *Context) *Failure                    { return nil }
func (base) Runtime() psyche.Effects                                 { return psyche.Effects{} }
func (base) Complete(t Template, _ *Context) Outcome                 { return Succeeded(t) }
