package actions

import (
	"fmt"

	"github.com/talgya/mini-mind/internal/mind"
)

// Reason is why an action failed.
type Reason uint8

const (
	TargetGone Reason = iota + 1
	NoTarget
	ResourceDepleted
	MissingItem
	NoEdibleFood
	TooFar
	Interrupted
	PathBlocked
	AlreadyDone
)

var reasonNames = [...]string{
	"", "target gone", "no target", "resource depleted", "missing item",
	"no edible food", "too far", "interrupted", "path blocked", "already done",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) && r != 0 {
		return reasonNames[r]
	}
	return "unknown failure"
}

// Failure is a failed attempt. Item is set for MissingItem.
type Failure struct {
	Reason Reason       `json:"reason"`
	Item   mind.Concept `json:"item,omitempty"`
}

func (f Failure) Error() string {
	if f.Reason == MissingItem {
		return fmt.Sprintf("%s: %s", f.Reason, f.Item)
	}
	return f.Reason.String()
}

// Fail builds a failure for reason r.
func Fail(r Reason) *Failure { return &Failure{Reason: r} }

// ItemDelta is a quantity of one item concept.
type ItemDelta struct {
	Concept mind.Concept `json:"concept"`
	Qty     uint32       `json:"qty"`
}

// Speech is what a Talk action said, handed to the conversation manager.
type Speech struct {
	Partner mind.EntityID `json:"partner"`
	Topic   Topic         `json:"topic"`
	Content []mind.Triple `json:"content,omitempty"`
}

// Outcome is the result of an attempted action. Failure is nil on success.
type Outcome struct {
	Action   mind.ActionType `json:"action"`
	Target   *mind.EntityID  `json:"target,omitempty"`
	Failure  *Failure        `json:"failure,omitempty"`
	Gained   *ItemDelta      `json:"gained,omitempty"`
	Consumed *ItemDelta      `json:"consumed,omitempty"`
	Speech   *Speech         `json:"speech,omitempty"`
}

// Succeeded is a plain success for t.
func Succeeded(t Template) Outcome {
	return Outcome{Action: t.Type, Target: t.TargetEntity}
}

// Failed is a failure of t for f.
func Failed(t Template, f *Failure) Outcome {
	return Outcome{Action: t.Type, Target: t.TargetEntity, Failure: f}
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }
