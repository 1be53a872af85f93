package actions

import (
	"errors"
	"fmt"
	"slices"

	"github.com/talgya/mini-mind/internal/mind"
)

// ErrUnknownAction is returned when an action type has no catalog entry.
var ErrUnknownAction = errors.New("unknown action")

// Registry maps action types to their implementations. It is built once
// and read concurrently afterwards.
type Registry struct {
	byType map[mind.ActionType]Action
	order  []mind.ActionType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[mind.ActionType]Action)}
}

// DefaultRegistry returns the full catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []Action{
		Idle{}, Eat{}, Sleep{}, WakeUp{}, Harvest{},
		Walk{}, Wander{}, Explore{}, Flee{},
		Talk{}, Introduce{}, Attack{},
	} {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the entry for a's type.
func (r *Registry) Register(a Action) {
	if _, ok := r.byType[a.Type()]; !ok {
		r.order = append(r.order, a.Type())
	}
	r.byType[a.Type()] = a
}

// Get returns the action for t.
func (r *Registry) Get(t mind.ActionType) (Action, error) {
	a, ok := r.byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, t)
	}
	return a, nil
}

// All returns every registered action in registration order.
func (r *Registry) All() []Action {
	out := make([]Action, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byType[t])
	}
	return out
}

// Template instantiates action t, or reports ErrUnknownAction.
func (r *Registry) Template(t mind.ActionType, target *mind.EntityID, pos *mind.Vec2) (Template, error) {
	a, err := r.Get(t)
	if err != nil {
		return Template{}, err
	}
	return ToTemplate(a, target, pos), nil
}

// MustTemplate is Template for action types known to be registered.
func (r *Registry) MustTemplate(t mind.ActionType, target *mind.EntityID, pos *mind.Vec2) Template {
	tpl, err := r.Template(t, target, pos)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Untargeted returns templates for every action that takes no target,
// sorted by type for deterministic planning.
func (r *Registry) Untargeted() []Template {
	var out []Template
	for _, t := range r.order {
		a := r.byType[t]
		if a.TargetType() == TargetNone {
			out = append(out, ToTemplate(a, nil, nil))
		}
	}
	slices.SortFunc(out, func(a, b Template) int { return int(a.Type) - int(b.Type) })
	return out
}
