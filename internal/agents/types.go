// Package agents provides the agent aggregate, its spawner, and the
// per-agent decision cycle that ties urgencies, goals and brains together.
package agents

import (
	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/nervous"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Agent is one simulated person.
type Agent struct {
	ID      mind.EntityID `json:"id"`
	Name    string        `json:"name"`
	Culture mind.Culture  `json:"culture"`

	// Location
	Position mind.Vec2 `json:"position"`

	// Body and mind
	State   psyche.State  `json:"state"`
	Beliefs *mind.Store   `json:"-"`
	Brain   *brains.State `json:"brain"`

	// Entities in view at the last perception pass.
	Visible []brains.Sighting `json:"visible,omitempty"`

	// What the agent is doing right now; nil when nothing was ever chosen.
	Activity *Activity `json:"activity,omitempty"`

	// Last decision cycle
	Urgencies []nervous.Urgency `json:"urgencies"`
	Goal      *mind.Goal        `json:"goal,omitempty"`

	// Decision log, oldest first, bounded by the engine's tuning.
	Decisions []Decision `json:"decisions,omitempty"`

	// Metadata
	BornTick uint64 `json:"born_tick"`
}

// Activity is an action in progress.
type Activity struct {
	Template  actions.Template `json:"template"`
	StartedAt uint64           `json:"started_at"`
	Elapsed   uint32           `json:"elapsed"` // ticks run so far

	// Dest is where a movement is heading, fixed when it starts.
	Dest     *mind.Vec2 `json:"dest,omitempty"`
	// Approach counts ticks spent closing in on a proximity target.
	Approach uint32     `json:"approach,omitempty"`
}

// Current returns the type of the running action.
func (a *Agent) Current() *mind.ActionType {
	if a.Activity == nil {
		return nil
	}
	t := a.Activity.Template.Type
	return &t
}

// Doing reports whether the agent's running action is t.
func (a *Agent) Doing(t mind.ActionType) bool {
	return a.Activity != nil && a.Activity.Template.Type == t
}

// Tile returns the tile the agent stands on.
func (a *Agent) Tile() mind.Tile { return mind.TileOf(a.Position) }
