// Decision log: what each agent chose and which brain chose it.
package agents

import (
	"slices"

	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
)

// DefaultMaxDecisions bounds the decision log when no limit is configured.
const DefaultMaxDecisions = 64

// Decision records one winning proposal.
type Decision struct {
	Tick      uint64          `json:"tick"`
	Brain     brains.Kind     `json:"brain"`
	Action    mind.ActionType `json:"action"`
	Name      string          `json:"name"`
	Target    *mind.EntityID  `json:"target,omitempty"`
	Urgency   float64         `json:"urgency"`
	Score     float64         `json:"score"`
	Rationale string          `json:"rationale"`
}

// AddDecision appends a decision, dropping the oldest ones once the log
// holds limit entries.
func AddDecision(a *Agent, d Decision, limit int) {
	if limit <= 0 {
		limit = DefaultMaxDecisions
	}
	a.Decisions = append(a.Decisions, d)
	if over := len(a.Decisions) - limit; over > 0 {
		a.Decisions = slices.Delete(a.Decisions, 0, over)
	}
}

// RecentDecisions returns the most recent count decisions, newest first.
func RecentDecisions(a *Agent, count int) []Decision {
	if len(a.Decisions) == 0 {
		return nil
	}

	sorted := slices.Clone(a.Decisions)
	slices.SortStableFunc(sorted, func(x, y Decision) int {
		switch {
		case x.Tick > y.Tick:
			return -1
		case x.Tick < y.Tick:
			return 1
		}
		return 0
	})
	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}
