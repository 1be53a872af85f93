package brains

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/planner"
)

// Urgencies of the deliberative brain's own proposals, on the 0–100 scale.
const (
	continueUrgency = 30.0
	wanderUrgency   = 10.0
	idleUrgency     = 5.0
	askShare        = 0.5
	exploreShare    = 0.3
	minAlertness    = 0.3
)

// DeliberativeBrain pursues the active goal through a plan and remembers the
// plan between cycles.
type DeliberativeBrain struct {
	planner *planner.Planner
	goal    *mind.Goal
	steps   []actions.Template
	cursor  int
}

// NewDeliberative returns a deliberative brain that plans with p.
func NewDeliberative(p *planner.Planner) *DeliberativeBrain {
	return &DeliberativeBrain{planner: p}
}

// Plan returns the committed plan and the index of the step in progress.
func (d *DeliberativeBrain) Plan() ([]actions.Template, int) { return d.steps, d.cursor }

// Goal returns the goal being pursued.
func (d *DeliberativeBrain) Goal() (mind.Goal, bool) {
	if d.goal == nil {
		return mind.Goal{}, false
	}
	return *d.goal, true
}

// Current returns the step in progress.
func (d *DeliberativeBrain) Current() (actions.Template, bool) {
	if d.cursor >= len(d.steps) {
		return actions.Template{}, false
	}
	return d.steps[d.cursor], true
}

// Reset forgets the committed plan.
func (d *DeliberativeBrain) Reset() {
	d.steps, d.cursor = nil, 0
}

// Observe feeds back the outcome of an executed action. Finishing the
// step in progress advances the plan; failing it abandons the plan.
func (d *DeliberativeBrain) Observe(o actions.Outcome) {
	step, ok := d.Current()
	if !ok || step.Type != o.Action {
		return
	}
	if !o.OK() {
		d.Reset()
		return
	}
	d.advance()
}

func (d *DeliberativeBrain) advance() {
	d.cursor++
	if d.cursor >= len(d.steps) {
		d.Reset()
	}
}

// Track advances past steps whose effects are already believed and drops
// plans that no longer make sense. It runs every tick, even when the
// deliberative brain does not propose.
func (d *DeliberativeBrain) Track(beliefs *mind.Store) {
	for {
		step, ok := d.Current()
		if !ok || len(step.Effects) == 0 || !effectsKnown(beliefs, step.Effects) {
			break
		}
		d.advance()
	}
	step, ok := d.Current()
	if !ok {
		return
	}
	if !preconditionsMet(beliefs, step) {
		d.Reset()
		return
	}
	// Searching is pointless once something to harvest is known.
	if step.Type == mind.ActExplore && knowsAnySource(beliefs) {
		d.Reset()
	}
}

// Propose continues the committed plan or plans afresh for sit.Goal.
func (d *DeliberativeBrain) Propose(sit *Situation) (Proposal, bool) {
	d.setGoal(sit.Goal)
	d.Track(sit.Beliefs)

	if step, ok := d.Current(); ok {
		return Proposal{
			Brain:     Deliberative,
			Action:    step,
			Urgency:   continueUrgency,
			Rationale: fmt.Sprintf("continuing plan step %d/%d: %s", d.cursor+1, len(d.steps), step.Name),
		}, true
	}

	if sit.State.Consciousness.Alertness < minAlertness {
		return Proposal{}, false
	}
	if d.goal == nil {
		return sit.propose(Deliberative, mind.ActWander, nil, nil, wanderUrgency, "nothing to pursue, wandering")
	}
	goal := *d.goal

	res, err := d.planner.Plan(sit.Beliefs, goal, candidates(sit))
	switch {
	case err == nil && len(res.Steps) > 0:
		d.steps, d.cursor = res.Steps, 0
		first := res.Steps[0]
		return Proposal{
			Brain:     Deliberative,
			Action:    first,
			Urgency:   goal.Priority,
			Rationale: fmt.Sprintf("planned %d steps (cost %.1f), starting with %s", len(res.Steps), res.Cost, first.Name),
		}, true
	case err == nil:
		return sit.propose(Deliberative, mind.ActWander, nil, nil, idleUrgency, "goal already met")
	case errors.Is(err, planner.ErrNoPlan):
		return d.fallback(sit, goal)
	default:
		return Proposal{}, false
	}
}

func (d *DeliberativeBrain) setGoal(g *mind.Goal) {
	switch {
	case g == nil:
		d.goal = nil
		d.Reset()
	case d.goal == nil || !d.goal.SameConditions(*g):
		d.goal = &mind.Goal{Conditions: g.Conditions, Priority: g.Priority}
		d.Reset()
	default:
		d.goal.Priority = g.Priority
	}
}

// fallback asks a known agent in view where to find what the goal needs,
// provided no source of it is known yet. Otherwise it explores.
func (d *DeliberativeBrain) fallback(sit *Situation, goal mind.Goal) (Proposal, bool) {
	if want, ok := knowledgeGap(sit.Beliefs, goal); ok {
		for _, v := range sit.Visible {
			n := mind.EntityNode(v.ID)
			if !sit.Beliefs.IsA(n, mind.Person) || !knows(sit.Beliefs, v.ID) {
				continue
			}
			topic := actions.Topic{Kind: actions.TopicLocation, Concept: want}
			return sit.talk(Deliberative, v.ID, topic, goal.Priority*askShare, fmt.Sprintf("no plan, asking %d where to find %s", v.ID, want))
		}
	}
	return sit.propose(Deliberative, mind.ActExplore, nil, nil, goal.Priority*exploreShare, "no plan, exploring")
}

func knowledgeGap(b *mind.Store, goal mind.Goal) (mind.Concept, bool) {
	want, ok := b.WantedItem(goal)
	if !ok {
		return 0, false
	}
	return b.KnowledgeGap(mind.Match(mind.Self(), mind.Contains, mind.Item(want, 1)))
}

// candidates binds the catalog against everything the agent knows about:
// untargeted actions as they are, targeted ones against each entity that
// affords them, people for the social actions.
func candidates(sit *Situation) []actions.Template {
	b := sit.Beliefs
	out := sit.Registry.Untargeted()
	selfTile := mind.TileOf(sit.Position)

	seen := make(map[mind.EntityID]bool)
	var entities []mind.EntityID
	note := func(id mind.EntityID) {
		if id != sit.Self && !seen[id] {
			seen[id] = true
			entities = append(entities, id)
		}
	}
	for _, t := range b.Query(mind.AnyNode, mind.Contains, mind.Any) {
		if id, ok := t.Subject.Entity(); ok {
			note(id)
		}
	}
	for _, v := range sit.Visible {
		note(v.ID)
	}

	for _, a := range sit.Registry.All() {
		if a.TargetType() != actions.TargetEntity || isSocial(a.Type()) {
			continue
		}
		for _, id := range entities {
			if !affords(b, id, a.Type()) || !a.IsPlanValid(b, &id) {
				continue
			}
			pos, ok := knownPosition(b, id)
			if !ok {
				continue
			}
			target := id
			t := actions.ToTemplate(a, &target, ptr(pos))
			t.Cost += selfTile.Distance(mind.TileOf(pos))
			out = append(out, t)
		}
	}

	for _, id := range entities {
		if !b.IsA(mind.EntityNode(id), mind.Person) {
			continue
		}
		pos, ok := knownPosition(b, id)
		if !ok {
			continue
		}
		kind := mind.ActTalk
		if !knows(b, id) {
			kind = mind.ActIntroduce
		}
		target := id
		if t, err := sit.Registry.Template(kind, &target, ptr(pos)); err == nil {
			out = append(out, t)
		}
	}
	return out
}

func isSocial(a mind.ActionType) bool {
	return a == mind.ActTalk || a == mind.ActIntroduce || a == mind.ActAttack
}

// affords reports whether the agent believes e, or any of its types,
// affords a.
func affords(b *mind.Store, e mind.EntityID, a mind.ActionType) bool {
	n := mind.EntityNode(e)
	if b.Has(n, mind.Affords, mind.ActionValue(a)) {
		return true
	}
	for _, c := range b.AllTypes(n) {
		if b.Has(mind.ConceptNode(c), mind.Affords, mind.ActionValue(a)) {
			return true
		}
	}
	return false
}

func knows(b *mind.Store, e mind.EntityID) bool {
	n := mind.EntityNode(e)
	return b.Has(n, mind.Knows, mind.Bool(true)) || b.Has(n, mind.Introduced, mind.Bool(true))
}

// effectsKnown reports whether every effect is already believed. Item
// effects count as met once at least the promised quantity is held.
func effectsKnown(b *mind.Store, effects []mind.Triple) bool {
	for _, e := range effects {
		if c, qty, ok := e.Object.AsItem(); ok && e.Predicate == mind.Contains {
			if b.CountOf(e.Subject, c) < qty {
				return false
			}
			continue
		}
		if !b.Has(e.Subject, e.Predicate, e.Object) {
			return false
		}
	}
	return true
}

func preconditionsMet(b *mind.Store, step actions.Template) bool {
	for _, p := range step.Preconditions {
		// The walk that precedes a proximity step is what makes this true.
		if p.Subject.Kind == mind.NodeSelf && p.Predicate == mind.LocatedAt {
			continue
		}
		if !b.Satisfied(p) {
			return false
		}
	}
	return true
}

func knowsAnySource(b *mind.Store) bool {
	for _, t := range b.Query(mind.AnyNode, mind.Contains, mind.Any) {
		if t.Subject.Kind == mind.NodeEntity && t.Object.Present() {
			return true
		}
	}
	return false
}
