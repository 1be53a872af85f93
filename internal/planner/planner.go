// Package planner finds action sequences by searching backwards from a
// goal: each state is the set of patterns still to be made true, and an
// action is applied by swapping a pattern it achieves for whatever it
// needs first.
package planner

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
)

// ErrNoPlan is returned when the search runs out of frontier or budget
// before every goal pattern is accounted for. It is an expected outcome;
// callers fall back to exploring.
var ErrNoPlan = errors.New("no plan found")

const (
	DefaultMaxIterations = 200
	DefaultUnmetWeight   = 5.0
)

// Result is a plan in execution order.
type Result struct {
	Steps      []actions.Template `json:"steps"`
	Iterations int                `json:"iterations"`
	Cost       float64            `json:"cost"`
}

// Planner is stateless between calls and safe for concurrent use.
type Planner struct {
	registry      *actions.Registry
	maxIterations int
	unmetWeight   float64
	logger        *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithMaxIterations caps how many states are expanded per plan.
func WithMaxIterations(n int) Option {
	return func(p *Planner) { p.maxIterations = n }
}

// WithUnmetWeight sets the per-pattern term of the search priority.
func WithUnmetWeight(w float64) Option {
	return func(p *Planner) { p.unmetWeight = w }
}

// WithLogger sets where exhausted searches are reported.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New returns a planner that synthesizes movement from registry's Walk.
func New(registry *actions.Registry, opts ...Option) *Planner {
	p := &Planner{
		registry:      registry,
		maxIterations: DefaultMaxIterations,
		unmetWeight:   DefaultUnmetWeight,
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// state is a canonical (sorted, deduplicated) set of unmet patterns.
type state struct {
	unmet []mind.Pattern
	key   string
}

func newState(ps []mind.Pattern) state {
	ps = slices.Clone(ps)
	slices.SortFunc(ps, mind.ComparePatterns)
	ps = slices.Compact(ps)
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, "%v;", p)
	}
	return state{unmet: ps, key: b.String()}
}

type edge struct {
	step   actions.Template
	parent string
}

// Plan searches for a sequence of available templates that makes every
// goal condition true. An already satisfied goal yields an empty plan and
// a nil error.
func (p *Planner) Plan(beliefs *mind.Store, goal mind.Goal, available []actions.Template) (Result, error) {
	var initial []mind.Pattern
	for _, c := range goal.Conditions {
		if !beliefs.Satisfied(c) {
			initial = append(initial, c)
		}
	}
	if len(initial) == 0 {
		return Result{}, nil
	}

	start := newState(initial)
	cameFrom := make(map[string]edge)
	gScore := map[string]float64{start.key: 0}
	open := &frontier{}
	seq := 0
	push := func(s state, g float64) {
		heap.Push(open, &node{state: s, priority: g + float64(len(s.unmet))*p.unmetWeight, seq: seq})
		seq++
	}
	push(start, 0)

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations > p.maxIterations {
			p.logger.Debug("planner iteration cap reached", "iterations", p.maxIterations, "goal_conditions", len(goal.Conditions))
			return Result{Iterations: iterations - 1}, ErrNoPlan
		}

		cur := heap.Pop(open).(*node).state
		if len(cur.unmet) == 0 {
			return Result{Steps: reconstruct(cameFrom, cur.key), Iterations: iterations, Cost: gScore[cur.key]}, nil
		}

		g := gScore[cur.key]
		target, remaining := cur.unmet[0], cur.unmet[1:]
		relax := func(step actions.Template, cost float64, pre []mind.Pattern) {
			next := slices.Clone(remaining)
			for _, c := range pre {
				if !beliefs.Satisfied(c) {
					next = append(next, c)
				}
			}
			ns := newState(next)
			ng := g + cost
			if old, seen := gScore[ns.key]; seen && ng >= old {
				return
			}
			gScore[ns.key] = ng
			cameFrom[ns.key] = edge{step: step, parent: cur.key}
			push(ns, ng)
		}

		explicit := false
		for _, t := range available {
			if achieves(t, target) {
				explicit = true
				relax(t, t.Cost, t.Preconditions)
			}
		}
		if !explicit {
			if walk, dist, ok := p.implicitWalk(beliefs, target); ok {
				relax(walk, dist, nil)
			}
		}
	}
	return Result{Iterations: iterations}, ErrNoPlan
}

func achieves(t actions.Template, pat mind.Pattern) bool {
	for _, e := range t.Effects {
		if pat.Matches(e) {
			return true
		}
	}
	return false
}

// implicitWalk synthesizes movement for "self located at" patterns whose
// destination tile is known, costed by tile distance from where the agent
// believes it is.
func (p *Planner) implicitWalk(beliefs *mind.Store, pat mind.Pattern) (actions.Template, float64, bool) {
	if pat.Predicate != mind.LocatedAt || pat.Subject != mind.Self() {
		return actions.Template{}, 0, false
	}
	here, ok := believedTile(beliefs, mind.Self())
	if !ok {
		return actions.Template{}, 0, false
	}

	var (
		dest   mind.Tile
		target *mind.EntityID
	)
	switch pat.Object.Kind {
	case mind.ValueTile:
		dest = pat.Object.Tile
	case mind.ValueEntity:
		id := pat.Object.Entity
		if dest, ok = believedTile(beliefs, mind.EntityNode(id)); !ok {
			return actions.Template{}, 0, false
		}
		target = &id
	default:
		return actions.Template{}, 0, false
	}

	pos := dest.Center()
	walk, err := p.registry.Template(mind.ActWalk, target, &pos)
	if err != nil {
		return actions.Template{}, 0, false
	}
	if target != nil {
		walk.Effects = append(walk.Effects, mind.NewTriple(mind.Self(), mind.LocatedAt, pat.Object))
	}
	dist := here.Distance(dest)
	walk.Cost = dist
	return walk, dist, true
}

func believedTile(beliefs *mind.Store, n mind.Node) (mind.Tile, bool) {
	v, ok := beliefs.Get(n, mind.LocatedAt)
	if !ok {
		return mind.Tile{}, false
	}
	return v.AsTile()
}

// reconstruct follows predecessors from the terminal state. Each edge
// leads from a state to the one holding what its step needs first, so
// the steps come out in execution order.
func reconstruct(cameFrom map[string]edge, key string) []actions.Template {
	var steps []actions.Template
	for {
		e, ok := cameFrom[key]
		if !ok {
			return steps
		}
		steps = append(steps, e.step)
		key = e.parent
	}
}
