package planner

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
)

func newBeliefs() *mind.Store {
	return mind.NewStore(mind.DefaultOntology(), mind.CultureBlock(mind.Gatherer))
}

func stepNames(steps []actions.Template) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}

func TestSynthesizedWalk(t *testing.T) {
	beliefs := newBeliefs()
	beliefs.PerceiveSelf(mind.LocatedAt, mind.TileValue(mind.Tile{}), 0)
	goal := mind.Goal{Conditions: []mind.Pattern{mind.SelfAt(mind.Tile{X: 10, Y: 10})}, Priority: 1}

	res, err := New(actions.DefaultRegistry()).Plan(beliefs, goal, nil)
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)
	step := res.Steps[0]
	assert.Equal(t, mind.ActWalk, step.Type)
	require.NotNil(t, step.TargetPos)
	assert.Equal(t, mind.Tile{X: 10, Y: 10}, mind.TileOf(*step.TargetPos))
	assert.InDelta(t, math.Sqrt(200), step.Cost, 1e-6)
	assert.InDelta(t, 14.142, res.Cost, 1e-3)
}

func TestWalkNeedsKnownPosition(t *testing.T) {
	goal := mind.Goal{Conditions: []mind.Pattern{mind.SelfAt(mind.Tile{X: 3, Y: 3})}}
	_, err := New(actions.DefaultRegistry()).Plan(newBeliefs(), goal, nil)
	require.ErrorIs(t, err, ErrNoPlan)
}

func TestAlreadySatisfiedIsEmptyPlan(t *testing.T) {
	beliefs := newBeliefs()
	beliefs.PerceiveSelf(mind.Hunger, mind.Int(0), 1)
	goal := mind.Goal{Conditions: []mind.Pattern{mind.Match(mind.Self(), mind.Hunger, mind.Int(0))}}

	res, err := New(actions.DefaultRegistry()).Plan(beliefs, goal, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Steps)
}

// Harvesting needs the agent at the tree and eating needs something
// carried, so the only plan walks first, harvests, then eats.
func TestPlanIsInExecutionOrder(t *testing.T) {
	reg := actions.DefaultRegistry()
	beliefs := newBeliefs()
	tree := mind.EntityID(7)
	treeTile := mind.Tile{X: 4, Y: 3}
	beliefs.PerceiveSelf(mind.LocatedAt, mind.TileValue(mind.Tile{X: 0, Y: 0}), 0)
	beliefs.PerceiveSelf(mind.Hunger, mind.Int(70), 0)
	beliefs.PerceiveEntity(tree, mind.LocatedAt, mind.TileValue(treeTile), 0, 1)
	beliefs.PerceiveEntity(tree, mind.Contains, mind.Item(mind.Apple, 3), 0, 1)

	pos := treeTile.Center()
	available := []actions.Template{
		reg.MustTemplate(mind.ActEat, nil, nil),
		reg.MustTemplate(mind.ActHarvest, &tree, &pos),
	}
	goal := mind.Goal{Conditions: []mind.Pattern{mind.Match(mind.Self(), mind.Hunger, mind.Int(0))}, Priority: 70}

	res, err := New(reg).Plan(beliefs, goal, available)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Walk", "Harvest", "Eat"}, stepNames(res.Steps)); diff != "" {
		t.Fatalf("plan order (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 1+10+5, res.Cost, 1e-9)
}

func TestEmptyTargetIsNotAPossession(t *testing.T) {
	reg := actions.DefaultRegistry()
	beliefs := newBeliefs()
	beliefs.PerceiveSelf(mind.Contains, mind.Item(mind.Apple, 0), 0)
	goal := mind.Goal{Conditions: []mind.Pattern{mind.Match(mind.Self(), mind.Contains, mind.Any)}}

	_, err := New(reg).Plan(beliefs, goal, nil)
	require.ErrorIs(t, err, ErrNoPlan, "a zero-quantity record must not satisfy a possession goal")
}

func TestIterationCap(t *testing.T) {
	reg := actions.DefaultRegistry()
	beliefs := newBeliefs()
	tree := mind.EntityID(7)
	pos := mind.Tile{X: 1, Y: 1}.Center()
	beliefs.PerceiveSelf(mind.LocatedAt, mind.TileValue(mind.Tile{}), 0)
	beliefs.PerceiveEntity(tree, mind.Contains, mind.Item(mind.Apple, 3), 0, 1)
	available := []actions.Template{
		reg.MustTemplate(mind.ActEat, nil, nil),
		reg.MustTemplate(mind.ActHarvest, &tree, &pos),
	}
	goal := mind.Goal{Conditions: []mind.Pattern{mind.Match(mind.Self(), mind.Hunger, mind.Int(0))}}

	res, err := New(reg, WithMaxIterations(2)).Plan(beliefs, goal, available)
	require.ErrorIs(t, err, ErrNoPlan)
	assert.Equal(t, 2, res.Iterations)

	_, err = New(reg).Plan(beliefs, goal, available)
	require.NoError(t, err)
}

// A random crafting economy: each recipe turns one carried item into
// another. Whenever a plan is found, replaying its effects over the
// starting beliefs must satisfy the goal.
func TestPlanSoundness(t *testing.T) {
	items := []mind.Concept{mind.Apple, mind.Berry, mind.Wood, mind.Water, mind.Stone, mind.Stick}
	reg := actions.DefaultRegistry()
	found := 0
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		beliefs := newBeliefs()
		start := items[rng.Intn(len(items))]
		beliefs.PerceiveSelf(mind.Contains, mind.Item(start, 1), 0)

		var recipes []actions.Template
		for i := 0; i < 8; i++ {
			from, to := items[rng.Intn(len(items))], items[rng.Intn(len(items))]
			recipes = append(recipes, actions.Template{
				Name:          fmt.Sprintf("make-%s-from-%s", to, from),
				Type:          mind.ActIdle,
				Preconditions: []mind.Pattern{mind.Match(mind.Self(), mind.Contains, mind.Item(from, 1))},
				Effects:       []mind.Triple{mind.NewTriple(mind.Self(), mind.Contains, mind.Item(to, 1))},
				Cost:          1 + rng.Float64(),
			})
		}
		want := items[rng.Intn(len(items))]
		goal := mind.Goal{Conditions: []mind.Pattern{mind.Match(mind.Self(), mind.Contains, mind.Item(want, 1))}}

		res, err := New(reg).Plan(beliefs, goal, recipes)
		if err != nil {
			require.ErrorIs(t, err, ErrNoPlan)
			continue
		}
		found++

		replay := mind.NewStore(beliefs.Ontology(), beliefs.Shared()...)
		replay.Replace(beliefs.Triples())
		for _, step := range res.Steps {
			for _, pre := range step.Preconditions {
				assert.True(t, replay.Satisfied(pre), "seed %d: %s runs before %v holds", seed, step.Name, pre)
			}
			for _, e := range step.Effects {
				replay.Assert(e)
			}
		}
		for _, c := range goal.Conditions {
			assert.True(t, replay.Satisfied(c), "seed %d: goal %v unmet after replay", seed, c)
		}
	}
	assert.Positive(t, found)
}
