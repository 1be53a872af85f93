package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

func newBeliefs() *mind.Store {
	return mind.NewStore(mind.DefaultOntology(), mind.CultureBlock(mind.Gatherer))
}

func TestRegistryCatalog(t *testing.T) {
	r := DefaultRegistry()
	require.Len(t, r.All(), 12)

	_, err := r.Get(mind.ActDrink)
	require.ErrorIs(t, err, ErrUnknownAction)

	for _, tpl := range r.Untargeted() {
		assert.NotEqual(t, mind.ActHarvest, tpl.Type)
		assert.NotEqual(t, mind.ActWalk, tpl.Type)
	}
}

func TestTemplateAddsProximity(t *testing.T) {
	r := DefaultRegistry()
	id := mind.EntityID(42)
	pos := mind.Vec2{X: 100, Y: 100}

	tpl := r.MustTemplate(mind.ActHarvest, &id, &pos)
	assert.Equal(t, 10.0, tpl.Cost)
	assert.Equal(t, []mind.Pattern{
		mind.SelfAt(mind.Tile{X: 6, Y: 6}),
		mind.Match(mind.EntityNode(42), mind.Contains, mind.Any),
	}, tpl.Preconditions)
	assert.Equal(t, []mind.Triple{mind.NewTriple(mind.Self(), mind.Contains, mind.Item(mind.Apple, 1))}, tpl.Effects)

	talk := r.MustTemplate(mind.ActTalk, &id, &pos)
	assert.Equal(t, []mind.Pattern{mind.SelfAt(mind.Tile{X: 6, Y: 6})}, talk.Preconditions)

	walk := r.MustTemplate(mind.ActWalk, nil, &pos)
	assert.Empty(t, walk.Preconditions)
	assert.Equal(t, 0.0, walk.Cost)
}

func TestHarvestPlanValidity(t *testing.T) {
	beliefs := newBeliefs()
	tree, rock := mind.EntityID(1), mind.EntityID(2)
	beliefs.Assert(mind.NewTriple(mind.EntityNode(tree), mind.IsA, mind.ConceptValue(mind.AppleTree)))
	beliefs.Assert(mind.NewTriple(mind.EntityNode(rock), mind.IsA, mind.ConceptValue(mind.Stone)))

	h := Harvest{}
	assert.True(t, h.IsPlanValid(beliefs, &tree))
	assert.False(t, h.IsPlanValid(beliefs, &rock))
	assert.False(t, h.IsPlanValid(beliefs, nil))
}

func TestCanStartFailures(t *testing.T) {
	state := psyche.NewState(psyche.DefaultTraits())
	beliefs := newBeliefs()
	ctx := &Context{Self: 1, State: &state, Beliefs: beliefs}
	r := DefaultRegistry()
	other := mind.EntityID(9)

	eat := r.MustTemplate(mind.ActEat, nil, nil)
	assert.Equal(t, NoEdibleFood, Eat{}.CanStart(eat, ctx).Reason)

	talk := r.MustTemplate(mind.ActTalk, nil, nil)
	assert.Equal(t, NoTarget, Talk{}.CanStart(talk, ctx).Reason)

	talk = r.MustTemplate(mind.ActTalk, &other, nil)
	ctx.TargetFound = true
	ctx.TargetPosition = mind.Vec2{X: 100}
	assert.Equal(t, TooFar, Talk{}.CanStart(talk, ctx).Reason)

	ctx.TargetPosition = mind.Vec2{X: 10}
	assert.Nil(t, Talk{}.CanStart(talk, ctx))

	intro := r.MustTemplate(mind.ActIntroduce, &other, nil)
	assert.Nil(t, Introduce{}.CanStart(intro, ctx))
	beliefs.Assert(mind.NewTriple(mind.EntityNode(other), mind.Introduced, mind.Bool(true)))
	assert.Equal(t, AlreadyDone, Introduce{}.CanStart(intro, ctx).Reason)

	ctx.TargetFound = false
	harvest := r.MustTemplate(mind.ActHarvest, &other, nil)
	assert.Equal(t, TargetGone, Harvest{}.CanStart(harvest, ctx).Reason)
}

func TestHarvestThenEat(t *testing.T) {
	state := psyche.NewState(psyche.DefaultTraits())
	state.Needs.Hunger = 80
	state.Needs.Energy = 50
	tree := psyche.Inventory{}
	tree.Add(mind.Apple, 1)
	beliefs := newBeliefs()
	id := mind.EntityID(3)
	ctx := &Context{Self: 1, State: &state, Beliefs: beliefs, TargetFound: true, TargetInventory: &tree}
	r := DefaultRegistry()

	harvest := r.MustTemplate(mind.ActHarvest, &id, nil)
	out := Harvest{}.Complete(harvest, ctx)
	require.True(t, out.OK())
	assert.Equal(t, &ItemDelta{Concept: mind.Apple, Qty: 1}, out.Gained)
	assert.Equal(t, uint32(1), state.Inventory.Count(mind.Apple))
	UpdateBeliefs(beliefs, out, 5)
	assert.Equal(t, uint32(1), beliefs.CountOf(mind.Self(), mind.Apple))
	assert.True(t, beliefs.Has(mind.EntityNode(id), mind.HasTrait, mind.ConceptValue(mind.Apple)))

	out = Harvest{}.Complete(harvest, ctx)
	require.False(t, out.OK())
	assert.Equal(t, ResourceDepleted, out.Failure.Reason)
	UpdateBeliefs(beliefs, out, 6)
	assert.False(t, beliefs.Satisfied(mind.Match(mind.EntityNode(id), mind.Contains, mind.Any)))

	eat := r.MustTemplate(mind.ActEat, nil, nil)
	require.Nil(t, Eat{}.CanStart(eat, ctx))
	out = Eat{}.Complete(eat, ctx)
	assert.Equal(t, 30.0, state.Needs.Hunger)
	assert.Equal(t, 60.0, state.Needs.Energy)
	assert.Empty(t, state.Inventory.Items)
	UpdateBeliefs(beliefs, out, 7)
	assert.Equal(t, uint32(0), beliefs.CountOf(mind.Self(), mind.Apple))
	assert.False(t, beliefs.HasAnyItems(mind.Self()))
}

func TestUpdateBeliefsFailures(t *testing.T) {
	beliefs := newBeliefs()
	beliefs.PerceiveSelf(mind.Contains, mind.Item(mind.Berry, 2), 1)

	UpdateBeliefs(beliefs, Outcome{Action: mind.ActEat, Failure: Fail(NoEdibleFood)}, 2)
	assert.Equal(t, uint32(0), beliefs.CountOf(mind.Self(), mind.Berry))

	UpdateBeliefs(beliefs, Outcome{Action: mind.ActHarvest, Failure: &Failure{Reason: MissingItem, Item: mind.Stick}}, 3)
	tr, ok := beliefs.Lookup(mind.Self(), mind.Contains)
	require.True(t, ok)
	assert.False(t, tr.Object.Present())

	before := beliefs.Len()
	UpdateBeliefs(beliefs, Outcome{Action: mind.ActTalk, Failure: Fail(TooFar)}, 4)
	assert.Equal(t, before, beliefs.Len())
}

func TestTalkProducesSpeech(t *testing.T) {
	state := psyche.NewState(psyche.DefaultTraits())
	partner := mind.EntityID(4)
	tpl := DefaultRegistry().MustTemplate(mind.ActTalk, &partner, nil)
	tpl.Topic = &Topic{Kind: TopicLocation, Concept: mind.Apple}

	out := Talk{}.Complete(tpl, &Context{State: &state})
	require.NotNil(t, out.Speech)
	assert.Equal(t, partner, out.Speech.Partner)
	assert.True(t, out.Speech.Topic.Asking())
	assert.InDelta(t, 0.4, state.Drives.Social, 1e-9)
}
