package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/planner"
	"github.com/talgya/mini-mind/internal/psyche"
	"github.com/talgya/mini-mind/internal/social"
	"github.com/talgya/mini-mind/internal/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ── Fixtures ────────────────────────────────────────────────────────────

type fixture struct {
	sim  *Simulation
	onto *mind.Ontology
	p    *planner.Planner
}

// newFixture builds an all-grass 16×16 world where every staggered job
// runs every tick.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	tun := config.Default()
	tun.Engine.ThinkingInterval = 1
	tun.Engine.PerceptionInterval = 1
	tun.Engine.Workers = 2
	tun.World.Width, tun.World.Height = 16, 16

	w := world.New(world.NewMap(16, 16))
	onto := mind.DefaultOntology()
	reg := actions.DefaultRegistry()
	p := planner.New(reg)
	sim := NewSimulationFrom(tun, w, onto, reg, p, agents.NewSpawner(1, onto, p), nil, 1)
	return &fixture{sim: sim, onto: onto, p: p}
}

func (f *fixture) addAgent(name string, c mind.Culture, tile mind.Tile) *agents.Agent {
	a := &agents.Agent{
		ID:       f.sim.World.NewID(),
		Name:     name,
		Culture:  c,
		Position: tile.Center(),
		State:    psyche.NewState(psyche.DefaultTraits()),
		Beliefs:  mind.NewStore(f.onto, mind.CultureBlock(c)),
		Brain:    brains.NewState(f.p),
	}
	f.sim.Agents = append(f.sim.Agents, a)
	f.sim.AgentIndex[a.ID] = a
	return a
}

func (f *fixture) addTree(tile mind.Tile, apples uint32) *world.Object {
	o := &world.Object{
		Kind:     mind.AppleTree,
		Pos:      tile.Center(),
		Affords:  []mind.ActionType{mind.ActHarvest},
		Regrowth: &world.Regrowth{Item: mind.Apple, Interval: 6000, Max: 5},
	}
	o.Inventory.Add(mind.Apple, apples)
	f.sim.World.Add(o)
	return o
}

func (f *fixture) run(t *testing.T, from, ticks uint64) {
	t.Helper()
	for tick := from; tick < from+ticks; tick++ {
		require.NoError(t, f.sim.Step(context.Background(), tick))
	}
}

// ── Tick loop ───────────────────────────────────────────────────────────

func TestShouldRunStaggers(t *testing.T) {
	const interval = 60
	for id := mind.EntityID(1); id <= 5; id++ {
		runs := 0
		for tick := uint64(0); tick < interval; tick++ {
			if ShouldRun(tick, id, interval) {
				runs++
				assert.Equal(t, uint64(0), (tick+uint64(id))%interval)
			}
		}
		assert.Equal(t, 1, runs, "agent %d", id)
	}
	assert.NotEqual(t,
		ShouldRun(59, 1, interval),
		ShouldRun(59, 2, interval),
		"neighbouring ids think on different ticks")
	assert.True(t, ShouldRun(7, 3, 0))
	assert.True(t, ShouldRun(7, 3, 1))
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Day 1, 00:00:00", SimTime(0, 60))
	assert.Equal(t, "Day 1, 00:01:05", SimTime(65*60, 60))
	assert.Equal(t, "Day 2, 01:00:00", SimTime(25*3600*60, 60))
}

func TestEngineStopsAtMaxTicks(t *testing.T) {
	e := NewEngine(1000)
	e.MaxTicks = 5
	var seen []uint64
	e.OnTick = func(_ context.Context, tick uint64) error {
		seen = append(seen, tick)
		return nil
	}
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seen)
	assert.False(t, e.Running())
}

func TestEngineStopsOnCancel(t *testing.T) {
	e := NewEngine(1000)
	ctx, cancel := context.WithCancel(context.Background())
	e.OnTick = func(_ context.Context, tick uint64) error {
		if tick == 3 {
			cancel()
		}
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, uint64(3), e.Tick)
}

// ── Phases ──────────────────────────────────────────────────────────────

func TestPerceptionWritesBeliefs(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Farmer, mind.Tile{X: 1, Y: 1})
	b := f.addAgent("Bo", mind.Farmer, mind.Tile{X: 2, Y: 1})
	tree := f.addTree(mind.Tile{X: 4, Y: 4}, 3)
	far := f.addTree(mind.Tile{X: 15, Y: 15}, 3)
	a.State.Needs.Hunger = 42

	require.NoError(t, f.sim.perceive(context.Background(), 1))

	beliefs := a.Beliefs
	at, ok := beliefs.Get(mind.EntityNode(tree.ID), mind.LocatedAt)
	require.True(t, ok)
	tile, _ := at.AsTile()
	assert.Equal(t, mind.Tile{X: 4, Y: 4}, tile)
	assert.Equal(t, uint32(3), beliefs.CountOf(mind.EntityNode(tree.ID), mind.Apple))
	assert.True(t, beliefs.Has(mind.EntityNode(tree.ID), mind.Affords, mind.ActionValue(mind.ActHarvest)))
	assert.True(t, beliefs.IsA(mind.EntityNode(b.ID), mind.Person))
	assert.Empty(t, beliefs.Query(mind.EntityNode(far.ID), mind.LocatedAt, mind.Any), "out of range")

	hunger, ok := beliefs.Get(mind.Self(), mind.Hunger)
	require.True(t, ok)
	assert.Equal(t, mind.Int(42), hunger)

	trip, ok := beliefs.Lookup(mind.EntityNode(tree.ID), mind.LocatedAt)
	require.True(t, ok)
	dist := a.Position.Distance(tree.Pos)
	assert.InDelta(t, max(0.3, 1-dist/256), trip.Meta.Confidence, 1e-9)

	ids := map[mind.EntityID]bool{}
	for _, v := range a.Visible {
		ids[v.ID] = true
	}
	assert.True(t, ids[tree.ID])
	assert.True(t, ids[b.ID])
	assert.False(t, ids[far.ID])
}

func TestPerceptionReplacesStaleContents(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Farmer, mind.Tile{X: 1, Y: 1})
	tree := f.addTree(mind.Tile{X: 2, Y: 2}, 3)

	require.NoError(t, f.sim.perceive(context.Background(), 1))
	tree.Inventory.Remove(mind.Apple, 3)
	require.NoError(t, f.sim.perceive(context.Background(), 2))

	contents := a.Beliefs.Query(mind.EntityNode(tree.ID), mind.Contains, mind.Any)
	require.Len(t, contents, 1)
	assert.Equal(t, mind.Item(mind.Apple, 0), contents[0].Object)
	assert.False(t, a.Beliefs.Satisfied(mind.Match(mind.EntityNode(tree.ID), mind.Contains, mind.Any)))
}

func TestHungryAgentHarvestsAndEats(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Farmer, mind.Tile{X: 2, Y: 2})
	tree := f.addTree(mind.Tile{X: 4, Y: 3}, 3)
	a.State.Needs.Hunger = 70

	f.run(t, 1, 600)

	assert.Less(t, tree.Inventory.Count(mind.Apple), uint32(3), "tree was harvested")
	assert.Less(t, a.State.Needs.Hunger, 50.0, "agent ate")

	var did []mind.ActionType
	for _, d := range a.Decisions {
		did = append(did, d.Action)
	}
	assert.Contains(t, did, mind.ActHarvest)
	assert.Contains(t, did, mind.ActEat)
	assert.GreaterOrEqual(t, f.sim.Stats.Completed, uint64(3))
}

func TestAskingShareKnowledge(t *testing.T) {
	f := newFixture(t)
	asker := f.addAgent("Ada", mind.Nomad, mind.Tile{X: 1, Y: 1})
	knower := f.addAgent("Bo", mind.Farmer, mind.Tile{X: 2, Y: 1})
	tree := f.addTree(mind.Tile{X: 9, Y: 9}, 4)
	knower.Beliefs.PerceiveEntity(tree.ID, mind.LocatedAt, mind.TileValue(mind.Tile{X: 9, Y: 9}), 1, 1)
	knower.Beliefs.PerceiveEntity(tree.ID, mind.Contains, mind.Item(mind.Apple, 4), 1, 1)

	question := actions.Speech{Partner: knower.ID, Topic: actions.Topic{Kind: actions.TopicLocation, Concept: mind.Apple}}
	f.sim.interact(asker, actions.Outcome{Action: mind.ActTalk, Target: &knower.ID, Speech: &question}, 10)

	seat, ok := f.sim.Conversations.Seat(knower.ID)
	require.True(t, ok)
	assert.True(t, seat.MyTurn)
	assert.True(t, seat.OwesResponse)

	small := actions.Speech{Partner: asker.ID, Topic: actions.Topic{Kind: actions.TopicGeneral}}
	f.sim.interact(knower, actions.Outcome{Action: mind.ActTalk, Target: &asker.ID, Speech: &small}, 20)

	learned := asker.Beliefs.Query(mind.EntityNode(tree.ID), mind.LocatedAt, mind.Any)
	require.Len(t, learned, 1)
	assert.Equal(t, mind.SourceHearsay, learned[0].Meta.Source)
	require.NotNil(t, learned[0].Meta.Informant)
	assert.Equal(t, knower.ID, *learned[0].Meta.Informant)
	assert.Contains(t, asker.Beliefs.Sources(mind.Apple), tree.ID)

	assert.True(t, asker.Beliefs.Has(mind.EntityNode(knower.ID), mind.Relationship, mind.Any) ||
		social.AttitudesOf(asker.Beliefs, knower.ID).Trust > 0)
}

func TestAttackHurtsAndBreedsDistrust(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Hunter, mind.Tile{X: 1, Y: 1})
	b := f.addAgent("Bo", mind.Farmer, mind.Tile{X: 2, Y: 1})
	witness := f.addAgent("Cy", mind.Farmer, mind.Tile{X: 3, Y: 1})

	f.sim.finish(a, actions.Outcome{Action: mind.ActAttack, Target: &b.ID}, 5)

	assert.InDelta(t, 15, b.State.Pain, 1e-9)
	assert.Less(t, social.AttitudesOf(b.Beliefs, a.ID).Trust, 0.0)
	assert.Positive(t, b.State.Emotions.Intensity(mind.Fear))
	assert.Positive(t, witness.State.Emotions.Intensity(mind.Fear))
	assert.Less(t, witness.State.Emotions.Intensity(mind.Fear), b.State.Emotions.Intensity(mind.Fear))
	assert.NotEmpty(t, witness.Beliefs.Query(mind.AnyNode, mind.ActionTaken, mind.ActionValue(mind.ActAttack)))
	require.NotEmpty(t, f.sim.Events)
	assert.Equal(t, "violence", f.sim.Events[len(f.sim.Events)-1].Category)
}

func TestWalkingAwayAbandonsPartner(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Farmer, mind.Tile{X: 1, Y: 1})
	b := f.addAgent("Bo", mind.Farmer, mind.Tile{X: 2, Y: 1})

	hi := actions.Speech{Partner: b.ID, Topic: actions.Topic{Kind: actions.TopicGeneral}}
	f.sim.interact(a, actions.Outcome{Action: mind.ActTalk, Target: &b.ID, Speech: &hi}, 1)

	// b turns to eating instead of answering.
	b.Activity = &agents.Activity{Template: f.sim.Registry.MustTemplate(mind.ActEat, nil, nil), StartedAt: 2}
	f.sim.interrupted = make([]*agents.Activity, len(f.sim.Agents))
	f.sim.handleInterruptions(2)

	_, seated := f.sim.Conversations.Seat(a.ID)
	assert.False(t, seated)
	assert.Positive(t, a.State.Emotions.Intensity(mind.Sadness))
}

func TestDepletedHarvestRecordsEmptyTree(t *testing.T) {
	f := newFixture(t)
	a := f.addAgent("Ada", mind.Farmer, mind.Tile{X: 2, Y: 2})
	tree := f.addTree(mind.Tile{X: 2, Y: 2}, 0)
	tpl := f.sim.Registry.MustTemplate(mind.ActHarvest, &tree.ID, &tree.Pos)
	a.Activity = &agents.Activity{Template: tpl, StartedAt: 1}

	for tick := uint64(1); tick <= 31; tick++ {
		f.sim.execute(a, tick)
	}

	assert.Nil(t, a.Activity)
	assert.Equal(t, uint64(1), f.sim.Stats.Failed)
	assert.Equal(t, uint32(0), a.Beliefs.CountOf(mind.EntityNode(tree.ID), mind.Apple))
	assert.True(t, a.Beliefs.Has(mind.EntityNode(tree.ID), mind.Contains, mind.Item(mind.Apple, 0)))
}

func TestSimulationSmoke(t *testing.T) {
	tun := config.Default()
	tun.World.Width, tun.World.Height = 24, 24
	tun.Agents.Count = 4
	sim := NewSimulation(tun, 42)
	require.Len(t, sim.Agents, 4)

	for tick := uint64(1); tick <= 240; tick++ {
		require.NoError(t, sim.Step(context.Background(), tick))
	}
	st := sim.Snapshot()
	assert.Equal(t, 4, st.Agents)
	assert.Positive(t, st.Knowledge)
	assert.Equal(t, uint64(240), sim.CurrentTick())
	for _, a := range sim.Agents {
		assert.True(t, sim.World.Map.InBounds(a.Tile()))
	}
}
