package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/agents"
	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/engine"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "mindsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testAgent(id mind.EntityID, onto *mind.Ontology) *agents.Agent {
	a := &agents.Agent{
		ID:      id,
		Name:    "Wren",
		Culture: mind.Farmer,
		State:   psyche.NewState(psyche.DefaultTraits()),
		Beliefs: mind.NewStore(onto, mind.CultureBlock(mind.Farmer)),
	}
	a.Beliefs.PerceiveSelf(mind.Hunger, mind.Int(40), 10)
	a.Beliefs.PerceiveEntity(7, mind.Contains, mind.Item(mind.Apple, 3), 10, 0.9)
	a.Beliefs.LearnHearsay(9, []mind.Triple{
		mind.NewTriple(mind.EntityNode(8), mind.IsA, mind.ConceptValue(mind.BerryBush)),
	}, 11)
	return a
}

func TestRunsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := db.CreateRun(ctx, 7, 4, config.Default())
	require.NoError(t, err)
	second, err := db.CreateRun(ctx, 8, 2, config.Default())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := db.GetRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	latest, err := db.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, err = db.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRestoresKnowledge(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	onto := mind.DefaultOntology()
	run, err := db.CreateRun(ctx, 1, 1, config.Default())
	require.NoError(t, err)

	a := testAgent(3, onto)
	require.NoError(t, db.SaveSnapshot(ctx, run.ID, 100, []*agents.Agent{a}))
	a.Beliefs.PerceiveSelf(mind.Hunger, mind.Int(55), 200)
	require.NoError(t, db.SaveSnapshot(ctx, run.ID, 200, []*agents.Agent{a}))

	snap, err := db.LoadSnapshot(ctx, run.ID, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), snap.Tick)
	assert.Equal(t, "farmer", snap.Culture)
	if diff := cmp.Diff(a.Beliefs.Triples(), snap.Triples); diff != "" {
		t.Errorf("restored triples differ (-want +got):\n%s", diff)
	}

	older, err := db.LoadSnapshot(ctx, run.ID, 3, 150)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), older.Tick)
	restored := older.Restore(onto, mind.CultureBlock(mind.Farmer))
	v, ok := restored.Get(mind.Self(), mind.Hunger)
	require.True(t, ok)
	assert.Equal(t, mind.Int(40), v)
	assert.Equal(t, uint32(3), restored.CountOf(mind.EntityNode(7), mind.Apple))

	counts, err := db.KnowledgeCounts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, uint64(200), counts[0].Tick)
	assert.Equal(t, a.Beliefs.Len(), counts[0].Triples)

	_, err = db.LoadSnapshot(ctx, run.ID, 99, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecisionsSavedOnce(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	run, err := db.CreateRun(ctx, 1, 1, config.Default())
	require.NoError(t, err)

	a := testAgent(3, mind.DefaultOntology())
	tree := mind.EntityID(7)
	agents.AddDecision(a, agents.Decision{Tick: 10, Brain: brains.Reflexive, Action: mind.ActSleep, Name: "Sleep", Urgency: 80, Score: 4800, Rationale: "exhausted"}, 0)
	agents.AddDecision(a, agents.Decision{Tick: 20, Brain: brains.Deliberative, Action: mind.ActHarvest, Name: "Harvest", Target: &tree, Urgency: 30, Score: 2000, Rationale: "plan step 1/2"}, 0)

	require.NoError(t, db.SaveDecisions(ctx, run.ID, []*agents.Agent{a}, 0))
	agents.AddDecision(a, agents.Decision{Tick: 30, Brain: brains.Deliberative, Action: mind.ActEat, Name: "Eat", Urgency: 30, Score: 2000, Rationale: "plan step 2/2"}, 0)
	require.NoError(t, db.SaveDecisions(ctx, run.ID, []*agents.Agent{a}, 20))

	got, err := db.RecentDecisions(ctx, run.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Eat", "Harvest", "Sleep"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, brains.Reflexive.String(), got[2].Brain)
	assert.True(t, got[1].Target.Valid)
	assert.Equal(t, int64(7), got[1].Target.Int64)
	assert.False(t, got[0].Target.Valid)

	mine, err := db.RecentDecisions(ctx, run.ID, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestMeta(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.GetMeta(ctx, "last_tick")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveMeta(ctx, "last_tick", "10"))
	require.NoError(t, db.SaveMeta(ctx, "last_tick", "20"))
	v, err := db.GetMeta(ctx, "last_tick")
	require.NoError(t, err)
	assert.Equal(t, "20", v)
}

func TestSaveSimulation(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	tun := config.Default()
	tun.World.Width, tun.World.Height = 24, 24
	tun.Agents.Count = 3
	sim := engine.NewSimulation(tun, 5)
	for tick := uint64(1); tick <= 120; tick++ {
		require.NoError(t, sim.Step(ctx, tick))
	}

	run, err := db.CreateRun(ctx, 5, 3, tun)
	require.NoError(t, err)
	require.NoError(t, db.SaveSimulation(ctx, run.ID, sim, 0))

	counts, err := db.KnowledgeCounts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	for _, c := range counts {
		assert.Equal(t, uint64(120), c.Tick)
		assert.Positive(t, c.Triples)
	}

	last, err := db.GetMeta(ctx, "last_tick:"+run.ID)
	require.NoError(t, err)
	assert.Equal(t, "120", last)

	var logged int
	for _, a := range sim.Agents {
		logged += len(a.Decisions)
	}
	decisions, err := db.RecentDecisions(ctx, run.ID, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, decisions, logged)
}
