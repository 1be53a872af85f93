package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/engine"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/persistence"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSim(t *testing.T, ticks uint64) *engine.Simulation {
	t.Helper()
	tun := config.Default()
	tun.World.Width, tun.World.Height = 24, 24
	tun.Agents.Count = 3
	sim := engine.NewSimulation(tun, 9)
	for tick := uint64(1); tick <= ticks; tick++ {
		require.NoError(t, sim.Step(context.Background(), tick))
	}
	return sim
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestStatusAndAgents(t *testing.T) {
	sim := newSim(t, 60)
	srv := httptest.NewServer((&Server{Sim: sim, RunID: "run-1"}).Handler())
	defer srv.Close()

	var status struct {
		Tick    uint64          `json:"tick"`
		SimTime string          `json:"sim_time"`
		Run     string          `json:"run"`
		Stats   engine.SimStats `json:"stats"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/status", &status))
	assert.Equal(t, uint64(60), status.Tick)
	assert.Equal(t, "run-1", status.Run)
	assert.Equal(t, 3, status.Stats.Agents)
	assert.NotEmpty(t, status.SimTime)

	var list struct {
		Agents []agentSummary `json:"agents"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/agents", &list))
	require.Len(t, list.Agents, 3)
	for i := 1; i < len(list.Agents); i++ {
		assert.Less(t, list.Agents[i-1].ID, list.Agents[i].ID)
	}
	assert.Positive(t, list.Agents[0].Knowledge)
}

func TestAgentDetail(t *testing.T) {
	sim := newSim(t, 120)
	srv := httptest.NewServer((&Server{Sim: sim}).Handler())
	defer srv.Close()

	id := sim.Agents[0].ID
	var d struct {
		ID        mind.EntityID  `json:"id"`
		Urgencies []urgencyView  `json:"urgencies"`
		Plan      planView       `json:"plan"`
		Brain     brainView      `json:"brain"`
		Decisions []decisionView `json:"decisions"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, fmt.Sprintf("%s/api/v1/agents/%d", srv.URL, id), &d))
	assert.Equal(t, id, d.ID)
	a := sim.Agents[0]
	assert.Len(t, d.Urgencies, len(a.Urgencies))
	assert.Len(t, d.Decisions, min(10, len(a.Decisions)))
	steps, cursor := a.Brain.Deliberative.Plan()
	assert.Len(t, d.Plan.Steps, len(steps))
	assert.Equal(t, cursor, d.Plan.Cursor)
	assert.Positive(t, d.Brain.Powers.Associative)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/agents/99999", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/agents/abc", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/agents/99999/decisions", nil))
}

func TestKnowledgeQuery(t *testing.T) {
	sim := newSim(t, 30)
	srv := httptest.NewServer((&Server{Sim: sim}).Handler())
	defer srv.Close()

	id := sim.Agents[0].ID
	var res struct {
		Total   int          `json:"total"`
		Triples []tripleView `json:"triples"`
	}
	url := fmt.Sprintf("%s/api/v1/agents/%d/knowledge?s=self&p=Hunger", srv.URL, id)
	require.Equal(t, http.StatusOK, getJSON(t, url, &res))
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Self", res.Triples[0].Subject)
	assert.Equal(t, "perception", res.Triples[0].Source)

	// The ontology answers too.
	url = fmt.Sprintf("%s/api/v1/agents/%d/knowledge?s=concept:apple&p=isa", srv.URL, id)
	require.Equal(t, http.StatusOK, getJSON(t, url, &res))
	assert.Positive(t, res.Total)

	url = fmt.Sprintf("%s/api/v1/agents/%d/knowledge?p=Flavor", srv.URL, id)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, url, nil))
}

func TestKnowledgeQueryIsRateLimited(t *testing.T) {
	sim := newSim(t, 1)
	srv := httptest.NewServer((&Server{Sim: sim, QueryLimiter: NewRateLimiter(2, time.Minute)}).Handler())
	defer srv.Close()

	url := fmt.Sprintf("%s/api/v1/agents/%d/knowledge", srv.URL, sim.Agents[0].ID)
	assert.Equal(t, http.StatusOK, getJSON(t, url, nil))
	assert.Equal(t, http.StatusOK, getJSON(t, url, nil))
	assert.Equal(t, http.StatusTooManyRequests, getJSON(t, url, nil))

	// Other endpoints are not throttled.
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/agents", nil))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	sim := newSim(t, 120)

	noDB := httptest.NewServer((&Server{Sim: sim}).Handler())
	defer noDB.Close()
	assert.Equal(t, http.StatusNotFound, getJSON(t, noDB.URL+"/api/v1/history", nil))

	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer db.Close()
	run, err := db.CreateRun(ctx, 9, 3, sim.Tuning)
	require.NoError(t, err)
	require.NoError(t, db.SaveSimulation(ctx, run.ID, sim, 0))

	srv := httptest.NewServer((&Server{Sim: sim, DB: db, RunID: run.ID}).Handler())
	defer srv.Close()

	var res struct {
		Run       string                       `json:"run"`
		Decisions []persistence.DecisionRecord `json:"decisions"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/history?limit=500", &res))
	assert.Equal(t, run.ID, res.Run)
	var logged int
	for _, a := range sim.Agents {
		logged += len(a.Decisions)
	}
	assert.Len(t, res.Decisions, logged)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/history?agent=x", nil))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	sim := newSim(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&Server{Sim: sim, Addr: "127.0.0.1:0"}).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery("entity:7", "Contains", "item:Apple")
	require.NoError(t, err)
	assert.Equal(t, mind.EntityNode(7), q.pattern.Subject)
	assert.Equal(t, mind.Contains, q.pattern.Predicate)
	assert.True(t, q.pattern.Object.IsAny())
	require.NotNil(t, q.itemOf)
	assert.Equal(t, mind.Apple, *q.itemOf)

	q, err = parseQuery("tile:3,4", "", "item:berry:2")
	require.NoError(t, err)
	assert.Equal(t, mind.TileNode(mind.Tile{X: 3, Y: 4}), q.pattern.Subject)
	assert.Equal(t, mind.Item(mind.Berry, 2), q.pattern.Object)
	assert.Nil(t, q.itemOf)

	for _, bad := range [][3]string{
		{"planet:1", "", ""},
		{"", "Nope", ""},
		{"", "", "tile:3"},
		{"entity:x", "", ""},
	} {
		_, err := parseQuery(bad[0], bad[1], bad[2])
		assert.Error(t, err, bad)
	}

	store := mind.NewStore(mind.DefaultOntology())
	store.PerceiveEntity(7, mind.Contains, mind.Item(mind.Apple, 3), 1, 1)
	store.PerceiveEntity(7, mind.Contains, mind.Item(mind.Berry, 1), 1, 1)
	q, err = parseQuery("entity:7", "Contains", "item:apple")
	require.NoError(t, err)
	got := q.run(store)
	require.Len(t, got, 1)
	assert.Equal(t, mind.Item(mind.Apple, 3), got[0].Object)
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 61, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(5 * time.Minute)
	rl.Allow("c")
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.buckets, "b")
}
