package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/mind"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(SmallTestConfig())
	b := Generate(SmallTestConfig())
	require.Equal(t, len(a.Objects()), len(b.Objects()))
	for i, o := range a.Objects() {
		p := b.Objects()[i]
		assert.Equal(t, o.Kind, p.Kind)
		assert.Equal(t, o.Pos, p.Pos)
	}
	assert.Equal(t, a.Map.Terrain, b.Map.Terrain)
}

func TestGenerateAlwaysHasFood(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		cfg := SmallTestConfig()
		cfg.Seed = seed
		w := Generate(cfg)
		counts := KindCounts(w)
		assert.Positive(t, counts[mind.AppleTree], "seed %d", seed)
		for _, o := range w.Objects() {
			assert.True(t, w.Map.InBounds(o.Tile()), "seed %d: %v off the map", seed, o.Kind)
			if o.Kind == mind.AppleTree {
				assert.Contains(t, o.Affords, mind.ActHarvest)
				assert.LessOrEqual(t, o.Inventory.Count(mind.Apple), cfg.MaxApples)
			}
		}
	}
}

func TestWithin(t *testing.T) {
	w := New(NewMap(10, 10))
	near := w.Add(&Object{Kind: mind.Stone, Pos: mind.Vec2{X: 10, Y: 10}})
	w.Add(&Object{Kind: mind.Stick, Pos: mind.Vec2{X: 150, Y: 150}})

	got := w.Within(mind.Vec2{}, 32)
	require.Len(t, got, 1)
	assert.Equal(t, near, got[0].ID)

	assert.True(t, w.Remove(near))
	assert.Empty(t, w.Within(mind.Vec2{}, 32))
	assert.False(t, w.Remove(near))
}

func TestRegrowStopsAtMax(t *testing.T) {
	w := New(NewMap(4, 4))
	id := w.Add(&Object{
		Kind:     mind.AppleTree,
		Regrowth: &Regrowth{Item: mind.Apple, Interval: 10, Max: 2},
	})
	tree, _ := w.Object(id)

	assert.Equal(t, 0, w.Regrow(5))
	assert.Equal(t, 1, w.Regrow(10))
	assert.Equal(t, 1, w.Regrow(20))
	assert.Equal(t, 0, w.Regrow(30))
	assert.Equal(t, uint32(2), tree.Inventory.Count(mind.Apple))
}

func TestIDsAreShared(t *testing.T) {
	w := New(NewMap(4, 4))
	agent := w.NewID()
	obj := w.Add(&Object{Kind: mind.Stone})
	assert.NotEqual(t, agent, obj)
	w.Add(&Object{ID: 50, Kind: mind.Stick})
	assert.Equal(t, mind.EntityID(51), w.NewID())
}

func TestRandomPositionIsWalkable(t *testing.T) {
	w := Generate(SmallTestConfig())
	rng := rand.New(rand.NewSource(3))
	for range 20 {
		p := w.RandomPosition(rng)
		assert.True(t, w.Map.InBounds(mind.TileOf(p)))
	}
	m := NewMap(2, 2)
	assert.Equal(t, mind.Vec2{X: 31.999, Y: 0}, m.Clamp(mind.Vec2{X: 100, Y: -5}))
}
