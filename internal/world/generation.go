// World generation using layered simplex noise.
// A moisture layer carves lakes out of the grassland and a fertility layer
// decides where trees and bushes grow.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/mini-mind/internal/mind"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width          int
	Height         int
	Seed           int64   // 0 = random
	WaterLevel     float64 // moisture above this is water (0.0–1.0)
	RegrowInterval uint64
	MaxApples      uint32
	MaxBerries     uint32
	Deer           int
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:          64,
		Height:         64,
		WaterLevel:     0.72,
		RegrowInterval: 600,
		MaxApples:      5,
		MaxBerries:     8,
		Deer:           4,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.Seed = 42
	cfg.Deer = 1
	return cfg
}

// Generate creates a world with terrain and objects. The same seed always
// yields the same world.
func Generate(cfg GenConfig) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed + 100))

	// Independent noise layers.
	moisture := opensimplex.NewNormalized(seed)
	fertility := opensimplex.NewNormalized(seed + 1)

	w := New(NewMap(cfg.Width, cfg.Height))

	var bestTree, bestBush mind.Tile
	bestTreeF, bestBushF := -1.0, -1.0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			tile := mind.Tile{X: int32(x), Y: int32(y)}
			wet := octaveNoise(moisture, float64(x), float64(y), 3, 0.08, 0.5)
			if wet > cfg.WaterLevel {
				w.Map.Set(tile, TerrainWater)
				if rng.Float64() < 0.05 {
					w.Add(newWater(tile))
				}
				continue
			}

			fert := octaveNoise(fertility, float64(x), float64(y), 4, 0.1, 0.5)
			roll := rng.Float64()
			switch {
			case fert > 0.6 && roll < 0.08:
				w.Add(newAppleTree(tile, cfg, rng))
			case fert > 0.45 && fert <= 0.6 && roll < 0.06:
				w.Add(newBerryBush(tile, cfg, rng))
			case roll < 0.01:
				w.Add(&Object{Kind: mind.Stone, Pos: tile.Center(), Affords: []mind.ActionType{mind.ActPickup}})
			case roll < 0.02:
				w.Add(&Object{Kind: mind.Stick, Pos: tile.Center(), Affords: []mind.ActionType{mind.ActPickup}})
			}

			if fert > bestTreeF {
				bestTreeF, bestTree = fert, tile
			}
			if fert > 0.45 && fert <= 0.6 && fert > bestBushF {
				bestBushF, bestBush = fert, tile
			}
		}
	}

	// Every world has food somewhere.
	if w.Count(mind.AppleTree) == 0 && bestTreeF >= 0 {
		w.Add(newAppleTree(bestTree, cfg, rng))
	}
	if w.Count(mind.BerryBush) == 0 && bestBushF >= 0 {
		w.Add(newBerryBush(bestBush, cfg, rng))
	}

	for i := 0; i < cfg.Deer; i++ {
		w.Add(&Object{Kind: mind.Deer, Pos: w.RandomPosition(rng)})
	}
	return w
}

func newAppleTree(tile mind.Tile, cfg GenConfig, rng *rand.Rand) *Object {
	o := &Object{
		Kind:     mind.AppleTree,
		Pos:      tile.Center(),
		Affords:  []mind.ActionType{mind.ActHarvest},
		Regrowth: &Regrowth{Item: mind.Apple, Interval: cfg.RegrowInterval, Max: cfg.MaxApples},
	}
	if n := uint32(rng.Intn(int(cfg.MaxApples) + 1)); n > 0 {
		o.Inventory.Add(mind.Apple, n)
	}
	return o
}

func newBerryBush(tile mind.Tile, cfg GenConfig, rng *rand.Rand) *Object {
	o := &Object{
		Kind:     mind.BerryBush,
		Pos:      tile.Center(),
		Affords:  []mind.ActionType{mind.ActHarvest},
		Regrowth: &Regrowth{Item: mind.Berry, Interval: max(cfg.RegrowInterval/2, 1), Max: cfg.MaxBerries},
	}
	if n := uint32(rng.Intn(int(cfg.MaxBerries) + 1)); n > 0 {
		o.Inventory.Add(mind.Berry, n)
	}
	return o
}

func newWater(tile mind.Tile) *Object {
	return &Object{Kind: mind.Water, Pos: tile.Center(), Affords: []mind.ActionType{mind.ActDrink}}
}

// RandomPosition returns a walkable position, or the map center if none
// is found quickly.
func (w *World) RandomPosition(rng *rand.Rand) mind.Vec2 {
	for range 100 {
		tile := mind.Tile{X: int32(rng.Intn(w.Map.Width)), Y: int32(rng.Intn(w.Map.Height))}
		if w.Map.Walkable(tile) {
			return tile.Center()
		}
	}
	return mind.Tile{X: int32(w.Map.Width / 2), Y: int32(w.Map.Height / 2)}.Center()
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// KindCounts returns a summary of object kinds.
func KindCounts(w *World) map[mind.Concept]int {
	counts := make(map[mind.Concept]int)
	for _, o := range w.objects {
		counts[o.Kind]++
	}
	return counts
}
