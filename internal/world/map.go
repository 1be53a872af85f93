package world

import (
	"fmt"

	"github.com/talgya/mini-mind/internal/mind"
)

// Terrain is the ground type of a tile.
type Terrain uint8

const (
	TerrainGrass Terrain = iota
	TerrainWater
)

func (t Terrain) String() string {
	switch t {
	case TerrainGrass:
		return "Grass"
	case TerrainWater:
		return "Water"
	}
	return "Unknown"
}

// Map is a rectangular tile grid with its origin at tile (0,0).
type Map struct {
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Terrain []Terrain `json:"-"` // row-major
}

// NewMap creates an all-grass map.
func NewMap(width, height int) *Map {
	return &Map{
		Width:   width,
		Height:  height,
		Terrain: make([]Terrain, width*height),
	}
}

// InBounds returns true if t lies on the map.
func (m *Map) InBounds(t mind.Tile) bool {
	return t.X >= 0 && t.Y >= 0 && int(t.X) < m.Width && int(t.Y) < m.Height
}

// Get returns the terrain at t, or false if out of bounds.
func (m *Map) Get(t mind.Tile) (Terrain, bool) {
	if !m.InBounds(t) {
		return 0, false
	}
	return m.Terrain[int(t.Y)*m.Width+int(t.X)], true
}

// Set changes the terrain at t. Out-of-bounds tiles are ignored.
func (m *Map) Set(t mind.Tile, terrain Terrain) {
	if m.InBounds(t) {
		m.Terrain[int(t.Y)*m.Width+int(t.X)] = terrain
	}
}

// Walkable reports whether agents can stand on t.
func (m *Map) Walkable(t mind.Tile) bool {
	terrain, ok := m.Get(t)
	return ok && terrain == TerrainGrass
}

// Clamp keeps a world position inside the map.
func (m *Map) Clamp(p mind.Vec2) mind.Vec2 {
	maxX := float64(m.Width)*mind.TileSize - 0.001
	maxY := float64(m.Height)*mind.TileSize - 0.001
	return mind.Vec2{X: min(max(p.X, 0), maxX), Y: min(max(p.Y, 0), maxY)}
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return m.Width * m.Height
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, tiles=%d)", m.Width, m.Height, m.TileCount())
}
