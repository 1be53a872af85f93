package mind

import (
	"cmp"
	"fmt"
	"math"
)

// EntityID identifies an external entity (another agent, a tree, a stone).
type EntityID uint64

// TileSize is the edge length of a tile in world units.
const TileSize = 16.0

// Tile is a grid coordinate.
type Tile struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Distance returns the Euclidean distance between two tiles in tile units.
func (t Tile) Distance(o Tile) float64 {
	dx := float64(t.X - o.X)
	dy := float64(t.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Center returns the world position at the middle of the tile.
func (t Tile) Center() Vec2 {
	return Vec2{
		X: float64(t.X)*TileSize + TileSize/2,
		Y: float64(t.Y)*TileSize + TileSize/2,
	}
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Vec2 is a continuous world position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two positions.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// TileOf returns the tile containing a world position.
func TileOf(p Vec2) Tile {
	return Tile{
		X: int32(math.Floor(p.X / TileSize)),
		Y: int32(math.Floor(p.Y / TileSize)),
	}
}

// NodeKind tags the variant held by a Node.
type NodeKind uint8

const (
	NodeAny NodeKind = iota // wildcard
	NodeSelf
	NodeEntity
	NodeConcept
	NodeTile
	NodeChunk
	NodeArea
	NodeEvent
	NodeAction
)

// Node is a triple subject. It is a comparable tagged struct so it can key
// the store's indices; only the fields belonging to Kind are set.
type Node struct {
	Kind    NodeKind   `json:"kind"`
	ID      uint64     `json:"id,omitempty"` // entity or event id
	Concept Concept    `json:"concept,omitempty"`
	Action  ActionType `json:"action,omitempty"`
	Tile    Tile       `json:"tile,omitempty"` // tile or chunk coordinate
	Name    string     `json:"name,omitempty"` // area name
}

// AnyNode matches every subject.
var AnyNode = Node{}

// Self is the agent's own node.
func Self() Node { return Node{Kind: NodeSelf} }

// EntityNode refers to an external entity.
func EntityNode(id EntityID) Node { return Node{Kind: NodeEntity, ID: uint64(id)} }

// ConceptNode refers to a concept.
func ConceptNode(c Concept) Node { return Node{Kind: NodeConcept, Concept: c} }

// TileNode refers to a map tile.
func TileNode(t Tile) Node { return Node{Kind: NodeTile, Tile: t} }

// ChunkNode refers to a chunk of tiles.
func ChunkNode(x, y int32) Node { return Node{Kind: NodeChunk, Tile: Tile{X: x, Y: y}} }

// AreaNode refers to a named area.
func AreaNode(name string) Node { return Node{Kind: NodeArea, Name: name} }

// EventNode refers to a remembered event.
func EventNode(id uint64) Node { return Node{Kind: NodeEvent, ID: id} }

// ActionNode refers to an action type.
func ActionNode(a ActionType) Node { return Node{Kind: NodeAction, Action: a} }

// IsAny reports whether n is the wildcard.
func (n Node) IsAny() bool { return n.Kind == NodeAny }

// Entity returns the entity id when n refers to an entity.
func (n Node) Entity() (EntityID, bool) {
	if n.Kind != NodeEntity {
		return 0, false
	}
	return EntityID(n.ID), true
}

func (n Node) String() string {
	switch n.Kind {
	case NodeAny:
		return "*"
	case NodeSelf:
		return "Self"
	case NodeEntity:
		return fmt.Sprintf("Entity#%d", n.ID)
	case NodeConcept:
		return n.Concept.String()
	case NodeTile:
		return "Tile" + n.Tile.String()
	case NodeChunk:
		return "Chunk" + n.Tile.String()
	case NodeArea:
		return "Area:" + n.Name
	case NodeEvent:
		return fmt.Sprintf("Event#%d", n.ID)
	case NodeAction:
		return "Action:" + n.Action.String()
	}
	return "Node(?)"
}

func compareNodes(a, b Node) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Concept, b.Concept); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Action, b.Action); c != 0 {
		return c
	}
	if c := compareTiles(a.Tile, b.Tile); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

func compareTiles(a, b Tile) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}
