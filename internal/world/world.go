// Package world is the host world the agents live in: a tile grid
// scattered with trees, bushes, water, stones and animals. It is not safe
// for concurrent use; the engine serializes writers.
package world

import (
	"slices"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Regrowth refills an object's inventory over time.
type Regrowth struct {
	Item     mind.Concept `json:"item"`
	Interval uint64       `json:"interval"` // ticks per item
	Max      uint32       `json:"max"`
}

// Object is anything in the world that is not an agent.
type Object struct {
	ID        mind.EntityID     `json:"id"`
	Kind      mind.Concept      `json:"kind"`
	Pos       mind.Vec2         `json:"pos"`
	Inventory psyche.Inventory  `json:"inventory"`
	Affords   []mind.ActionType `json:"affords,omitempty"`
	Regrowth  *Regrowth         `json:"regrowth,omitempty"`
}

// Tile returns the tile the object stands on.
func (o *Object) Tile() mind.Tile { return mind.TileOf(o.Pos) }

// World holds the map and every object on it.
type World struct {
	Map     *Map
	objects map[mind.EntityID]*Object
	order   []mind.EntityID
	nextID  mind.EntityID
}

// New returns an empty world over m.
func New(m *Map) *World {
	return &World{Map: m, objects: make(map[mind.EntityID]*Object), nextID: 1}
}

// NewID allocates an entity id. Agents and objects share one id space.
func (w *World) NewID() mind.EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// Add places an object, assigning it an id if it has none.
func (w *World) Add(o *Object) mind.EntityID {
	if o.ID == 0 {
		o.ID = w.NewID()
	} else if o.ID >= w.nextID {
		w.nextID = o.ID + 1
	}
	if _, exists := w.objects[o.ID]; !exists {
		w.order = append(w.order, o.ID)
	}
	w.objects[o.ID] = o
	return o.ID
}

// Remove takes an object out of the world.
func (w *World) Remove(id mind.EntityID) bool {
	if _, ok := w.objects[id]; !ok {
		return false
	}
	delete(w.objects, id)
	w.order = slices.DeleteFunc(w.order, func(x mind.EntityID) bool { return x == id })
	return true
}

// Object returns the object with id.
func (w *World) Object(id mind.EntityID) (*Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

// Objects returns every object in placement order.
func (w *World) Objects() []*Object {
	out := make([]*Object, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.objects[id])
	}
	return out
}

// Within returns the objects no farther than radius world units from
// center, in placement order.
func (w *World) Within(center mind.Vec2, radius float64) []*Object {
	var out []*Object
	for _, id := range w.order {
		o := w.objects[id]
		if o.Pos.Distance(center) <= radius {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many objects of kind exist.
func (w *World) Count(kind mind.Concept) int {
	n := 0
	for _, o := range w.objects {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Regrow adds one item to every regrowing object whose interval divides
// tick, up to its maximum. It returns how many items grew.
func (w *World) Regrow(tick uint64) int {
	grown := 0
	for _, id := range w.order {
		o := w.objects[id]
		r := o.Regrowth
		if r == nil || r.Interval == 0 || tick%r.Interval != 0 {
			continue
		}
		if o.Inventory.Count(r.Item) < r.Max {
			o.Inventory.Add(r.Item, 1)
			grown++
		}
	}
	return grown
}
