package psyche

import (
	"slices"

	"github.com/talgya/mini-mind/internal/mind"
)

// Item is a stack of one concept.
type Item struct {
	Concept  mind.Concept `json:"concept"`
	Quantity uint32       `json:"quantity"`
}

// Inventory is what an agent actually carries. The agent's beliefs about
// it are refreshed from here during perception.
type Inventory struct {
	Items []Item `json:"items,omitempty"`
}

// Add puts qty of c into the inventory.
func (inv *Inventory) Add(c mind.Concept, qty uint32) {
	if qty == 0 {
		return
	}
	for i := range inv.Items {
		if inv.Items[i].Concept == c {
			inv.Items[i].Quantity += qty
			return
		}
	}
	inv.Items = append(inv.Items, Item{Concept: c, Quantity: qty})
}

// Remove takes qty of c out, reporting false and changing nothing when
// there is not enough.
func (inv *Inventory) Remove(c mind.Concept, qty uint32) bool {
	i := slices.IndexFunc(inv.Items, func(it Item) bool { return it.Concept == c })
	if i < 0 || inv.Items[i].Quantity < qty {
		return false
	}
	inv.Items[i].Quantity -= qty
	if inv.Items[i].Quantity == 0 {
		inv.Items = slices.Delete(inv.Items, i, i+1)
	}
	return true
}

// Count returns how many of c are carried.
func (inv *Inventory) Count(c mind.Concept) uint32 {
	for _, it := range inv.Items {
		if it.Concept == c {
			return it.Quantity
		}
	}
	return 0
}

// Has reports whether any c is carried.
func (inv *Inventory) Has(c mind.Concept) bool { return inv.Count(c) > 0 }

// FirstEdible returns the first carried item the ontology says is edible.
func (inv *Inventory) FirstEdible(o *mind.Ontology) (mind.Concept, bool) {
	for _, it := range inv.Items {
		if it.Quantity > 0 && o.HasTrait(it.Concept, mind.Edible) {
			return it.Concept, true
		}
	}
	return 0, false
}

// HasEdible reports whether anything carried is edible.
func (inv *Inventory) HasEdible(o *mind.Ontology) bool {
	_, ok := inv.FirstEdible(o)
	return ok
}
