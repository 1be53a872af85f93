package mind

import (
	"cmp"
	"fmt"
	"strconv"
)

// ValueKind tags the payload held by a Value.
type ValueKind uint8

const (
	ValueAny ValueKind = iota // wildcard
	ValueBool
	ValueInt
	ValueFloat
	ValueConcept
	ValueEntity
	ValueTile
	ValueAction
	ValueEmotion
	ValueItem
	ValueAttitude
	ValueText
)

// Value is a triple object. Like Node it is a comparable tagged struct;
// only the fields belonging to Kind are set.
type Value struct {
	Kind    ValueKind   `json:"kind"`
	Bool    bool        `json:"bool,omitempty"`
	Int     int64       `json:"int,omitempty"`
	Float   float64     `json:"float,omitempty"` // float, attitude, emotion intensity
	Concept Concept     `json:"concept,omitempty"`
	Entity  EntityID    `json:"entity,omitempty"`
	Tile    Tile        `json:"tile,omitempty"`
	Action  ActionType  `json:"action,omitempty"`
	Emotion EmotionType `json:"emotion,omitempty"`
	Qty     uint32      `json:"qty,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// Any matches every object.
var Any = Value{}

// Value constructors, one per payload kind.
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }
func Int(i int64) Value { return Value{Kind: ValueInt, Int: i} }
func Float(f float64) Value { return Value{Kind: ValueFloat, Float: f} }
func ConceptValue(c Concept) Value { return Value{Kind: ValueConcept, Concept: c} }
func EntityValue(id EntityID) Value { return Value{Kind: ValueEntity, Entity: id} }
func TileValue(t Tile) Value { return Value{Kind: ValueTile, Tile: t} }
func ActionValue(a ActionType) Value { return Value{Kind: ValueAction, Action: a} }
func Attitude(f float64) Value { return Value{Kind: ValueAttitude, Float: f} }
func Text(s string) Value { return Value{Kind: ValueText, Text: s} }

// Item is a quantity of a concept held by its subject.
func Item(c Concept, qty uint32) Value { return Value{Kind: ValueItem, Concept: c, Qty: qty} }

// Emotion is an emotion with an intensity in [0,1].
func Emotion(e EmotionType, f float64) Value {
	return Value{Kind: ValueEmotion, Emotion: e, Float: f}
}

// IsAny reports whether v is the wildcard.
func (v Value) IsAny() bool { return v.Kind == ValueAny }

// AsItem returns the item concept and quantity when v is an item.
func (v Value) AsItem() (Concept, uint32, bool) {
	if v.Kind != ValueItem {
		return 0, 0, false
	}
	return v.Concept, v.Qty, true
}

// AsTile returns the tile when v is a tile.
func (v Value) AsTile() (Tile, bool) {
	if v.Kind != ValueTile {
		return Tile{}, false
	}
	return v.Tile, true
}

// AsConcept returns the concept when v is a concept reference.
func (v Value) AsConcept() (Concept, bool) {
	if v.Kind != ValueConcept {
		return 0, false
	}
	return v.Concept, true
}

// AsEntity returns the entity when v is an entity reference.
func (v Value) AsEntity() (EntityID, bool) {
	if v.Kind != ValueEntity {
		return 0, false
	}
	return v.Entity, true
}

// AsFloat returns a numeric reading of v for float, attitude and int values.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case ValueFloat, ValueAttitude:
		return v.Float, true
	case ValueInt:
		return float64(v.Int), true
	}
	return 0, false
}

// Present reports whether v counts as a positive fact. A zero-quantity
// item records known absence.
func (v Value) Present() bool {
	return v.Kind != ValueItem || v.Qty > 0
}

func (v Value) String() string {
	switch v.Kind {
	case ValueAny:
		return "*"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', 2, 64)
	case ValueConcept:
		return v.Concept.String()
	case ValueEntity:
		return fmt.Sprintf("Entity#%d", v.Entity)
	case ValueTile:
		return "Tile" + v.Tile.String()
	case ValueAction:
		return v.Action.String()
	case ValueEmotion:
		return fmt.Sprintf("%s(%.2f)", v.Emotion, v.Float)
	case ValueItem:
		return fmt.Sprintf("%s×%d", v.Concept, v.Qty)
	case ValueAttitude:
		return fmt.Sprintf("attitude(%.2f)", v.Float)
	case ValueText:
		return strconv.Quote(v.Text)
	}
	return "Value(?)"
}

func compareValues(a, b Value) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	switch a.Kind {
	case ValueBool:
		return cmp.Compare(boolInt(a.Bool), boolInt(b.Bool))
	case ValueInt:
		return cmp.Compare(a.Int, b.Int)
	case ValueFloat, ValueAttitude:
		return cmp.Compare(a.Float, b.Float)
	case ValueConcept:
		return cmp.Compare(a.Concept, b.Concept)
	case ValueEntity:
		return cmp.Compare(a.Entity, b.Entity)
	case ValueTile:
		return compareTiles(a.Tile, b.Tile)
	case ValueAction:
		return cmp.Compare(a.Action, b.Action)
	case ValueEmotion:
		if c := cmp.Compare(a.Emotion, b.Emotion); c != 0 {
			return c
		}
		return cmp.Compare(a.Float, b.Float)
	case ValueItem:
		if c := cmp.Compare(a.Concept, b.Concept); c != 0 {
			return c
		}
		return cmp.Compare(a.Qty, b.Qty)
	case ValueText:
		return cmp.Compare(a.Text, b.Text)
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
