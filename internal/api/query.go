package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/mini-mind/internal/mind"
)

// Knowledge query parameters are written kind:payload, for example
// s=entity:12, p=Contains, o=item:Apple. An empty parameter is a wildcard.

// knowledgeQuery is a parsed pattern. itemOf is set when the object named
// an item kind without a quantity, which matches every quantity.
type knowledgeQuery struct {
	pattern mind.Pattern
	itemOf  *mind.Concept
}

func parseQuery(s, p, o string) (knowledgeQuery, error) {
	var q knowledgeQuery
	var err error
	if q.pattern.Subject, err = parseNode(s); err != nil {
		return q, fmt.Errorf("subject: %w", err)
	}
	if p != "" {
		if q.pattern.Predicate, err = mind.ParsePredicate(p); err != nil {
			return q, fmt.Errorf("predicate: %w", err)
		}
	}
	if q.pattern.Object, q.itemOf, err = parseValue(o); err != nil {
		return q, fmt.Errorf("object: %w", err)
	}
	return q, nil
}

// run evaluates q against beliefs.
func (q knowledgeQuery) run(beliefs *mind.Store) []mind.Triple {
	pat := q.pattern
	found := beliefs.Query(pat.Subject, pat.Predicate, pat.Object)
	if q.itemOf == nil {
		return found
	}
	out := found[:0]
	for _, t := range found {
		if c, _, ok := t.Object.AsItem(); ok && c == *q.itemOf {
			out = append(out, t)
		}
	}
	return out
}

func parseNode(s string) (mind.Node, error) {
	if s == "" || s == "*" {
		return mind.AnyNode, nil
	}
	kind, payload, _ := strings.Cut(s, ":")
	switch strings.ToLower(kind) {
	case "self":
		return mind.Self(), nil
	case "entity":
		id, err := strconv.ParseUint(payload, 10, 64)
		return mind.EntityNode(mind.EntityID(id)), err
	case "event":
		id, err := strconv.ParseUint(payload, 10, 64)
		return mind.EventNode(id), err
	case "concept":
		c, err := mind.ParseConcept(payload)
		return mind.ConceptNode(c), err
	case "tile":
		t, err := parseTile(payload)
		return mind.TileNode(t), err
	case "area":
		return mind.AreaNode(payload), nil
	case "action":
		a, err := mind.ParseActionType(payload)
		return mind.ActionNode(a), err
	}
	return mind.AnyNode, fmt.Errorf("unknown node %q", s)
}

func parseValue(s string) (mind.Value, *mind.Concept, error) {
	if s == "" || s == "*" {
		return mind.Any, nil, nil
	}
	kind, payload, _ := strings.Cut(s, ":")
	switch strings.ToLower(kind) {
	case "bool":
		b, err := strconv.ParseBool(payload)
		return mind.Bool(b), nil, err
	case "int":
		i, err := strconv.ParseInt(payload, 10, 64)
		return mind.Int(i), nil, err
	case "entity":
		id, err := strconv.ParseUint(payload, 10, 64)
		return mind.EntityValue(mind.EntityID(id)), nil, err
	case "concept":
		c, err := mind.ParseConcept(payload)
		return mind.ConceptValue(c), nil, err
	case "tile":
		t, err := parseTile(payload)
		return mind.TileValue(t), nil, err
	case "action":
		a, err := mind.ParseActionType(payload)
		return mind.ActionValue(a), nil, err
	case "text":
		return mind.Text(payload), nil, nil
	case "item":
		name, qty, hasQty := strings.Cut(payload, ":")
		c, err := mind.ParseConcept(name)
		if err != nil {
			return mind.Any, nil, err
		}
		if !hasQty {
			return mind.Any, &c, nil
		}
		n, err := strconv.ParseUint(qty, 10, 32)
		return mind.Item(c, uint32(n)), nil, err
	}
	return mind.Any, nil, fmt.Errorf("unknown value %q", s)
}

func parseTile(s string) (mind.Tile, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return mind.Tile{}, fmt.Errorf("tile %q: want x,y", s)
	}
	x, err := strconv.ParseInt(xs, 10, 32)
	if err != nil {
		return mind.Tile{}, err
	}
	y, err := strconv.ParseInt(ys, 10, 32)
	if err != nil {
		return mind.Tile{}, err
	}
	return mind.Tile{X: int32(x), Y: int32(y)}, nil
}

// tripleView is a triple as shown to API clients.
type tripleView struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Source     string  `json:"source"`
	Memory     string  `json:"memory"`
	Tick       uint64  `json:"tick"`
	Confidence float64 `json:"confidence"`
	Salience   float64 `json:"salience"`
}

func viewTriples(ts []mind.Triple) []tripleView {
	out := make([]tripleView, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripleView{
			Subject:    t.Subject.String(),
			Predicate:  t.Predicate.String(),
			Object:     t.Object.String(),
			Source:     t.Meta.Source.String(),
			Memory:     t.Meta.Memory.String(),
			Tick:       t.Meta.Timestamp,
			Confidence: t.Meta.Confidence,
			Salience:   t.Meta.Salience,
		})
	}
	return out
}
