package mind

import (
	"fmt"
	"slices"
)

// Source records how a belief was acquired.
type Source uint8

const (
	SourceIntrinsic Source = iota
	SourceCultural
	SourceCommunicated
	SourceHearsay
	SourceObserved
	SourceExperienced
	SourceInferred
	SourcePerception
)

var sourceNames = [...]string{
	"intrinsic", "cultural", "communicated", "hearsay", "observed", "experienced", "inferred", "perception",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "source(?)"
}

// MemoryType selects the decay policy applied to a belief.
type MemoryType uint8

const (
	MemoryIntrinsic MemoryType = iota // never decays
	MemoryCultural
	MemorySemantic
	MemoryEpisodic
	MemoryProcedural // never decays
	MemoryPerception
)

var memoryNames = [...]string{"intrinsic", "cultural", "semantic", "episodic", "procedural", "perception"}

func (m MemoryType) String() string {
	if int(m) < len(memoryNames) {
		return memoryNames[m]
	}
	return "memory(?)"
}

// Metadata is the provenance attached to every triple.
type Metadata struct {
	Source     Source     `json:"source"`
	Memory     MemoryType `json:"memory"`
	Timestamp  uint64     `json:"timestamp"` // tick
	Confidence float64    `json:"confidence"`
	Salience   float64    `json:"salience"`
	Informant  *EntityID  `json:"informant,omitempty"`
	Evidence   []uint64   `json:"evidence,omitempty"` // supporting event ids
}

// Intrinsic is built-in knowledge that never decays.
func Intrinsic() Metadata {
	return Metadata{Source: SourceIntrinsic, Memory: MemoryIntrinsic, Confidence: 1}
}

// Cultural is knowledge inherited from a culture.
func Cultural() Metadata {
	return Metadata{Source: SourceCultural, Memory: MemoryCultural, Confidence: 0.8, Salience: 0.5}
}

// Perception is a fresh sensory reading.
func Perception(tick uint64) Metadata {
	return Metadata{Source: SourcePerception, Memory: MemoryPerception, Timestamp: tick, Confidence: 1}
}

// Experience is something the agent learned by doing.
func Experience(tick uint64) Metadata {
	return Metadata{Source: SourceExperienced, Memory: MemorySemantic, Timestamp: tick, Confidence: 1}
}

// Inference is a belief derived from other beliefs.
func Inference(tick uint64, confidence float64) Metadata {
	return Metadata{Source: SourceInferred, Memory: MemorySemantic, Timestamp: tick, Confidence: confidence}
}

// Hearsay is a belief communicated by another agent.
func Hearsay(tick uint64, from EntityID, confidence float64) Metadata {
	return Metadata{
		Source:     SourceHearsay,
		Memory:     MemorySemantic,
		Timestamp:  tick,
		Confidence: confidence,
		Salience:   0.5,
		Informant:  &from,
	}
}

// Triple is a single belief.
type Triple struct {
	Subject   Node      `json:"subject"`
	Predicate Predicate `json:"predicate"`
	Object    Value     `json:"object"`
	Meta      Metadata  `json:"meta"`
}

// NewTriple builds a triple with intrinsic metadata.
func NewTriple(s Node, p Predicate, o Value) Triple {
	return Triple{Subject: s, Predicate: p, Object: o, Meta: Intrinsic()}
}

// With returns a copy of t carrying meta.
func (t Triple) With(meta Metadata) Triple {
	t.Meta = meta
	return t
}

// SameFact reports whether two triples state the same (s, p, o).
func (t Triple) SameFact(o Triple) bool {
	return t.Subject == o.Subject && t.Predicate == o.Predicate && t.Object == o.Object
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s %s %s)", t.Subject, t.Predicate, t.Object)
}

// CompareTriples orders triples by subject, predicate, then object.
func CompareTriples(a, b Triple) int {
	return ComparePatterns(a.Pattern(), b.Pattern())
}

// Pattern returns the fully specified pattern matching t.
func (t Triple) Pattern() Pattern {
	return Pattern{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object}
}

// Pattern is a partially specified triple; zero-valued slots are wildcards.
type Pattern struct {
	Subject   Node      `json:"subject"`
	Predicate Predicate `json:"predicate"`
	Object    Value     `json:"object"`
}

// Match builds a pattern.
func Match(s Node, p Predicate, o Value) Pattern {
	return Pattern{Subject: s, Predicate: p, Object: o}
}

// SelfAt is the pattern "self is located at tile".
func SelfAt(t Tile) Pattern {
	return Match(Self(), LocatedAt, TileValue(t))
}

// Matches reports whether t fits every specified slot of p.
func (p Pattern) Matches(t Triple) bool {
	if !p.Subject.IsAny() && p.Subject != t.Subject {
		return false
	}
	if p.Predicate != AnyPredicate && p.Predicate != t.Predicate {
		return false
	}
	if !p.Object.IsAny() && p.Object != t.Object {
		return false
	}
	return true
}

func (p Pattern) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Subject, p.Predicate, p.Object)
}

// ComparePatterns orders patterns by subject, predicate, then object.
// Wildcards sort before concrete values.
func ComparePatterns(a, b Pattern) int {
	if c := compareNodes(a.Subject, b.Subject); c != 0 {
		return c
	}
	if a.Predicate != b.Predicate {
		if a.Predicate < b.Predicate {
			return -1
		}
		return 1
	}
	return compareValues(a.Object, b.Object)
}

// Goal is a desired world state.
type Goal struct {
	Conditions []Pattern `json:"conditions"`
	Priority   float64   `json:"priority"`
}

// SameConditions reports whether two goals want the same thing; priority
// drifts every cycle and is ignored.
func (g Goal) SameConditions(o Goal) bool {
	return slices.Equal(g.Conditions, o.Conditions)
}
