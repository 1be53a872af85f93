// Package nervous turns body and mind state into ranked urgencies and
// picks the goal the deliberative brain should pursue.
package nervous

import (
	"fmt"
	"math"
	"strings"

	"github.com/talgya/mini-mind/internal/psyche"
)

// CurveKind selects a response curve.
type CurveKind string

const (
	CurveLinear      CurveKind = "linear"
	CurveExponential CurveKind = "exponential"
	CurveSigmoid     CurveKind = "sigmoid"
	CurveStep        CurveKind = "step"
)

// Curve maps a 0–1 input to a 0–1 response.
type Curve struct {
	Kind      CurveKind `yaml:"kind" json:"kind"`
	Power     float64   `yaml:"power,omitempty" json:"power,omitempty"`
	K         float64   `yaml:"k,omitempty" json:"k,omitempty"`
	Midpoint  float64   `yaml:"midpoint,omitempty" json:"midpoint,omitempty"`
	Threshold float64   `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Linear is the identity curve.
func Linear() Curve { return Curve{Kind: CurveLinear} }

// Exponential raises the input to power.
func Exponential(power float64) Curve { return Curve{Kind: CurveExponential, Power: power} }

// Sigmoid is a logistic curve of steepness k centered on midpoint.
func Sigmoid(k, midpoint float64) Curve { return Curve{Kind: CurveSigmoid, K: k, Midpoint: midpoint} }

// Step is 1 at or above threshold and 0 below.
func Step(threshold float64) Curve { return Curve{Kind: CurveStep, Threshold: threshold} }

// Apply evaluates the curve at x, clamped to 0–1 first.
func (c Curve) Apply(x float64) float64 {
	x = min(max(x, 0), 1)
	switch c.Kind {
	case CurveExponential:
		return math.Pow(x, c.Power)
	case CurveSigmoid:
		return 1 / (1 + math.Exp(-c.K*(x-c.Midpoint)))
	case CurveStep:
		if x >= c.Threshold {
			return 1
		}
		return 0
	}
	return x
}

// Sensitivity scales a drive linearly with one personality trait.
type Sensitivity struct {
	Trait psyche.Trait `yaml:"trait" json:"trait"`
	Base  float64      `yaml:"base" json:"base"`
	Scale float64      `yaml:"scale" json:"scale"`
}

// Factor is Base + trait × Scale.
func (s Sensitivity) Factor(t psyche.Traits) float64 {
	return s.Base + t.Get(s.Trait)*s.Scale
}

// ModifierOp is how a context modifier reshapes a score.
type ModifierOp string

const (
	DampenByHigh ModifierOp = "dampen_by_high" // score *= 1 - in×f
	DampenByLow  ModifierOp = "dampen_by_low"  // score *= 1 - (1-in)×f
	BoostBy      ModifierOp = "boost_by"       // score *= 1 + in×f
	Add          ModifierOp = "add"
	Subtract     ModifierOp = "subtract"
)

// Modifier reads a second raw input and reshapes the score with it.
type Modifier struct {
	Input  Source     `yaml:"input" json:"input"`
	Op     ModifierOp `yaml:"op" json:"op"`
	Factor float64    `yaml:"factor" json:"factor"`
}

func (m Modifier) apply(score, in float64) float64 {
	switch m.Op {
	case DampenByHigh:
		return score * (1 - in*m.Factor)
	case DampenByLow:
		return score * (1 - (1-in)*m.Factor)
	case BoostBy:
		return score * (1 + in*m.Factor)
	case Add:
		return score + in*m.Factor
	case Subtract:
		return score - in*m.Factor
	}
	return score
}

// Drive configures one urgency source.
type Drive struct {
	Name           string      `yaml:"name" json:"name"`
	Source         Source      `yaml:"source" json:"source"`
	BaseConstant   float64     `yaml:"base_constant" json:"base_constant"`
	Curve          Curve       `yaml:"curve" json:"curve"`
	Sensitivity    Sensitivity `yaml:"sensitivity" json:"sensitivity"`
	Modifiers      []Modifier  `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	MinThreshold   float64     `yaml:"min_threshold" json:"min_threshold"`
	BypassesGating bool        `yaml:"bypasses_gating" json:"bypasses_gating"`
}

// Config is the full urgency configuration.
type Config struct {
	Drives         []Drive  `yaml:"drives" json:"drives"`
	MomentumBonus  float64  `yaml:"momentum_bonus" json:"momentum_bonus"`
	Interoception  []Source `yaml:"interoception" json:"interoception"`
	Exteroception  []Source `yaml:"exteroception" json:"exteroception"`
	Proprioception []Source `yaml:"proprioception" json:"proprioception"`
	GoalThreshold  float64  `yaml:"goal_threshold" json:"goal_threshold"`
}

// Drive returns the configuration for s.
func (c Config) Drive(s Source) (Drive, bool) {
	for _, d := range c.Drives {
		if d.Source == s {
			return d, true
		}
	}
	return Drive{}, false
}

// Validate reports configuration the generator cannot run.
func (c Config) Validate() error {
	seen := make(map[Source]bool)
	for _, d := range c.Drives {
		if seen[d.Source] {
			return fmt.Errorf("drive %q: duplicate source %s", d.Name, d.Source)
		}
		seen[d.Source] = true
		switch d.Curve.Kind {
		case CurveLinear, CurveExponential, CurveSigmoid, CurveStep:
		default:
			return fmt.Errorf("drive %q: unknown curve %q", d.Name, d.Curve.Kind)
		}
		for _, m := range d.Modifiers {
			switch m.Op {
			case DampenByHigh, DampenByLow, BoostBy, Add, Subtract:
			default:
				return fmt.Errorf("drive %q: unknown modifier %q", d.Name, m.Op)
			}
		}
	}
	if c.MomentumBonus <= 0 {
		return fmt.Errorf("momentum_bonus must be positive, got %v", c.MomentumBonus)
	}
	return nil
}

// DefaultConfig is the stock set of seven drives.
func DefaultConfig() Config {
	return Config{
		Drives: []Drive{
			{
				Name: "Pain", Source: Pain, Curve: Exponential(2),
				Sensitivity:  Sensitivity{Trait: psyche.Neuroticism, Base: 1, Scale: 0.5},
				MinThreshold: 0.05, BypassesGating: true,
			},
			{
				Name: "Thirst", Source: Thirst, Curve: Sigmoid(10, 0.6),
				Sensitivity:  Sensitivity{Trait: psyche.Neuroticism, Base: 0.8, Scale: 0.4},
				MinThreshold: 0.01,
			},
			{
				Name: "Hunger", Source: Hunger, Curve: Sigmoid(10, 0.6),
				Sensitivity:  Sensitivity{Trait: psyche.Neuroticism, Base: 0.8, Scale: 0.4},
				MinThreshold: 0.01,
			},
			{
				Name: "Fatigue", Source: Energy, Curve: Sigmoid(10, 0.6),
				Sensitivity:  Sensitivity{Trait: psyche.Neuroticism, Base: 0.8, Scale: 0.3},
				MinThreshold: 0.01,
			},
			{
				Name: "Social", Source: Social, Curve: Linear(),
				Sensitivity:  Sensitivity{Trait: psyche.Extraversion, Base: 0.5, Scale: 1},
				Modifiers:    []Modifier{{Input: Energy, Op: DampenByLow, Factor: 1}},
				MinThreshold: 0.01,
			},
			{
				Name: "Fear", Source: Fear, Curve: Sigmoid(10, 0.4),
				Sensitivity:    Sensitivity{Trait: psyche.Neuroticism, Base: 1, Scale: 1},
				BypassesGating: true,
			},
			{
				Name: "Boredom", Source: Boredom, BaseConstant: 0.2, Curve: Linear(),
				Sensitivity: Sensitivity{Trait: psyche.Openness, Base: 0.5, Scale: 1},
			},
		},
		MomentumBonus:  1.5,
		Interoception:  []Source{Hunger, Pain, Thirst},
		Exteroception:  []Source{Social, Fear},
		Proprioception: []Source{Boredom, Fun, Energy},
		GoalThreshold:  0.1,
	}
}

// ParseSource resolves a source by name.
func ParseSource(s string) (Source, error) {
	for i, n := range sourceNames {
		if strings.EqualFold(n, s) {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("unknown urgency source %q", s)
}
