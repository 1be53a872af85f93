package nervous

import (
	"slices"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Source is what an urgency is about.
type Source uint8

const (
	Hunger Source = iota
	Thirst
	Energy // fatigue
	Social
	Fun
	Fear
	Pain
	Boredom
)

var sourceNames = [...]string{"hunger", "thirst", "energy", "social", "fun", "fear", "pain", "boredom"}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "source(?)"
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(b []byte) error {
	v, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Urgency is one ranked pressure.
type Urgency struct {
	Source Source  `json:"source"`
	Value  float64 `json:"value"`
}

// Inputs is the agent state urgency generation reads.
type Inputs struct {
	Hunger    float64 // 0–100
	Thirst    float64 // 0–100
	Energy    float64 // 0–100
	Pain      float64 // 0–100
	Social    float64 // 0–1
	Fun       float64 // 0–1
	Fear      float64 // 0–1
	Alertness float64 // 0–1
	Traits    psyche.Traits

	// Current is the running activity, if any.
	Current    mind.ActionType
	HasCurrent bool
}

// InputsFrom reads inputs from an agent's state.
func InputsFrom(s *psyche.State, current *mind.ActionType) Inputs {
	in := Inputs{
		Hunger:    s.Needs.Hunger,
		Thirst:    s.Needs.Thirst,
		Energy:    s.Needs.Energy,
		Pain:      s.Pain,
		Social:    s.Drives.Social,
		Fun:       s.Drives.Fun,
		Fear:      s.Emotions.Intensity(mind.Fear),
		Alertness: s.Consciousness.Alertness,
		Traits:    s.Traits,
	}
	if current != nil {
		in.Current, in.HasCurrent = *current, true
	}
	return in
}

func unit(v float64) float64 { return min(max(v, 0), 1) }

// Raw is the 0–1 reading behind a source. Energy reads as the energy
// fraction; the fatigue inversion belongs to the Energy drive only.
func (in Inputs) Raw(s Source) float64 {
	switch s {
	case Hunger:
		return unit(in.Hunger / 100)
	case Thirst:
		return unit(in.Thirst / 100)
	case Energy:
		return unit(in.Energy / 100)
	case Pain:
		return unit(in.Pain / 100)
	case Social:
		return in.Social
	case Fun:
		return in.Fun
	case Fear:
		return in.Fear
	}
	return 0
}

// Score runs one drive up to its threshold, before momentum and gating.
func (d Drive) Score(in Inputs) float64 {
	x := in.Raw(d.Source)
	if d.Source == Energy {
		x = 1 - x
	}
	score := d.Curve.Apply(max(x, d.BaseConstant)) * d.Sensitivity.Factor(in.Traits)
	for _, m := range d.Modifiers {
		score = m.apply(score, in.Raw(m.Input))
	}
	return max(score, 0)
}

// activitySource maps running activities to the drive they serve.
func activitySource(a mind.ActionType) (Source, bool) {
	switch a {
	case mind.ActEat:
		return Hunger, true
	case mind.ActSleep:
		return Energy, true
	case mind.ActWander:
		return Boredom, true
	}
	return 0, false
}

// gate is how audible a source is at the given alertness.
func (c Config) gate(s Source, alertness float64) float64 {
	switch {
	case slices.Contains(c.Interoception, s):
		return 0.6 + alertness*0.4
	case slices.Contains(c.Exteroception, s):
		return alertness
	case slices.Contains(c.Proprioception, s):
		return 0.2 + alertness*0.8
	}
	return 0.1 + alertness*0.9
}

// Generate scores every configured drive and returns the urgencies above
// their thresholds, highest first.
func Generate(cfg Config, in Inputs) []Urgency {
	current, hasCurrent := Source(0), false
	if in.HasCurrent {
		current, hasCurrent = activitySource(in.Current)
	}

	var out []Urgency
	for _, d := range cfg.Drives {
		v := d.Score(in)
		if v <= d.MinThreshold {
			continue
		}
		isCurrent := hasCurrent && d.Source == current
		if isCurrent {
			v *= cfg.MomentumBonus
		} else if !d.BypassesGating {
			v *= cfg.gate(d.Source, in.Alertness)
		}
		out = append(out, Urgency{Source: d.Source, Value: v})
	}
	slices.SortStableFunc(out, func(a, b Urgency) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	return out
}
