package psyche

import (
	"fmt"
	"math/rand"
	"strings"
)

// Traits is a Big Five personality vector, each in 0–1.
type Traits struct {
	Openness          float64 `json:"openness" yaml:"openness"`
	Conscientiousness float64 `json:"conscientiousness" yaml:"conscientiousness"`
	Extraversion      float64 `json:"extraversion" yaml:"extraversion"`
	Agreeableness     float64 `json:"agreeableness" yaml:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism" yaml:"neuroticism"` // high = anxious
}

// DefaultTraits is a perfectly average personality.
func DefaultTraits() Traits {
	return Traits{0.5, 0.5, 0.5, 0.5, 0.5}
}

// RandomTraits draws each trait uniformly.
func RandomTraits(rng *rand.Rand) Traits {
	return Traits{
		Openness:          rng.Float64(),
		Conscientiousness: rng.Float64(),
		Extraversion:      rng.Float64(),
		Agreeableness:     rng.Float64(),
		Neuroticism:       rng.Float64(),
	}
}

// Trait names one personality dimension.
type Trait uint8

const (
	Openness Trait = iota
	Conscientiousness
	Extraversion
	Agreeableness
	Neuroticism
)

var traitNames = [...]string{"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism"}

func (t Trait) String() string {
	if int(t) < len(traitNames) {
		return traitNames[t]
	}
	return "trait(?)"
}

// ParseTrait resolves a trait by name.
func ParseTrait(s string) (Trait, error) {
	for i, n := range traitNames {
		if strings.EqualFold(n, s) {
			return Trait(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trait %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Trait) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trait) UnmarshalText(b []byte) error {
	v, err := ParseTrait(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Get reads one dimension.
func (p Traits) Get(t Trait) float64 {
	switch t {
	case Openness:
		return p.Openness
	case Conscientiousness:
		return p.Conscientiousness
	case Extraversion:
		return p.Extraversion
	case Agreeableness:
		return p.Agreeableness
	case Neuroticism:
		return p.Neuroticism
	}
	return 0
}
