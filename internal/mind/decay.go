package mind

import "math"

// DecayConfig controls forgetting. Half-lives are in simulated seconds.
type DecayConfig struct {
	PerceptionHalfLife float64 `yaml:"perception_half_life" json:"perception_half_life"`
	EpisodicHalfLife   float64 `yaml:"episodic_half_life" json:"episodic_half_life"`
	SemanticHalfLife   float64 `yaml:"semantic_half_life" json:"semantic_half_life"`
	SalienceMultiplier float64 `yaml:"salience_multiplier" json:"salience_multiplier"`
	ForgetThreshold    float64 `yaml:"forget_threshold" json:"forget_threshold"`
	EmptyContainerTTL  float64 `yaml:"empty_container_ttl" json:"empty_container_ttl"` // known-empty records expire after this
	TicksPerSecond     float64 `yaml:"ticks_per_second" json:"ticks_per_second"`
}

// DefaultDecay returns the stock forgetting curve.
func DefaultDecay() DecayConfig {
	return DecayConfig{
		PerceptionHalfLife: 30,
		EpisodicHalfLife:   300,
		SemanticHalfLife:   36000,
		SalienceMultiplier: 2,
		ForgetThreshold:    0.1,
		EmptyContainerTTL:  12,
		TicksPerSecond:     60,
	}
}

// HalfLife returns the base half-life for a memory class. Intrinsic and
// procedural memories never decay.
func (c DecayConfig) HalfLife(m MemoryType) float64 {
	switch m {
	case MemoryPerception:
		return c.PerceptionHalfLife
	case MemoryEpisodic:
		return c.EpisodicHalfLife
	case MemorySemantic:
		return c.SemanticHalfLife
	case MemoryCultural:
		return c.SemanticHalfLife * 2
	}
	return math.Inf(1)
}

// Strength is the remaining memory strength in (0,1] after ageSeconds.
// Salience stretches the half-life.
func (c DecayConfig) Strength(ageSeconds float64, m MemoryType, salience float64) float64 {
	hl := c.HalfLife(m)
	if math.IsInf(hl, 1) || hl <= 0 {
		return 1
	}
	adjusted := hl * (1 + salience*c.SalienceMultiplier)
	return math.Pow(0.5, ageSeconds/adjusted)
}

// Forget reports whether a memory of the given age is gone.
func (c DecayConfig) Forget(ageSeconds float64, m MemoryType, salience float64) bool {
	return c.Strength(ageSeconds, m, salience) < c.ForgetThreshold
}

func (c DecayConfig) ageSeconds(now, ts uint64) float64 {
	if now <= ts {
		return 0
	}
	tps := c.TicksPerSecond
	if tps <= 0 {
		tps = 1
	}
	return float64(now-ts) / tps
}

// Decay forgets personal triples whose strength has dropped below the
// threshold at tick now, plus known-empty container records older than
// EmptyContainerTTL. Shared blocks and the ontology are never touched.
// It returns the number of triples removed.
func (s *Store) Decay(now uint64, cfg DecayConfig) int {
	return s.removeWhere(func(t *Triple) bool {
		age := cfg.ageSeconds(now, t.Meta.Timestamp)
		if cfg.Forget(age, t.Meta.Memory, t.Meta.Salience) {
			return true
		}
		return t.Predicate == Contains && t.Object.Kind == ValueItem && t.Object.Qty == 0 &&
			age > cfg.EmptyContainerTTL
	})
}
