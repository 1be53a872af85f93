package psyche

import "github.com/talgya/mini-mind/internal/mind"

// Emotion is one felt emotion. Intensity drives behavior; fuel is the
// reservoir that decides how long it lasts.
type Emotion struct {
	Type      mind.EmotionType `json:"type"`
	Intensity float64          `json:"intensity"` // 0–1
	Fuel      float64          `json:"fuel"`
}

// EmotionConfig tunes emotional dynamics.
type EmotionConfig struct {
	DecayBaseRate         float64 `yaml:"decay_base_rate" json:"decay_base_rate"`
	DecayFuelFactor       float64 `yaml:"decay_fuel_factor" json:"decay_fuel_factor"`
	StressHungerThreshold float64 `yaml:"stress_hunger_threshold" json:"stress_hunger_threshold"`
	StressEnergyThreshold float64 `yaml:"stress_energy_threshold" json:"stress_energy_threshold"`
	StressHungerWeight    float64 `yaml:"stress_hunger_weight" json:"stress_hunger_weight"`
	StressEnergyWeight    float64 `yaml:"stress_energy_weight" json:"stress_energy_weight"`
	StressPainWeight      float64 `yaml:"stress_pain_weight" json:"stress_pain_weight"`
	StressEmotionWeight   float64 `yaml:"stress_emotion_weight" json:"stress_emotion_weight"`
	StressRecoveryBonus   float64 `yaml:"stress_recovery_bonus" json:"stress_recovery_bonus"`
	StressDecayBase       float64 `yaml:"stress_decay_base" json:"stress_decay_base"`
	IntroversionPenalty   float64 `yaml:"introversion_penalty" json:"introversion_penalty"`
	NeuroticismAmplifier  float64 `yaml:"neuroticism_amplifier" json:"neuroticism_amplifier"`
}

// DefaultEmotionConfig returns stock emotional dynamics.
func DefaultEmotionConfig() EmotionConfig {
	return EmotionConfig{
		DecayBaseRate:         0.05,
		DecayFuelFactor:       0.01,
		StressHungerThreshold: 50,
		StressEnergyThreshold: 50,
		StressHungerWeight:    0.02,
		StressEnergyWeight:    0.02,
		StressPainWeight:      0.1,
		StressEmotionWeight:   0.15,
		StressRecoveryBonus:   2,
		StressDecayBase:       0.5,
		IntroversionPenalty:   0.3,
		NeuroticismAmplifier:  0.5,
	}
}

// Emotions is an agent's affective state.
type Emotions struct {
	Mood   float64   `json:"mood"`   // -1 depressed .. 1 ecstatic
	Stress float64   `json:"stress"` // 0–100
	Active []Emotion `json:"active,omitempty"`
}

// Add feels an emotion. Repeated feelings of the same type accumulate fuel.
func (e *Emotions) Add(t mind.EmotionType, intensity float64) {
	if intensity <= 0 {
		return
	}
	for i := range e.Active {
		if e.Active[i].Type == t {
			e.Active[i].Fuel += intensity
			e.Active[i].Intensity = min(e.Active[i].Fuel, 1)
			return
		}
	}
	e.Active = append(e.Active, Emotion{Type: t, Intensity: min(intensity, 1), Fuel: intensity})
}

// Intensity returns how strongly t is felt right now.
func (e *Emotions) Intensity(t mind.EmotionType) float64 {
	for _, a := range e.Active {
		if a.Type == t {
			return a.Intensity
		}
	}
	return 0
}

// TotalIntensity sums every active emotion.
func (e *Emotions) TotalIntensity() float64 {
	total := 0.0
	for _, a := range e.Active {
		total += a.Intensity
	}
	return total
}

// Decay burns fuel for dt seconds and drops spent emotions.
func (e *Emotions) Decay(cfg EmotionConfig, dt float64) {
	kept := e.Active[:0]
	for _, a := range e.Active {
		rate := cfg.DecayBaseRate + min(a.Fuel*cfg.DecayFuelFactor, 0.1)
		a.Fuel = max(a.Fuel-rate*dt, 0)
		a.Intensity = min(a.Fuel, 1)
		if a.Fuel > 0.01 {
			kept = append(kept, a)
		}
	}
	e.Active = kept
}

func moodValence(t mind.EmotionType) float64 {
	switch t {
	case mind.Joy:
		return 1
	case mind.Surprise:
		return 0.2
	case mind.Sadness:
		return -0.8
	case mind.Fear:
		return -1
	case mind.Anger:
		return -0.6
	case mind.Disgust:
		return -0.7
	}
	return 0
}

// UpdateMood eases mood toward the intensity-weighted valence of active
// emotions, anchored by a temperament baseline and dragged down by pain.
func (e *Emotions) UpdateMood(traits Traits, pain, dt float64) {
	baseline := (traits.Extraversion - traits.Neuroticism) * 0.5
	sum, weight := baseline, 0.5
	for _, a := range e.Active {
		sum += moodValence(a.Type) * a.Intensity
		weight += a.Intensity
	}
	if pain > 0 {
		p := pain / 100 // pain is on the 0–100 body scale
		sum -= p
		weight += p
	}
	target := sum / weight
	e.Mood = clamp(e.Mood+(target-e.Mood)*dt*0.5, -1, 1)
}

// UpdateStress accumulates stress from hunger, fatigue, pain and negative
// emotion and bleeds it off, faster when fed and rested.
func (e *Emotions) UpdateStress(cfg EmotionConfig, n Needs, pain, dt float64) {
	hungerStress := max(n.Hunger-cfg.StressHungerThreshold, 0) * cfg.StressHungerWeight
	fatigueStress := max(cfg.StressEnergyThreshold-n.Energy, 0) * cfg.StressEnergyWeight
	painStress := pain * cfg.StressPainWeight

	negative := 0.0
	for _, a := range e.Active {
		if a.Type != mind.Joy && a.Type != mind.Surprise {
			negative += a.Intensity
		}
	}
	gain := (hungerStress + fatigueStress + painStress + negative*cfg.StressEmotionWeight) * dt

	recovery := 1.0
	if n.Hunger < 30 && n.Energy > 70 {
		recovery = cfg.StressRecoveryBonus
	}
	e.Stress = clamp(e.Stress+gain-cfg.StressDecayBase*recovery*dt, 0, 100)
}

// Role is how an agent took part in an event.
type Role uint8

const (
	RoleActor Role = iota
	RoleTarget
	RoleWitness
)

// Interpret returns the emotions an event evokes in an agent, from what
// its mind associates with the actor, the actor's types, the action and
// the action's categories, shaped by personality.
func Interpret(store *mind.Store, action mind.ActionType, role Role, actor *mind.EntityID, traits Traits, cfg EmotionConfig) []Emotion {
	var felt []Emotion
	collect := func(n mind.Node) {
		nodes := []mind.Node{n}
		for _, c := range store.AllTypes(n) {
			nodes = append(nodes, mind.ConceptNode(c))
		}
		for _, node := range nodes {
			for _, t := range store.Query(node, mind.TriggersEmotion, mind.Any) {
				if t.Object.Kind == mind.ValueEmotion {
					felt = append(felt, Emotion{Type: t.Object.Emotion, Intensity: t.Object.Float, Fuel: t.Object.Float})
				}
			}
		}
	}
	if actor != nil {
		collect(mind.EntityNode(*actor))
	}
	collect(mind.ActionNode(action))

	var out []Emotion
	for _, e := range felt {
		if role == RoleWitness {
			e.Intensity *= 0.5
			e.Fuel *= 0.5
		}
		if action == mind.ActWave && e.Type == mind.Joy && traits.Extraversion < 0.3 {
			e.Intensity *= cfg.IntroversionPenalty
		}
		switch e.Type {
		case mind.Fear, mind.Sadness, mind.Anger:
			e.Intensity *= 1 + traits.Neuroticism*cfg.NeuroticismAmplifier
		}
		if e.Type == mind.Fear && traits.Agreeableness < 0.3 {
			out = append(out, Emotion{Type: mind.Anger, Intensity: e.Intensity * 0.5, Fuel: e.Intensity * 0.5})
		}
		out = append(out, e)
	}
	return out
}
