package psyche

import "github.com/talgya/mini-mind/internal/mind"

// EmotionRate is a continuous emotional effect, in intensity per second.
type EmotionRate struct {
	Type mind.EmotionType `json:"type"`
	Rate float64          `json:"rate"`
}

// Effects are per-second rates an ongoing activity applies to the body
// and mind. Positive Hunger means getting hungrier; negative Social means
// the social drive is being satisfied.
type Effects struct {
	Energy    float64       `json:"energy,omitempty"`
	Hunger    float64       `json:"hunger,omitempty"`
	Thirst    float64       `json:"thirst,omitempty"`
	Health    float64       `json:"health,omitempty"`
	Pain      float64       `json:"pain,omitempty"`
	Alertness float64       `json:"alertness,omitempty"` // on a 0–100 scale
	Social    float64       `json:"social,omitempty"`
	Fun       float64       `json:"fun,omitempty"`
	Curiosity float64       `json:"curiosity,omitempty"`
	Emotions  []EmotionRate `json:"emotions,omitempty"`
}

// BaseMetabolism is what living costs regardless of activity. Pain heals
// slowly.
func BaseMetabolism() Effects {
	return Effects{Energy: -0.15, Hunger: 0.5, Thirst: 0.3, Pain: -1}
}

// Plus sums two effect sets.
func (e Effects) Plus(o Effects) Effects {
	out := Effects{
		Energy:    e.Energy + o.Energy,
		Hunger:    e.Hunger + o.Hunger,
		Thirst:    e.Thirst + o.Thirst,
		Health:    e.Health + o.Health,
		Pain:      e.Pain + o.Pain,
		Alertness: e.Alertness + o.Alertness,
		Social:    e.Social + o.Social,
		Fun:       e.Fun + o.Fun,
		Curiosity: e.Curiosity + o.Curiosity,
	}
	out.Emotions = append(append(out.Emotions, e.Emotions...), o.Emotions...)
	return out
}

// State is the full host-side condition of one agent.
type State struct {
	Needs         Needs         `json:"needs"`
	Consciousness Consciousness `json:"consciousness"`
	Drives        Drives        `json:"drives"`
	Traits        Traits        `json:"traits"`
	Emotions      Emotions      `json:"emotions"`
	Inventory     Inventory     `json:"inventory"`
	Pain          float64       `json:"pain"` // aggregate body pain, 0–100
}

// NewState returns a healthy, awake agent with the given personality.
func NewState(traits Traits) State {
	return State{
		Needs:         DefaultNeeds(),
		Consciousness: Consciousness{Alertness: 1},
		Drives:        DefaultDrives(),
		Traits:        traits,
	}
}

// Apply advances the state by dt seconds of e.
func (s *State) Apply(e Effects, dt float64) {
	s.Needs.Energy = clamp(s.Needs.Energy+e.Energy*dt, 0, 100)
	s.Needs.Hunger = clamp(s.Needs.Hunger+e.Hunger*dt, 0, 100)
	s.Needs.Thirst = clamp(s.Needs.Thirst+e.Thirst*dt, 0, 100)
	s.Needs.Health = clamp(s.Needs.Health+e.Health*dt, 0, 100)
	s.Pain = clamp(s.Pain+e.Pain*dt, 0, 100)
	s.Consciousness.Alertness = clamp(s.Consciousness.Alertness+e.Alertness*dt*0.01, 0, 1)
	s.Drives.Social = clamp(s.Drives.Social+e.Social*dt, 0, 1)
	s.Drives.Fun = clamp(s.Drives.Fun+e.Fun*dt, 0, 1)
	s.Drives.Curiosity = clamp(s.Drives.Curiosity+e.Curiosity*dt, 0, 1)
	for _, em := range e.Emotions {
		s.Emotions.Add(em.Type, em.Rate*dt)
	}
}

// Settle runs the slow emotional dynamics for dt seconds.
func (s *State) Settle(cfg EmotionConfig, dt float64) {
	s.Emotions.Decay(cfg, dt)
	s.Emotions.UpdateMood(s.Traits, s.Pain, dt)
	s.Emotions.UpdateStress(cfg, s.Needs, s.Pain, dt)
}

// Hurt inflicts pain and a little health loss.
func (s *State) Hurt(amount float64) {
	s.Pain = clamp(s.Pain+amount, 0, 100)
	s.Needs.Health = clamp(s.Needs.Health-amount*0.2, 0, 100)
}
