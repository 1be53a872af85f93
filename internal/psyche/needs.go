// Package psyche holds the body and mind state the decision core reads
// every cycle: physiological needs, alertness, psychological drives,
// personality, emotions and inventory.
package psyche

// Needs are physiological levels on a 0–100 scale.
type Needs struct {
	Hunger float64 `json:"hunger"` // rises over time
	Thirst float64 `json:"thirst"` // rises over time
	Energy float64 `json:"energy"` // spent by activity, restored by sleep
	Health float64 `json:"health"`
}

// DefaultNeeds is a fed, rested, healthy body.
func DefaultNeeds() Needs {
	return Needs{Energy: 100, Health: 100}
}

// Consciousness tracks wakefulness.
type Consciousness struct {
	Alertness float64 `json:"alertness"` // 0–1, low while asleep
}

// Asleep reports whether alertness has dropped low enough to count as sleep.
func (c Consciousness) Asleep() bool { return c.Alertness < 0.2 }

// Drives are higher psychological needs on a 0–1 scale where 1 is the
// strongest pull.
type Drives struct {
	Social    float64 `json:"social"`
	Fun       float64 `json:"fun"`
	Curiosity float64 `json:"curiosity"`
}

// DefaultDrives starts every drive halfway.
func DefaultDrives() Drives {
	return Drives{Social: 0.5, Fun: 0.5, Curiosity: 0.5}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
