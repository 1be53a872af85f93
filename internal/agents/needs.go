// Needs drift: the slow, continuous part of an agent's life. Every tick
// the body pays its metabolism plus whatever the running activity costs
// and drives creep back up. Emotions settle on a slower cadence.
package agents

import (
	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/psyche"
)

// Per-second rise of the psychological drives while nothing feeds them.
const (
	lonelinessRate = 0.002
	boredomRate    = 0.001
	curiosityRate  = 0.001
)

// Drift advances a's body and mind by dt seconds.
func Drift(a *Agent, registry *actions.Registry, dt float64) {
	fx := psyche.BaseMetabolism().Plus(restlessness(a.State.Traits))
	if a.Activity != nil {
		if act, err := registry.Get(a.Activity.Template.Type); err == nil {
			fx = fx.Plus(act.Runtime())
		}
	}
	a.State.Apply(fx, dt)
}

// Settle runs dt seconds of emotional decay, mood and stress.
func Settle(a *Agent, cfg psyche.EmotionConfig, dt float64) {
	a.State.Settle(cfg, dt)
}

// restlessness is how fast a personality's drives rebuild. Extraverts get
// lonely sooner; open minds get curious sooner.
func restlessness(t psyche.Traits) psyche.Effects {
	return psyche.Effects{
		Social:    lonelinessRate * (0.5 + t.Extraversion),
		Fun:       boredomRate,
		Curiosity: curiosityRate * (0.5 + t.Openness),
	}
}
