package actions

import "github.com/talgya/mini-mind/internal/mind"

// UpdateBeliefs folds an outcome back into the agent's knowledge so the
// next plan is made from what actually happened.
func UpdateBeliefs(beliefs *mind.Store, o Outcome, tick uint64) {
	self := mind.Self()
	if o.OK() {
		if g := o.Gained; g != nil {
			beliefs.PerceiveSelf(mind.Contains, mind.Item(g.Concept, beliefs.CountOf(self, g.Concept)+g.Qty), tick)
			if o.Target != nil {
				beliefs.Assert(mind.NewTriple(mind.EntityNode(*o.Target), mind.HasTrait, mind.ConceptValue(g.Concept)).With(mind.Experience(tick)))
			}
		}
		if c := o.Consumed; c != nil {
			have := beliefs.CountOf(self, c.Concept)
			left := uint32(0)
			if have > c.Qty {
				left = have - c.Qty
			}
			beliefs.PerceiveSelf(mind.Contains, mind.Item(c.Concept, left), tick)
		}
		return
	}

	switch o.Failure.Reason {
	case ResourceDepleted:
		if o.Target != nil {
			beliefs.Assert(mind.NewTriple(mind.EntityNode(*o.Target), mind.Contains, mind.Item(mind.Apple, 0)).With(mind.Experience(tick)))
		}
	case MissingItem:
		beliefs.PerceiveSelf(mind.Contains, mind.Item(o.Failure.Item, 0), tick)
	case NoEdibleFood:
		beliefs.PerceiveSelf(mind.Contains, mind.Item(mind.Apple, 0), tick)
		beliefs.PerceiveSelf(mind.Contains, mind.Item(mind.Berry, 0), tick)
	}
}
