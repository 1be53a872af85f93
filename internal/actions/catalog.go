package actions

import (
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

// ── Survival ────────────────────────────────────────────────────────────

// Eat consumes one carried item.
type Eat struct{ base }

func (Eat) Type() mind.ActionType { return mind.ActEat }
func (Eat) Name() string          { return "Eat" }
func (Eat) Kind() Kind            { return Timed(20) }

func (Eat) Preconditions(*mind.EntityID, *mind.Vec2) []mind.Pattern {
	return []mind.Pattern{mind.Match(mind.Self(), mind.Contains, mind.Any)}
}

func (Eat) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple {
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.Hunger, mind.Int(0))}
}

func (Eat) CanStart(_ Template, ctx *Context) *Failure {
	for _, it := range ctx.State.Inventory.Items {
		if it.Quantity > 0 {
			return nil
		}
	}
	return Fail(NoEdibleFood)
}

func (Eat) Complete(t Template, ctx *Context) Outcome {
	out := Succeeded(t)
	s := ctx.State
	s.Needs.Hunger = max(s.Needs.Hunger-50, 0)
	s.Needs.Energy = min(s.Needs.Energy+10, 100)
	for _, it := range s.Inventory.Items {
		if it.Quantity > 0 {
			s.Inventory.Remove(it.Concept, 1)
			out.Consumed = &ItemDelta{Concept: it.Concept, Qty: 1}
			break
		}
	}
	return out
}

// Sleep lasts until something wakes the agent.
type Sleep struct{ base }

func (Sleep) Type() mind.ActionType { return mind.ActSleep }
func (Sleep) Name() string          { return "Sleep" }
func (Sleep) Kind() Kind            { return Timed(Forever) }
func (Sleep) Cost() float64         { return 0.1 }

func (Sleep) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple {
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.Energy, mind.Int(100))}
}

func (Sleep) Runtime() psyche.Effects {
	return psyche.Effects{
		Energy:    20,
		Hunger:    0.2,
		Alertness: -50,
		Emotions:  []psyche.EmotionRate{{Type: mind.Joy, Rate: 0.02}},
	}
}

// WakeUp brings a sleeping agent back to full alertness.
type WakeUp struct{ base }

func (WakeUp) Type() mind.ActionType { return mind.ActWakeUp }
func (WakeUp) Name() string          { return "WakeUp" }
func (WakeUp) Kind() Kind            { return Timed(30) }

func (WakeUp) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple {
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.HasTrait, mind.ConceptValue(mind.Awake))}
}

func (WakeUp) Runtime() psyche.Effects { return psyche.Effects{Alertness: 100} }

// Idle does nothing, slowly.
type Idle struct{ base }

func (Idle) Type() mind.ActionType   { return mind.ActIdle }
func (Idle) Name() string            { return "Idle" }
func (Idle) Kind() Kind              { return Timed(Forever) }
func (Idle) Runtime() psyche.Effects { return psyche.Effects{Hunger: 0.5, Alertness: 5} }

// Harvest takes one item out of a resource.
type Harvest struct{ base }

func (Harvest) Type() mind.ActionType   { return mind.ActHarvest }
func (Harvest) Name() string            { return "Harvest" }
func (Harvest) Kind() Kind              { return Timed(30) }
func (Harvest) Cost() float64           { return 10 }
func (Harvest) TargetType() TargetType  { return TargetEntity }
func (Harvest) RequiresProximity() bool { return true }

func (Harvest) Preconditions(target *mind.EntityID, pos *mind.Vec2) []mind.Pattern {
	var pre []mind.Pattern
	if pos != nil {
		pre = append(pre, mind.SelfAt(mind.TileOf(*pos)))
	}
	if target != nil {
		pre = append(pre, mind.Match(mind.EntityNode(*target), mind.Contains, mind.Any))
	}
	return pre
}

func (Harvest) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple {
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.Contains, mind.Item(mind.Apple, 1))}
}

// IsPlanValid accepts targets that, by what the agent knows of them or
// their kinds, produce food or a resource.
func (Harvest) IsPlanValid(beliefs *mind.Store, target *mind.EntityID) bool {
	if target == nil {
		return false
	}
	n := mind.EntityNode(*target)
	nodes := []mind.Node{n}
	for _, c := range beliefs.AllTypes(n) {
		nodes = append(nodes, mind.ConceptNode(c))
	}
	for _, node := range nodes {
		for _, t := range beliefs.Query(node, mind.Produces, mind.Any) {
			c, ok := t.Object.AsConcept()
			if !ok {
				c, _, ok = t.Object.AsItem()
			}
			if !ok {
				continue
			}
			if beliefs.IsA(mind.ConceptNode(c), mind.Food) || beliefs.IsA(mind.ConceptNode(c), mind.Resource) {
				return true
			}
		}
	}
	return false
}

func (Harvest) CanStart(t Template, ctx *Context) *Failure {
	if t.TargetEntity == nil || !ctx.TargetFound {
		return Fail(TargetGone)
	}
	return nil
}

func (Harvest) Runtime() psyche.Effects { return psyche.Effects{Energy: -0.2, Hunger: 2} }

func (Harvest) Complete(t Template, ctx *Context) Outcome {
	inv := ctx.TargetInventory
	if inv == nil {
		return Failed(t, Fail(TargetGone))
	}
	for _, it := range inv.Items {
		if it.Quantity > 0 {
			inv.Remove(it.Concept, 1)
			ctx.State.Inventory.Add(it.Concept, 1)
			out := Succeeded(t)
			out.Gained = &ItemDelta{Concept: it.Concept, Qty: 1}
			return out
		}
	}
	return Failed(t, Fail(ResourceDepleted))
}

// ── Movement ────────────────────────────────────────────────────────────

// Walk goes to a position.
type Walk struct{ base }

func (Walk) Type() mind.ActionType  { return mind.ActWalk }
func (Walk) Name() string           { return "Walk" }
func (Walk) Kind() Kind             { return Movement() }
func (Walk) Cost() float64          { return 0 }
func (Walk) TargetType() TargetType { return TargetPosition }

func (Walk) Effects(_ *mind.EntityID, pos *mind.Vec2) []mind.Triple {
	if pos == nil {
		return nil
	}
	tile := mind.TileOf(*pos)
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.LocatedAt, mind.TileValue(tile))}
}

func (Walk) CanStart(t Template, _ *Context) *Failure {
	if t.TargetPos == nil {
		return Fail(NoTarget)
	}
	return nil
}

func (Walk) Runtime() psyche.Effects {
	return psyche.Effects{Energy: -0.3, Hunger: 0.5, Alertness: 10}
}

// Explore heads somewhere unvisited.
type Explore struct{ base }

func (Explore) Type() mind.ActionType { return mind.ActExplore }
func (Explore) Name() string          { return "Explore" }
func (Explore) Kind() Kind            { return Movement() }
func (Explore) Cost() float64         { return 3 }

func (Explore) Runtime() psyche.Effects {
	return psyche.Effects{Energy: -0.25, Hunger: 2.5, Alertness: 5}
}

// Flee runs away from whatever is frightening.
type Flee struct{ base }

func (Flee) Type() mind.ActionType { return mind.ActFlee }
func (Flee) Name() string          { return "Flee" }
func (Flee) Kind() Kind            { return Movement() }

func (Flee) Runtime() psyche.Effects {
	return psyche.Effects{Energy: -0.5, Hunger: 3, Alertness: 20}
}

// Wander drifts aimlessly.
type Wander struct{ base }

func (Wander) Type() mind.ActionType { return mind.ActWander }
func (Wander) Name() string          { return "Wander" }
func (Wander) Kind() Kind            { return Movement() }
func (Wander) Cost() float64         { return 5 }

func (Wander) Runtime() psyche.Effects {
	return psyche.Effects{Energy: -0.2, Hunger: 2, Alertness: 5}
}

// ── Social ──────────────────────────────────────────────────────────────

func checkPartner(t Template, ctx *Context) *Failure {
	if t.TargetEntity == nil || !ctx.TargetFound {
		return Fail(NoTarget)
	}
	if ctx.Position.Distance(ctx.TargetPosition) > ConversationRange {
		return Fail(TooFar)
	}
	return nil
}

// Talk takes one conversational turn with a partner.
type Talk struct{ base }

func (Talk) Type() mind.ActionType   { return mind.ActTalk }
func (Talk) Name() string            { return "Talk" }
func (Talk) Kind() Kind              { return Timed(60) }
func (Talk) TargetType() TargetType  { return TargetEntity }
func (Talk) RequiresProximity() bool { return true }

func (Talk) Effects(*mind.EntityID, *mind.Vec2) []mind.Triple {
	return []mind.Triple{mind.NewTriple(mind.Self(), mind.SocialDrive, mind.Int(0))}
}

func (Talk) CanStart(t Template, ctx *Context) *Failure { return checkPartner(t, ctx) }

func (Talk) Complete(t Template, ctx *Context) Outcome {
	ctx.State.Drives.Social = max(ctx.State.Drives.Social-0.1, 0)
	out := Succeeded(t)
	if t.TargetEntity != nil {
		topic := Topic{Kind: TopicGeneral}
		if t.Topic != nil {
			topic = *t.Topic
		}
		out.Speech = &Speech{Partner: *t.TargetEntity, Topic: topic, Content: t.Content}
	}
	return out
}

// Introduce makes the agent known to a stranger.
type Introduce struct{ base }

func (Introduce) Type() mind.ActionType   { return mind.ActIntroduce }
func (Introduce) Name() string            { return "Introduce" }
func (Introduce) Kind() Kind              { return Timed(30) }
func (Introduce) TargetType() TargetType  { return TargetEntity }
func (Introduce) RequiresProximity() bool { return true }

func (Introduce) Effects(target *mind.EntityID, _ *mind.Vec2) []mind.Triple {
	if target == nil {
		return nil
	}
	return []mind.Triple{mind.NewTriple(mind.EntityNode(*target), mind.Knows, mind.Bool(true))}
}

func (Introduce) CanStart(t Template, ctx *Context) *Failure {
	if f := checkPartner(t, ctx); f != nil {
		return f
	}
	if ctx.Beliefs.Has(mind.EntityNode(*t.TargetEntity), mind.Introduced, mind.Bool(true)) {
		return Fail(AlreadyDone)
	}
	return nil
}

// Attack hits another agent.
type Attack struct{ base }

func (Attack) Type() mind.ActionType   { return mind.ActAttack }
func (Attack) Name() string            { return "Attack" }
func (Attack) Kind() Kind              { return Timed(30) }
func (Attack) Cost() float64           { return 10 }
func (Attack) TargetType() TargetType  { return TargetEntity }
func (Attack) Runtime() psyche.Effects { return psyche.Effects{Energy: -2} }

func (Attack) CanStart(t Template, ctx *Context) *Failure {
	if t.TargetEntity == nil || !ctx.TargetFound {
		return Fail(NoTarget)
	}
	return nil
}
