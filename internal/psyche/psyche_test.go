package psyche

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/mind"
)

func TestInventoryAddRemove(t *testing.T) {
	var inv Inventory
	inv.Add(mind.Apple, 2)
	inv.Add(mind.Stick, 1)
	inv.Add(mind.Apple, 1)
	assert.Equal(t, uint32(3), inv.Count(mind.Apple))

	assert.False(t, inv.Remove(mind.Apple, 4))
	assert.True(t, inv.Remove(mind.Apple, 3))
	assert.False(t, inv.Has(mind.Apple))
	require.Len(t, inv.Items, 1)

	onto := mind.DefaultOntology()
	assert.False(t, inv.HasEdible(onto))
	inv.Add(mind.Berry, 1)
	c, ok := inv.FirstEdible(onto)
	require.True(t, ok)
	assert.Equal(t, mind.Berry, c)
}

func TestApplyClampsAndAccumulates(t *testing.T) {
	s := NewState(DefaultTraits())
	s.Needs.Hunger = 95
	s.Apply(Effects{Hunger: 10, Energy: -5, Social: -1, Emotions: []EmotionRate{{Type: mind.Joy, Rate: 0.5}}}, 1)

	assert.Equal(t, 100.0, s.Needs.Hunger)
	assert.Equal(t, 95.0, s.Needs.Energy)
	assert.Equal(t, 0.0, s.Drives.Social)
	assert.InDelta(t, 0.5, s.Emotions.Intensity(mind.Joy), 1e-9)

	s.Apply(BaseMetabolism().Plus(Effects{Alertness: -50}), 1)
	assert.InDelta(t, 0.5, s.Consciousness.Alertness, 1e-9)
}

func TestEmotionsDecayAndStress(t *testing.T) {
	cfg := DefaultEmotionConfig()
	var e Emotions
	e.Add(mind.Fear, 0.6)
	e.Add(mind.Fear, 0.6)
	assert.Equal(t, 1.0, e.Intensity(mind.Fear), "intensity saturates while fuel accumulates")

	for i := 0; i < 100; i++ {
		e.Decay(cfg, 1)
	}
	assert.Empty(t, e.Active)

	e.UpdateStress(cfg, Needs{Hunger: 100, Energy: 0}, 50, 1)
	assert.InDelta(t, 1+1+5-0.5, e.Stress, 1e-9)
}

func TestInterpretUsesAssociations(t *testing.T) {
	store := mind.NewStore(mind.DefaultOntology())
	store.Assert(mind.NewTriple(mind.EntityNode(5), mind.IsA, mind.ConceptValue(mind.Person)))
	store.Assert(mind.NewTriple(mind.EntityNode(5), mind.TriggersEmotion, mind.Emotion(mind.Anger, 0.4)))
	actor := mind.EntityID(5)

	calm := Traits{Agreeableness: 0.8}
	got := Interpret(store, mind.ActAttack, RoleTarget, &actor, calm, DefaultEmotionConfig())
	require.Len(t, got, 2)
	assert.Equal(t, mind.Anger, got[0].Type)
	assert.Equal(t, mind.Fear, got[1].Type)
	assert.InDelta(t, 0.8, got[1].Intensity, 1e-9)

	prickly := Traits{Agreeableness: 0.1, Neuroticism: 1}
	got = Interpret(store, mind.ActAttack, RoleWitness, nil, prickly, DefaultEmotionConfig())
	require.Len(t, got, 2)
	assert.Equal(t, mind.Anger, got[0].Type)
	assert.InDelta(t, 0.3, got[0].Intensity, 1e-9)
	assert.InDelta(t, 0.6, got[1].Intensity, 1e-9)
}
