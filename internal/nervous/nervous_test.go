package nervous

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/psyche"
)

func calm() Inputs {
	return Inputs{Energy: 100, Alertness: 1, Traits: psyche.DefaultTraits()}
}

func TestStepCurveIsSharp(t *testing.T) {
	d := Drive{
		Name: "Thirst", Source: Thirst, Curve: Step(0.5),
		Sensitivity: Sensitivity{Trait: psyche.Neuroticism, Base: 0.4, Scale: 0.4},
	}
	in := calm()

	in.Thirst = 49.9
	assert.Equal(t, 0.0, d.Score(in))

	in.Thirst = 50
	assert.InDelta(t, 0.6, d.Score(in), 1e-12)
}

func TestCurves(t *testing.T) {
	assert.Equal(t, 0.25, Exponential(2).Apply(0.5))
	assert.InDelta(t, 0.5, Sigmoid(10, 0.6).Apply(0.6), 1e-12)
	assert.Equal(t, 1.0, Linear().Apply(3), "inputs clamp to the unit interval")
	assert.Equal(t, 0.0, Linear().Apply(-1))
}

func TestGenerateRanksAndGates(t *testing.T) {
	cfg := DefaultConfig()
	in := calm()
	in.Hunger = 90

	got := Generate(cfg, in)
	require.NotEmpty(t, got)
	assert.Equal(t, Hunger, got[0].Source)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Value, got[i].Value)
	}

	drowsy := in
	drowsy.Alertness = 0
	sleepy := Generate(cfg, drowsy)
	byHunger := func(us []Urgency) float64 {
		for _, u := range us {
			if u.Source == Hunger {
				return u.Value
			}
		}
		return 0
	}
	assert.InDelta(t, byHunger(got)*0.6, byHunger(sleepy), 1e-9, "interoception stays partly audible")
}

func TestPainBypassesGating(t *testing.T) {
	cfg := DefaultConfig()
	in := calm()
	in.Pain = 80
	in.Alertness = 0

	d, ok := cfg.Drive(Pain)
	require.True(t, ok)
	want := math.Pow(0.8, 2) * (1 + 0.5*0.5)

	var got float64
	for _, u := range Generate(cfg, in) {
		if u.Source == Pain {
			got = u.Value
		}
	}
	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, want, d.Score(in), 1e-9)
}

func TestMomentumSkipsGating(t *testing.T) {
	cfg := DefaultConfig()
	in := calm()
	in.Energy = 10
	in.Alertness = 0.1

	base := Generate(cfg, in)
	in.Current, in.HasCurrent = mind.ActSleep, true
	sleeping := Generate(cfg, in)

	find := func(us []Urgency, s Source) float64 {
		for _, u := range us {
			if u.Source == s {
				return u.Value
			}
		}
		return 0
	}
	d, _ := cfg.Drive(Energy)
	assert.InDelta(t, d.Score(in)*1.5, find(sleeping, Energy), 1e-9)
	assert.Greater(t, find(sleeping, Energy), find(base, Energy))
}

func TestSocialDampenedByFatigue(t *testing.T) {
	d, ok := DefaultConfig().Drive(Social)
	require.True(t, ok)
	in := calm()
	in.Social = 0.8
	rested := d.Score(in)
	in.Energy = 25
	assert.InDelta(t, rested*0.25, d.Score(in), 1e-9)
}

func TestFormulate(t *testing.T) {
	_, ok := Formulate(nil, 0.1)
	assert.False(t, ok)

	_, ok = Formulate([]Urgency{{Source: Hunger, Value: 0.05}}, 0.1)
	assert.False(t, ok)

	g, ok := Formulate([]Urgency{{Source: Boredom, Value: 0.3}, {Source: Hunger, Value: 0.7}}, 0.1)
	require.True(t, ok)
	assert.InDelta(t, 70, g.Priority, 1e-9)
	if diff := cmp.Diff([]mind.Pattern{mind.Match(mind.Self(), mind.Hunger, mind.Int(0))}, g.Conditions); diff != "" {
		t.Errorf("conditions (-want +got):\n%s", diff)
	}

	g, ok = Formulate([]Urgency{{Source: Boredom, Value: 0.3}}, 0.1)
	require.True(t, ok)
	assert.Empty(t, g.Conditions)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Drives, 7)

	bad := DefaultConfig()
	bad.Drives = append(bad.Drives, bad.Drives[0])
	assert.Error(t, bad.Validate())

	// A rested, fed agent only feels the background drives.
	got := Generate(cfg, calm())
	sources := make([]Source, 0, len(got))
	for _, u := range got {
		sources = append(sources, u.Source)
	}
	if diff := cmp.Diff([]Source{Fear, Boredom}, sources, cmpopts.SortSlices(func(a, b Source) bool { return a < b })); diff != "" {
		t.Errorf("background drives (-want +got):\n%s", diff)
	}
}
