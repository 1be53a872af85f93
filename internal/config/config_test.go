package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/nervous"
)

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())
	assert.Equal(t, uint64(60), d.Engine.ThinkingInterval)
	assert.Equal(t, uint64(10), d.Engine.PerceptionInterval)
	assert.Equal(t, 200, d.Planner.MaxIterations)
	assert.Equal(t, 5.0, d.Planner.UnmetWeight)
	assert.Equal(t, 1.5, d.Nervous.MomentumBonus)
	assert.Len(t, d.Nervous.Drives, 7)
	assert.Equal(t, 8, d.World.PerceptionRadius)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  thinking_interval: 30
  ticks_per_second: 20
planner:
  unmet_weight: 2.5
agents:
  cultures: [gatherer]
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got.Engine.ThinkingInterval)
	assert.Equal(t, uint64(10), got.Engine.PerceptionInterval, "unset fields keep their defaults")
	assert.Equal(t, 2.5, got.Planner.UnmetWeight)
	assert.Equal(t, 200, got.Planner.MaxIterations)
	assert.Equal(t, 20.0, got.Memory.TicksPerSecond)
	assert.Equal(t, []mind.Culture{mind.Gatherer}, got.Cultures())
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Engine, got.Engine)
}

func TestParseDrives(t *testing.T) {
	got, err := Parse([]byte(`
nervous:
  momentum_bonus: 2
  drives:
    - name: Thirst
      source: thirst
      curve: {kind: step, threshold: 0.5}
      sensitivity: {trait: neuroticism, base: 0.4, scale: 0.4}
`))
	require.NoError(t, err)
	require.Len(t, got.Nervous.Drives, 1)
	d := got.Nervous.Drives[0]
	assert.Equal(t, nervous.Thirst, d.Source)
	assert.Equal(t, nervous.Step(0.5), d.Curve)
	assert.Equal(t, 2.0, got.Nervous.MomentumBonus)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown section":   "weather: {rain: true}\n",
		"negative interval": "engine: {thinking_interval: 0}\n",
		"wrong type":        "planner: {max_iterations: lots}\n",
		"unknown culture":   "agents: {cultures: [pirate]}\n",
		"unknown curve":     "nervous: {drives: [{name: X, source: fun, curve: {kind: wobbly}}]}\n",
		"duplicate drive":   "nervous: {drives: [{name: A, source: fun, curve: {kind: linear}}, {name: B, source: fun, curve: {kind: linear}}]}\n",
		"not yaml":          "engine: [\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidateNamesTheOffendingField(t *testing.T) {
	err := validate([]byte("engine: {thinking_interval: 0}\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "thinking_interval")

	require.NoError(t, validate([]byte("engine: {thinking_interval: 30, ticks_per_second: 12.5}\n")))
	require.NoError(t, validate(nil))
}
