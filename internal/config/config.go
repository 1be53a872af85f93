// Package config loads the simulation tuning file.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/nervous"
	"github.com/talgya/mini-mind/internal/psyche"
)

// ErrInvalid is returned for tuning files that fail validation.
var ErrInvalid = errors.New("invalid tuning")

//go:embed schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("schema.json", schemaJSON)
})

// Tuning is every knob of a simulation run.
type Tuning struct {
	Engine   Engine               `yaml:"engine" json:"engine"`
	World    World                `yaml:"world" json:"world"`
	Agents   Agents               `yaml:"agents" json:"agents"`
	Planner  Planner              `yaml:"planner" json:"planner"`
	Nervous  nervous.Config       `yaml:"nervous" json:"nervous"`
	Memory   mind.DecayConfig     `yaml:"memory" json:"memory"`
	Emotions psyche.EmotionConfig `yaml:"emotions" json:"emotions"`
}

// Engine controls the tick loop. Intervals are in ticks.
type Engine struct {
	TicksPerSecond        float64 `yaml:"ticks_per_second" json:"ticks_per_second"`
	ThinkingInterval      uint64  `yaml:"thinking_interval" json:"thinking_interval"`
	PerceptionInterval    uint64  `yaml:"perception_interval" json:"perception_interval"`
	DecayInterval         uint64  `yaml:"decay_interval" json:"decay_interval"`
	ConsolidationInterval uint64  `yaml:"consolidation_interval" json:"consolidation_interval"`
	EmotionInterval       uint64  `yaml:"emotion_interval" json:"emotion_interval"`
	Workers               int     `yaml:"workers" json:"workers"`                           // parallel decision cohort limit
	DecisionLog           int     `yaml:"decision_log" json:"decision_log"`                 // decisions kept per agent
	ConversationTimeout   uint64  `yaml:"conversation_timeout" json:"conversation_timeout"` // idle ticks before a conversation ends
	SnapshotInterval      uint64  `yaml:"snapshot_interval" json:"snapshot_interval"`       // 0 disables periodic saves
}

// World sizes the host world. Distances are in tiles.
type World struct {
	Width            int    `yaml:"width" json:"width"`
	Height           int    `yaml:"height" json:"height"`
	PerceptionRadius int    `yaml:"perception_radius" json:"perception_radius"`
	RegrowInterval   uint64 `yaml:"regrow_interval" json:"regrow_interval"` // ticks per regrown item
	MaxApples        uint32 `yaml:"max_apples" json:"max_apples"`
	MaxBerries       uint32 `yaml:"max_berries" json:"max_berries"`
}

// Agents controls the initial population.
type Agents struct {
	Count    int      `yaml:"count" json:"count"`
	Cultures []string `yaml:"cultures" json:"cultures"`
}

// Planner bounds the regressive planner.
type Planner struct {
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	UnmetWeight   float64 `yaml:"unmet_weight" json:"unmet_weight"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Engine: Engine{
			TicksPerSecond:        60,
			ThinkingInterval:      60,
			PerceptionInterval:    10,
			DecayInterval:         60,
			ConsolidationInterval: 30,
			EmotionInterval:       10,
			Workers:               8,
			DecisionLog:           64,
			ConversationTimeout:   600,
			SnapshotInterval:      3600,
		},
		World: World{
			Width:            64,
			Height:           64,
			PerceptionRadius: 8,
			RegrowInterval:   600,
			MaxApples:        5,
			MaxBerries:       8,
		},
		Agents: Agents{
			Count:    8,
			Cultures: []string{"nomad", "farmer", "hunter", "gatherer"},
		},
		Planner: Planner{
			MaxIterations: 200,
			UnmetWeight:   5.0,
		},
		Nervous:  nervous.DefaultConfig(),
		Memory:   mind.DefaultDecay(),
		Emotions: psyche.DefaultEmotionConfig(),
	}
}

// Load reads a YAML tuning file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw YAML against the tuning schema and decodes it over
// the defaults.
func Parse(raw []byte) (Tuning, error) {
	if err := validate(raw); err != nil {
		return Tuning{}, err
	}
	t := Default()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	t.Memory.TicksPerSecond = t.Engine.TicksPerSecond
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		return nil
	}
	// The schema speaks JSON, so normalize YAML scalars through it.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile tuning schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks constraints the schema cannot express.
func (t Tuning) Validate() error {
	if err := t.Nervous.Validate(); err != nil {
		return fmt.Errorf("%w: nervous: %v", ErrInvalid, err)
	}
	for _, c := range t.Agents.Cultures {
		if _, err := mind.ParseCulture(c); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if t.World.PerceptionRadius > max(t.World.Width, t.World.Height) {
		return fmt.Errorf("%w: perception radius %d exceeds the world", ErrInvalid, t.World.PerceptionRadius)
	}
	return nil
}

// Cultures returns the configured cultures, defaulting to all of them.
func (t Tuning) Cultures() []mind.Culture {
	var out []mind.Culture
	for _, name := range t.Agents.Cultures {
		if c, err := mind.ParseCulture(name); err == nil {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return mind.Cultures()
	}
	return out
}
