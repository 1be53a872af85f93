// Agent spawning: creates the initial population with names, cultures,
// personalities and a starting body.
package agents

import (
	"math/rand"

	"github.com/talgya/mini-mind/internal/brains"
	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/planner"
	"github.com/talgya/mini-mind/internal/psyche"
	"github.com/talgya/mini-mind/internal/world"
)

// Spawner creates agents for the simulation. Agents of one culture share
// a single knowledge block.
type Spawner struct {
	rng      *rand.Rand
	ontology *mind.Ontology
	planner  *planner.Planner
	blocks   map[mind.Culture]*mind.Block
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64, onto *mind.Ontology, p *planner.Planner) *Spawner {
	return &Spawner{
		rng:      rand.New(rand.NewSource(seed + 300)),
		ontology: onto,
		planner:  p,
		blocks:   make(map[mind.Culture]*mind.Block),
	}
}

// Block returns the shared knowledge block for culture c.
func (s *Spawner) Block(c mind.Culture) *mind.Block {
	b, ok := s.blocks[c]
	if !ok {
		b = mind.CultureBlock(c)
		s.blocks[c] = b
	}
	return b
}

// SpawnPopulation creates count agents, cycling through cultures.
func (s *Spawner) SpawnPopulation(w *world.World, count int, cultures []mind.Culture, tick uint64) []*Agent {
	if len(cultures) == 0 {
		cultures = mind.Cultures()
	}
	out := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.Spawn(w, cultures[i%len(cultures)], tick))
	}
	return out
}

// Spawn creates one agent of culture c somewhere walkable in w.
func (s *Spawner) Spawn(w *world.World, c mind.Culture, tick uint64) *Agent {
	state := psyche.NewState(psyche.RandomTraits(s.rng))

	// Mostly fed at world start, a few already peckish.
	state.Needs.Hunger = s.rng.Float64() * 40
	state.Drives.Social = 0.2 + s.rng.Float64()*0.4

	a := &Agent{
		ID:       w.NewID(),
		Name:     s.generateName(),
		Culture:  c,
		Position: w.RandomPosition(s.rng),
		State:    state,
		Beliefs:  mind.NewStore(s.ontology, s.Block(c)),
		Brain:    brains.NewState(s.planner),
		BornTick: tick,
	}
	a.Beliefs.PerceiveSelf(mind.LocatedAt, mind.TileValue(a.Tile()), tick)
	return a
}

func (s *Spawner) generateName() string {
	firsts := maleNames
	if s.rng.Float32() < 0.5 {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
}

var lastNames = []string{
	"Voss", "Thornwood", "Ashford", "Dunmore", "Greenvale", "Millward",
	"Ravenmoor", "Deepwell", "Brightwater", "Windholm", "Marshwood",
	"Riverstone", "Holloway", "Farrow", "Thatcher", "Briar", "Harper",
}
