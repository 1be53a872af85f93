// Package social tracks conversations between agents and the
// relationships they leave behind in each agent's beliefs.
package social

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
)

// MaxTurns is how long a conversation runs before the speakers start
// saying goodbye.
const MaxTurns = 8

// State is where a conversation is in its lifecycle.
type State uint8

const (
	Greeting State = iota
	Active
	Wrapping
	Ended
)

var stateNames = [...]string{"greeting", "active", "wrapping", "ended"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(?)"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Intent is what a turn is for.
type Intent uint8

const (
	Greet Intent = iota
	Ask
	Answer
	Share
	Acknowledge
	Farewell
)

var intentNames = [...]string{"greet", "ask", "answer", "share", "acknowledge", "farewell"}

func (i Intent) String() string {
	if int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "intent(?)"
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Turn is one utterance.
type Turn struct {
	Speaker         mind.EntityID `json:"speaker"`
	Intent          Intent        `json:"intent"`
	Topic           actions.Topic `json:"topic"`
	Content         []mind.Triple `json:"content,omitempty"`
	Tick            uint64        `json:"tick"`
	ExpectsResponse bool          `json:"expects_response"`
}

// Conversation is an exchange between two agents.
type Conversation struct {
	ID           uuid.UUID        `json:"id"`
	Participants [2]mind.EntityID `json:"participants"`
	Turns        []Turn           `json:"turns"`
	State        State            `json:"state"`
	StartedAt    uint64           `json:"started_at"`
	LastActivity uint64           `json:"last_activity"`
}

func (c *Conversation) involves(a, b mind.EntityID) bool {
	p := c.Participants
	return (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a)
}

// LastTurn returns the most recent turn.
func (c *Conversation) LastTurn() (Turn, bool) {
	if len(c.Turns) == 0 {
		return Turn{}, false
	}
	return c.Turns[len(c.Turns)-1], true
}

// InConversation is one participant's view of a live conversation.
type InConversation struct {
	ConversationID uuid.UUID     `json:"conversation_id"`
	Partner        mind.EntityID `json:"partner"`
	MyTurn         bool          `json:"my_turn"`
	OwesResponse   bool          `json:"owes_response"` // the partner asked something
}

// Abandoned reports a conversation one side walked away from.
type Abandoned struct {
	Abandoner mind.EntityID
	Abandoned mind.EntityID
	State     State
}

// Manager owns every conversation. It is safe for concurrent use.
type Manager struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*Conversation
	seats         map[mind.EntityID]InConversation
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		conversations: make(map[uuid.UUID]*Conversation),
		seats:         make(map[mind.EntityID]InConversation),
	}
}

// Say records speaker talking to partner, starting a conversation if the
// two are not already in one, and hands the turn to the partner.
func (m *Manager) Say(speaker, partner mind.EntityID, topic actions.Topic, content []mind.Triple, tick uint64) (uuid.UUID, Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.findActive(speaker, partner)
	if c == nil {
		c = &Conversation{
			ID:           uuid.New(),
			Participants: [2]mind.EntityID{speaker, partner},
			State:        Greeting,
			StartedAt:    tick,
		}
		m.conversations[c.ID] = c
	}

	intent := intentFor(topic, content, m.seats[speaker].OwesResponse)
	switch {
	case c.State == Greeting && len(c.Turns) < 2:
		intent = Greet
	case c.State == Wrapping:
		intent = Farewell
	}

	switch {
	case intent == Farewell:
		c.State = Ended
	case c.State == Greeting && len(c.Turns) >= 1:
		c.State = Active
	case c.State == Active && len(c.Turns)+1 >= MaxTurns:
		c.State = Wrapping
	}

	turn := Turn{
		Speaker:         speaker,
		Intent:          intent,
		Topic:           topic,
		Content:         slices.Clone(content),
		Tick:            tick,
		ExpectsResponse: intent == Ask || intent == Greet,
	}
	c.Turns = append(c.Turns, turn)
	c.LastActivity = tick

	if c.State == Ended {
		delete(m.seats, speaker)
		delete(m.seats, partner)
		return c.ID, turn
	}
	m.seats[speaker] = InConversation{ConversationID: c.ID, Partner: partner}
	m.seats[partner] = InConversation{ConversationID: c.ID, Partner: speaker, MyTurn: true, OwesResponse: turn.ExpectsResponse}
	return c.ID, turn
}

func intentFor(topic actions.Topic, content []mind.Triple, answering bool) Intent {
	switch {
	case len(content) > 0 && answering:
		return Answer
	case len(content) > 0:
		return Share
	case topic.Asking():
		return Ask
	case answering:
		return Acknowledge
	}
	return Share
}

func (m *Manager) findActive(a, b mind.EntityID) *Conversation {
	if seat, ok := m.seats[a]; ok {
		if c := m.conversations[seat.ConversationID]; c != nil && c.State != Ended && c.involves(a, b) {
			return c
		}
	}
	return nil
}

// Seat returns agent's place in its live conversation.
func (m *Manager) Seat(agent mind.EntityID) (InConversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.seats[agent]
	return s, ok
}

// Get returns a copy of conversation id.
func (m *Manager) Get(id uuid.UUID) (Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	if !ok {
		return Conversation{}, false
	}
	out := *c
	out.Turns = slices.Clone(c.Turns)
	return out, true
}

// Active returns copies of every conversation that has not ended, oldest
// first.
func (m *Manager) Active() []Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Conversation
	for _, c := range m.conversations {
		if c.State != Ended {
			cp := *c
			cp.Turns = slices.Clone(c.Turns)
			out = append(out, cp)
		}
	}
	slices.SortFunc(out, func(a, b Conversation) int {
		if a.StartedAt != b.StartedAt {
			return int(a.StartedAt) - int(b.StartedAt)
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out
}

// Leave ends agent's conversation if it was agent's turn to speak and
// agent did something else instead of saying goodbye.
func (m *Manager) Leave(agent mind.EntityID) (Abandoned, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, ok := m.seats[agent]
	if !ok || !seat.MyTurn {
		return Abandoned{}, false
	}
	c := m.conversations[seat.ConversationID]
	delete(m.seats, agent)
	delete(m.seats, seat.Partner)
	if c == nil {
		return Abandoned{}, false
	}
	if last, ok := c.LastTurn(); ok && last.Intent == Farewell {
		c.State = Ended
		return Abandoned{}, false
	}
	state := c.State
	c.State = Ended
	return Abandoned{Abandoner: agent, Abandoned: seat.Partner, State: state}, true
}

// Cleanup ends conversations idle for longer than timeout ticks and
// forgets ended ones. It returns how many were ended.
func (m *Manager) Cleanup(tick, timeout uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ended := 0
	for id, c := range m.conversations {
		if c.State != Ended && tick > c.LastActivity && tick-c.LastActivity > timeout {
			c.State = Ended
			ended++
		}
		if c.State == Ended {
			for _, p := range c.Participants {
				if s, ok := m.seats[p]; ok && s.ConversationID == id {
					delete(m.seats, p)
				}
			}
			delete(m.conversations, id)
		}
	}
	return ended
}

// Reply picks what to say back to question from what beliefs hold. Asking
// where something is gets every known source of it.
func Reply(beliefs *mind.Store, question Turn) (actions.Topic, []mind.Triple) {
	topic := question.Topic
	switch topic.Kind {
	case actions.TopicLocation:
		return topic, beliefs.KnownAbout(topic.Concept)
	case actions.TopicPerson, actions.TopicState:
		var out []mind.Triple
		n := mind.EntityNode(topic.Entity)
		for _, p := range []mind.Predicate{mind.LocatedAt, mind.HasTrait, mind.Doing, mind.AppearsMood, mind.AppearsInjured} {
			out = append(out, beliefs.Query(n, p, mind.Any)...)
		}
		return topic, out
	}
	return actions.Topic{Kind: actions.TopicGeneral}, nil
}
