package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-mind/internal/actions"
	"github.com/talgya/mini-mind/internal/mind"
)

var general = actions.Topic{Kind: actions.TopicGeneral}

func TestConversationTakesTurns(t *testing.T) {
	m := NewManager()
	const alice, bob = mind.EntityID(1), mind.EntityID(2)

	id, turn := m.Say(alice, bob, general, nil, 10)
	assert.Equal(t, Greet, turn.Intent)
	assert.True(t, turn.ExpectsResponse)

	seat, ok := m.Seat(bob)
	require.True(t, ok)
	assert.Equal(t, id, seat.ConversationID)
	assert.True(t, seat.MyTurn)
	assert.True(t, seat.OwesResponse)
	seat, _ = m.Seat(alice)
	assert.False(t, seat.MyTurn)

	again, turn := m.Say(bob, alice, general, nil, 20)
	assert.Equal(t, id, again, "the reply joins the same conversation")
	assert.Equal(t, Greet, turn.Intent)

	_, turn = m.Say(alice, bob, general, nil, 30)
	assert.Equal(t, Acknowledge, turn.Intent)
	c, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, Active, c.State)
	assert.Len(t, c.Turns, 3)
}

func TestConversationWrapsUp(t *testing.T) {
	m := NewManager()
	const a, b = mind.EntityID(1), mind.EntityID(2)
	id, _ := m.Say(a, b, general, nil, 0)
	speaker, listener := b, a
	for tick := uint64(1); tick < MaxTurns; tick++ {
		m.Say(speaker, listener, general, nil, tick)
		speaker, listener = listener, speaker
	}
	c, _ := m.Get(id)
	require.Equal(t, Wrapping, c.State)

	_, turn := m.Say(speaker, listener, general, nil, 100)
	assert.Equal(t, Farewell, turn.Intent)
	c, _ = m.Get(id)
	assert.Equal(t, Ended, c.State)
	_, ok := m.Seat(a)
	assert.False(t, ok)
}

func TestAskingExpectsAnAnswer(t *testing.T) {
	m := NewManager()
	const a, b = mind.EntityID(1), mind.EntityID(2)
	m.Say(a, b, general, nil, 0)
	m.Say(b, a, general, nil, 1)

	where := actions.Topic{Kind: actions.TopicLocation, Concept: mind.Apple}
	_, q := m.Say(a, b, where, nil, 2)
	assert.Equal(t, Ask, q.Intent)
	seat, _ := m.Seat(b)
	assert.True(t, seat.OwesResponse)

	beliefs := mind.NewStore(mind.DefaultOntology())
	beliefs.PerceiveEntity(7, mind.Contains, mind.Item(mind.Apple, 2), 1, 1)
	beliefs.PerceiveEntity(7, mind.LocatedAt, mind.TileValue(mind.Tile{X: 3, Y: 1}), 1, 1)
	topic, content := Reply(beliefs, q)
	assert.Equal(t, where, topic)
	assert.Len(t, content, 2)

	_, ans := m.Say(b, a, topic, content, 3)
	assert.Equal(t, Answer, ans.Intent)
	assert.False(t, ans.ExpectsResponse)
}

func TestLeaveAbandonsPartner(t *testing.T) {
	m := NewManager()
	const a, b = mind.EntityID(1), mind.EntityID(2)
	id, _ := m.Say(a, b, general, nil, 0)

	_, ok := m.Leave(a)
	assert.False(t, ok, "it was not a's turn")

	ab, ok := m.Leave(b)
	require.True(t, ok)
	assert.Equal(t, Abandoned{Abandoner: b, Abandoned: a, State: Greeting}, ab)
	c, _ := m.Get(id)
	assert.Equal(t, Ended, c.State)
	_, ok = m.Seat(a)
	assert.False(t, ok)
}

func TestCleanupEndsStaleConversations(t *testing.T) {
	m := NewManager()
	m.Say(1, 2, general, nil, 0)
	m.Say(3, 4, general, nil, 250)

	assert.Equal(t, 1, m.Cleanup(400, 300))
	assert.Len(t, m.Active(), 1)
	_, ok := m.Seat(1)
	assert.False(t, ok)
	_, ok = m.Seat(3)
	assert.True(t, ok)
}

func TestRelationships(t *testing.T) {
	beliefs := mind.NewStore(mind.DefaultOntology())
	const other = mind.EntityID(5)

	Met(beliefs, other, 1)
	assert.True(t, beliefs.Has(mind.EntityNode(other), mind.Introduced, mind.Bool(true)))
	assert.Equal(t, Attitudes{}, AttitudesOf(beliefs, other))

	for i := range 6 {
		Talked(beliefs, other, uint64(2+i))
	}
	a := AttitudesOf(beliefs, other)
	assert.InDelta(t, 0.3, a.Trust, 1e-9)
	assert.InDelta(t, 0.6, a.Affection, 1e-9)
	rel, ok := beliefs.Get(mind.EntityNode(other), mind.Relationship)
	require.True(t, ok)
	assert.Equal(t, mind.ConceptValue(mind.Friend), rel)
	assert.Len(t, beliefs.Query(mind.EntityNode(other), mind.Relationship, mind.Any), 1)

	Attacked(beliefs, other, 10)
	Attacked(beliefs, other, 11)
	Attacked(beliefs, other, 12)
	a = AttitudesOf(beliefs, other)
	assert.InDelta(t, -0.6, a.Trust, 1e-9)
	assert.Equal(t, mind.Enemy, Classify(a))
}
