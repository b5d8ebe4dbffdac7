package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateJSONRoundTrip(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	mustApply(t, g, Action{Type: BuyProperty, Player: "alice"}, nil)
	g.Version = 7

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, g.ID, back.ID)
	assert.Equal(t, g.Phase, back.Phase)
	assert.Equal(t, g.TurnOrder, back.TurnOrder)
	assert.Equal(t, g.Version, back.Version)
	assert.Equal(t, g.Turn.Phase, back.Turn.Phase)
	assert.Equal(t, "alice", back.Properties[3].Owner)
	assert.Equal(t, 1440, back.PlayerByID("alice").Balance)
}

func TestRoundTrippedStateKeepsPlaying(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	mustApply(t, g, Action{Type: BuyProperty, Player: "alice"}, nil)
	mustApply(t, g, Action{Type: EndTurn, Player: "alice"}, nil)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))

	// The deserialized aggregate accepts the same actions the live one would.
	mustApply(t, &back, Action{Type: RollDice, Player: "bob"}, fixedRoll(1, 2))
	assert.Equal(t, 3, back.PlayerByID("bob").Position)
	assert.Contains(t, back.Log[len(back.Log)-1], "rent")
}

func TestRoundTripReplayMatchesLive(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	data, err := json.Marshal(g)
	require.NoError(t, err)
	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))

	// The live state and its round-tripped copy must stay in lockstep under
	// the same action sequence: identical events out, identical state after.
	steps := []struct {
		act  Action
		roll RollFunc
	}{
		{Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2)},
		{Action{Type: BuyProperty, Player: "alice"}, nil},
		{Action{Type: EndTurn, Player: "alice"}, nil},
		{Action{Type: RollDice, Player: "bob"}, fixedRoll(2, 4)},
		{Action{Type: BuyProperty, Player: "bob"}, nil},
		{Action{Type: Mortgage, Player: "bob", Tile: 6}, nil},
		{Action{Type: EndTurn, Player: "bob"}, nil},
	}
	for _, step := range steps {
		liveEvents, liveErr := Apply(g, step.act, step.roll)
		copyEvents, copyErr := Apply(&back, step.act, step.roll)
		require.NoError(t, liveErr)
		require.NoError(t, copyErr)
		assert.Equal(t, liveEvents, copyEvents)
	}

	liveJSON, err := json.Marshal(g)
	require.NoError(t, err)
	copyJSON, err := json.Marshal(&back)
	require.NoError(t, err)
	assert.JSONEq(t, string(liveJSON), string(copyJSON))
}

func TestCloneIsDeep(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	cp := g.Clone()

	cp.PlayerByID("alice").Balance = 1
	cp.Properties[1].Owner = "alice"
	cp.TurnOrder[0] = "eve"
	cp.Turn.Phase = TurnEnd

	assert.Equal(t, 1500, g.PlayerByID("alice").Balance)
	assert.Equal(t, "", g.Properties[1].Owner)
	assert.Equal(t, "alice", g.TurnOrder[0])
	assert.Equal(t, WaitingForRoll, g.Turn.Phase)
}

func TestNextPlayerSkipsBankrupt(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	g.PlayerByID("bob").Bankrupt = true

	assert.Equal(t, "carol", g.NextPlayerID())
}

func TestCurrentActorDuringAuction(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	require.Equal(t, "alice", g.CurrentActorID())

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	mustApply(t, g, Action{Type: PassProperty, Player: "alice"}, nil)

	assert.Equal(t, "bob", g.CurrentActorID())
}

func TestAddBotAssignsIdentity(t *testing.T) {
	g := NewGameState("room1", DefaultConfig())
	g.AddPlayer("alice", "alice", true)

	b1, err := g.AddBot("b1")
	require.NoError(t, err)
	b2, err := g.AddBot("b2")
	require.NoError(t, err)

	assert.True(t, b1.IsBot)
	assert.NotEqual(t, b1.Name, b2.Name)
	assert.Equal(t, "balanced", b1.Personality)
	assert.Equal(t, "aggressive", b2.Personality)
}

func TestLogIsBounded(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	for i := 0; i < 300; i++ {
		g.appendLog("x")
	}
	assert.Len(t, g.Log, 100)
}
