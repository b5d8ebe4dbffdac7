package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollMoveAndBuy(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	assert.Equal(t, []EventType{EvtDiceResult, EvtPlayerMoved}, eventTypes(events))

	alice := g.PlayerByID("alice")
	require.Equal(t, 3, alice.Position) // Rio, unowned street
	require.Equal(t, BuyDecision, g.Turn.Phase)

	events = mustApply(t, g, Action{Type: BuyProperty, Player: "alice"}, nil)
	assert.Equal(t, []EventType{EvtPropertyBought}, eventTypes(events))
	assert.Equal(t, 1440, alice.Balance)
	assert.Equal(t, "alice", g.Properties[3].Owner)
	assert.Equal(t, TurnEnd, g.Turn.Phase)

	events = mustApply(t, g, Action{Type: EndTurn, Player: "alice"}, nil)
	assert.Equal(t, []EventType{EvtTurnChanged}, eventTypes(events))
	assert.Equal(t, "bob", g.Turn.PlayerID)
	assert.Equal(t, WaitingForRoll, g.Turn.Phase)
}

func TestBuyRequiresFunds(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.PlayerByID("alice").Balance = 50

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	_, err := Apply(g, Action{Type: BuyProperty, Player: "alice"}, nil)
	require.Error(t, err)
	require.Equal(t, InsufficientFunds, KindOf(err))
	// Still waiting on the decision.
	require.Equal(t, BuyDecision, g.Turn.Phase)
}

func TestRentTransfer(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[3].Owner = "bob"

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	assert.Contains(t, eventTypes(events), EvtRentPaid)

	assert.Equal(t, 1496, g.PlayerByID("alice").Balance)
	assert.Equal(t, 1504, g.PlayerByID("bob").Balance)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}

func TestRentDoubledOnFullGroup(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[1].Owner = "bob"
	g.Properties[3].Owner = "bob"

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	// Unimproved Rio rents 4, doubled for the complete brown set.
	assert.Equal(t, 1492, g.PlayerByID("alice").Balance)
	assert.Equal(t, 1508, g.PlayerByID("bob").Balance)
}

func TestRentWithHousesUsesSchedule(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[1].Owner = "bob"
	g.Properties[3].Owner = "bob"
	g.Properties[3].Houses = 2

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	assert.Equal(t, 1500-60, g.PlayerByID("alice").Balance)
}

func TestRailroadRentScalesWithCount(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[5].Owner = "bob"
	g.Properties[15].Owner = "bob"
	g.Properties[25].Owner = "bob"

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(2, 3))

	// Base 25 times three railroads held.
	assert.Equal(t, 1500-75, g.PlayerByID("alice").Balance)
	assert.Equal(t, 1500+75, g.PlayerByID("bob").Balance)
}

func TestUtilityRentUsesDiceSum(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[12].Owner = "bob"

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(6, 6))

	// One utility: four times the roll of 12. The doubles also earn a
	// re-roll once the landing resolves.
	assert.Equal(t, 1500-48, g.PlayerByID("alice").Balance)
	assert.Equal(t, WaitingForRoll, g.Turn.Phase)
	assert.Equal(t, "alice", g.Turn.PlayerID)
}

func TestNoRentOnMortgagedTile(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[3].Owner = "bob"
	g.Properties[3].Mortgaged = true

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	assert.Equal(t, 1500, g.PlayerByID("alice").Balance)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}

func TestNoRentForJailedOwner(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.Properties[3].Owner = "bob"
	g.PlayerByID("bob").InJail = true

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	assert.Equal(t, 1500, g.PlayerByID("alice").Balance)
	assert.Equal(t, 1500, g.PlayerByID("bob").Balance)
}

func TestSalaryOnPassingStart(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.PlayerByID("alice").Position = 38

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	alice := g.PlayerByID("alice")
	assert.Equal(t, 1, alice.Position)
	assert.Equal(t, 1700, alice.Balance)
	moved := events[1].Payload.(PlayerMovedPayload)
	assert.True(t, moved.PassedGo)
}

func TestTaxDebit(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 3))

	assert.Contains(t, eventTypes(events), EvtTaxPaid)
	assert.Equal(t, 1300, g.PlayerByID("alice").Balance)
	assert.Equal(t, 0, g.Pot) // jackpot off by default
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}

func TestFreeParkingJackpot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FreeParkingJackpot = true
	g := NewGameState("room1", cfg)
	g.AddPlayer("alice", "alice", true)
	g.AddPlayer("bob", "bob", false)
	_, err := g.Start(identityPerm)
	require.NoError(t, err)

	// Income tax feeds the pot.
	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 3))
	require.Equal(t, 200, g.Pot)
	mustApply(t, g, Action{Type: EndTurn, Player: "alice"}, nil)

	// Landing on free parking collects it.
	g.PlayerByID("bob").Position = 14
	mustApply(t, g, Action{Type: RollDice, Player: "bob"}, fixedRoll(2, 4))
	assert.Equal(t, 20, g.PlayerByID("bob").Position)
	assert.Equal(t, 1700, g.PlayerByID("bob").Balance)
	assert.Equal(t, 0, g.Pot)
}

func TestThreeDoublesJails(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	alice := g.PlayerByID("alice")

	// First doubles: land on a treasure tile, re-roll granted.
	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 1))
	require.Equal(t, 2, alice.Position)
	require.Equal(t, 1, g.Turn.DoublesCount)
	require.Equal(t, WaitingForRoll, g.Turn.Phase)

	// Second doubles: buy the street, then the earned re-roll fires.
	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(6, 6))
	require.Equal(t, 14, alice.Position)
	require.Equal(t, BuyDecision, g.Turn.Phase)
	mustApply(t, g, Action{Type: BuyProperty, Player: "alice"}, nil)
	require.Equal(t, WaitingForRoll, g.Turn.Phase)
	require.Equal(t, 2, g.Turn.DoublesCount)

	// Third doubles in a row goes straight to prison, no movement.
	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(2, 2))
	assert.Equal(t, []EventType{EvtDiceResult, EvtPlayerJailed}, eventTypes(events))
	assert.True(t, alice.InJail)
	assert.Equal(t, 10, alice.Position)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
	assert.Equal(t, 0, g.Turn.DoublesCount)
	assert.False(t, g.Turn.CanRollAgain)
}

func TestGoToJailTile(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.PlayerByID("alice").Position = 27

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))

	alice := g.PlayerByID("alice")
	assert.Contains(t, eventTypes(events), EvtPlayerJailed)
	assert.True(t, alice.InJail)
	assert.Equal(t, 10, alice.Position)
	// No salary for being dragged past Start later; position just resets.
	assert.Equal(t, 1500, alice.Balance)
}

func TestEndTurnOutOfPhase(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	_, err := Apply(g, Action{Type: EndTurn, Player: "alice"}, nil)
	require.Error(t, err)
	require.Equal(t, IllegalAction, KindOf(err))
}

func TestOutOfTurnRollRejected(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	_, err := Apply(g, Action{Type: RollDice, Player: "bob"}, fixedRoll(1, 2))
	require.Error(t, err)
	require.Equal(t, IllegalAction, KindOf(err))
}

func TestCardTileDrawsAndEndsMovement(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	events := mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(3, 4))

	require.Equal(t, 7, g.PlayerByID("alice").Position)
	assert.Contains(t, eventTypes(events), EvtCardDrawn)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}
