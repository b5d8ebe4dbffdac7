package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rollToRio puts the turn owner on an unowned street and declines it,
// opening the auction.
func openAuction(t *testing.T, g *GameState) {
	t.Helper()
	mustApply(t, g, Action{Type: RollDice, Player: g.Turn.PlayerID}, fixedRoll(1, 2))
	require.Equal(t, BuyDecision, g.Turn.Phase)
	mustApply(t, g, Action{Type: PassProperty, Player: g.Turn.PlayerID}, nil)
}

func TestDeclineOpensAuction(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	require.NotNil(t, g.Auction)
	assert.Equal(t, 3, g.Auction.TileIdx)
	assert.Equal(t, []string{"bob", "carol"}, g.Auction.Bidders)
	assert.Equal(t, "bob", g.Auction.CurrentBidder())
	assert.Equal(t, Auctioning, g.Turn.Phase)
}

func TestAuctionBidThenFold(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	mustApply(t, g, Action{Type: Bid, Player: "bob", Amount: 150}, nil)
	require.Equal(t, 150, g.Auction.CurrentBid)
	require.Equal(t, "carol", g.Auction.CurrentBidder())

	events := mustApply(t, g, Action{Type: PassBid, Player: "carol"}, nil)
	assert.Contains(t, eventTypes(events), EvtAuctionEnded)

	assert.Nil(t, g.Auction)
	assert.Equal(t, "bob", g.Properties[3].Owner)
	assert.Equal(t, 1350, g.PlayerByID("bob").Balance)
	// The decliner pays nothing and the turn resumes with them.
	assert.Equal(t, 1500, g.PlayerByID("alice").Balance)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
	assert.Equal(t, "alice", g.Turn.PlayerID)
}

func TestAuctionNoBids(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	mustApply(t, g, Action{Type: PassBid, Player: "bob"}, nil)
	// Carol is alone but has not bid; she still gets her say.
	require.NotNil(t, g.Auction)
	require.Equal(t, "carol", g.Auction.CurrentBidder())

	events := mustApply(t, g, Action{Type: PassBid, Player: "carol"}, nil)
	assert.Contains(t, eventTypes(events), EvtAuctionEnded)
	assert.Nil(t, g.Auction)
	assert.Equal(t, "", g.Properties[3].Owner)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}

func TestLoneBidderMayClaimCheap(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	mustApply(t, g, Action{Type: PassBid, Player: "bob"}, nil)
	events := mustApply(t, g, Action{Type: Bid, Player: "carol", Amount: 1}, nil)

	assert.Contains(t, eventTypes(events), EvtAuctionEnded)
	assert.Equal(t, "carol", g.Properties[3].Owner)
	assert.Equal(t, 1499, g.PlayerByID("carol").Balance)
}

func TestHighBidderWinsWhenOthersFold(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	mustApply(t, g, Action{Type: Bid, Player: "bob", Amount: 100}, nil)
	mustApply(t, g, Action{Type: Bid, Player: "carol", Amount: 120}, nil)
	mustApply(t, g, Action{Type: PassBid, Player: "bob"}, nil)

	require.Nil(t, g.Auction)
	assert.Equal(t, "carol", g.Properties[3].Owner)
	assert.Equal(t, 1380, g.PlayerByID("carol").Balance)
}

func TestBidOutOfTurnRejected(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	_, err := Apply(g, Action{Type: Bid, Player: "carol", Amount: 50}, nil)
	require.Error(t, err)
	require.Equal(t, IllegalAction, KindOf(err))
}

func TestBidMustExceedStanding(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	mustApply(t, g, Action{Type: Bid, Player: "bob", Amount: 100}, nil)
	_, err := Apply(g, Action{Type: Bid, Player: "carol", Amount: 100}, nil)
	require.Error(t, err)
	require.Equal(t, IllegalAction, KindOf(err))
}

func TestBidBeyondBalanceRejected(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	_, err := Apply(g, Action{Type: Bid, Player: "bob", Amount: 2000}, nil)
	require.Error(t, err)
	require.Equal(t, InsufficientFunds, KindOf(err))
}

func TestDeclinerExcludedFromAuction(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	_, err := Apply(g, Action{Type: Bid, Player: "alice", Amount: 50}, nil)
	require.Error(t, err)
}

func TestTurnActionsBlockedDuringAuction(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carol")
	openAuction(t, g)

	_, err := Apply(g, Action{Type: EndTurn, Player: "alice"}, nil)
	require.Error(t, err)
	require.Equal(t, IllegalAction, KindOf(err))
}

func TestDeclineWithoutAuctionConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuctionOnDecline = false
	g := NewGameState("room1", cfg)
	g.AddPlayer("alice", "alice", true)
	g.AddPlayer("bob", "bob", false)
	_, err := g.Start(identityPerm)
	require.NoError(t, err)

	mustApply(t, g, Action{Type: RollDice, Player: "alice"}, fixedRoll(1, 2))
	mustApply(t, g, Action{Type: PassProperty, Player: "alice"}, nil)

	assert.Nil(t, g.Auction)
	assert.Equal(t, "", g.Properties[3].Owner)
	assert.Equal(t, TurnEnd, g.Turn.Phase)
}

func TestTwoPlayerAuctionSingleBidder(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	openAuction(t, g)

	require.NotNil(t, g.Auction)
	require.Equal(t, []string{"bob"}, g.Auction.Bidders)

	events := mustApply(t, g, Action{Type: Bid, Player: "bob", Amount: 30}, nil)
	assert.Contains(t, eventTypes(events), EvtAuctionEnded)
	assert.Equal(t, "bob", g.Properties[3].Owner)
	assert.Equal(t, 1470, g.PlayerByID("bob").Balance)
}
