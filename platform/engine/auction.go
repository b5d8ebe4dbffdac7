package engine

import (
	"fmt"

	"github.com/worldopoly/backend/platform/board"
)

// applyPassProperty declines the purchase and opens the auction among all
// other active players, seated order preserved.
func applyPassProperty(g *GameState, p *Player) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != BuyDecision {
		return nil, illegal("nothing to decline right now")
	}
	tile := board.MustGet(p.Position)

	if !g.Config.AuctionOnDecline {
		g.Turn.Phase = TurnEnd
		g.appendLog(fmt.Sprintf("%s declined to buy %s", p.Name, tile.Name))
		return maybeGrantReroll(g), nil
	}

	var bidders []string
	for _, id := range g.TurnOrder {
		if id == p.ID {
			continue
		}
		if pl := g.PlayerByID(id); pl != nil && !pl.Bankrupt {
			bidders = append(bidders, id)
		}
	}
	g.appendLog(fmt.Sprintf("auction started for %s", tile.Name))

	if len(bidders) == 0 {
		// Nobody to bid; the bank keeps the tile.
		g.Turn.Phase = TurnEnd
		events := []Event{
			{Type: EvtAuctionStarted, Payload: AuctionStartedPayload{TileIdx: tile.Position}},
			{Type: EvtAuctionEnded, Payload: AuctionEndedPayload{TileIdx: tile.Position}},
		}
		return append(events, maybeGrantReroll(g)...), nil
	}

	g.Auction = &AuctionState{TileIdx: tile.Position, Bidders: bidders}
	g.Turn.Phase = Auctioning
	return []Event{{Type: EvtAuctionStarted, Payload: AuctionStartedPayload{
		TileIdx: tile.Position, Bidders: append([]string(nil), bidders...),
	}}}, nil
}

// applyBid places an absolute bid. Only the bidder whose round-robin turn it
// is may act, and the amount must exceed the standing bid.
func applyBid(g *GameState, p *Player, amount int) ([]Event, error) {
	a := g.Auction
	if a == nil {
		return nil, illegal("no auction in progress")
	}
	if a.CurrentBidder() != p.ID {
		return nil, illegal("not your bid")
	}
	if amount <= a.CurrentBid {
		return nil, illegal("bid must exceed $%d", a.CurrentBid)
	}
	if p.Balance < amount {
		return nil, insufficient("you only have $%d", p.Balance)
	}

	a.CurrentBid = amount
	a.HighestBidder = p.ID
	a.TurnIdx = (a.TurnIdx + 1) % len(a.Bidders)
	g.appendLog(fmt.Sprintf("%s bid $%d", p.Name, amount))
	events := []Event{{Type: EvtBidPlaced, Payload: BidPlacedPayload{
		PlayerID: p.ID, Amount: amount,
	}}}
	if len(a.Bidders) == 1 {
		// Sole remaining bidder holds the high bid; nothing left to wait for.
		events = append(events, resolveAuction(g)...)
	}
	return events, nil
}

// applyPassBid folds the acting bidder.
func applyPassBid(g *GameState, p *Player) ([]Event, error) {
	a := g.Auction
	if a == nil {
		return nil, illegal("no auction in progress")
	}
	if a.CurrentBidder() != p.ID {
		return nil, illegal("not your bid")
	}

	idx := a.TurnIdx % len(a.Bidders)
	a.Bidders = append(a.Bidders[:idx], a.Bidders[idx+1:]...)
	if len(a.Bidders) > 0 {
		a.TurnIdx = idx % len(a.Bidders)
	} else {
		a.TurnIdx = 0
	}
	g.appendLog(fmt.Sprintf("%s passed", p.Name))

	events := []Event{{Type: EvtBidPassed, Payload: BidPassedPayload{PlayerID: p.ID}}}
	// Resolve once nobody is left, or the only bidder standing already holds
	// the high bid. A lone bidder without the high bid still gets to act:
	// they may raise or concede to the folded high bidder.
	if len(a.Bidders) == 0 || (len(a.Bidders) == 1 && a.Bidders[0] == a.HighestBidder) {
		events = append(events, resolveAuction(g)...)
	}
	return events, nil
}

// resolveAuction awards the tile to the highest bidder at their bid; with no
// bids the tile stays with the bank. Control always returns to the turn
// machine.
func resolveAuction(g *GameState) []Event {
	a := g.Auction
	tile := board.MustGet(a.TileIdx)
	var events []Event

	if a.HighestBidder != "" {
		winner := g.PlayerByID(a.HighestBidder)
		winner.Balance -= a.CurrentBid
		g.Properties[a.TileIdx].Owner = winner.ID
		g.appendLog(fmt.Sprintf("%s won %s at auction for $%d", winner.Name, tile.Name, a.CurrentBid))
		events = append(events, Event{Type: EvtAuctionEnded, Payload: AuctionEndedPayload{
			TileIdx: a.TileIdx, Winner: winner.ID, Amount: a.CurrentBid,
		}})
	} else {
		g.appendLog(fmt.Sprintf("auction for %s ended with no bids", tile.Name))
		events = append(events, Event{Type: EvtAuctionEnded, Payload: AuctionEndedPayload{
			TileIdx: a.TileIdx,
		}})
	}

	g.Auction = nil
	g.Turn.Phase = TurnEnd
	return append(events, maybeGrantReroll(g)...)
}
