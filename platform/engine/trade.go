package engine

import "fmt"

// One pending trade offer per room; offers are validated when proposed and
// re-validated atomically on accept, since the board can change in between.

func applyTradeOffer(g *GameState, p *Player, offer *TradeOffer) ([]Event, error) {
	if offer == nil {
		return nil, invalidTarget("empty trade offer")
	}
	if g.Auction != nil {
		return nil, illegal("an auction is in progress")
	}
	if g.Trade != nil {
		return nil, illegal("another trade is already pending")
	}
	if offer.From != p.ID {
		return nil, illegal("you can only offer your own assets")
	}
	other := g.PlayerByID(offer.To)
	if other == nil {
		return nil, notFound("unknown player %s", offer.To)
	}
	if other.Bankrupt || offer.To == offer.From {
		return nil, illegal("invalid trade partner")
	}
	if err := validateAssets(g, p, &offer.Offering); err != nil {
		return nil, err
	}
	if err := validateAssets(g, other, &offer.Requesting); err != nil {
		return nil, err
	}

	stored := *offer
	g.Trade = &stored
	g.appendLog(fmt.Sprintf("%s proposed a trade to %s", p.Name, other.Name))
	return []Event{{Type: EvtTradeProposed, Payload: TradeProposedPayload{Offer: stored}}}, nil
}

func applyTradeResolve(g *GameState, p *Player, tradeID string, accept bool) ([]Event, error) {
	tr := g.Trade
	if tr == nil || tr.ID != tradeID {
		return nil, notFound("trade not found")
	}

	// Either party may reject: the proposer withdrawing a dead offer (a bot
	// recipient will never answer it) frees the room's single trade slot.
	if !accept {
		if tr.To != p.ID && tr.From != p.ID {
			return nil, illegal("you are not part of this trade")
		}
		g.Trade = nil
		g.appendLog("trade offer rejected")
		return []Event{{Type: EvtTradeResolved, Payload: TradeResolvedPayload{TradeID: tradeID}}}, nil
	}

	if tr.To != p.ID {
		return nil, illegal("this offer is not addressed to you")
	}
	// Accepting mid-auction could pull the standing high bidder below their
	// bid, which the auction settles unconditionally. Rejection moves no
	// assets, so it stays available.
	if g.Auction != nil {
		return nil, illegal("an auction is in progress")
	}

	// Re-validate both sides: the board may have changed since the offer.
	// A stale offer is rejected but stays pending so it can still be
	// declined explicitly.
	from := g.PlayerByID(tr.From)
	if from == nil || from.Bankrupt {
		return nil, illegal("offering player is gone")
	}
	if err := validateAssets(g, from, &tr.Offering); err != nil {
		return nil, illegal("offered assets are no longer available")
	}
	if err := validateAssets(g, p, &tr.Requesting); err != nil {
		return nil, illegal("requested assets are no longer available")
	}

	transferAssets(g, from, p, &tr.Offering)
	transferAssets(g, p, from, &tr.Requesting)
	g.Trade = nil
	g.appendLog(fmt.Sprintf("%s and %s completed a trade", from.Name, p.Name))
	return []Event{{Type: EvtTradeResolved, Payload: TradeResolvedPayload{
		TradeID: tradeID, Accepted: true,
	}}}, nil
}

// validateAssets checks a side of a trade: cash on hand, card count, and
// unimproved ownership of every listed tile.
func validateAssets(g *GameState, p *Player, assets *TradeAssets) error {
	if assets.Money < 0 || assets.GetOutCards < 0 {
		return invalidTarget("negative trade assets")
	}
	if p.Balance < assets.Money {
		return insufficient("%s cannot cover $%d", p.Name, assets.Money)
	}
	if p.GetOutCards < assets.GetOutCards {
		return illegal("%s holds fewer cards than offered", p.Name)
	}
	for _, pos := range assets.Properties {
		ps, ok := g.Properties[pos]
		if !ok {
			return invalidTarget("tile %d cannot be traded", pos)
		}
		if ps.Owner != p.ID {
			return illegal("%s does not own tile %d", p.Name, pos)
		}
		if ps.Buildings() > 0 {
			return illegal("tile %d has buildings on it", pos)
		}
	}
	return nil
}

func transferAssets(g *GameState, from, to *Player, assets *TradeAssets) {
	from.Balance -= assets.Money
	to.Balance += assets.Money
	from.GetOutCards -= assets.GetOutCards
	to.GetOutCards += assets.GetOutCards
	for _, pos := range assets.Properties {
		g.Properties[pos].Owner = to.ID
	}
}
