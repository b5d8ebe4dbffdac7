package engine

import "github.com/worldopoly/backend/platform/board"

// RollFunc supplies one two-dice roll. It is created by the caller for the
// duration of a single Apply call and never retained, so no random source is
// ever held across a suspension point.
type RollFunc func() (int, int)

// Apply validates act against g and, if legal, mutates g and returns the
// ordered events produced. On error g is untouched: every handler performs
// all validation before its first write.
func Apply(g *GameState, act Action, roll RollFunc) ([]Event, error) {
	if g.Phase == PhaseGameOver {
		return nil, illegal("game is over")
	}
	if g.Phase != PhasePlaying {
		return nil, illegal("game has not started")
	}
	p := g.PlayerByID(act.Player)
	if p == nil {
		return nil, notFound("unknown player %s", act.Player)
	}
	if p.Bankrupt {
		return nil, illegal("%s has been eliminated", p.Name)
	}

	switch act.Type {
	case RollDice:
		return applyRollDice(g, p, roll)
	case BuyProperty:
		return applyBuyProperty(g, p)
	case PassProperty:
		return applyPassProperty(g, p)
	case EndTurn:
		return applyEndTurn(g, p)
	case Bid:
		return applyBid(g, p, act.Amount)
	case PassBid:
		return applyPassBid(g, p)
	case PayJail:
		return applyPayJail(g, p)
	case UseCard:
		return applyUseCard(g, p)
	case Build:
		return applyBuild(g, p, act.Tile)
	case SellBuilding:
		return applySellBuilding(g, p, act.Tile)
	case Mortgage:
		return applyMortgage(g, p, act.Tile)
	case Unmortgage:
		return applyUnmortgage(g, p, act.Tile)
	case TradeOffered:
		return applyTradeOffer(g, p, act.Offer)
	case TradeAccept:
		return applyTradeResolve(g, p, act.TradeID, true)
	case TradeReject:
		return applyTradeResolve(g, p, act.TradeID, false)
	}
	return nil, illegal("unknown action %q", act.Type)
}

// requireTurn checks that p owns the turn and that no auction is running.
func requireTurn(g *GameState, p *Player) error {
	if g.Auction != nil {
		return illegal("an auction is in progress")
	}
	if g.Turn == nil || g.Turn.PlayerID != p.ID {
		return illegal("not your turn")
	}
	return nil
}

// LegalActions lists the action types currently admissible for a player.
// The bot decision engine chooses among exactly these.
func LegalActions(g *GameState, playerID string) []ActionType {
	var out []ActionType
	if g.Phase != PhasePlaying || g.Turn == nil {
		return out
	}
	p := g.PlayerByID(playerID)
	if p == nil || p.Bankrupt {
		return out
	}
	if g.Auction != nil {
		if g.Auction.CurrentBidder() == playerID {
			out = append(out, Bid, PassBid)
		}
		return out
	}
	if g.Turn.PlayerID != playerID {
		return out
	}
	switch g.Turn.Phase {
	case WaitingForRoll:
		out = append(out, RollDice)
		if p.InJail {
			if p.Balance >= g.Config.JailFine {
				out = append(out, PayJail)
			}
			if p.GetOutCards > 0 {
				out = append(out, UseCard)
			}
		}
	case BuyDecision:
		out = append(out, PassProperty)
		tile := board.MustGet(p.Position)
		if p.Balance >= tile.Price {
			out = append(out, BuyProperty)
		}
	case TurnEnd:
		out = append(out, EndTurn, Build, SellBuilding, Mortgage, Unmortgage)
	}
	return out
}
