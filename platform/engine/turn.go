package engine

import (
	"fmt"

	"github.com/worldopoly/backend/platform/board"
)

func applyRollDice(g *GameState, p *Player, roll RollFunc) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != WaitingForRoll {
		return nil, illegal("cannot roll now")
	}
	if roll == nil {
		return nil, illegal("no dice source")
	}

	d1, d2 := roll()
	t := g.Turn
	t.Dice = [2]int{d1, d2}
	doubles := d1 == d2

	events := []Event{{Type: EvtDiceResult, Payload: DiceResultPayload{
		PlayerID: p.ID, Dice: t.Dice, Doubles: doubles,
	}}}

	if p.InJail {
		var freed bool
		var more []Event
		freed, more = resolveJailRoll(g, p, doubles)
		events = append(events, more...)
		if !freed || p.Bankrupt || g.Phase == PhaseGameOver {
			return events, nil
		}
		// Freed and moving; a jail-exit roll never grants a re-roll.
		return append(events, movePlayer(g, p, d1+d2, false)...), nil
	}

	if doubles {
		t.DoublesCount++
		if t.DoublesCount >= 3 {
			g.appendLog(fmt.Sprintf("%s rolled three doubles in a row", p.Name))
			return append(events, sendToJail(g, p)...), nil
		}
	}

	return append(events, movePlayer(g, p, d1+d2, doubles)...), nil
}

// movePlayer advances p by steps, credits salary on wrap, resolves the
// landing and grants the doubles re-roll when earned.
func movePlayer(g *GameState, p *Player, steps int, doubles bool) []Event {
	from := p.Position
	to := (from + steps) % board.Size
	passedGo := to < from
	p.Position = to
	if passedGo {
		p.Balance += g.Config.Salary
		g.appendLog(fmt.Sprintf("%s passed Start and collected $%d", p.Name, g.Config.Salary))
	}

	events := []Event{{Type: EvtPlayerMoved, Payload: PlayerMovedPayload{
		PlayerID: p.ID, From: from, To: to, PassedGo: passedGo,
	}}}

	events = append(events, resolveLanding(g, p)...)

	if doubles && !p.InJail && !p.Bankrupt && g.Phase == PhasePlaying {
		g.Turn.CanRollAgain = true
	}
	return append(events, maybeGrantReroll(g)...)
}

// resolveLanding applies the landed tile's effect and sets the next turn
// phase. Tile behavior is a closed set dispatched exhaustively here.
func resolveLanding(g *GameState, p *Player) []Event {
	tile := board.MustGet(p.Position)
	t := g.Turn

	switch tile.Type {
	case board.Property, board.Railroad, board.Utility:
		ps := g.Properties[tile.Position]
		switch {
		case ps.Owner == "":
			t.Phase = BuyDecision
			return nil
		case ps.Owner == p.ID:
			t.Phase = TurnEnd
			return nil
		default:
			events := chargeRent(g, p, tile, ps)
			if g.Phase == PhasePlaying && !p.Bankrupt {
				t.Phase = TurnEnd
			}
			return events
		}

	case board.Tax:
		p.Balance -= tile.Tax
		if g.Config.FreeParkingJackpot {
			g.Pot += tile.Tax
		}
		g.appendLog(fmt.Sprintf("%s paid $%d tax", p.Name, tile.Tax))
		events := []Event{{Type: EvtTaxPaid, Payload: TaxPaidPayload{
			PlayerID: p.ID, Amount: tile.Tax, TileIdx: tile.Position,
		}}}
		if p.Balance < 0 {
			return append(events, resolveBankruptcy(g, p, nil)...)
		}
		t.Phase = TurnEnd
		return events

	case board.Chance:
		g.appendLog(fmt.Sprintf("%s drew a Surprise card", p.Name))
		t.Phase = TurnEnd
		return []Event{{Type: EvtCardDrawn, Payload: CardDrawnPayload{PlayerID: p.ID, Deck: "chance"}}}

	case board.Chest:
		g.appendLog(fmt.Sprintf("%s drew a Treasure card", p.Name))
		t.Phase = TurnEnd
		return []Event{{Type: EvtCardDrawn, Payload: CardDrawnPayload{PlayerID: p.ID, Deck: "chest"}}}

	case board.FreeParking:
		if g.Config.FreeParkingJackpot && g.Pot > 0 {
			p.Balance += g.Pot
			g.appendLog(fmt.Sprintf("%s collected $%d from the jackpot", p.Name, g.Pot))
			g.Pot = 0
		}
		t.Phase = TurnEnd
		return nil

	case board.GoToJail:
		return sendToJail(g, p)

	default: // Go, Jail (just visiting)
		t.Phase = TurnEnd
		return nil
	}
}

// chargeRent moves rent from p to the owner; a shortfall is the bankruptcy
// path, not an error.
func chargeRent(g *GameState, p *Player, tile board.Tile, ps *PropertyState) []Event {
	owner := g.PlayerByID(ps.Owner)
	if owner == nil || ps.Mortgaged {
		return nil
	}
	if owner.InJail && !g.Config.CollectRentInJail {
		return nil
	}
	rent := rentFor(g, tile.Position)
	if rent <= 0 {
		return nil
	}
	p.Balance -= rent
	owner.Balance += rent
	g.appendLog(fmt.Sprintf("%s paid $%d rent to %s for %s", p.Name, rent, owner.Name, tile.Name))

	events := []Event{{Type: EvtRentPaid, Payload: RentPaidPayload{
		From: p.ID, To: owner.ID, Amount: rent, TileIdx: tile.Position,
	}}}
	if p.Balance < 0 {
		events = append(events, resolveBankruptcy(g, p, owner)...)
	}
	return events
}

// rentFor computes the rent owed on landing at pos given current ownership.
func rentFor(g *GameState, pos int) int {
	tile := board.MustGet(pos)
	ps, ok := g.Properties[pos]
	if !ok || ps.Owner == "" || ps.Mortgaged {
		return 0
	}

	switch tile.Type {
	case board.Property:
		if n := ps.Buildings(); n > 0 && n <= len(tile.MultipliedRent) {
			return tile.MultipliedRent[n-1]
		}
		if g.Config.DoubleRentOnFullSet && g.OwnsFullGroup(ps.Owner, tile.Group) {
			return tile.Rent * 2
		}
		return tile.Rent
	case board.Railroad:
		// Flat, double, triple, quadruple of base by railroads held.
		return tile.Rent * g.OwnedCountOfType(ps.Owner, board.Railroad)
	case board.Utility:
		mult := 4
		if g.OwnedCountOfType(ps.Owner, board.Utility) >= 2 {
			mult = 10
		}
		return g.Turn.DiceSum() * mult
	}
	return 0
}

// sendToJail moves p to jail, forfeiting any pending movement and re-roll.
func sendToJail(g *GameState, p *Player) []Event {
	p.Position = board.JailPosition
	p.InJail = true
	p.JailTurns = 0
	g.Turn.Phase = TurnEnd
	g.Turn.CanRollAgain = false
	g.Turn.DoublesCount = 0
	g.appendLog(fmt.Sprintf("%s was sent to prison", p.Name))
	return []Event{{Type: EvtPlayerJailed, Payload: PlayerJailedPayload{PlayerID: p.ID}}}
}

// maybeGrantReroll converts a doubles-earned TurnEnd back into another roll
// for the same player.
func maybeGrantReroll(g *GameState) []Event {
	t := g.Turn
	if g.Phase != PhasePlaying || t == nil {
		return nil
	}
	if t.Phase == TurnEnd && t.CanRollAgain {
		t.Phase = WaitingForRoll
		t.CanRollAgain = false
	}
	return nil
}

func applyBuyProperty(g *GameState, p *Player) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != BuyDecision {
		return nil, illegal("nothing to buy right now")
	}
	tile := board.MustGet(p.Position)
	if p.Balance < tile.Price {
		return nil, insufficient("%s costs $%d", tile.Name, tile.Price)
	}

	p.Balance -= tile.Price
	g.Properties[tile.Position].Owner = p.ID
	g.Turn.Phase = TurnEnd
	g.appendLog(fmt.Sprintf("%s bought %s for $%d", p.Name, tile.Name, tile.Price))

	events := []Event{{Type: EvtPropertyBought, Payload: PropertyBoughtPayload{
		TileIdx: tile.Position, PlayerID: p.ID, Price: tile.Price,
	}}}
	return append(events, maybeGrantReroll(g)...), nil
}

func applyEndTurn(g *GameState, p *Player) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != TurnEnd {
		return nil, illegal("turn is not over")
	}
	return advanceTurn(g), nil
}

// advanceTurn hands the turn cursor to the next non-bankrupt player.
func advanceTurn(g *GameState) []Event {
	next := g.NextPlayerID()
	if next == "" {
		return nil
	}
	g.Turn = NewTurnState(next)
	if p := g.PlayerByID(next); p != nil {
		g.appendLog(fmt.Sprintf("%s's turn", p.Name))
	}
	return []Event{turnChanged(next)}
}
