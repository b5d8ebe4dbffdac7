package engine

import "fmt"

// resolveBankruptcy eliminates a player whose mandatory debit left them
// short. Their properties go to the creditor as-is, or back to the bank
// unmortgaged and cleared when the debt was to the bank. This is a modeled
// transition, never an error, and it may end the game.
func resolveBankruptcy(g *GameState, debtor *Player, creditor *Player) []Event {
	debtor.Bankrupt = true
	debtor.Balance = 0
	debtor.InJail = false
	g.appendLog(fmt.Sprintf("%s went bankrupt", debtor.Name))

	for _, ps := range g.Properties {
		if ps.Owner != debtor.ID {
			continue
		}
		if creditor != nil {
			ps.Owner = creditor.ID
		} else {
			ps.Owner = ""
			ps.Houses = 0
			ps.Hotel = false
			ps.Mortgaged = false
		}
	}
	if creditor != nil {
		creditor.GetOutCards += debtor.GetOutCards
	}
	debtor.GetOutCards = 0
	// A pending trade involving the eliminated player is void.
	if g.Trade != nil && (g.Trade.From == debtor.ID || g.Trade.To == debtor.ID) {
		g.Trade = nil
	}

	payload := PlayerBankruptPayload{PlayerID: debtor.ID}
	if creditor != nil {
		payload.Creditor = creditor.ID
	}
	events := []Event{{Type: EvtPlayerBankrupt, Payload: payload}}

	if g.ActiveCount() <= 1 {
		return append(events, endGame(g)...)
	}
	if g.Turn != nil && g.Turn.PlayerID == debtor.ID {
		events = append(events, advanceTurn(g)...)
	}
	return events
}

// endGame marks the terminal state and names the last solvent player.
func endGame(g *GameState) []Event {
	g.Phase = PhaseGameOver
	for _, p := range g.Players {
		if !p.Bankrupt {
			g.Winner = p.ID
			g.appendLog(fmt.Sprintf("%s wins the game", p.Name))
			break
		}
	}
	return []Event{{Type: EvtGameOver, Payload: GameOverPayload{Winner: g.Winner}}}
}
