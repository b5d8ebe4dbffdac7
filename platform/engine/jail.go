package engine

import "fmt"

// resolveJailRoll handles a ROLL_DICE issued from jail. It returns whether
// the player is free to move by this roll, plus the events produced.
func resolveJailRoll(g *GameState, p *Player, doubles bool) (bool, []Event) {
	if doubles {
		p.InJail = false
		p.JailTurns = 0
		g.Turn.DoublesCount = 0
		g.appendLog(fmt.Sprintf("%s rolled doubles and escaped prison", p.Name))
		return true, []Event{{Type: EvtPlayerFreed, Payload: PlayerFreedPayload{
			PlayerID: p.ID, Method: "dice",
		}}}
	}

	p.JailTurns++
	if p.JailTurns < 3 {
		g.appendLog(fmt.Sprintf("%s failed to roll doubles in prison", p.Name))
		g.Turn.Phase = TurnEnd
		return false, nil
	}

	// Third turn served: release is mandatory, fine and all. A shortfall
	// here is the bankruptcy path.
	fine := g.Config.JailFine
	p.Balance -= fine
	p.InJail = false
	p.JailTurns = 0
	g.appendLog(fmt.Sprintf("%s was forced to pay the $%d fine", p.Name, fine))
	events := []Event{{Type: EvtPlayerFreed, Payload: PlayerFreedPayload{
		PlayerID: p.ID, Method: "fine",
	}}}
	if p.Balance < 0 {
		return false, append(events, resolveBankruptcy(g, p, nil)...)
	}
	return true, events
}

func applyPayJail(g *GameState, p *Player) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != WaitingForRoll || !p.InJail {
		return nil, illegal("not in prison")
	}
	if p.Balance < g.Config.JailFine {
		return nil, insufficient("the fine is $%d", g.Config.JailFine)
	}

	p.Balance -= g.Config.JailFine
	p.InJail = false
	p.JailTurns = 0
	g.appendLog(fmt.Sprintf("%s paid $%d to leave prison", p.Name, g.Config.JailFine))
	return []Event{{Type: EvtPlayerFreed, Payload: PlayerFreedPayload{
		PlayerID: p.ID, Method: "paid",
	}}}, nil
}

func applyUseCard(g *GameState, p *Player) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	if g.Turn.Phase != WaitingForRoll || !p.InJail {
		return nil, illegal("not in prison")
	}
	if p.GetOutCards <= 0 {
		return nil, illegal("no get-out card held")
	}

	p.GetOutCards--
	p.InJail = false
	p.JailTurns = 0
	g.appendLog(fmt.Sprintf("%s used a get-out card", p.Name))
	return []Event{{Type: EvtPlayerFreed, Payload: PlayerFreedPayload{
		PlayerID: p.ID, Method: "card",
	}}}, nil
}
