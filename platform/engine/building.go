package engine

import (
	"fmt"

	"github.com/worldopoly/backend/platform/board"
)

// ownedStreet validates a BUILD/SELL/MORTGAGE target and returns its tile
// and state.
func ownedStreet(g *GameState, p *Player, pos int) (board.Tile, *PropertyState, error) {
	tile, err := board.Get(pos)
	if err != nil {
		return board.Tile{}, nil, invalidTarget("no tile at %d", pos)
	}
	ps, ok := g.Properties[pos]
	if !ok {
		return board.Tile{}, nil, invalidTarget("%s cannot be owned", tile.Name)
	}
	if ps.Owner != p.ID {
		return board.Tile{}, nil, illegal("you do not own %s", tile.Name)
	}
	return tile, ps, nil
}

func applyBuild(g *GameState, p *Player, pos int) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	tile, ps, err := ownedStreet(g, p, pos)
	if err != nil {
		return nil, err
	}
	if tile.Type != board.Property {
		return nil, invalidTarget("cannot build on %s", tile.Name)
	}
	if !g.OwnsFullGroup(p.ID, tile.Group) {
		return nil, illegal("you must own the whole %s group", tile.Group)
	}
	for _, gt := range board.GroupTiles(tile.Group) {
		if g.Properties[gt.Position].Mortgaged {
			return nil, illegal("%s is mortgaged", gt.Name)
		}
	}
	if ps.Hotel {
		return nil, illegal("%s already has a hotel", tile.Name)
	}
	if p.Balance < tile.HouseCost {
		return nil, insufficient("a house on %s costs $%d", tile.Name, tile.HouseCost)
	}
	// Even-build rule: after this build no group member may trail by more
	// than one building.
	after := ps.Buildings() + 1
	for _, gt := range board.GroupTiles(tile.Group) {
		if gt.Position == pos {
			continue
		}
		if after-g.Properties[gt.Position].Buildings() > 1 {
			return nil, illegal("build evenly across the %s group", tile.Group)
		}
	}

	p.Balance -= tile.HouseCost
	if ps.Houses == 4 {
		// The fifth building is a hotel; the four houses go back to the bank.
		ps.Houses = 0
		ps.Hotel = true
		g.appendLog(fmt.Sprintf("%s built a hotel on %s", p.Name, tile.Name))
	} else {
		ps.Houses++
		g.appendLog(fmt.Sprintf("%s built a house on %s", p.Name, tile.Name))
	}
	return []Event{{Type: EvtBuildingBuilt, Payload: BuildingPayload{
		TileIdx: pos, PlayerID: p.ID, Houses: ps.Houses, Hotel: ps.Hotel,
	}}}, nil
}

func applySellBuilding(g *GameState, p *Player, pos int) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	tile, ps, err := ownedStreet(g, p, pos)
	if err != nil {
		return nil, err
	}
	if tile.Type != board.Property {
		return nil, invalidTarget("no buildings on %s", tile.Name)
	}
	if ps.Buildings() == 0 {
		return nil, illegal("nothing built on %s", tile.Name)
	}
	// Even-build in reverse: selling may not leave this tile trailing the
	// rest of the group by more than one.
	after := ps.Buildings() - 1
	for _, gt := range board.GroupTiles(tile.Group) {
		if gt.Position == pos {
			continue
		}
		if g.Properties[gt.Position].Buildings()-after > 1 {
			return nil, illegal("sell evenly across the %s group", tile.Group)
		}
	}

	if ps.Hotel {
		ps.Hotel = false
		ps.Houses = 4
	} else {
		ps.Houses--
	}
	p.Balance += tile.HouseCost / 2
	g.appendLog(fmt.Sprintf("%s sold a building on %s", p.Name, tile.Name))
	return []Event{{Type: EvtBuildingSold, Payload: BuildingPayload{
		TileIdx: pos, PlayerID: p.ID, Houses: ps.Houses, Hotel: ps.Hotel,
	}}}, nil
}

func applyMortgage(g *GameState, p *Player, pos int) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	tile, ps, err := ownedStreet(g, p, pos)
	if err != nil {
		return nil, err
	}
	if ps.Mortgaged {
		return nil, illegal("%s is already mortgaged", tile.Name)
	}
	if ps.Buildings() > 0 {
		return nil, illegal("sell the buildings on %s first", tile.Name)
	}

	ps.Mortgaged = true
	p.Balance += tile.Mortgage
	g.appendLog(fmt.Sprintf("%s mortgaged %s for $%d", p.Name, tile.Name, tile.Mortgage))
	return []Event{{Type: EvtPropertyMortgaged, Payload: PropertyFlagPayload{
		TileIdx: pos, PlayerID: p.ID,
	}}}, nil
}

func applyUnmortgage(g *GameState, p *Player, pos int) ([]Event, error) {
	if err := requireTurn(g, p); err != nil {
		return nil, err
	}
	tile, ps, err := ownedStreet(g, p, pos)
	if err != nil {
		return nil, err
	}
	if !ps.Mortgaged {
		return nil, illegal("%s is not mortgaged", tile.Name)
	}
	cost := int(float64(tile.Mortgage) * (1 + g.Config.MortgageInterest))
	if p.Balance < cost {
		return nil, insufficient("lifting the mortgage on %s costs $%d", tile.Name, cost)
	}

	ps.Mortgaged = false
	p.Balance -= cost
	g.appendLog(fmt.Sprintf("%s unmortgaged %s for $%d", p.Name, tile.Name, cost))
	return []Event{{Type: EvtPropertyUnmortgaged, Payload: PropertyFlagPayload{
		TileIdx: pos, PlayerID: p.ID,
	}}}, nil
}
