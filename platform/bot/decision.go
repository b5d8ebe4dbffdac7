package bot

import (
	"github.com/worldopoly/backend/platform/board"
	"github.com/worldopoly/backend/platform/engine"
)

// Everything in this package is a pure function of the game state. The same
// state always yields the same action, which keeps bot games replayable.

// bidStep is the increment a bot raises an auction by.
const bidStep = 10

// groupPriority ranks color groups by landing frequency. Higher is better.
var groupPriority = map[string]int{
	"orange":     5,
	"red":        5,
	"yellow":     4,
	"railroad":   4,
	"green":      3,
	"pink":       3,
	"light-blue": 2,
	"dark-blue":  2,
	"brown":      2,
	"utility":    1,
}

func priorityOf(group string) int {
	if p, ok := groupPriority[group]; ok {
		return p
	}
	return 1
}

// Decide returns the next action the bot should take, or false when the game
// is not waiting on the bot at all.
func Decide(g *engine.GameState, botID string) (engine.Action, bool) {
	p := g.PlayerByID(botID)
	if p == nil || p.Bankrupt || g.Phase != engine.PhasePlaying {
		return engine.Action{}, false
	}
	profile := ProfileByName(p.Personality)

	if g.Auction != nil {
		if g.Auction.CurrentBidder() != botID {
			return engine.Action{}, false
		}
		return decideAuction(g, p, profile), true
	}

	if g.Turn == nil || g.Turn.PlayerID != botID {
		return engine.Action{}, false
	}

	switch g.Turn.Phase {
	case engine.WaitingForRoll:
		if p.InJail {
			if act, ok := decideJail(g, p); ok {
				return act, true
			}
		}
		return engine.Action{Type: engine.RollDice, Player: botID}, true

	case engine.BuyDecision:
		if ShouldBuy(g, p, profile) {
			return engine.Action{Type: engine.BuyProperty, Player: botID}, true
		}
		return engine.Action{Type: engine.PassProperty, Player: botID}, true

	case engine.TurnEnd:
		if tile, ok := BuildTarget(g, p, profile); ok {
			return engine.Action{Type: engine.Build, Player: botID, Tile: tile}, true
		}
		return engine.Action{Type: engine.EndTurn, Player: botID}, true
	}
	return engine.Action{}, false
}

func decideJail(g *engine.GameState, p *engine.Player) (engine.Action, bool) {
	// A card costs nothing, so a jailed bot always plays one.
	if p.GetOutCards > 0 {
		return engine.Action{Type: engine.UseCard, Player: p.ID}, true
	}
	if ShouldPayJail(g, p) && p.Balance >= g.Config.JailFine {
		return engine.Action{Type: engine.PayJail, Player: p.ID}, true
	}
	return engine.Action{}, false
}

func decideAuction(g *engine.GameState, p *engine.Player, profile Profile) engine.Action {
	ceiling := MaxBid(g, p, profile)
	next := g.Auction.CurrentBid + bidStep
	if next <= ceiling && next <= p.Balance {
		return engine.Action{Type: engine.Bid, Player: p.ID, Amount: next}
	}
	return engine.Action{Type: engine.PassBid, Player: p.ID}
}

// ShouldBuy applies the spend-cap table: the bot buys when the price fits
// inside a share of its balance that grows with group priority and with how
// close the purchase brings it to a full set.
func ShouldBuy(g *engine.GameState, p *engine.Player, profile Profile) bool {
	tile, err := board.Get(p.Position)
	if err != nil || !tile.Ownable() {
		return false
	}
	prio := priorityOf(tile.Group)
	owned := g.OwnedInGroup(p.ID, tile.Group)
	completing := owned >= board.GroupSize(tile.Group)-1

	var maxPercent float64
	switch {
	case prio == 5 && completing:
		maxPercent = 0.80
	case prio == 5:
		maxPercent = 0.60
	case prio == 4 && completing:
		maxPercent = 0.70
	case prio == 4:
		maxPercent = 0.50
	case prio == 3 && completing:
		maxPercent = 0.60
	case prio == 3:
		maxPercent = 0.40
	case completing:
		maxPercent = 0.50
	default:
		maxPercent = 0.30
	}

	// A profile's threshold shifts the whole table around the balanced 0.55.
	maxPercent *= profile.BuyThreshold / profiles["balanced"].BuyThreshold
	if maxPercent > 1 {
		maxPercent = 1
	}
	return tile.Price <= int(float64(p.Balance)*maxPercent)
}

// MaxBid is the most the bot will commit in an auction for the tile under
// the hammer. Completing a set and denying an opponent one both raise the
// ceiling; half the bot's cash is the hard cap.
func MaxBid(g *engine.GameState, p *engine.Player, profile Profile) int {
	if g.Auction == nil {
		return 0
	}
	tile, err := board.Get(g.Auction.TileIdx)
	if err != nil || !tile.Ownable() {
		return 0
	}
	prio := priorityOf(tile.Group)
	size := board.GroupSize(tile.Group)

	value := float64(tile.Price)
	if g.OwnedInGroup(p.ID, tile.Group) >= size-1 {
		value *= 1.8
	}
	if blocksOpponent(g, p.ID, tile.Group, size) {
		value *= 1.5
	}
	value *= 1 + float64(prio)*0.1
	value *= profile.BidMultiplier / profiles["balanced"].BidMultiplier

	limit := p.Balance / 2
	if int(value) < limit {
		return int(value)
	}
	return limit
}

func blocksOpponent(g *engine.GameState, botID, group string, size int) bool {
	for _, other := range g.Players {
		if other.ID == botID || other.Bankrupt {
			continue
		}
		if g.OwnedInGroup(other.ID, group) >= size-1 {
			return true
		}
	}
	return false
}

// buildOrder walks the street groups by priority. A fixed slice, not the
// priority map, so the choice is deterministic.
var buildOrder = []string{
	"orange", "red", "yellow", "green", "pink",
	"light-blue", "dark-blue", "brown",
}

// BuildTarget returns the first tile worth building on: a street in a fully
// owned, unmortgaged group, picked so the group stays evenly built, with
// enough cash left over to satisfy the profile's reserve.
func BuildTarget(g *engine.GameState, p *engine.Player, profile Profile) (int, bool) {
	for _, group := range buildOrder {
		if tile, ok := buildTargetInGroup(g, p, profile, group); ok {
			return tile, true
		}
	}
	return 0, false
}

func buildTargetInGroup(g *engine.GameState, p *engine.Player, profile Profile, group string) (int, bool) {
	tiles := board.GroupTiles(group)
	if len(tiles) == 0 || tiles[0].Type != board.Property {
		return 0, false
	}

	minBuildings := -1
	minTile := 0
	for _, t := range tiles {
		ps, ok := g.Properties[t.Position]
		if !ok || ps.Owner != p.ID || ps.Mortgaged {
			return 0, false
		}
		b := ps.Buildings()
		if minBuildings == -1 || b < minBuildings {
			minBuildings = b
			minTile = t.Position
		}
	}
	if minBuildings >= 5 {
		return 0, false
	}
	if p.Balance-tiles[0].HouseCost < profile.BuildReserve {
		return 0, false
	}
	return minTile, true
}

// ShouldPayJail decides whether sitting out jail turns is worth it. Early
// in the game, while streets are still on the market, getting out fast
// matters; late game the bot stays put unless it is flush.
func ShouldPayJail(g *engine.GameState, p *engine.Player) bool {
	unowned := 0
	total := 0
	for _, t := range board.Tiles() {
		if !t.Ownable() {
			continue
		}
		total++
		ps, ok := g.Properties[t.Position]
		if !ok || ps.Owner == "" {
			unowned++
		}
	}
	progress := 1 - float64(unowned)/float64(total)

	if progress < 0.5 && p.Balance >= g.Config.JailFine {
		return true
	}
	return p.Balance >= 200
}
