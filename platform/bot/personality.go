package bot

// Profile tunes how a bot spends. The numbers are the knobs the decision
// functions consult; they never touch game state themselves.
type Profile struct {
	// BuyThreshold scales the spend cap when deciding to buy outright.
	BuyThreshold float64
	// BidMultiplier scales the ceiling a bot will chase in an auction.
	BidMultiplier float64
	// BuildReserve is the cash the bot keeps after buying a building.
	BuildReserve int
}

var profiles = map[string]Profile{
	"aggressive":   {BuyThreshold: 0.7, BidMultiplier: 1.5, BuildReserve: 100},
	"conservative": {BuyThreshold: 0.4, BidMultiplier: 1.1, BuildReserve: 500},
	"balanced":     {BuyThreshold: 0.55, BidMultiplier: 1.3, BuildReserve: 250},
}

// ProfileByName returns the named profile, falling back to balanced for
// anything unknown.
func ProfileByName(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles["balanced"]
}
