package engine

// Events are the only channel through which observers learn of state
// changes. One applied action yields an ordered list; the hub must preserve
// that order per subscriber.

type EventType string

const (
	EvtGameState           EventType = "game-state"
	EvtDiceResult          EventType = "dice-result"
	EvtPlayerMoved         EventType = "player-moved"
	EvtPropertyBought      EventType = "property-bought"
	EvtRentPaid            EventType = "rent-paid"
	EvtTaxPaid             EventType = "tax-paid"
	EvtCardDrawn           EventType = "card-drawn"
	EvtAuctionStarted      EventType = "auction-started"
	EvtBidPlaced           EventType = "bid-placed"
	EvtBidPassed           EventType = "bid-passed"
	EvtAuctionEnded        EventType = "auction-ended"
	EvtTurnChanged         EventType = "turn-changed"
	EvtPlayerJailed        EventType = "player-jailed"
	EvtPlayerFreed         EventType = "player-freed"
	EvtBuildingBuilt       EventType = "building-built"
	EvtBuildingSold        EventType = "building-sold"
	EvtPropertyMortgaged   EventType = "property-mortgaged"
	EvtPropertyUnmortgaged EventType = "property-unmortgaged"
	EvtPlayerBankrupt      EventType = "player-bankrupt"
	EvtTradeProposed       EventType = "trade-proposed"
	EvtTradeResolved       EventType = "trade-resolved"
	EvtGameOver            EventType = "game-over"
)

type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type DiceResultPayload struct {
	PlayerID string `json:"player_id"`
	Dice     [2]int `json:"dice"`
	Doubles  bool   `json:"doubles"`
}

type PlayerMovedPayload struct {
	PlayerID string `json:"player_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	PassedGo bool   `json:"passed_go"`
}

type PropertyBoughtPayload struct {
	TileIdx  int    `json:"tile_idx"`
	PlayerID string `json:"player_id"`
	Price    int    `json:"price"`
}

type RentPaidPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  int    `json:"amount"`
	TileIdx int    `json:"tile_idx"`
}

type TaxPaidPayload struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	TileIdx  int    `json:"tile_idx"`
}

type CardDrawnPayload struct {
	PlayerID string `json:"player_id"`
	Deck     string `json:"deck"` // "chance" or "chest"
}

type AuctionStartedPayload struct {
	TileIdx     int      `json:"tile_idx"`
	StartingBid int      `json:"starting_bid"`
	Bidders     []string `json:"bidders"`
}

type BidPlacedPayload struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
}

type BidPassedPayload struct {
	PlayerID string `json:"player_id"`
}

type AuctionEndedPayload struct {
	TileIdx int    `json:"tile_idx"`
	Winner  string `json:"winner,omitempty"`
	Amount  int    `json:"amount"`
}

type TurnChangedPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerJailedPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerFreedPayload struct {
	PlayerID string `json:"player_id"`
	Method   string `json:"method"` // "dice", "paid", "card", "fine"
}

type BuildingPayload struct {
	TileIdx  int    `json:"tile_idx"`
	PlayerID string `json:"player_id"`
	Houses   int    `json:"houses"`
	Hotel    bool   `json:"hotel"`
}

type PropertyFlagPayload struct {
	TileIdx  int    `json:"tile_idx"`
	PlayerID string `json:"player_id"`
}

type PlayerBankruptPayload struct {
	PlayerID string `json:"player_id"`
	Creditor string `json:"creditor,omitempty"`
}

type TradeProposedPayload struct {
	Offer TradeOffer `json:"offer"`
}

type TradeResolvedPayload struct {
	TradeID  string `json:"trade_id"`
	Accepted bool   `json:"accepted"`
}

type GameOverPayload struct {
	Winner string `json:"winner"`
}

func snapshot(g *GameState) Event {
	return Event{Type: EvtGameState, Payload: g.Clone()}
}

func turnChanged(playerID string) Event {
	return Event{Type: EvtTurnChanged, Payload: TurnChangedPayload{PlayerID: playerID}}
}
