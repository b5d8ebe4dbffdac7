package engine

type ActionType string

const (
	RollDice     ActionType = "ROLL_DICE"
	BuyProperty  ActionType = "BUY_PROPERTY"
	PassProperty ActionType = "PASS_PROPERTY"
	EndTurn      ActionType = "END_TURN"
	Bid          ActionType = "BID"
	PassBid      ActionType = "PASS_BID"
	PayJail      ActionType = "PAY_JAIL"
	UseCard      ActionType = "USE_CARD"
	Build        ActionType = "BUILD"
	SellBuilding ActionType = "SELL_BUILDING"
	Mortgage     ActionType = "MORTGAGE"
	Unmortgage   ActionType = "UNMORTGAGE"
	TradeOffered ActionType = "TRADE_OFFER"
	TradeAccept  ActionType = "TRADE_ACCEPT"
	TradeReject  ActionType = "TRADE_REJECT"
)

// Action is one inbound client (or bot-synthesized) command. Player is the
// acting identity, bound by the caller.
type Action struct {
	Type    ActionType  `json:"type"`
	Player  string      `json:"player"`
	Amount  int         `json:"amount,omitempty"`
	Tile    int         `json:"tile,omitempty"`
	Offer   *TradeOffer `json:"offer,omitempty"`
	TradeID string      `json:"trade_id,omitempty"`
}
