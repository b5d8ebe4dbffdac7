// Package engine implements the authoritative per-room game state machine.
// Every operation is a pure transformation of the GameState aggregate: it
// either fully applies and returns the ordered events it produced, or it
// rejects without touching the state.
package engine

import (
	"fmt"

	"github.com/worldopoly/backend/platform/board"
)

type GamePhase string

const (
	PhaseLobby    GamePhase = "lobby"
	PhasePlaying  GamePhase = "playing"
	PhaseGameOver GamePhase = "game-over"
)

type TurnPhase string

const (
	// WaitingForRoll waits for the acting player's ROLL_DICE.
	WaitingForRoll TurnPhase = "waiting-for-roll"
	// BuyDecision waits for BUY_PROPERTY or PASS_PROPERTY on an unowned tile.
	BuyDecision TurnPhase = "buy-decision"
	// Auctioning suspends the turn while the auction sub-flow runs.
	Auctioning TurnPhase = "auctioning"
	// TurnEnd admits building/mortgage/trade actions until END_TURN.
	TurnEnd TurnPhase = "turn-end"
)

// GameConfig is fixed at room creation and read-only afterwards.
type GameConfig struct {
	MaxPlayers          int     `json:"max_players"`
	StartingCash        int     `json:"starting_cash"`
	Salary              int     `json:"salary"`
	JailFine            int     `json:"jail_fine"`
	AuctionOnDecline    bool    `json:"auction_on_decline"`
	DoubleRentOnFullSet bool    `json:"double_rent_on_full_set"`
	FreeParkingJackpot  bool    `json:"free_parking_jackpot"`
	CollectRentInJail   bool    `json:"collect_rent_in_jail"`
	MortgageInterest    float64 `json:"mortgage_interest"`
	// TurnTimerSeconds is advisory data for an external turn timer; the
	// engine itself never enforces it.
	TurnTimerSeconds int `json:"turn_timer_seconds"`
}

func DefaultConfig() GameConfig {
	return GameConfig{
		MaxPlayers:          4,
		StartingCash:        1500,
		Salary:              200,
		JailFine:            50,
		AuctionOnDecline:    true,
		DoubleRentOnFullSet: true,
		FreeParkingJackpot:  false,
		CollectRentInJail:   false,
		MortgageInterest:    0.1,
		TurnTimerSeconds:    0,
	}
}

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Position    int    `json:"position"`
	Balance     int    `json:"balance"`
	InJail      bool   `json:"in_jail"`
	JailTurns   int    `json:"jail_turns"`
	GetOutCards int    `json:"get_out_cards"`
	IsBot       bool   `json:"is_bot"`
	IsHost      bool   `json:"is_host"`
	Bankrupt    bool   `json:"bankrupt"`
	// Personality selects the bot decision profile; empty for humans.
	Personality string `json:"personality,omitempty"`
}

// PropertyState tracks ownership and improvements of one ownable tile.
// A hotel replaces the four houses, so Houses stays in 0..4 and Hotel is
// mutually exclusive with Houses > 0.
type PropertyState struct {
	Owner     string `json:"owner,omitempty"`
	Houses    int    `json:"houses"`
	Hotel     bool   `json:"hotel"`
	Mortgaged bool   `json:"mortgaged"`
}

// Buildings counts built units, a hotel being the fifth.
func (p *PropertyState) Buildings() int {
	if p.Hotel {
		return 5
	}
	return p.Houses
}

type TurnState struct {
	PlayerID     string    `json:"player_id"`
	Dice         [2]int    `json:"dice"`
	DoublesCount int       `json:"doubles_count"`
	Phase        TurnPhase `json:"phase"`
	CanRollAgain bool      `json:"can_roll_again"`
}

func NewTurnState(playerID string) *TurnState {
	return &TurnState{PlayerID: playerID, Phase: WaitingForRoll}
}

func (t *TurnState) DiceSum() int    { return t.Dice[0] + t.Dice[1] }
func (t *TurnState) IsDoubles() bool { return t.Dice[0] != 0 && t.Dice[0] == t.Dice[1] }

// AuctionState exists only while a declined purchase is being auctioned.
// Bidders is the ordered set of remaining (non-folded) bidders and TurnIdx
// points at whoever may act next.
type AuctionState struct {
	TileIdx       int      `json:"tile_idx"`
	CurrentBid    int      `json:"current_bid"`
	HighestBidder string   `json:"highest_bidder,omitempty"`
	Bidders       []string `json:"bidders"`
	TurnIdx       int      `json:"turn_idx"`
}

// CurrentBidder returns the id of the bidder allowed to act, or "".
func (a *AuctionState) CurrentBidder() string {
	if len(a.Bidders) == 0 {
		return ""
	}
	return a.Bidders[a.TurnIdx%len(a.Bidders)]
}

type TradeAssets struct {
	Money       int   `json:"money"`
	Properties  []int `json:"properties"`
	GetOutCards int   `json:"get_out_cards"`
}

type TradeOffer struct {
	ID         string      `json:"id"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Offering   TradeAssets `json:"offering"`
	Requesting TradeAssets `json:"requesting"`
}

// GameState is the aggregate root for one room. It is the unit of
// persistence and of mutual exclusion: operations load it whole, mutate a
// local copy and save it whole.
type GameState struct {
	ID         string                 `json:"id"`
	Phase      GamePhase              `json:"phase"`
	Turn       *TurnState             `json:"turn,omitempty"`
	TurnOrder  []string               `json:"turn_order"`
	Players    []*Player              `json:"players"`
	Properties map[int]*PropertyState `json:"properties"`
	Auction    *AuctionState          `json:"auction,omitempty"`
	Trade      *TradeOffer            `json:"trade,omitempty"`
	Pot        int                    `json:"pot"`
	Winner     string                 `json:"winner,omitempty"`
	Config     GameConfig             `json:"config"`
	Log        []string               `json:"log"`
	// Version implements the store's optimistic concurrency check.
	Version int64 `json:"version"`
}

var playerColors = []string{
	"#FF5733", "#33FF57", "#3357FF", "#FF33F5",
	"#F5FF33", "#33FFF5", "#FF8C33", "#8C33FF",
}

var botNames = []string{
	"Bot Alpha", "Bot Beta", "Bot Gamma", "Bot Delta",
	"Bot Epsilon", "Bot Zeta", "Bot Eta", "Bot Theta",
}

var botPersonalities = []string{"balanced", "aggressive", "conservative"}

func NewGameState(id string, cfg GameConfig) *GameState {
	props := make(map[int]*PropertyState)
	for _, t := range board.Tiles() {
		if t.Ownable() {
			props[t.Position] = &PropertyState{}
		}
	}
	return &GameState{
		ID:         id,
		Phase:      PhaseLobby,
		Players:    []*Player{},
		TurnOrder:  []string{},
		Properties: props,
		Config:     cfg,
		Log:        []string{},
	}
}

// AddPlayer seats a human player while the room is in the lobby.
func (g *GameState) AddPlayer(id, name string, isHost bool) (*Player, error) {
	if err := g.canSeat(); err != nil {
		return nil, err
	}
	p := &Player{
		ID:     id,
		Name:   name,
		Color:  playerColors[len(g.Players)%len(playerColors)],
		IsHost: isHost,
	}
	g.Players = append(g.Players, p)
	g.appendLog(fmt.Sprintf("%s joined the game", name))
	return p, nil
}

// AddBot seats a bot, cycling through the fixed name and personality lists.
func (g *GameState) AddBot(id string) (*Player, error) {
	if err := g.canSeat(); err != nil {
		return nil, err
	}
	botIdx := 0
	for _, p := range g.Players {
		if p.IsBot {
			botIdx++
		}
	}
	p := &Player{
		ID:          id,
		Name:        botNames[botIdx%len(botNames)],
		Color:       playerColors[len(g.Players)%len(playerColors)],
		IsBot:       true,
		Personality: botPersonalities[botIdx%len(botPersonalities)],
	}
	g.Players = append(g.Players, p)
	g.appendLog(fmt.Sprintf("%s joined the game", p.Name))
	return p, nil
}

func (g *GameState) canSeat() error {
	if g.Phase != PhaseLobby {
		return illegal("game already started")
	}
	if len(g.Players) >= g.Config.MaxPlayers {
		return illegal("room is full")
	}
	return nil
}

// Start seeds balances, shuffles the turn order with the supplied
// permutation source and begins the first turn. perm must behave like
// rand.Perm.
func (g *GameState) Start(perm func(n int) []int) ([]Event, error) {
	if g.Phase != PhaseLobby {
		return nil, illegal("game already started")
	}
	if len(g.Players) < 2 {
		return nil, illegal("need at least 2 players")
	}
	for _, p := range g.Players {
		p.Balance = g.Config.StartingCash
		p.Position = 0
	}
	order := make([]string, len(g.Players))
	for i, j := range perm(len(g.Players)) {
		order[i] = g.Players[j].ID
	}
	g.TurnOrder = order
	g.Turn = NewTurnState(order[0])
	g.Phase = PhasePlaying
	g.appendLog("game started")

	return []Event{
		snapshot(g),
		turnChanged(order[0]),
	}, nil
}

// PlayerByID returns the player or nil.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActiveCount counts non-bankrupt players.
func (g *GameState) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Bankrupt {
			n++
		}
	}
	return n
}

// NextPlayerID returns the next non-bankrupt player in seating order after
// the current turn owner, or "" when nobody is left.
func (g *GameState) NextPlayerID() string {
	if g.Turn == nil || len(g.TurnOrder) == 0 {
		return ""
	}
	cur := -1
	for i, id := range g.TurnOrder {
		if id == g.Turn.PlayerID {
			cur = i
			break
		}
	}
	for off := 1; off <= len(g.TurnOrder); off++ {
		id := g.TurnOrder[(cur+off)%len(g.TurnOrder)]
		if p := g.PlayerByID(id); p != nil && !p.Bankrupt {
			return id
		}
	}
	return ""
}

// CurrentActorID is whoever the engine is waiting on: the current bidder
// during an auction, otherwise the turn owner.
func (g *GameState) CurrentActorID() string {
	if g.Phase != PhasePlaying || g.Turn == nil {
		return ""
	}
	if g.Auction != nil {
		return g.Auction.CurrentBidder()
	}
	return g.Turn.PlayerID
}

// OwnsFullGroup reports whether playerID owns every tile of the color group.
func (g *GameState) OwnsFullGroup(playerID, group string) bool {
	tiles := board.GroupTiles(group)
	if len(tiles) == 0 {
		return false
	}
	for _, t := range tiles {
		ps, ok := g.Properties[t.Position]
		if !ok || ps.Owner != playerID {
			return false
		}
	}
	return true
}

// OwnedCountOfType counts tiles of one type (railroad/utility) held by a player.
func (g *GameState) OwnedCountOfType(playerID string, tt board.TileType) int {
	n := 0
	for pos, ps := range g.Properties {
		if ps.Owner == playerID && board.MustGet(pos).Type == tt {
			n++
		}
	}
	return n
}

// OwnedInGroup counts group members held by a player.
func (g *GameState) OwnedInGroup(playerID, group string) int {
	n := 0
	for _, t := range board.GroupTiles(group) {
		if ps, ok := g.Properties[t.Position]; ok && ps.Owner == playerID {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the aggregate.
func (g *GameState) Clone() *GameState {
	out := *g
	out.TurnOrder = append([]string(nil), g.TurnOrder...)
	out.Log = append([]string(nil), g.Log...)
	out.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		out.Players[i] = &cp
	}
	out.Properties = make(map[int]*PropertyState, len(g.Properties))
	for pos, ps := range g.Properties {
		cp := *ps
		out.Properties[pos] = &cp
	}
	if g.Turn != nil {
		t := *g.Turn
		out.Turn = &t
	}
	if g.Auction != nil {
		a := *g.Auction
		a.Bidders = append([]string(nil), g.Auction.Bidders...)
		out.Auction = &a
	}
	if g.Trade != nil {
		tr := *g.Trade
		tr.Offering.Properties = append([]int(nil), g.Trade.Offering.Properties...)
		tr.Requesting.Properties = append([]int(nil), g.Trade.Requesting.Properties...)
		out.Trade = &tr
	}
	return &out
}

// appendLog keeps a bounded human-readable history on the aggregate.
func (g *GameState) appendLog(msg string) {
	g.Log = append(g.Log, msg)
	if len(g.Log) > 100 {
		g.Log = g.Log[len(g.Log)-100:]
	}
}
