package models

// Player is the postgres row tying a user to a room. The live seat data
// lives in the game state, not here.
type Player struct {
	UserID   string
	GameID   string
	Username string
}
