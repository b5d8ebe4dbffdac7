package models

import "time"

// Game statuses as stored in postgres.
const (
	GameStatusLobby      = "lobby"
	GameStatusInProgress = "in progress"
	GameStatusFinished   = "finished"
)

type Game struct {
	ID     string
	Name   string
	Status string
}

// GameResult is one player's final standing in a finished game.
type GameResult struct {
	ID         int64
	GameID     string
	UserID     string
	Username   string
	Won        bool
	Balance    int
	FinishedAt time.Time
}

// LeaderboardEntry is an aggregate over game results.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Games    int    `json:"games"`
}

type GameCreateDto struct {
	Name     string `json:"name"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type JoinGameDto struct {
	Code     string `json:"code"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type VerifyGameDto struct {
	Code   string `query:"code"`
	UserID string `query:"user_id"`
}
