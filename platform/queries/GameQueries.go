package queries

import (
	"github.com/go-pg/pg/v10"

	"github.com/worldopoly/backend/app/models"
)

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{ID: id}
	err := db.Model(game).WherePK().Select()
	return err == nil
}

func CreateGame(game *models.Game, db *pg.DB) error {
	_, err := db.Model(game).Insert()
	return err
}

func SetGameStatus(gameID, status string, db *pg.DB) error {
	game := &models.Game{ID: gameID}
	_, err := db.Model(game).WherePK().Set("status = ?", status).Update()
	return err
}

func AvailableGames(db *pg.DB) ([]models.Game, error) {
	var games []models.Game
	err := db.Model(&games).Where("status = ?", models.GameStatusLobby).Select()
	return games, err
}

func CreatePlayer(player models.Player, db *pg.DB) error {
	_, err := db.Model(&player).Insert()
	return err
}

func DeletePlayer(userID, gameID string, db *pg.DB) error {
	player := new(models.Player)
	_, err := db.Model(player).Where("user_id = ? and game_id = ?", userID, gameID).Delete()
	if err != nil {
		return err
	}
	return reapEmptyGame(gameID, db)
}

// reapEmptyGame drops the game row once its last player row is gone.
func reapEmptyGame(gameID string, db *pg.DB) error {
	var players []models.Player
	err := db.Model(&players).Where("game_id = ?", gameID).Select()
	if err != nil || len(players) == 0 {
		game := new(models.Game)
		_, err = db.Model(game).Where("id = ?", gameID).Delete()
		return err
	}
	return nil
}

// Leaderboard aggregates finished games into win counts per user.
func Leaderboard(db *pg.DB, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := db.Model((*models.GameResult)(nil)).
		ColumnExpr("username").
		ColumnExpr("count(*) filter (where won) as wins").
		ColumnExpr("count(*) as games").
		GroupExpr("username").
		OrderExpr("wins desc, games asc").
		Limit(limit).
		Select(&entries)
	return entries, err
}
