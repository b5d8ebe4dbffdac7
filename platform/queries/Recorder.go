package queries

import (
	"time"

	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"

	"github.com/worldopoly/backend/app/models"
	"github.com/worldopoly/backend/platform/engine"
)

// PGRecorder writes finished games to postgres for history and the
// leaderboard. Bots are skipped: only human results count.
type PGRecorder struct {
	DB *pg.DB
}

func NewPGRecorder(db *pg.DB) *PGRecorder {
	return &PGRecorder{DB: db}
}

func (r *PGRecorder) RecordResult(g *engine.GameState) error {
	now := time.Now()
	var results []models.GameResult
	for _, p := range g.Players {
		if p.IsBot {
			continue
		}
		results = append(results, models.GameResult{
			GameID:     g.ID,
			UserID:     p.ID,
			Username:   p.Name,
			Won:        p.ID == g.Winner,
			Balance:    p.Balance,
			FinishedAt: now,
		})
	}
	if len(results) > 0 {
		if _, err := r.DB.Model(&results).Insert(); err != nil {
			return err
		}
	}

	if err := SetGameStatus(g.ID, models.GameStatusFinished, r.DB); err != nil {
		log.WithField("game", g.ID).WithError(err).Warn("failed to mark game finished")
	}
	return nil
}
