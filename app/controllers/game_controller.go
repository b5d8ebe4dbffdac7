package controllers

import (
	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"github.com/worldopoly/backend/app/models"
	"github.com/worldopoly/backend/pkg"
	"github.com/worldopoly/backend/platform/cache"
	"github.com/worldopoly/backend/platform/database"
	"github.com/worldopoly/backend/platform/engine"
	"github.com/worldopoly/backend/platform/queries"
	"github.com/worldopoly/backend/platform/store"
)

func CreateGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()
	pool := cache.CreateRedisPool()
	defer pool.Close()

	dto := new(models.GameCreateDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if dto.UserID == "" || dto.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and username are required"})
	}

	game := &models.Game{
		ID:     pkg.RandString(6),
		Name:   dto.Name,
		Status: models.GameStatusLobby,
	}
	if err := queries.CreateGame(game, db); err != nil {
		log.WithError(err).Error("failed to create game row")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	g := engine.NewGameState(game.ID, engine.DefaultConfig())
	if _, err := g.AddPlayer(dto.UserID, dto.Username, true); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if err := store.NewRedisStore(pool).Save(g); err != nil {
		log.WithError(err).Error("failed to save new game")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"id": game.ID})
}

func JoinGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()
	pool := cache.CreateRedisPool()
	defer pool.Close()

	dto := new(models.JoinGameDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	st := store.NewRedisStore(pool)
	g, err := st.Load(dto.Code)
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no such game"})
	}
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if g.PlayerByID(dto.UserID) == nil {
		if _, err := g.AddPlayer(dto.UserID, dto.Username, false); err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if err := st.Save(g); err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	return c.JSON(g)
}

// AddBot seats a computer player in a lobby. Only the host may do this.
func AddBot(c *fiber.Ctx) error {
	pool := cache.CreateRedisPool()
	defer pool.Close()

	dto := new(models.JoinGameDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	st := store.NewRedisStore(pool)
	g, err := st.Load(dto.Code)
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no such game"})
	}
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	host := g.PlayerByID(dto.UserID)
	if host == nil || !host.IsHost {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the host can add bots"})
	}

	botID := uuid.NewV4()
	if _, err := g.AddBot(botID.String()); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err := st.Save(g); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(g)
}

func GetAllAvailGames(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	games, err := queries.AvailableGames(db)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(games)
}

func VerifyGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	dto := new(models.VerifyGameDto)
	if err := c.QueryParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	return c.JSON(fiber.Map{"status": queries.VerifyGame(dto.Code, db)})
}

func GetLeaderboard(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	entries, err := queries.Leaderboard(db, 20)
	if err != nil {
		log.WithError(err).Error("leaderboard query failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(entries)
}
