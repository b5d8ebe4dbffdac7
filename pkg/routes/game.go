package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/worldopoly/backend/app/controllers"
)

func GameRoutes(a *fiber.App) {
	route := a.Group("/game")

	route.Post("/create", controllers.CreateGame)
	route.Post("/join", controllers.JoinGame)
	route.Post("/add-bot", controllers.AddBot)
	route.Get("/verify", controllers.VerifyGame)
	route.Get("/all", controllers.GetAllAvailGames)
	route.Get("/leaderboard", controllers.GetLeaderboard)
}
