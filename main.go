package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/joho/godotenv/autoload"

	"github.com/worldopoly/backend/app/controllers"
	"github.com/worldopoly/backend/pkg/routes"
	"github.com/worldopoly/backend/platform/logging"
	socket "github.com/worldopoly/backend/platform/sockets"
)

func main() {
	logging.Init()

	app := fiber.New()

	app.Use(cors.New())
	routes.AuthRoutes(app)
	routes.GameRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(os.Getenv("JWT_SECRET")),
	}))

	app.Get("/user/cur", controllers.Cur)

	go socket.CreateSocketIOServer()
	app.Listen(":4101")
}
