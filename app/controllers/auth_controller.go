package controllers

import (
	"os"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/worldopoly/backend/app/models"
	"github.com/worldopoly/backend/platform/database"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func CreateUser(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(userDto.Pass), bcrypt.DefaultCost)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	id := uuid.NewV4()
	_, err = db.Model(&models.User{
		ID:       id.String(),
		Email:    userDto.Email,
		Password: string(hash),
	}).Insert()
	if err != nil {
		return c.SendStatus(fiber.StatusConflict)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func Login(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	user := new(models.User)
	if err := db.Model(user).Where("email = ?", userDto.Email).Select(); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userDto.Pass)); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	t, err := token.SignedString(jwtSecret())
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"access_token": t})
}

func Cur(c *fiber.Ctx) error {
	user := c.Locals("user").(*jwt.Token)
	claims := user.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	return c.SendString(userID)
}
