package routes

import (
	"github.com/rahaf-dev/sanad_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/signup", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
}
