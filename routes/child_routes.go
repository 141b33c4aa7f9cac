package routes

import (
	"github.com/rahaf-dev/sanad_backend/handlers"
	"github.com/rahaf-dev/sanad_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ChildRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/institutions", handlers.ListInstitutions)

	children := api.Group("/children", middleware.Protected(), middleware.ParentRequired())
	children.Get("", handlers.GetChildren)
	children.Post("", handlers.AddChild)
	children.Get("/:id", handlers.GetChild)
	children.Put("/:id", handlers.UpdateChild)
	children.Delete("/:id", handlers.ArchiveChild)
	children.Post("/:id/request-registration", handlers.RequestRegistration)
	children.Get("/:id/registration-status", handlers.GetRegistrationStatus)

	manager := api.Group("/manager/registrations", middleware.Protected(), middleware.ManagerRequired())
	manager.Post("/:requestId/decide", handlers.DecideRegistration)
}
