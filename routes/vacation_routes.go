package routes

import (
	"github.com/rahaf-dev/sanad_backend/handlers"
	"github.com/rahaf-dev/sanad_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func VacationRoutes(app *fiber.App) {
	api := app.Group("/api")

	vacations := api.Group("/vacations", middleware.Protected(), middleware.SpecialistRequired())
	vacations.Post("", handlers.CreateVacation)
	vacations.Get("/me", handlers.GetMyVacations)
	vacations.Put("/:requestId", handlers.UpdateVacation)
	vacations.Delete("/:requestId", handlers.WithdrawVacation)
	vacations.Get("/unavailable-dates", handlers.GetUnavailableDates)

	manager := api.Group("/manager/vacations", middleware.Protected(), middleware.ManagerRequired())
	manager.Get("", handlers.GetInstitutionVacations)
	manager.Post("/:requestId/decide", handlers.DecideVacation)

	api.Get("/specialists/:specialistId/unavailable-dates", middleware.Protected(), handlers.GetUnavailableDates)
}
