package routes

import (
	"github.com/rahaf-dev/sanad_backend/handlers"
	"github.com/rahaf-dev/sanad_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api")

	parent := api.Group("/parent", middleware.Protected(), middleware.ParentRequired())
	parent.Get("/upcoming-sessions", handlers.GetUpcomingSessions)
	parent.Post("/sessions/request", handlers.RequestSession)
	parent.Post("/sessions/:sessionId/reschedule/decide", handlers.DecideReschedule)
	parent.Post("/sessions/:sessionId/request-delete", handlers.RequestSessionDelete)

	specialist := api.Group("/specialist", middleware.Protected(), middleware.SpecialistRequired())
	specialist.Get("/sessions", handlers.GetMySessions)
	specialist.Post("/sessions", handlers.CreateSession)
	specialist.Post("/sessions/:sessionId/decide-request", handlers.DecideSessionRequest)
	specialist.Post("/sessions/:sessionId/reschedule", handlers.ProposeReschedule)
	specialist.Post("/sessions/:sessionId/complete", handlers.MarkSessionCompleted)
	specialist.Post("/sessions/:sessionId/absent", handlers.MarkSessionAbsent)
	specialist.Get("/dashboard/upcoming-count", handlers.GetUpcomingSessionsCount)
	specialist.Get("/dashboard/children-count", handlers.GetChildrenCount)
	specialist.Get("/children", handlers.GetChildrenInInstitution)

	// Delete decisions are open to the owning specialist and to institution
	// managers; the service checks which one is acting.
	decide := api.Group("/sessions", middleware.Protected())
	decide.Post("/:sessionId/delete/decide", handlers.DecideSessionDelete)
}
