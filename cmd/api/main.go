package main

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rahaf-dev/sanad_backend/configs"
	"github.com/rahaf-dev/sanad_backend/database"
	"github.com/rahaf-dev/sanad_backend/handlers"
	"github.com/rahaf-dev/sanad_backend/jobs"
	"github.com/rahaf-dev/sanad_backend/metrics"
	"github.com/rahaf-dev/sanad_backend/routes"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	if dsn := configs.Config("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			zapLogger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	handlers.InitServices(database.DB, zapLogger)

	c := cron.New()
	c.AddFunc("*/10 * * * *", jobs.CancelExpiredRequests)
	c.Start()
	zapLogger.Info("cron job for expired session requests scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "Sanad API",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			zap.L().Error("request failed",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()))
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Sanad API",
		})
	})

	routes.AuthRoutes(app)
	routes.SessionRoutes(app)
	routes.VacationRoutes(app)
	routes.ChildRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := configs.ConfigOr("PORT", "8080")
	zapLogger.Info("server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		zapLogger.Fatal("server failed to start", zap.Error(err))
	}
}
