package handlers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rahaf-dev/sanad_backend/database"
	"github.com/rahaf-dev/sanad_backend/models"
)

// testApp wires the handlers against an in-memory database and stubs the JWT
// middleware with a fixed actor.
func testApp(t *testing.T, userID uint, role string) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Parent{},
		&models.Specialist{},
		&models.Institution{},
		&models.Diagnosis{},
		&models.Child{},
		&models.SessionType{},
		&models.Session{},
		&models.VacationRequest{},
		&models.ChildRegistrationRequest{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(models.CommittedSlotIndex).Error; err != nil {
		t.Fatalf("create slot index: %v", err)
	}

	database.DB = db
	InitServices(db, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		claims := jwt.MapClaims{"user_id": float64(userID), "role": role}
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
		return c.Next()
	})
	return app, db
}
