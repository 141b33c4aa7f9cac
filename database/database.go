package database

import (
	config "github.com/rahaf-dev/sanad_backend/configs"
	"github.com/rahaf-dev/sanad_backend/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	zap.L().Info("database connected")
}

func Migrate() {
	err := DB.AutoMigrate(
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
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}
	if err := DB.Exec(models.CommittedSlotIndex).Error; err != nil {
		zap.L().Fatal("failed to create committed slot index", zap.Error(err))
	}
	zap.L().Info("database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		zap.L().Warn("admin credentials not configured, skipping seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		zap.L().Fatal("failed to check for admin user", zap.Error(err))
	}
	if count > 0 {
		zap.L().Info("admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Fatal("failed to hash admin password", zap.Error(err))
	}

	admin := models.User{
		FullName: config.ConfigOr("ADMIN_FULL_NAME", "Administrator"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		zap.L().Fatal("failed to seed admin user", zap.Error(err))
	}
	zap.L().Info("admin user seeded")
}
