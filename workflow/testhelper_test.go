package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rahaf-dev/sanad_backend/models"
)

// testNow is the frozen clock every service under test runs on.
var testNow = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.Local)

func testDB(t *testing.T) *gorm.DB {
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
	// One connection keeps every query on the same in-memory database.
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
	return db
}

func newSessionService(t *testing.T, db *gorm.DB) *SessionService {
	t.Helper()
	svc := NewSessionService(db, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func newVacationService(t *testing.T, db *gorm.DB) *VacationService {
	t.Helper()
	svc := NewVacationService(db, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func newRegistrationService(t *testing.T, db *gorm.DB) *RegistrationService {
	t.Helper()
	svc := NewRegistrationService(db, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role string, institutionID *uint) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		FullName:      fmt.Sprintf("%s %d", role, userSeq),
		Email:         fmt.Sprintf("user%d@example.com", userSeq),
		Password:      "hashed",
		Role:          role,
		Status:        models.UserActive,
		InstitutionID: institutionID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedInstitution(t *testing.T, db *gorm.DB, name string) *models.Institution {
	t.Helper()
	institution := &models.Institution{Name: name}
	if err := db.Create(institution).Error; err != nil {
		t.Fatalf("seed institution: %v", err)
	}
	return institution
}

func seedParent(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := seedUser(t, db, models.RoleParent, nil)
	if err := db.Create(&models.Parent{UserID: user.ID}).Error; err != nil {
		t.Fatalf("seed parent profile: %v", err)
	}
	return user
}

func seedSpecialist(t *testing.T, db *gorm.DB, institutionID *uint) *models.User {
	t.Helper()
	user := seedUser(t, db, models.RoleSpecialist, nil)
	profile := &models.Specialist{UserID: user.ID, InstitutionID: institutionID}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed specialist profile: %v", err)
	}
	return user
}

func seedChild(t *testing.T, db *gorm.DB, parentID uint) *models.Child {
	t.Helper()
	userSeq++
	child := &models.Child{
		ParentID:           parentID,
		FullName:           fmt.Sprintf("Child %d", userSeq),
		RegistrationStatus: models.RegistrationNotRegistered,
	}
	if err := db.Create(child).Error; err != nil {
		t.Fatalf("seed child: %v", err)
	}
	return child
}

func seedSession(t *testing.T, db *gorm.DB, specialistID, childID uint, date, timeOfDay, status string) *models.Session {
	t.Helper()
	session := &models.Session{
		ChildID:      childID,
		SpecialistID: specialistID,
		Date:         date,
		Time:         timeOfDay,
		Duration:     60,
		SessionType:  models.SessionOnline,
		Status:       status,
		IsVisible:    true,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func parentActor(u *models.User) Actor     { return Actor{UserID: u.ID, Role: RoleParent} }
func specialistActor(u *models.User) Actor { return Actor{UserID: u.ID, Role: RoleSpecialist} }
func managerActor(u *models.User) Actor    { return Actor{UserID: u.ID, Role: RoleManager} }

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected error kind %d, got %d (%v)", kind, got, err)
	}
}
