package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rahaf-dev/sanad_backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func seedParentUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FullName: "Test Parent",
		Email:    "parent@example.com",
		Password: "hashed",
		Role:     models.RoleParent,
		Status:   models.UserActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed parent: %v", err)
	}
	if err := db.Create(&models.Parent{UserID: user.ID}).Error; err != nil {
		t.Fatalf("seed parent profile: %v", err)
	}
	return user
}

func postAddChild(t *testing.T, app *fiber.App, payload string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/children", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestAddChildWithRegistration(t *testing.T) {
	app, db := testApp(t, 1, models.RoleParent)
	seedParentUser(t, db)
	institution := &models.Institution{Name: "Amal Center"}
	if err := db.Create(institution).Error; err != nil {
		t.Fatalf("seed institution: %v", err)
	}
	app.Post("/children", AddChild)

	body := postAddChild(t, app,
		`{"full_name": "Sami", "date_of_birth": "2018-03-05", "gender": "Male", "institution_id": 1}`)
	if body["registration_requested"] != true {
		t.Fatalf("registration_requested = %v, want true", body["registration_requested"])
	}
	if _, present := body["registration_error"]; present {
		t.Fatalf("unexpected registration_error: %v", body["registration_error"])
	}
}

func TestAddChildReportsRegistrationFailure(t *testing.T) {
	app, db := testApp(t, 1, models.RoleParent)
	seedParentUser(t, db)
	app.Post("/children", AddChild)

	// Institution 99 does not exist; the child is created, the follow-up
	// registration request fails, and the caller learns why.
	body := postAddChild(t, app,
		`{"full_name": "Sami", "date_of_birth": "2018-03-05", "gender": "Male", "institution_id": 99}`)
	if body["registration_requested"] != false {
		t.Fatalf("registration_requested = %v, want false", body["registration_requested"])
	}
	msg, _ := body["registration_error"].(string)
	if !strings.Contains(msg, "institution not found") {
		t.Fatalf("registration_error = %q, want the underlying failure", msg)
	}

	var count int64
	if err := db.Model(&models.Child{}).Count(&count).Error; err != nil {
		t.Fatalf("count children: %v", err)
	}
	if count != 1 {
		t.Fatalf("child count = %d, want the child kept", count)
	}
}
