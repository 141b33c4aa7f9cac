package workflow

import (
	"testing"

	"github.com/rahaf-dev/sanad_backend/models"
)

func validVacation() VacationInput {
	return VacationInput{
		StartDate: "2025-07-10",
		EndDate:   "2025-07-20",
		Reason:    "annual leave",
	}
}

func TestVacationCreate(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	specialist := seedSpecialist(t, db, &institution.ID)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if vacation.Status != models.VacationPending {
		t.Fatalf("status = %s, want %s", vacation.Status, models.VacationPending)
	}
	if vacation.InstitutionID == nil || *vacation.InstitutionID != institution.ID {
		t.Fatal("institution should be copied from the specialist profile")
	}
}

func TestVacationCreateValidation(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)
	actor := specialistActor(specialist)

	tests := []struct {
		name   string
		mutate func(*VacationInput)
		kind   Kind
	}{
		{"missing start", func(in *VacationInput) { in.StartDate = "" }, KindValidation},
		{"missing end", func(in *VacationInput) { in.EndDate = "" }, KindValidation},
		{"malformed start", func(in *VacationInput) { in.StartDate = "10-07-2025" }, KindValidation},
		{"start in the past", func(in *VacationInput) { in.StartDate = "2025-05-01" }, KindPastDate},
		{"start after end", func(in *VacationInput) { in.StartDate = "2025-07-25" }, KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validVacation()
			tc.mutate(&in)
			_, err := svc.Create(actor, in)
			wantKind(t, err, tc.kind)
		})
	}
}

func TestVacationCreateSessionOverlap(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)
	seedSession(t, db, specialist.ID, child.ID, "2025-07-15", "10:00", models.SessionScheduled)

	_, err := svc.Create(specialistActor(specialist), validVacation())
	wantKind(t, err, KindConflict)
}

func TestVacationEditWhilePending(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Edit(specialistActor(specialist), vacation.ID, VacationInput{
		StartDate: "2025-08-01",
		EndDate:   "2025-08-05",
		Reason:    "moved dates",
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if updated.StartDate != "2025-08-01" || updated.EndDate != "2025-08-05" {
		t.Fatalf("range not updated: %s..%s", updated.StartDate, updated.EndDate)
	}
	if updated.Status != models.VacationPending {
		t.Fatalf("editing must not change status, got %s", updated.Status)
	}
}

func TestVacationEditRechecksSessions(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	seedSession(t, db, specialist.ID, child.ID, "2025-08-03", "10:00", models.SessionConfirmed)

	_, err = svc.Edit(specialistActor(specialist), vacation.ID, VacationInput{
		StartDate: "2025-08-01",
		EndDate:   "2025-08-05",
	})
	wantKind(t, err, KindConflict)
}

func TestVacationDecisionIsTerminal(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	specialist := seedSpecialist(t, db, &institution.ID)
	manager := seedUser(t, db, models.RoleManager, &institution.ID)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	approved, err := svc.Decide(managerActor(manager), vacation.ID, true)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if approved.Status != models.VacationApproved {
		t.Fatalf("status = %s, want %s", approved.Status, models.VacationApproved)
	}

	// No re-deciding, editing or withdrawing once decided.
	_, err = svc.Decide(managerActor(manager), vacation.ID, false)
	wantKind(t, err, KindInvalidState)
	_, err = svc.Edit(specialistActor(specialist), vacation.ID, validVacation())
	wantKind(t, err, KindInvalidState)
	err = svc.Withdraw(specialistActor(specialist), vacation.ID)
	wantKind(t, err, KindInvalidState)
}

func TestVacationWithdrawWhilePending(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Withdraw(specialistActor(specialist), vacation.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	var count int64
	if err := db.Model(&models.VacationRequest{}).Where("id = ?", vacation.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("withdrawn request should be gone")
	}
}

func TestVacationDecideScopedToInstitution(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	other := seedInstitution(t, db, "Noor Center")
	specialist := seedSpecialist(t, db, &institution.ID)
	foreignManager := seedUser(t, db, models.RoleManager, &other.ID)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = svc.Decide(managerActor(foreignManager), vacation.ID, true)
	wantKind(t, err, KindNotFound)
}

func TestVacationRejected(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	specialist := seedSpecialist(t, db, &institution.ID)
	manager := seedUser(t, db, models.RoleManager, &institution.ID)

	vacation, err := svc.Create(specialistActor(specialist), validVacation())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rejected, err := svc.Decide(managerActor(manager), vacation.ID, false)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rejected.Status != models.VacationRejected {
		t.Fatalf("status = %s, want %s", rejected.Status, models.VacationRejected)
	}
}

func TestUnavailableDates(t *testing.T) {
	db := testDB(t)
	svc := newVacationService(t, db)
	specialist := seedSpecialist(t, db, nil)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)
	seedSession(t, db, specialist.ID, child.ID, "2025-07-10", "10:00", models.SessionScheduled)
	seedSession(t, db, specialist.ID, child.ID, "2025-07-12", "10:00", models.SessionCancelled)

	result, err := svc.UnavailableDates(specialist.ID)
	if err != nil {
		t.Fatalf("UnavailableDates: %v", err)
	}
	if len(result.UnavailableDates) != 1 || result.UnavailableDates[0] != "2025-07-10" {
		t.Fatalf("unavailable dates = %v", result.UnavailableDates)
	}
	if result.Today != "2025-06-01" {
		t.Fatalf("today = %s, want 2025-06-01", result.Today)
	}
}
