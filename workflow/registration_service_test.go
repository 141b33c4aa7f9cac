package workflow

import (
	"testing"
	"time"

	"github.com/rahaf-dev/sanad_backend/models"
)

func TestRegistrationCreate(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	request, err := svc.Create(parentActor(parent), child.ID, institution.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Status != models.RegistrationPending {
		t.Fatalf("request status = %s, want %s", request.Status, models.RegistrationPending)
	}

	var reloaded models.Child
	if err := db.First(&reloaded, child.ID).Error; err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if reloaded.RegistrationStatus != models.RegistrationPending {
		t.Fatalf("child status = %s, want %s", reloaded.RegistrationStatus, models.RegistrationPending)
	}
}

func TestRegistrationSinglePendingPerChild(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	first := seedInstitution(t, db, "Amal Center")
	second := seedInstitution(t, db, "Noor Center")
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	if _, err := svc.Create(parentActor(parent), child.ID, first.ID); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.Create(parentActor(parent), child.ID, second.ID)
	wantKind(t, err, KindConflict)
}

func TestRegistrationCreateGuards(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	owner := seedParent(t, db)
	other := seedParent(t, db)
	child := seedChild(t, db, owner.ID)

	_, err := svc.Create(parentActor(other), child.ID, institution.ID)
	wantKind(t, err, KindNotFound)

	_, err = svc.Create(parentActor(owner), child.ID, 999)
	wantKind(t, err, KindNotFound)

	_, err = svc.Create(parentActor(owner), 0, institution.ID)
	wantKind(t, err, KindValidation)
}

func TestRegistrationApproved(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	manager := seedUser(t, db, models.RoleManager, &institution.ID)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	request, err := svc.Create(parentActor(parent), child.ID, institution.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	decided, err := svc.Decide(managerActor(manager), request.ID, true, "welcome")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.RegistrationApproved {
		t.Fatalf("request status = %s, want %s", decided.Status, models.RegistrationApproved)
	}
	if decided.ReviewedAt == nil {
		t.Fatal("review timestamp not recorded")
	}
	if decided.AssignedManagerID == nil || *decided.AssignedManagerID != manager.ID {
		t.Fatal("deciding manager not recorded")
	}
	if decided.Notes == nil || *decided.Notes != "welcome" {
		t.Fatal("notes not recorded")
	}

	var reloaded models.Child
	if err := db.First(&reloaded, child.ID).Error; err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if reloaded.RegistrationStatus != models.RegistrationApproved {
		t.Fatalf("child status = %s, want %s", reloaded.RegistrationStatus, models.RegistrationApproved)
	}
	if reloaded.CurrentInstitutionID == nil || *reloaded.CurrentInstitutionID != institution.ID {
		t.Fatal("child not linked to the institution")
	}
}

func TestRegistrationRejected(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	manager := seedUser(t, db, models.RoleManager, &institution.ID)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	request, err := svc.Create(parentActor(parent), child.ID, institution.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	decided, err := svc.Decide(managerActor(manager), request.ID, false, "no capacity")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.RegistrationRejected {
		t.Fatalf("request status = %s, want %s", decided.Status, models.RegistrationRejected)
	}

	var reloaded models.Child
	if err := db.First(&reloaded, child.ID).Error; err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if reloaded.RegistrationStatus != models.RegistrationRejected {
		t.Fatalf("child status = %s, want %s", reloaded.RegistrationStatus, models.RegistrationRejected)
	}
	if reloaded.CurrentInstitutionID != nil {
		t.Fatal("rejected child must not be linked to an institution")
	}

	// A rejected child may apply again.
	if _, err := svc.Create(parentActor(parent), child.ID, institution.ID); err != nil {
		t.Fatalf("re-apply after rejection: %v", err)
	}
}

func TestRegistrationDecideGuards(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	institution := seedInstitution(t, db, "Amal Center")
	other := seedInstitution(t, db, "Noor Center")
	manager := seedUser(t, db, models.RoleManager, &institution.ID)
	foreignManager := seedUser(t, db, models.RoleManager, &other.ID)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	request, err := svc.Create(parentActor(parent), child.ID, institution.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Decide(managerActor(foreignManager), request.ID, true, "")
	wantKind(t, err, KindAuthorization)

	if _, err := svc.Decide(managerActor(manager), request.ID, true, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	_, err = svc.Decide(managerActor(manager), request.ID, false, "")
	wantKind(t, err, KindInvalidState)
}

func TestRegistrationStatusHistory(t *testing.T) {
	db := testDB(t)
	svc := newRegistrationService(t, db)
	first := seedInstitution(t, db, "Amal Center")
	second := seedInstitution(t, db, "Noor Center")
	manager := seedUser(t, db, models.RoleManager, &first.ID)
	parent := seedParent(t, db)
	child := seedChild(t, db, parent.ID)

	reqSvc := newRegistrationService(t, db)
	early := testNow.AddDate(0, 0, -10)
	reqSvc.now = func() time.Time { return early }

	rejected, err := reqSvc.Create(parentActor(parent), child.ID, first.ID)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := reqSvc.Decide(managerActor(manager), rejected.ID, false, ""); err != nil {
		t.Fatalf("reject first request: %v", err)
	}
	if _, err := svc.Create(parentActor(parent), child.ID, second.ID); err != nil {
		t.Fatalf("second request: %v", err)
	}

	status, err := svc.Status(parentActor(parent), child.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.RegistrationStatus != models.RegistrationPending {
		t.Fatalf("registration status = %s, want %s", status.RegistrationStatus, models.RegistrationPending)
	}
	if len(status.Requests) != 2 {
		t.Fatalf("got %d history entries, want 2", len(status.Requests))
	}
	// Newest first.
	if status.Requests[0].InstitutionName != "Noor Center" {
		t.Fatalf("first entry = %s, want the newest request", status.Requests[0].InstitutionName)
	}
	if status.Requests[1].Status != models.RegistrationRejected {
		t.Fatalf("second entry status = %s, want %s", status.Requests[1].Status, models.RegistrationRejected)
	}
}
