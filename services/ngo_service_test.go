package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func TestNGOLifecycleMirrorsVerifiedFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)

	approved, err := service.Approve(ngo.ID, admin.ID, "checks passed")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.NGOStatusActive || !approved.IsVerified {
		t.Fatalf("after approve: status=%s verified=%v", approved.Status, approved.IsVerified)
	}

	suspended, err := service.Suspend(ngo.ID, admin.ID, "complaint received")
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if suspended.Status != models.NGOStatusSuspended || suspended.IsVerified {
		t.Fatalf("after suspend: status=%s verified=%v", suspended.Status, suspended.IsVerified)
	}
	if suspended.SuspensionReason == nil || *suspended.SuspensionReason != "complaint received" {
		t.Fatal("suspension reason not recorded")
	}
	if suspended.SuspendedBy == nil || *suspended.SuspendedBy != admin.ID {
		t.Fatal("suspending admin not recorded")
	}
}

func TestNGOReactivateClearsSuspensionMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusActive)

	if _, err := service.Suspend(ngo.ID, admin.ID, "under review"); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	reactivated, err := service.Reactivate(ngo.ID, admin.ID, "cleared")
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if reactivated.Status != models.NGOStatusActive || !reactivated.IsVerified {
		t.Fatalf("after reactivate: status=%s verified=%v", reactivated.Status, reactivated.IsVerified)
	}
	if reactivated.SuspensionReason != nil || reactivated.SuspendedBy != nil || reactivated.SuspendedAt != nil {
		t.Fatal("suspension metadata not cleared")
	}
}

func TestNGOTransitionRecordsAuditTrail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)

	if _, err := service.Reject(ngo.ID, admin.ID, "documents incomplete"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	actions, err := service.ActionHistory(ngo.ID)
	if err != nil {
		t.Fatalf("action history: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("want 1 audit record, got %d", len(actions))
	}
	entry := actions[0]
	if entry.Action != "REJECT" || entry.ActorID != admin.ID {
		t.Fatalf("unexpected audit record: %+v", entry)
	}
	if entry.PreviousStatus != string(models.NGOStatusPending) || entry.NewStatus != string(models.NGOStatusRejected) {
		t.Fatalf("status movement not recorded: %s -> %s", entry.PreviousStatus, entry.NewStatus)
	}
}

func TestNGOUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusActive)
	originalName := ngo.OrganizationName

	website := "https://helpinghands.example.org"
	updated, err := service.UpdateProfile(ngo.ID, admin.ID, NGOProfileUpdate{Website: &website}, "")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Website != website {
		t.Fatalf("website not updated: %q", updated.Website)
	}
	if updated.OrganizationName != originalName {
		t.Fatal("untouched field was modified")
	}
	if updated.Status != models.NGOStatusActive || !updated.IsVerified {
		t.Fatal("profile update must not move the lifecycle state")
	}
}

func TestNGOOperationsOnMissingNGO(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	admin := fixtures.Admin()

	if _, err := service.Approve(9999, admin.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("approve missing ngo: want ErrNotFound, got %v", err)
	}
	if _, err := service.GetByID(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing ngo: want ErrNotFound, got %v", err)
	}
}

func TestNGOListForManagementFiltersByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewNGOService(db, zap.NewNop())

	fixtures.NGO(models.NGOStatusPending)
	fixtures.NGO(models.NGOStatusPending)
	fixtures.NGO(models.NGOStatusActive)

	pending, total, err := service.ListForManagement(string(models.NGOStatusPending), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(pending) != 2 {
		t.Fatalf("want 2 pending, got total=%d len=%d", total, len(pending))
	}

	all, total, err := service.ListForManagement("", 0, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("want 3 total, got total=%d len=%d", total, len(all))
	}
}
