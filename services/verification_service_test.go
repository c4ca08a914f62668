package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func newVerificationService(t *testing.T) (*VerificationService, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	alerts := NewAlertService(db, zap.NewNop())
	return NewVerificationService(db, zap.NewNop(), alerts), testutil.NewFixtures(t, db)
}

func TestVerificationSubmitRaisesAlert(t *testing.T) {
	service, fixtures := newVerificationService(t)

	ngo := fixtures.NGO(models.NGOStatusPending)

	request, err := service.Submit(ngo.ID, "registration certificate")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != models.VerificationStatusPending {
		t.Fatalf("status = %s", request.Status)
	}

	var alerts []models.SystemAlert
	err = service.DB.Where("alert_type = ? AND is_resolved = ?", models.AlertNGOPendingApproval, false).
		Find(&alerts).Error
	if err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("want 1 pending-approval alert, got %d", len(alerts))
	}
	if alerts[0].RelatedEntityID == nil || *alerts[0].RelatedEntityID != ngo.ID {
		t.Fatal("alert not linked to the ngo")
	}

	if _, err := service.Submit(ngo.ID, "again"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second open request: want ErrConflict, got %v", err)
	}
}

func TestVerificationApproveFlipsOnlyLegacyFlag(t *testing.T) {
	service, fixtures := newVerificationService(t)

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)
	request := fixtures.VerificationRequest(ngo.ID, models.VerificationStatusPending)

	approved, err := service.Approve(request.ID, admin.ID, "documents in order")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.VerificationStatusApproved {
		t.Fatalf("status = %s", approved.Status)
	}
	if approved.ReviewedDate == nil || approved.ReviewedByID == nil || *approved.ReviewedByID != admin.ID {
		t.Fatal("reviewer stamp missing")
	}

	var reloaded models.NGO
	if err := service.DB.First(&reloaded, ngo.ID).Error; err != nil {
		t.Fatalf("reload ngo: %v", err)
	}
	if !reloaded.IsVerified {
		t.Fatal("legacy verified flag not set")
	}
	if reloaded.Status != models.NGOStatusPending {
		t.Fatalf("verification approval must not move the status enum: %s", reloaded.Status)
	}
}

func TestVerificationApproveResolvesMatchingAlerts(t *testing.T) {
	service, fixtures := newVerificationService(t)

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)
	other := fixtures.NGO(models.NGOStatusPending)
	request := fixtures.VerificationRequest(ngo.ID, models.VerificationStatusPending)

	// two alerts for this ngo, one for another: only the former resolve
	fixtures.Alert(models.AlertNGOPendingApproval, models.PriorityHigh, models.EntityNGO, ngo.ID)
	fixtures.Alert(models.AlertNGOPendingApproval, models.PriorityHigh, models.EntityNGO, ngo.ID)
	fixtures.Alert(models.AlertNGOPendingApproval, models.PriorityHigh, models.EntityNGO, other.ID)

	if _, err := service.Approve(request.ID, admin.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var unresolved []models.SystemAlert
	err := service.DB.Where("alert_type = ? AND is_resolved = ?", models.AlertNGOPendingApproval, false).
		Find(&unresolved).Error
	if err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	if len(unresolved) != 1 {
		t.Fatalf("want 1 unresolved alert, got %d", len(unresolved))
	}
	if *unresolved[0].RelatedEntityID != other.ID {
		t.Fatal("wrong alert left unresolved")
	}
}

func TestVerificationTerminalRequestsRejectReview(t *testing.T) {
	service, fixtures := newVerificationService(t)

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)
	request := fixtures.VerificationRequest(ngo.ID, models.VerificationStatusApproved)

	if _, err := service.Approve(request.ID, admin.ID, ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("re-approve terminal request: want ErrInvalidState, got %v", err)
	}
	if _, err := service.Reject(request.ID, admin.ID, ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reject terminal request: want ErrInvalidState, got %v", err)
	}
	if _, err := service.Approve(9999, admin.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("approve missing request: want ErrNotFound, got %v", err)
	}
}

func TestVerificationRejectLeavesNGOUnverified(t *testing.T) {
	service, fixtures := newVerificationService(t)

	admin := fixtures.Admin()
	ngo := fixtures.NGO(models.NGOStatusPending)
	request := fixtures.VerificationRequest(ngo.ID, models.VerificationStatusPending)

	rejected, err := service.Reject(request.ID, admin.ID, "incomplete documents")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.VerificationStatusRejected || rejected.ReviewerNotes != "incomplete documents" {
		t.Fatalf("rejected request: %+v", rejected)
	}

	var reloaded models.NGO
	if err := service.DB.First(&reloaded, ngo.ID).Error; err != nil {
		t.Fatalf("reload ngo: %v", err)
	}
	if reloaded.IsVerified {
		t.Fatal("rejection must not verify the ngo")
	}
}
