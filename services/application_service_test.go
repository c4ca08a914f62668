package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func applicationInput() ApplicationInput {
	return ApplicationInput{
		FullName:   "Asha Patel",
		Email:      "asha@example.com",
		Motivation: "I want to teach on weekends.",
	}
}

func opportunityCount(t *testing.T, service *ApplicationService, opportunityID uint) int {
	t.Helper()
	var opportunity models.VolunteerOpportunity
	if err := service.DB.First(&opportunity, opportunityID).Error; err != nil {
		t.Fatalf("reload opportunity: %v", err)
	}
	return opportunity.VolunteersApplied
}

func TestApplicationSubmitClaimsSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	application, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if application.Status != models.ApplicationStatusPending {
		t.Fatalf("new application status = %s", application.Status)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 1 {
		t.Fatalf("volunteers_applied = %d, want 1", got)
	}
}

func TestApplicationSubmitDuplicateConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	if _, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput()); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate submit: want ErrConflict, got %v", err)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 1 {
		t.Fatalf("duplicate must not claim a slot: volunteers_applied = %d", got)
	}
}

func TestApplicationSubmitAtCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 2, 1)

	// one slot left: this submission takes it
	first := fixtures.User(models.UserTypeVolunteer)
	if _, err := service.Submit(first.ID, opportunity.ID, applicationInput()); err != nil {
		t.Fatalf("submit at one-below-capacity: %v", err)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 2 {
		t.Fatalf("volunteers_applied = %d, want 2", got)
	}

	second := fixtures.User(models.UserTypeVolunteer)
	if _, err := service.Submit(second.ID, opportunity.ID, applicationInput()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("submit when full: want ErrInvalidState, got %v", err)
	}
}

func TestApplicationResubmitAfterRejection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	first, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.UpdateStatus(first.ID, ngo.ID, models.ApplicationStatusRejected, "try again later"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	second, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if second.ID == first.ID || second.Status != models.ApplicationStatusPending {
		t.Fatalf("resubmission should be a fresh pending application: %+v", second)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 1 {
		t.Fatalf("volunteers_applied = %d, want 1", got)
	}
}

func TestApplicationRejectFromPendingReleasesSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	application, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusRejected, "not a fit")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != models.ApplicationStatusRejected || updated.StatusUpdatedDate == nil {
		t.Fatalf("rejected application: %+v", updated)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 0 {
		t.Fatalf("slot not released: volunteers_applied = %d", got)
	}
}

func TestApplicationRejectAfterApprovalKeepsSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	application, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusRejected, ""); err != nil {
		t.Fatalf("reject after approve: %v", err)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 1 {
		t.Fatalf("approved-then-rejected must keep the slot: volunteers_applied = %d", got)
	}
}

func TestApplicationCancelRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	pending, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	cancelled, err := service.Cancel(pending.ID, volunteer.ID)
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if cancelled.Status != models.ApplicationStatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 0 {
		t.Fatalf("pending cancel must release the slot: volunteers_applied = %d", got)
	}

	completed := fixtures.Application(volunteer.ID, fixtures.Opportunity(ngo.ID, 5, 1).ID, models.ApplicationStatusCompleted)
	if _, err := service.Cancel(completed.ID, volunteer.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel completed: want ErrInvalidState, got %v", err)
	}
}

func TestApplicationApprovedCancelKeepsSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	application, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := service.Cancel(application.ID, volunteer.ID); err != nil {
		t.Fatalf("cancel approved: %v", err)
	}
	if got := opportunityCount(t, service, opportunity.ID); got != 1 {
		t.Fatalf("approved cancel must keep the slot: volunteers_applied = %d", got)
	}
}

func TestApplicationCompletionRequiresApproval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewApplicationService(db, zap.NewNop())

	volunteer := fixtures.User(models.UserTypeVolunteer)
	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5, 0)

	application, err := service.Submit(volunteer.ID, opportunity.ID, applicationInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusCompleted, ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete pending: want ErrInvalidState, got %v", err)
	}

	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := service.UpdateStatus(application.ID, ngo.ID, models.ApplicationStatusCompleted, ""); err != nil {
		t.Fatalf("complete approved: %v", err)
	}
}
