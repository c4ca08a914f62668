package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// Fixtures creates seed rows for tests, failing the test on any error.
type Fixtures struct {
	T  *testing.T
	DB *gorm.DB

	seq int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{T: t, DB: db}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) create(record interface{}) {
	f.T.Helper()
	if err := f.DB.Create(record).Error; err != nil {
		f.T.Fatalf("create fixture %T: %v", record, err)
	}
}

func (f *Fixtures) User(userType models.UserType) *models.User {
	f.T.Helper()
	n := f.next()
	user := &models.User{
		FullName:      fmt.Sprintf("Test %s %d", userType, n),
		Email:         fmt.Sprintf("user%d@example.com", n),
		UserType:      userType,
		EmailVerified: true,
	}
	f.create(user)
	return user
}

func (f *Fixtures) Admin() *models.User {
	return f.User(models.UserTypeAdmin)
}

func (f *Fixtures) NGO(status models.NGOStatus) *models.NGO {
	f.T.Helper()
	n := f.next()
	ngo := &models.NGO{
		OrganizationName: fmt.Sprintf("Helping Hands %d", n),
		Description:      "Community outreach programs for underserved neighborhoods and schools.",
		Cause:            "Education",
		Location:         "Mumbai",
		Status:           status,
		IsVerified:       status == models.NGOStatusActive,
	}
	f.create(ngo)
	return ngo
}

func (f *Fixtures) Opportunity(ngoID uint, needed, applied int) *models.VolunteerOpportunity {
	f.T.Helper()
	n := f.next()
	opportunity := &models.VolunteerOpportunity{
		Title:             fmt.Sprintf("Weekend Teaching Drive %d", n),
		Description:       "Teach mathematics and reading to primary school children every Saturday morning.",
		NGOID:             ngoID,
		Cause:             "Education",
		Location:          "Mumbai",
		VolunteersNeeded:  needed,
		VolunteersApplied: applied,
		IsActive:          true,
		Status:            models.OpportunityStatusActive,
	}
	f.create(opportunity)
	return opportunity
}

func (f *Fixtures) Application(volunteerID, opportunityID uint, status models.ApplicationStatus) *models.VolunteerApplication {
	f.T.Helper()
	n := f.next()
	application := &models.VolunteerApplication{
		VolunteerID:   volunteerID,
		OpportunityID: opportunityID,
		FullName:      fmt.Sprintf("Volunteer %d", n),
		Email:         fmt.Sprintf("volunteer%d@example.com", n),
		Status:        status,
		AppliedDate:   time.Now(),
	}
	f.create(application)
	return application
}

func (f *Fixtures) Donation(donorID, ngoID uint, amount float64, status models.DonationStatus) *models.Donation {
	f.T.Helper()
	donation := &models.Donation{
		DonorID:       donorID,
		NGOID:         ngoID,
		Amount:        amount,
		PledgeType:    models.PledgeTypeOneTime,
		PaymentMethod: models.PaymentMethodCard,
		Status:        status,
		DonationDate:  time.Now(),
	}
	f.create(donation)
	return donation
}

func (f *Fixtures) VerificationRequest(ngoID uint, status models.VerificationStatus) *models.VerificationRequest {
	f.T.Helper()
	request := &models.VerificationRequest{
		NGOID:             ngoID,
		Status:            status,
		SubmittedDate:     time.Now(),
		DocumentsProvided: "registration certificate, audited accounts",
	}
	f.create(request)
	return request
}

func (f *Fixtures) Alert(alertType models.AlertType, priority models.AlertPriority, entityType models.AlertEntityType, entityID uint) *models.SystemAlert {
	f.T.Helper()
	alert := &models.SystemAlert{
		AlertType:         alertType,
		Priority:          priority,
		Title:             string(alertType),
		Message:           "fixture alert",
		RelatedEntityType: &entityType,
		RelatedEntityID:   &entityID,
	}
	f.create(alert)
	return alert
}
