package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// ApplicationService runs the volunteer application workflow. Capacity
// accounting is asymmetric on purpose: submitting always takes a slot,
// but a slot is only returned when a PENDING application is rejected or
// cancelled. Approved volunteers who later cancel keep the slot spent.
type ApplicationService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewApplicationService(db *gorm.DB, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{DB: db, Log: logger}
}

type ApplicationInput struct {
	FullName         string   `json:"full_name" binding:"required"`
	Email            string   `json:"email" binding:"required,email"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	Experience       string   `json:"experience"`
	Motivation       string   `json:"motivation"`
	Availability     string   `json:"availability"`
	Skills           []string `json:"skills"`
	EmergencyContact string   `json:"emergency_contact"`
	EmergencyPhone   string   `json:"emergency_phone"`
	AdditionalInfo   string   `json:"additional_info"`
}

// Submit files an application and claims a capacity slot in the same
// transaction. The guarded UPDATE keeps two concurrent submissions from
// both taking the last slot.
func (s *ApplicationService) Submit(volunteerID, opportunityID uint, input ApplicationInput) (*models.VolunteerApplication, error) {
	var application *models.VolunteerApplication

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var volunteer models.User
		if err := tx.First(&volunteer, volunteerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("user %d", volunteerID)
			}
			return err
		}
		if volunteer.IsBlocked {
			return invalidStatef("user %d is blocked", volunteerID)
		}

		var opportunity models.VolunteerOpportunity
		if err := tx.First(&opportunity, opportunityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("opportunity %d", opportunityID)
			}
			return err
		}
		if opportunity.Status != models.OpportunityStatusActive || !opportunity.IsActive {
			return invalidStatef("opportunity %d is not open for applications", opportunityID)
		}

		var existing int64
		err := tx.Model(&models.VolunteerApplication{}).
			Where("volunteer_id = ? AND opportunity_id = ? AND status NOT IN ?",
				volunteerID, opportunityID,
				[]models.ApplicationStatus{models.ApplicationStatusRejected, models.ApplicationStatusCancelled}).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return conflictf("volunteer %d already applied to opportunity %d", volunteerID, opportunityID)
		}

		claimed := tx.Model(&models.VolunteerOpportunity{}).
			Where("id = ? AND volunteers_applied < volunteers_needed", opportunityID).
			Update("volunteers_applied", gorm.Expr("volunteers_applied + 1"))
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return invalidStatef("opportunity %d is fully booked", opportunityID)
		}

		application = &models.VolunteerApplication{
			VolunteerID:      volunteerID,
			OpportunityID:    opportunityID,
			FullName:         input.FullName,
			Email:            input.Email,
			Phone:            input.Phone,
			Address:          input.Address,
			Experience:       input.Experience,
			Motivation:       input.Motivation,
			Availability:     input.Availability,
			Skills:           input.Skills,
			EmergencyContact: input.EmergencyContact,
			EmergencyPhone:   input.EmergencyPhone,
			AdditionalInfo:   input.AdditionalInfo,
			Status:           models.ApplicationStatusPending,
			AppliedDate:      time.Now(),
		}
		return tx.Create(application).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("application submitted",
		zap.Uint("application_id", application.ID),
		zap.Uint("volunteer_id", volunteerID),
		zap.Uint("opportunity_id", opportunityID))

	return application, nil
}

// UpdateStatus is the NGO-side review: approve, reject, or mark a
// completed engagement. Rejecting a PENDING application frees its slot.
func (s *ApplicationService) UpdateStatus(applicationID, ngoID uint, status models.ApplicationStatus, reviewerNotes string) (*models.VolunteerApplication, error) {
	switch status {
	case models.ApplicationStatusApproved, models.ApplicationStatusRejected, models.ApplicationStatusCompleted:
	default:
		return nil, validationf("status %s is not a reviewer decision", status)
	}

	var application models.VolunteerApplication
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Opportunity").First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("application %d", applicationID)
			}
			return err
		}
		if application.Opportunity.NGOID != ngoID {
			return notFoundf("application %d for ngo %d", applicationID, ngoID)
		}

		previous := application.Status
		switch {
		case previous == status:
			return invalidStatef("application %d is already %s", applicationID, status)
		case previous == models.ApplicationStatusCancelled:
			return invalidStatef("application %d was cancelled", applicationID)
		case status == models.ApplicationStatusCompleted && previous != models.ApplicationStatusApproved:
			return invalidStatef("application %d must be approved before completion", applicationID)
		}

		now := time.Now()
		application.Status = status
		application.StatusUpdatedDate = &now
		if reviewerNotes != "" {
			application.ReviewerNotes = reviewerNotes
		}
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if previous == models.ApplicationStatusPending && status == models.ApplicationStatusRejected {
			return releaseSlot(tx, application.OpportunityID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("application status updated",
		zap.Uint("application_id", applicationID),
		zap.String("status", string(status)))

	return &application, nil
}

// Cancel withdraws the volunteer's own application. A COMPLETED
// engagement is a historical record and cannot be cancelled. The slot
// comes back only if the application was still PENDING.
func (s *ApplicationService) Cancel(applicationID, volunteerID uint) (*models.VolunteerApplication, error) {
	var application models.VolunteerApplication
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("application %d", applicationID)
			}
			return err
		}
		if application.VolunteerID != volunteerID {
			return notFoundf("application %d for volunteer %d", applicationID, volunteerID)
		}

		switch application.Status {
		case models.ApplicationStatusCompleted:
			return invalidStatef("application %d is completed and cannot be cancelled", applicationID)
		case models.ApplicationStatusCancelled:
			return invalidStatef("application %d is already cancelled", applicationID)
		}

		wasPending := application.Status == models.ApplicationStatusPending
		now := time.Now()
		application.Status = models.ApplicationStatusCancelled
		application.StatusUpdatedDate = &now
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if wasPending {
			return releaseSlot(tx, application.OpportunityID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// releaseSlot returns one capacity slot, floored at zero so repair
// scripts or manual edits can never drive the counter negative.
func releaseSlot(tx *gorm.DB, opportunityID uint) error {
	return tx.Model(&models.VolunteerOpportunity{}).
		Where("id = ? AND volunteers_applied > 0", opportunityID).
		Update("volunteers_applied", gorm.Expr("volunteers_applied - 1")).Error
}

func (s *ApplicationService) GetByID(applicationID uint) (*models.VolunteerApplication, error) {
	var application models.VolunteerApplication
	err := s.DB.Preload("Opportunity").Preload("Opportunity.NGO").Preload("Volunteer").
		First(&application, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("application %d", applicationID)
		}
		return nil, err
	}
	return &application, nil
}

// ByVolunteer lists a volunteer's application history, newest first.
func (s *ApplicationService) ByVolunteer(volunteerID uint) ([]models.VolunteerApplication, error) {
	var applications []models.VolunteerApplication
	err := s.DB.Preload("Opportunity").Preload("Opportunity.NGO").
		Where("volunteer_id = ?", volunteerID).
		Order("applied_date DESC").
		Find(&applications).Error
	return applications, err
}

// ByOpportunity lists applications for one opportunity, gated to the
// owning NGO.
func (s *ApplicationService) ByOpportunity(opportunityID, ngoID uint) ([]models.VolunteerApplication, error) {
	var opportunity models.VolunteerOpportunity
	if err := s.DB.First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("opportunity %d", opportunityID)
		}
		return nil, err
	}
	if opportunity.NGOID != ngoID {
		return nil, notFoundf("opportunity %d for ngo %d", opportunityID, ngoID)
	}

	var applications []models.VolunteerApplication
	err := s.DB.Preload("Volunteer").
		Where("opportunity_id = ?", opportunityID).
		Order("applied_date ASC").
		Find(&applications).Error
	return applications, err
}

// ByNGO lists applications across all of an NGO's opportunities,
// optionally narrowed to one status.
func (s *ApplicationService) ByNGO(ngoID uint, status models.ApplicationStatus) ([]models.VolunteerApplication, error) {
	query := s.DB.Preload("Opportunity").Preload("Volunteer").
		Joins("JOIN volunteer_opportunities ON volunteer_opportunities.id = volunteer_applications.opportunity_id").
		Where("volunteer_opportunities.ngo_id = ?", ngoID)
	if status != "" {
		query = query.Where("volunteer_applications.status = ?", status)
	}

	var applications []models.VolunteerApplication
	err := query.Order("volunteer_applications.applied_date DESC").Find(&applications).Error
	return applications, err
}

// RecordHours stores completed hours and feedback on a COMPLETED
// engagement.
func (s *ApplicationService) RecordHours(applicationID, ngoID uint, hours int, feedback string, rating *int) (*models.VolunteerApplication, error) {
	if hours < 0 {
		return nil, validationf("hours must not be negative")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, validationf("rating must be between 1 and 5")
	}

	var application models.VolunteerApplication
	if err := s.DB.Preload("Opportunity").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("application %d", applicationID)
		}
		return nil, err
	}
	if application.Opportunity.NGOID != ngoID {
		return nil, notFoundf("application %d for ngo %d", applicationID, ngoID)
	}
	if application.Status != models.ApplicationStatusCompleted {
		return nil, invalidStatef("application %d is not completed", applicationID)
	}

	application.HoursCompleted = hours
	application.Feedback = feedback
	application.Rating = rating
	if err := s.DB.Save(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}
