package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// OpportunityService handles the volunteer-opportunity moderation
// pipeline and the public listing queries.
type OpportunityService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewOpportunityService(db *gorm.DB, logger *zap.Logger) *OpportunityService {
	return &OpportunityService{DB: db, Log: logger}
}

type OpportunityInput struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description" binding:"required"`
	Cause            string     `json:"cause" binding:"required"`
	Location         string     `json:"location" binding:"required"`
	TimeCommitment   string     `json:"time_commitment"`
	WorkType         string     `json:"work_type"`
	Requirements     []string   `json:"requirements"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	VolunteersNeeded int        `json:"volunteers_needed" binding:"required,min=1"`
	Urgency          string     `json:"urgency"`
	ImageURL         string     `json:"image_url"`
}

// OpportunityFilter narrows the public listing. Zero values mean "any".
type OpportunityFilter struct {
	Cause          string
	Location       string
	TimeCommitment string
	WorkType       string
	Urgency        string
	Search         string
}

// Create registers a new opportunity for a verified NGO. It enters the
// moderation queue as PENDING_APPROVAL and is invisible to volunteers
// until an admin approves it.
func (s *OpportunityService) Create(ngoID uint, input OpportunityInput) (*models.VolunteerOpportunity, error) {
	var ngo models.NGO
	if err := s.DB.First(&ngo, ngoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("ngo %d", ngoID)
		}
		return nil, err
	}
	if !ngo.IsVerified {
		return nil, invalidStatef("ngo %d is not verified", ngoID)
	}

	urgency := models.UrgencyMedium
	switch models.UrgencyLevel(input.Urgency) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyCritical:
		urgency = models.UrgencyLevel(input.Urgency)
	}

	opportunity := models.VolunteerOpportunity{
		Title:            input.Title,
		Description:      input.Description,
		NGOID:            ngoID,
		Cause:            input.Cause,
		Location:         input.Location,
		TimeCommitment:   input.TimeCommitment,
		WorkType:         input.WorkType,
		Requirements:     input.Requirements,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		VolunteersNeeded: input.VolunteersNeeded,
		Urgency:          urgency,
		ImageURL:         input.ImageURL,
		IsActive:         true,
		Status:           models.OpportunityStatusPendingApproval,
	}
	if err := s.DB.Create(&opportunity).Error; err != nil {
		return nil, err
	}

	s.Log.Info("opportunity created",
		zap.Uint("opportunity_id", opportunity.ID),
		zap.Uint("ngo_id", ngoID))

	return &opportunity, nil
}

// Approve moves a pending opportunity into the public listing.
func (s *OpportunityService) Approve(opportunityID, adminID uint) (*models.VolunteerOpportunity, error) {
	return s.moderate(opportunityID, adminID, models.OpportunityStatusActive)
}

func (s *OpportunityService) Reject(opportunityID, adminID uint) (*models.VolunteerOpportunity, error) {
	return s.moderate(opportunityID, adminID, models.OpportunityStatusRejected)
}

func (s *OpportunityService) moderate(opportunityID, adminID uint, decision models.OpportunityStatus) (*models.VolunteerOpportunity, error) {
	var opportunity models.VolunteerOpportunity
	if err := s.DB.First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("opportunity %d", opportunityID)
		}
		return nil, err
	}
	if opportunity.Status != models.OpportunityStatusPendingApproval {
		return nil, invalidStatef("opportunity %d is %s, not pending approval", opportunityID, opportunity.Status)
	}

	opportunity.Status = decision
	if err := s.DB.Save(&opportunity).Error; err != nil {
		return nil, err
	}

	s.Log.Info("opportunity moderated",
		zap.Uint("opportunity_id", opportunityID),
		zap.Uint("admin_id", adminID),
		zap.String("decision", string(decision)))

	return &opportunity, nil
}

// SetActive toggles the NGO-facing visibility switch. It is separate
// from moderation: a deactivated opportunity stays ACTIVE status-wise
// and can be switched back on without re-approval.
func (s *OpportunityService) SetActive(opportunityID, ngoID uint, active bool) (*models.VolunteerOpportunity, error) {
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

	opportunity.IsActive = active
	if err := s.DB.Save(&opportunity).Error; err != nil {
		return nil, err
	}
	return &opportunity, nil
}

func (s *OpportunityService) GetByID(opportunityID uint) (*models.VolunteerOpportunity, error) {
	var opportunity models.VolunteerOpportunity
	err := s.DB.Preload("NGO").First(&opportunity, opportunityID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("opportunity %d", opportunityID)
		}
		return nil, err
	}
	return &opportunity, nil
}

// ListActive returns the public listing: approved, visible, filtered.
func (s *OpportunityService) ListActive(filter OpportunityFilter, page, pageSize int) ([]models.VolunteerOpportunity, int64, error) {
	query := s.DB.Model(&models.VolunteerOpportunity{}).
		Where("status = ? AND is_active = ?", models.OpportunityStatusActive, true)

	if filter.Cause != "" {
		query = query.Where("cause = ?", filter.Cause)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.TimeCommitment != "" {
		query = query.Where("time_commitment = ?", filter.TimeCommitment)
	}
	if filter.WorkType != "" {
		query = query.Where("work_type = ?", filter.WorkType)
	}
	if filter.Urgency != "" {
		query = query.Where("urgency = ?", filter.Urgency)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var opportunities []models.VolunteerOpportunity
	err := query.Preload("NGO").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&opportunities).Error
	return opportunities, total, err
}

// Available returns active opportunities that still have open slots.
func (s *OpportunityService) Available(page, pageSize int) ([]models.VolunteerOpportunity, int64, error) {
	query := s.DB.Model(&models.VolunteerOpportunity{}).
		Where("status = ? AND is_active = ? AND volunteers_applied < volunteers_needed",
			models.OpportunityStatusActive, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var opportunities []models.VolunteerOpportunity
	err := query.Preload("NGO").
		Order("urgency DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&opportunities).Error
	return opportunities, total, err
}

// PendingList is the admin moderation queue, oldest first.
func (s *OpportunityService) PendingList() ([]models.VolunteerOpportunity, error) {
	var opportunities []models.VolunteerOpportunity
	err := s.DB.Preload("NGO").
		Where("status = ?", models.OpportunityStatusPendingApproval).
		Order("created_at ASC").
		Find(&opportunities).Error
	return opportunities, err
}

func (s *OpportunityService) ListByNGO(ngoID uint) ([]models.VolunteerOpportunity, error) {
	var opportunities []models.VolunteerOpportunity
	err := s.DB.Where("ngo_id = ?", ngoID).
		Order("created_at DESC").
		Find(&opportunities).Error
	return opportunities, err
}

// FilterOptions returns the distinct values volunteers can filter the
// public listing by.
type FilterOptions struct {
	Causes          []string `json:"causes"`
	Locations       []string `json:"locations"`
	TimeCommitments []string `json:"time_commitments"`
	WorkTypes       []string `json:"work_types"`
}

func (s *OpportunityService) FilterOptions() (*FilterOptions, error) {
	options := FilterOptions{}
	base := func() *gorm.DB {
		return s.DB.Model(&models.VolunteerOpportunity{}).
			Where("status = ? AND is_active = ?", models.OpportunityStatusActive, true)
	}
	if err := base().Distinct().Order("cause").Pluck("cause", &options.Causes).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct().Order("location").Pluck("location", &options.Locations).Error; err != nil {
		return nil, err
	}
	if err := base().Where("time_commitment <> ''").Distinct().Order("time_commitment").Pluck("time_commitment", &options.TimeCommitments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("work_type <> ''").Distinct().Order("work_type").Pluck("work_type", &options.WorkTypes).Error; err != nil {
		return nil, err
	}
	return &options, nil
}

// ParticipationRow summarizes volunteer uptake for one opportunity.
type ParticipationRow struct {
	OpportunityID     uint   `json:"opportunity_id"`
	Title             string `json:"title"`
	NGOName           string `json:"ngo_name"`
	VolunteersNeeded  int    `json:"volunteers_needed"`
	VolunteersApplied int    `json:"volunteers_applied"`
	Approved          int64  `json:"approved"`
	Completed         int64  `json:"completed"`
}

// ParticipationReport aggregates application outcomes per active
// opportunity for the admin reports screen.
func (s *OpportunityService) ParticipationReport() ([]ParticipationRow, error) {
	var opportunities []models.VolunteerOpportunity
	err := s.DB.Preload("NGO").
		Where("status = ?", models.OpportunityStatusActive).
		Order("created_at DESC").
		Find(&opportunities).Error
	if err != nil {
		return nil, err
	}

	rows := make([]ParticipationRow, 0, len(opportunities))
	for _, opportunity := range opportunities {
		var approved, completed int64
		err := s.DB.Model(&models.VolunteerApplication{}).
			Where("opportunity_id = ? AND status = ?", opportunity.ID, models.ApplicationStatusApproved).
			Count(&approved).Error
		if err != nil {
			return nil, err
		}
		err = s.DB.Model(&models.VolunteerApplication{}).
			Where("opportunity_id = ? AND status = ?", opportunity.ID, models.ApplicationStatusCompleted).
			Count(&completed).Error
		if err != nil {
			return nil, err
		}
		rows = append(rows, ParticipationRow{
			OpportunityID:     opportunity.ID,
			Title:             opportunity.Title,
			NGOName:           opportunity.NGO.OrganizationName,
			VolunteersNeeded:  opportunity.VolunteersNeeded,
			VolunteersApplied: opportunity.VolunteersApplied,
			Approved:          approved,
			Completed:         completed,
		})
	}
	return rows, nil
}
