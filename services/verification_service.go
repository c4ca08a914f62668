package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// VerificationService reviews NGO verification requests. This track is
// independent of the NGO status lifecycle: approving a request flips
// only the legacy is_verified boolean on the NGO, it does not move the
// status enum.
type VerificationService struct {
	DB     *gorm.DB
	Log    *zap.Logger
	Alerts *AlertService
}

func NewVerificationService(db *gorm.DB, logger *zap.Logger, alerts *AlertService) *VerificationService {
	return &VerificationService{DB: db, Log: logger, Alerts: alerts}
}

// Submit files a new verification request for an NGO and raises the
// NGO_PENDING_APPROVAL alert the admin dashboard feeds on.
func (s *VerificationService) Submit(ngoID uint, documentsProvided string) (*models.VerificationRequest, error) {
	var ngo models.NGO
	if err := s.DB.First(&ngo, ngoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("ngo %d", ngoID)
		}
		return nil, err
	}

	var open int64
	err := s.DB.Model(&models.VerificationRequest{}).
		Where("ngo_id = ? AND status IN ?", ngoID,
			[]models.VerificationStatus{models.VerificationStatusPending, models.VerificationStatusUnderReview}).
		Count(&open).Error
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, conflictf("ngo %d already has an open verification request", ngoID)
	}

	request := models.VerificationRequest{
		NGOID:             ngoID,
		Status:            models.VerificationStatusPending,
		SubmittedDate:     time.Now(),
		DocumentsProvided: documentsProvided,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	entityType := models.EntityNGO
	_, err = s.Alerts.Create(models.AlertNGOPendingApproval, models.PriorityHigh,
		"NGO verification pending",
		ngo.OrganizationName+" has applied for verification",
		&entityType, &ngo.ID)
	if err != nil {
		s.Log.Warn("failed to raise pending-approval alert", zap.Uint("ngo_id", ngoID), zap.Error(err))
	}

	return &request, nil
}

func (s *VerificationService) Approve(requestID, adminID uint, reviewerNotes string) (*models.VerificationRequest, error) {
	request, admin, err := s.loadForReview(requestID, adminID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.VerificationStatusApproved
	request.ReviewedDate = &now
	request.ReviewedByID = &admin.ID
	request.ReviewerNotes = reviewerNotes

	// Legacy boolean only; the NGO status enum is owned by NGOService.
	var ngo models.NGO
	if err := s.DB.First(&ngo, request.NGOID).Error; err != nil {
		return nil, err
	}
	ngo.IsVerified = true
	if err := s.DB.Save(&ngo).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Save(request).Error; err != nil {
		return nil, err
	}

	if err := s.Alerts.ResolveByEntity(models.AlertNGOPendingApproval, request.NGOID); err != nil {
		s.Log.Warn("failed to resolve pending-approval alerts", zap.Uint("ngo_id", request.NGOID), zap.Error(err))
	}

	s.Log.Info("verification request approved",
		zap.Uint("request_id", requestID),
		zap.Uint("ngo_id", request.NGOID),
		zap.Uint("admin_id", adminID))

	return request, nil
}

func (s *VerificationService) Reject(requestID, adminID uint, reviewerNotes string) (*models.VerificationRequest, error) {
	request, admin, err := s.loadForReview(requestID, adminID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.VerificationStatusRejected
	request.ReviewedDate = &now
	request.ReviewedByID = &admin.ID
	request.ReviewerNotes = reviewerNotes

	if err := s.DB.Save(request).Error; err != nil {
		return nil, err
	}

	if err := s.Alerts.ResolveByEntity(models.AlertNGOPendingApproval, request.NGOID); err != nil {
		s.Log.Warn("failed to resolve pending-approval alerts", zap.Uint("ngo_id", request.NGOID), zap.Error(err))
	}

	return request, nil
}

func (s *VerificationService) loadForReview(requestID, adminID uint) (*models.VerificationRequest, *models.User, error) {
	var request models.VerificationRequest
	if err := s.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundf("verification request %d", requestID)
		}
		return nil, nil, err
	}
	if request.Terminal() {
		return nil, nil, invalidStatef("verification request %d already %s", requestID, request.Status)
	}

	var admin models.User
	if err := s.DB.First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundf("admin user %d", adminID)
		}
		return nil, nil, err
	}
	return &request, &admin, nil
}

// Pending returns PENDING requests oldest-submission first, capped at
// limit, with the NGO preloaded for projection.
func (s *VerificationService) Pending(limit int) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	err := s.DB.Preload("NGO").
		Where("status = ?", models.VerificationStatusPending).
		Order("submitted_date ASC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}
