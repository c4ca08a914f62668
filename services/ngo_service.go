package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// NGOService owns the NGO status lifecycle. All status writes go
// through setStatus so the legacy is_verified mirror stays consistent.
// There is deliberately no transition guard: admins may move an NGO
// between any two statuses.
type NGOService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewNGOService(db *gorm.DB, logger *zap.Logger) *NGOService {
	return &NGOService{DB: db, Log: logger}
}

// NGOProfileUpdate carries the admin-editable profile fields. Nil
// pointers leave the current value untouched.
type NGOProfileUpdate struct {
	OrganizationName *string `json:"organization_name"`
	Description      *string `json:"description"`
	Website          *string `json:"website"`
	Phone            *string `json:"phone"`
	Location         *string `json:"location"`
}

func (s *NGOService) Approve(ngoID, adminID uint, notes string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "APPROVE", notes, func(ngo *models.NGO) {
		setStatus(ngo, string(models.NGOStatusActive))
		ngo.VerifiedBy = &adminID
		now := time.Now()
		ngo.VerifiedAt = &now
	})
}

func (s *NGOService) Reject(ngoID, adminID uint, reason string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "REJECT", reason, func(ngo *models.NGO) {
		setStatus(ngo, string(models.NGOStatusRejected))
	})
}

func (s *NGOService) Suspend(ngoID, adminID uint, reason string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "SUSPEND", reason, func(ngo *models.NGO) {
		setStatus(ngo, string(models.NGOStatusSuspended))
		ngo.SuspensionReason = &reason
		ngo.SuspendedBy = &adminID
		now := time.Now()
		ngo.SuspendedAt = &now
	})
}

func (s *NGOService) Deactivate(ngoID, adminID uint, reason string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "DEACTIVATE", reason, func(ngo *models.NGO) {
		setStatus(ngo, string(models.NGOStatusDeactivated))
	})
}

// Reactivate restores a suspended or deactivated NGO. It force-sets the
// legacy verified flag and clears suspension metadata.
func (s *NGOService) Reactivate(ngoID, adminID uint, notes string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "REACTIVATE", notes, func(ngo *models.NGO) {
		setStatus(ngo, string(models.NGOStatusActive))
		ngo.IsVerified = true
		ngo.SuspensionReason = nil
		ngo.SuspendedBy = nil
		ngo.SuspendedAt = nil
	})
}

func (s *NGOService) UpdateProfile(ngoID, adminID uint, update NGOProfileUpdate, notes string) (*models.NGO, error) {
	return s.transition(ngoID, adminID, "PROFILE_UPDATE", notes, func(ngo *models.NGO) {
		if update.OrganizationName != nil {
			ngo.OrganizationName = *update.OrganizationName
		}
		if update.Description != nil {
			ngo.Description = *update.Description
		}
		if update.Website != nil {
			ngo.Website = *update.Website
		}
		if update.Phone != nil {
			ngo.Phone = *update.Phone
		}
		if update.Location != nil {
			ngo.Location = *update.Location
		}
	})
}

// transition loads the NGO, applies mutate, persists the result and
// records a management action carrying the status movement.
func (s *NGOService) transition(ngoID, adminID uint, action, notes string, mutate func(*models.NGO)) (*models.NGO, error) {
	var ngo models.NGO
	if err := s.DB.First(&ngo, ngoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("ngo %d", ngoID)
		}
		return nil, err
	}

	previousStatus := string(ngo.Status)
	mutate(&ngo)

	if err := s.DB.Save(&ngo).Error; err != nil {
		return nil, err
	}

	s.recordAction(ngoID, adminID, action, notes, previousStatus, string(ngo.Status))

	s.Log.Info("ngo status transition",
		zap.Uint("ngo_id", ngoID),
		zap.Uint("admin_id", adminID),
		zap.String("action", action),
		zap.String("previous_status", previousStatus),
		zap.String("new_status", string(ngo.Status)))

	return &ngo, nil
}

// setStatus is the single write path for NGO.Status. Unknown status
// strings fall back to PENDING, and the legacy is_verified boolean is
// mirrored from the enum.
func setStatus(ngo *models.NGO, status string) {
	switch models.NGOStatus(status) {
	case models.NGOStatusPending, models.NGOStatusActive, models.NGOStatusRejected,
		models.NGOStatusSuspended, models.NGOStatusDeactivated:
		ngo.Status = models.NGOStatus(status)
	default:
		ngo.Status = models.NGOStatusPending
	}
	ngo.IsVerified = ngo.Status == models.NGOStatusActive
}

func (s *NGOService) recordAction(ngoID, adminID uint, action, notes, previousStatus, newStatus string) {
	entry := models.ManagementAction{
		TargetType:     models.ManagementTargetNGO,
		TargetID:       ngoID,
		ActorID:        adminID,
		Action:         action,
		Notes:          notes,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		s.Log.Warn("failed to record ngo management action", zap.Error(err))
	}
}

func (s *NGOService) GetByID(ngoID uint) (*models.NGO, error) {
	var ngo models.NGO
	if err := s.DB.First(&ngo, ngoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("ngo %d", ngoID)
		}
		return nil, err
	}
	return &ngo, nil
}

// ListForManagement returns NGOs for the admin console, newest first,
// optionally filtered by status.
func (s *NGOService) ListForManagement(status string, page, size int) ([]models.NGO, int64, error) {
	query := s.DB.Model(&models.NGO{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ngos []models.NGO
	err := query.Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&ngos).Error
	if err != nil {
		return nil, 0, err
	}
	return ngos, total, nil
}

// ActionHistory returns the management audit trail for one NGO, newest
// first.
func (s *NGOService) ActionHistory(ngoID uint) ([]models.ManagementAction, error) {
	var actions []models.ManagementAction
	err := s.DB.Where("target_type = ? AND target_id = ?", models.ManagementTargetNGO, ngoID).
		Order("created_at DESC").
		Find(&actions).Error
	return actions, err
}
