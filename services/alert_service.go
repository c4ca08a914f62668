package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

type AlertService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAlertService(db *gorm.DB, logger *zap.Logger) *AlertService {
	return &AlertService{DB: db, Log: logger}
}

func (s *AlertService) Create(alertType models.AlertType, priority models.AlertPriority,
	title, message string, entityType *models.AlertEntityType, entityID *uint) (*models.SystemAlert, error) {

	alert := models.SystemAlert{
		AlertType:         alertType,
		Priority:          priority,
		Title:             title,
		Message:           message,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
	}
	if err := s.DB.Create(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (s *AlertService) Resolve(alertID, adminID uint) (*models.SystemAlert, error) {
	var alert models.SystemAlert
	if err := s.DB.First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("alert %d", alertID)
		}
		return nil, err
	}

	var admin models.User
	if err := s.DB.First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("admin user %d", adminID)
		}
		return nil, err
	}

	now := time.Now()
	alert.IsResolved = true
	alert.ResolvedAt = &now
	alert.ResolvedByID = &admin.ID
	if err := s.DB.Save(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// ResolveByEntity resolves every unresolved alert of the given type
// that references the given entity id. All matches are resolved, not
// just the newest.
func (s *AlertService) ResolveByEntity(alertType models.AlertType, entityID uint) error {
	var alerts []models.SystemAlert
	err := s.DB.Where("alert_type = ? AND is_resolved = ?", alertType, false).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range alerts {
		if alerts[i].RelatedEntityID == nil || *alerts[i].RelatedEntityID != entityID {
			continue
		}
		alerts[i].IsResolved = true
		alerts[i].ResolvedAt = &now
		if err := s.DB.Save(&alerts[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns alerts filtered by any combination of resolved flag,
// priority and type. Nil filters are ignored.
func (s *AlertService) List(resolved *bool, priority models.AlertPriority, alertType models.AlertType) ([]models.SystemAlert, error) {
	query := s.DB.Model(&models.SystemAlert{})
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if alertType != "" {
		query = query.Where("alert_type = ?", alertType)
	}

	var alerts []models.SystemAlert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// HighPriorityUnresolved returns unresolved HIGH and CRITICAL alerts,
// CRITICAL first, oldest first within a priority, capped at limit.
func (s *AlertService) HighPriorityUnresolved(limit int) ([]models.SystemAlert, error) {
	var alerts []models.SystemAlert
	err := s.DB.Where("is_resolved = ? AND priority IN ?", false,
		[]models.AlertPriority{models.PriorityHigh, models.PriorityCritical}).
		Order("CASE priority WHEN 'CRITICAL' THEN 0 ELSE 1 END, created_at ASC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
