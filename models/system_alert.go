package models

import (
	"time"
)

type AlertType string

const (
	AlertNGOPendingApproval AlertType = "NGO_PENDING_APPROVAL"
	AlertMissingFundReport  AlertType = "MISSING_FUND_REPORT"
	AlertSuspiciousActivity AlertType = "SUSPICIOUS_ACTIVITY"
	AlertHighDonationVolume AlertType = "HIGH_DONATION_VOLUME"
	AlertSystemError        AlertType = "SYSTEM_ERROR"
)

type AlertPriority string

const (
	PriorityLow      AlertPriority = "LOW"
	PriorityMedium   AlertPriority = "MEDIUM"
	PriorityHigh     AlertPriority = "HIGH"
	PriorityCritical AlertPriority = "CRITICAL"
)

type AlertEntityType string

const (
	EntityNGO         AlertEntityType = "NGO"
	EntityUser        AlertEntityType = "USER"
	EntityDonation    AlertEntityType = "DONATION"
	EntityApplication AlertEntityType = "APPLICATION"
	EntityOpportunity AlertEntityType = "OPPORTUNITY"
)

type SystemAlert struct {
	ID                uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	AlertType         AlertType        `gorm:"not null" json:"alert_type"`
	Priority          AlertPriority    `gorm:"not null;default:'MEDIUM'" json:"priority"`
	Title             string           `gorm:"not null" json:"title"`
	Message           string           `gorm:"type:text" json:"message"`
	RelatedEntityType *AlertEntityType `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uint            `json:"related_entity_id,omitempty"`
	IsResolved        bool             `gorm:"default:false" json:"is_resolved"`
	ResolvedByID      *uint            `json:"resolved_by_id,omitempty"`
	ResolvedAt        *time.Time       `json:"resolved_at,omitempty"`

	ResolvedBy *User `json:"resolved_by,omitempty" gorm:"foreignKey:ResolvedByID"`
}
