package models

import (
	"time"
)

type ManagementTarget string

const (
	ManagementTargetNGO  ManagementTarget = "NGO"
	ManagementTargetUser ManagementTarget = "USER"
)

// ManagementAction is the audit trail for administrative actions on
// NGOs and users: who did what, and the status movement it caused.
type ManagementAction struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	TargetType     ManagementTarget `gorm:"not null;index:idx_mgmt_target" json:"target_type"`
	TargetID       uint             `gorm:"not null;index:idx_mgmt_target" json:"target_id"`
	ActorID        uint             `gorm:"not null" json:"actor_id"`
	Action         string           `gorm:"not null" json:"action"` // APPROVE, REJECT, SUSPEND, BLOCK, ...
	Notes          string           `gorm:"type:text" json:"notes"`
	PreviousStatus string           `json:"previous_status"`
	NewStatus      string           `json:"new_status"`

	Actor User `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}
