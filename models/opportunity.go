package models

import (
	"time"

	"github.com/lib/pq"
)

type OpportunityStatus string

const (
	OpportunityStatusPendingApproval OpportunityStatus = "PENDING_APPROVAL"
	OpportunityStatusActive          OpportunityStatus = "ACTIVE"
	OpportunityStatusRejected        OpportunityStatus = "REJECTED"
)

type VolunteerOpportunity struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Title             string            `gorm:"not null" json:"title"`
	Description       string            `gorm:"type:text;not null" json:"description"`
	NGOID             uint              `gorm:"not null" json:"ngo_id"`
	Cause             string            `gorm:"not null" json:"cause"`
	Location          string            `gorm:"not null" json:"location"`
	TimeCommitment    string            `json:"time_commitment"` // e.g. "weekends", "full-time"
	WorkType          string            `json:"work_type"`       // e.g. "on-site", "remote"
	Requirements      pq.StringArray    `gorm:"type:text[]" json:"requirements"`
	StartDate         *time.Time        `json:"start_date,omitempty"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	VolunteersNeeded  int               `gorm:"not null" json:"volunteers_needed"`
	VolunteersApplied int               `gorm:"default:0" json:"volunteers_applied"`
	Urgency           UrgencyLevel      `gorm:"not null;default:'MEDIUM'" json:"urgency"`
	ImageURL          string            `json:"image_url"`
	IsActive          bool              `gorm:"default:true" json:"is_active"` // visibility toggle, independent of Status
	Status            OpportunityStatus `gorm:"not null;default:'PENDING_APPROVAL'" json:"status"`

	NGO          NGO                    `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
	Applications []VolunteerApplication `json:"applications,omitempty" gorm:"foreignKey:OpportunityID"`
}

func (VolunteerOpportunity) TableName() string {
	return "volunteer_opportunities"
}
