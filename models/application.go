package models

import (
	"time"

	"github.com/lib/pq"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusApproved  ApplicationStatus = "APPROVED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusCancelled ApplicationStatus = "CANCELLED"
	ApplicationStatusCompleted ApplicationStatus = "COMPLETED"
)

type VolunteerApplication struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	VolunteerID       uint              `gorm:"not null;index:idx_volunteer_opportunity" json:"volunteer_id"`
	OpportunityID     uint              `gorm:"not null;index:idx_volunteer_opportunity" json:"opportunity_id"`
	FullName          string            `gorm:"not null" json:"full_name"`
	Email             string            `gorm:"not null" json:"email"`
	Phone             string            `json:"phone"`
	Address           string            `json:"address"`
	Experience        string            `gorm:"type:text" json:"experience"`
	Motivation        string            `gorm:"type:text" json:"motivation"`
	Availability      string            `json:"availability"`
	Skills            pq.StringArray    `gorm:"type:text[]" json:"skills"`
	EmergencyContact  string            `json:"emergency_contact"`
	EmergencyPhone    string            `json:"emergency_phone"`
	AdditionalInfo    string            `gorm:"type:text" json:"additional_info"`
	Status            ApplicationStatus `gorm:"not null;default:'PENDING'" json:"status"`
	AppliedDate       time.Time         `json:"applied_date"`
	StatusUpdatedDate *time.Time        `json:"status_updated_date,omitempty"`
	ReviewerNotes     string            `json:"reviewer_notes"`
	HoursCompleted    int               `gorm:"default:0" json:"hours_completed"`
	Feedback          string            `json:"feedback"`
	Rating            *int              `json:"rating,omitempty"`

	Volunteer   User                 `json:"volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	Opportunity VolunteerOpportunity `json:"opportunity,omitempty" gorm:"foreignKey:OpportunityID"`
}
