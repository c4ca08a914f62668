package models

import (
	"time"

	"github.com/lib/pq"
)

type NGOStatus string

const (
	NGOStatusPending     NGOStatus = "PENDING"
	NGOStatusActive      NGOStatus = "ACTIVE"
	NGOStatusRejected    NGOStatus = "REJECTED"
	NGOStatusSuspended   NGOStatus = "SUSPENDED"
	NGOStatusDeactivated NGOStatus = "DEACTIVATED"
)

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "LOW"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyCritical UrgencyLevel = "CRITICAL"
)

type NGO struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	OrganizationName    string         `gorm:"not null" json:"organization_name"`
	Description         string         `gorm:"type:text;not null" json:"description"`
	Cause               string         `gorm:"not null" json:"cause"` // primary cause, kept alongside Causes for older clients
	Causes              pq.StringArray `gorm:"type:text[]" json:"causes"`
	Location            string         `gorm:"not null" json:"location"`
	Address             string         `json:"address"`
	Website             string         `json:"website"`
	Phone               string         `json:"phone"`
	Email               string         `json:"email"`
	RegistrationNumber  string         `json:"registration_number"`
	PointOfContactName  string         `json:"point_of_contact_name"`
	PointOfContactPhone string         `json:"point_of_contact_phone"`
	FacebookURL         string         `json:"facebook_url"`
	InstagramURL        string         `json:"instagram_url"`
	LinkedinURL         string         `json:"linkedin_url"`
	FoundedYear         *int           `json:"founded_year,omitempty"`
	ImageURL            string         `json:"image_url"`
	TotalDonations      float64        `gorm:"default:0" json:"total_donations"`
	Rating              float64        `gorm:"default:0" json:"rating"`
	Status              NGOStatus      `gorm:"not null;default:'PENDING'" json:"status"`
	IsVerified          bool           `gorm:"default:false" json:"is_verified"` // legacy mirror of Status == ACTIVE
	SuspensionReason    *string        `json:"suspension_reason,omitempty"`
	SuspendedBy         *uint          `json:"suspended_by,omitempty"`
	SuspendedAt         *time.Time     `json:"suspended_at,omitempty"`
	VerifiedBy          *uint          `json:"verified_by,omitempty"`
	VerifiedAt          *time.Time     `json:"verified_at,omitempty"`

	Donations     []Donation             `json:"donations,omitempty" gorm:"foreignKey:NGOID"`
	Opportunities []VolunteerOpportunity `json:"opportunities,omitempty" gorm:"foreignKey:NGOID"`
}

func (NGO) TableName() string {
	return "ngos"
}
