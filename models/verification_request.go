package models

import (
	"time"
)

type VerificationStatus string

const (
	VerificationStatusPending     VerificationStatus = "PENDING"
	VerificationStatusUnderReview VerificationStatus = "UNDER_REVIEW"
	VerificationStatusApproved    VerificationStatus = "APPROVED"
	VerificationStatusRejected    VerificationStatus = "REJECTED"
)

// VerificationRequest tracks an NGO's application for verified status.
// It is a separate review track from NGO.Status: an NGO can be approved
// directly by an admin without one of these ever existing.
type VerificationRequest struct {
	ID                uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	NGOID             uint               `gorm:"not null" json:"ngo_id"`
	Status            VerificationStatus `gorm:"not null;default:'PENDING'" json:"status"`
	SubmittedDate     time.Time          `json:"submitted_date"`
	ReviewedDate      *time.Time         `json:"reviewed_date,omitempty"`
	ReviewedByID      *uint              `json:"reviewed_by_id,omitempty"`
	ReviewerNotes     string             `json:"reviewer_notes"`
	DocumentsProvided string             `gorm:"type:text" json:"documents_provided"`
	VerificationScore int                `gorm:"default:0" json:"verification_score"`

	NGO        NGO   `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
	ReviewedBy *User `json:"reviewed_by,omitempty" gorm:"foreignKey:ReviewedByID"`
}

// Terminal reports whether the request has reached a final decision.
func (r *VerificationRequest) Terminal() bool {
	return r.Status == VerificationStatusApproved || r.Status == VerificationStatusRejected
}
