package models

import (
	"time"
)

type UserType string

const (
	UserTypeDonor     UserType = "DONOR"
	UserTypeVolunteer UserType = "VOLUNTEER"
	UserTypeNGO       UserType = "NGO"
	UserTypeAdmin     UserType = "ADMIN"
)

type User struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	FullName         string     `gorm:"not null" json:"full_name"`
	Email            string     `gorm:"unique;not null" json:"email"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	Password         *string    `gorm:"column:password" json:"-"` // nil for Google-only accounts
	UserType         UserType   `gorm:"not null;default:'DONOR'" json:"user_type"`
	OrganizationName string     `json:"organization_name"` // set for NGO accounts
	EmailVerified    bool       `gorm:"default:false" json:"email_verified"`
	IsBlocked        bool       `gorm:"default:false" json:"is_blocked"`
	BlockReason      *string    `json:"block_reason,omitempty"`
	BlockedBy        *uint      `json:"blocked_by,omitempty"`
	BlockedAt        *time.Time `json:"blocked_at,omitempty"`
	TotalDonations   float64    `gorm:"default:0" json:"total_donations"`

	Donations     []Donation             `json:"donations,omitempty" gorm:"foreignKey:DonorID"`
	Applications  []VolunteerApplication `json:"applications,omitempty" gorm:"foreignKey:VolunteerID"`
	RefreshTokens []RefreshToken         `json:"-" gorm:"foreignKey:UserID"`
}

// Status derives the management-facing account state from the block and
// verification flags.
func (u *User) Status() string {
	if u.IsBlocked {
		return "BLOCKED"
	}
	if u.EmailVerified {
		return "ACTIVE"
	}
	return "UNVERIFIED"
}
