package models

import (
	"time"
)

// PlatformStatistics is the daily aggregate snapshot row. One row per
// calendar date; the current date's row is overwritten on each refresh,
// past dates are left alone.
type PlatformStatistics struct {
	ID                           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
	StatDate                     time.Time `gorm:"type:date;uniqueIndex;not null" json:"stat_date"`
	TotalNgosRegistered          int       `gorm:"default:0" json:"total_ngos_registered"`
	TotalNgosVerified            int       `gorm:"default:0" json:"total_ngos_verified"`
	TotalNgosPending             int       `gorm:"default:0" json:"total_ngos_pending"`
	TotalUsersRegistered         int       `gorm:"default:0" json:"total_users_registered"`
	TotalUsersActive             int       `gorm:"default:0" json:"total_users_active"`
	TotalUsersBlocked            int       `gorm:"default:0" json:"total_users_blocked"`
	TotalDonors                  int       `gorm:"default:0" json:"total_donors"`
	TotalVolunteers              int       `gorm:"default:0" json:"total_volunteers"`
	TotalDonationsAmount         float64   `gorm:"default:0" json:"total_donations_amount"`
	TotalDonationsCount          int       `gorm:"default:0" json:"total_donations_count"`
	ActiveVolunteerOpportunities int       `gorm:"default:0" json:"active_volunteer_opportunities"`
	PendingVerifications         int       `gorm:"default:0" json:"pending_verifications"`
	MissingFundReports           int       `gorm:"default:0" json:"missing_fund_reports"`
	SuspiciousActivities         int       `gorm:"default:0" json:"suspicious_activities"`
}

func (PlatformStatistics) TableName() string {
	return "platform_statistics"
}
