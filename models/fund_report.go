package models

import (
	"time"
)

// FundReport is an NGO-submitted utilization report for received funds.
type FundReport struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	NGOID          uint      `gorm:"not null" json:"ngo_id"`
	Title          string    `gorm:"not null" json:"title"`
	Summary        string    `gorm:"type:text" json:"summary"`
	AmountUtilized float64   `json:"amount_utilized"`
	ReportedAt     time.Time `json:"reported_at"`

	NGO NGO `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
}
