package models

import (
	"time"
)

type RefreshToken struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	Token          string    `gorm:"unique;not null" json:"token"`
	ExpirationDate time.Time `gorm:"not null" json:"expiration_date"`
}
