package models

import (
	"time"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusCompleted DonationStatus = "COMPLETED"
	DonationStatusFailed    DonationStatus = "FAILED"
	DonationStatusRefunded  DonationStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodWallet     PaymentMethod = "WALLET"
)

type PledgeType string

const (
	PledgeTypeOneTime PledgeType = "ONE_TIME"
	PledgeTypeMonthly PledgeType = "MONTHLY"
	PledgeTypeYearly  PledgeType = "YEARLY"
)

type Donation struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DonorID       uint           `gorm:"not null" json:"donor_id"`
	NGOID         uint           `gorm:"not null" json:"ngo_id"`
	Amount        float64        `gorm:"not null" json:"amount"`
	PledgeType    PledgeType     `gorm:"not null;default:'ONE_TIME'" json:"pledge_type"`
	PaymentMethod PaymentMethod  `gorm:"not null" json:"payment_method"`
	Status        DonationStatus `gorm:"not null;default:'PENDING'" json:"status"`
	TransactionID string         `json:"transaction_id"`
	DonorMessage  string         `json:"donor_message"`
	DonationDate  time.Time      `json:"donation_date"`

	Donor User `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
	NGO   NGO  `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet:
		return PaymentMethod(s), true
	}
	return "", false
}
