package services

import (
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// DonationService records donations against verified NGOs and keeps the
// donor's cached lifetime total in step.
type DonationService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDonationService(db *gorm.DB, logger *zap.Logger) *DonationService {
	return &DonationService{DB: db, Log: logger}
}

type DonationInput struct {
	NGOID         uint    `json:"ngo_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PledgeType    string  `json:"pledge_type"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	DonorMessage  string  `json:"donor_message"`
}

// defaultStatus lets deployments without a payment gateway mark new
// donations COMPLETED directly instead of leaving them PENDING.
func defaultStatus() models.DonationStatus {
	if s := os.Getenv("DONATION_DEFAULT_STATUS"); s != "" {
		switch models.DonationStatus(s) {
		case models.DonationStatusPending, models.DonationStatusCompleted:
			return models.DonationStatus(s)
		}
	}
	return models.DonationStatusPending
}

func (s *DonationService) Create(donorID uint, input DonationInput) (*models.Donation, error) {
	if input.Amount <= 0 {
		return nil, validationf("amount must be positive")
	}
	method, ok := models.ParsePaymentMethod(input.PaymentMethod)
	if !ok {
		return nil, validationf("unknown payment method %q", input.PaymentMethod)
	}
	pledge := models.PledgeTypeOneTime
	switch models.PledgeType(input.PledgeType) {
	case models.PledgeTypeMonthly, models.PledgeTypeYearly:
		pledge = models.PledgeType(input.PledgeType)
	}

	var donation *models.Donation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var donor models.User
		if err := tx.First(&donor, donorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("user %d", donorID)
			}
			return err
		}
		if donor.IsBlocked {
			return invalidStatef("user %d is blocked", donorID)
		}

		var ngo models.NGO
		if err := tx.First(&ngo, input.NGOID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("ngo %d", input.NGOID)
			}
			return err
		}
		if !ngo.IsVerified {
			return invalidStatef("ngo %d is not verified", input.NGOID)
		}

		donation = &models.Donation{
			DonorID:       donorID,
			NGOID:         input.NGOID,
			Amount:        input.Amount,
			PledgeType:    pledge,
			PaymentMethod: method,
			Status:        defaultStatus(),
			TransactionID: "TXN-" + uuid.New().String(),
			DonorMessage:  input.DonorMessage,
			DonationDate:  time.Now(),
		}
		if err := tx.Create(donation).Error; err != nil {
			return err
		}

		if donation.Status == models.DonationStatusCompleted {
			return tx.Model(&models.User{}).
				Where("id = ?", donorID).
				Update("total_donations", gorm.Expr("total_donations + ?", donation.Amount)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("donation recorded",
		zap.Uint("donation_id", donation.ID),
		zap.Uint("donor_id", donorID),
		zap.Uint("ngo_id", input.NGOID),
		zap.Float64("amount", donation.Amount),
		zap.String("status", string(donation.Status)))

	return donation, nil
}

// Complete marks a PENDING donation paid and credits the donor's
// lifetime total.
func (s *DonationService) Complete(donationID uint) (*models.Donation, error) {
	var donation models.Donation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&donation, donationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("donation %d", donationID)
			}
			return err
		}
		if donation.Status != models.DonationStatusPending {
			return invalidStatef("donation %d is %s, not pending", donationID, donation.Status)
		}

		donation.Status = models.DonationStatusCompleted
		if err := tx.Save(&donation).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", donation.DonorID).
			Update("total_donations", gorm.Expr("total_donations + ?", donation.Amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// Fail marks a PENDING donation failed. The donor total was never
// credited, so nothing is reversed.
func (s *DonationService) Fail(donationID uint) (*models.Donation, error) {
	var donation models.Donation
	if err := s.DB.First(&donation, donationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("donation %d", donationID)
		}
		return nil, err
	}
	if donation.Status != models.DonationStatusPending {
		return nil, invalidStatef("donation %d is %s, not pending", donationID, donation.Status)
	}
	donation.Status = models.DonationStatusFailed
	if err := s.DB.Save(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (s *DonationService) GetByID(donationID uint) (*models.Donation, error) {
	var donation models.Donation
	err := s.DB.Preload("NGO").Preload("Donor").First(&donation, donationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("donation %d", donationID)
		}
		return nil, err
	}
	return &donation, nil
}

func (s *DonationService) ByDonor(donorID uint) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.DB.Preload("NGO").
		Where("donor_id = ?", donorID).
		Order("donation_date DESC").
		Find(&donations).Error
	return donations, err
}

func (s *DonationService) ByNGO(ngoID uint) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.DB.Preload("Donor").
		Where("ngo_id = ?", ngoID).
		Order("donation_date DESC").
		Find(&donations).Error
	return donations, err
}

// NGODonationRow aggregates completed donation volume for one NGO.
type NGODonationRow struct {
	NGOID            uint    `json:"ngo_id"`
	OrganizationName string  `json:"organization_name"`
	Cause            string  `json:"cause"`
	TotalAmount      float64 `json:"total_amount"`
	DonationCount    int64   `json:"donation_count"`
}

// ReportByNGO sums completed donations per NGO, largest first.
func (s *DonationService) ReportByNGO() ([]NGODonationRow, error) {
	var rows []NGODonationRow
	err := s.DB.Model(&models.Donation{}).
		Select("donations.ngo_id, ngos.organization_name, ngos.cause, " +
			"COALESCE(SUM(donations.amount), 0) AS total_amount, COUNT(donations.id) AS donation_count").
		Joins("JOIN ngos ON ngos.id = donations.ngo_id").
		Where("donations.status = ?", models.DonationStatusCompleted).
		Group("donations.ngo_id, ngos.organization_name, ngos.cause").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

// CauseDonationRow aggregates completed donation volume per cause.
type CauseDonationRow struct {
	Cause         string  `json:"cause"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}

func (s *DonationService) ReportByCause() ([]CauseDonationRow, error) {
	var rows []CauseDonationRow
	err := s.DB.Model(&models.Donation{}).
		Select("ngos.cause, COALESCE(SUM(donations.amount), 0) AS total_amount, COUNT(donations.id) AS donation_count").
		Joins("JOIN ngos ON ngos.id = donations.ngo_id").
		Where("donations.status = ?", models.DonationStatusCompleted).
		Group("ngos.cause").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}
