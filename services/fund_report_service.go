package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// FundReportService handles NGO fund-utilization reports.
type FundReportService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewFundReportService(db *gorm.DB, logger *zap.Logger) *FundReportService {
	return &FundReportService{DB: db, Log: logger}
}

type FundReportInput struct {
	Title          string  `json:"title" binding:"required"`
	Summary        string  `json:"summary"`
	AmountUtilized float64 `json:"amount_utilized" binding:"required"`
}

func (s *FundReportService) Submit(ngoID uint, input FundReportInput) (*models.FundReport, error) {
	if input.AmountUtilized <= 0 {
		return nil, validationf("amount utilized must be positive")
	}

	var ngo models.NGO
	if err := s.DB.First(&ngo, ngoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("ngo %d", ngoID)
		}
		return nil, err
	}
	if !ngo.IsVerified {
		return nil, invalidStatef("ngo %d is not verified", ngoID)
	}

	report := models.FundReport{
		NGOID:          ngoID,
		Title:          input.Title,
		Summary:        input.Summary,
		AmountUtilized: input.AmountUtilized,
		ReportedAt:     time.Now(),
	}
	if err := s.DB.Create(&report).Error; err != nil {
		return nil, err
	}

	s.Log.Info("fund report filed",
		zap.Uint("report_id", report.ID),
		zap.Uint("ngo_id", ngoID),
		zap.Float64("amount", report.AmountUtilized))

	return &report, nil
}

func (s *FundReportService) ByNGO(ngoID uint) ([]models.FundReport, error) {
	var reports []models.FundReport
	err := s.DB.Where("ngo_id = ?", ngoID).
		Order("reported_at DESC").
		Find(&reports).Error
	return reports, err
}

// Recent lists reports platform-wide for the admin reports screen.
func (s *FundReportService) Recent(limit int) ([]models.FundReport, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var reports []models.FundReport
	err := s.DB.Preload("NGO").
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
