package services

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// AnomalyService runs the batch heuristics that surface suspicious
// donation concentration and fake-looking opportunities for admin
// review. Scans are read-mostly; they report, raising alerts as a side
// channel, and never mutate the scanned records.
type AnomalyService struct {
	DB     *gorm.DB
	Log    *zap.Logger
	Alerts *AlertService
}

func NewAnomalyService(db *gorm.DB, logger *zap.Logger, alerts *AlertService) *AnomalyService {
	return &AnomalyService{DB: db, Log: logger, Alerts: alerts}
}

const (
	PatternLargeAmount   = "LARGE_AMOUNT"
	PatternHighFrequency = "HIGH_FREQUENCY"

	ReasonUnrealisticVolunteerCount = "UNREALISTIC_VOLUNTEER_COUNT"
	ReasonDuplicateOpportunities    = "DUPLICATE_OPPORTUNITIES"
	ReasonVagueDescription          = "VAGUE_DESCRIPTION"
)

// SuspiciousDonor is one flagged donor from the donation scan.
type SuspiciousDonor struct {
	DonorID       uint    `json:"donor_id"`
	DonorName     string  `json:"donor_name"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
	Pattern       string  `json:"pattern"`
}

// FlagSuspiciousDonationPatterns flags donors whose total giving
// exceeds ten times the platform-wide mean donation, or who have made
// more than a hundred donations. When both hold, LARGE_AMOUNT wins.
func (s *AnomalyService) FlagSuspiciousDonationPatterns() ([]SuspiciousDonor, error) {
	var mean float64
	err := s.DB.Model(&models.Donation{}).
		Select("COALESCE(AVG(amount), 0)").
		Scan(&mean).Error
	if err != nil {
		return nil, err
	}

	type donorAggregate struct {
		DonorID       uint
		FullName      string
		TotalAmount   float64
		DonationCount int64
	}
	var aggregates []donorAggregate
	err = s.DB.Model(&models.Donation{}).
		Select("donations.donor_id, users.full_name, SUM(donations.amount) AS total_amount, COUNT(donations.id) AS donation_count").
		Joins("JOIN users ON users.id = donations.donor_id").
		Group("donations.donor_id, users.full_name").
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}

	flagged := []SuspiciousDonor{}
	for _, aggregate := range aggregates {
		var pattern string
		switch {
		case aggregate.TotalAmount > 10*mean:
			pattern = PatternLargeAmount
		case aggregate.DonationCount > 100:
			pattern = PatternHighFrequency
		default:
			continue
		}
		flagged = append(flagged, SuspiciousDonor{
			DonorID:       aggregate.DonorID,
			DonorName:     aggregate.FullName,
			TotalAmount:   aggregate.TotalAmount,
			DonationCount: aggregate.DonationCount,
			Pattern:       pattern,
		})
	}

	for _, donor := range flagged {
		s.raiseSuspicion(models.EntityUser, donor.DonorID,
			"Suspicious donation pattern",
			donor.DonorName+" flagged: "+donor.Pattern)
	}

	s.Log.Info("donation pattern scan finished",
		zap.Int("flagged", len(flagged)),
		zap.Float64("mean_donation", mean))

	return flagged, nil
}

// SuspiciousOpportunity is one flagged opportunity from the listing
// scan. An opportunity can carry several reasons at once.
type SuspiciousOpportunity struct {
	OpportunityID uint     `json:"opportunity_id"`
	Title         string   `json:"title"`
	NGOName       string   `json:"ngo_name"`
	Reasons       []string `json:"reasons"`
}

// DetectSuspiciousOpportunities flags opportunities asking for more
// than a thousand volunteers, near-duplicate titles spammed by the same
// NGO, and descriptions too short to say anything.
func (s *AnomalyService) DetectSuspiciousOpportunities() ([]SuspiciousOpportunity, error) {
	var opportunities []models.VolunteerOpportunity
	if err := s.DB.Preload("NGO").Find(&opportunities).Error; err != nil {
		return nil, err
	}

	byNGO := map[uint][]models.VolunteerOpportunity{}
	for _, opportunity := range opportunities {
		byNGO[opportunity.NGOID] = append(byNGO[opportunity.NGOID], opportunity)
	}

	flagged := []SuspiciousOpportunity{}
	for _, opportunity := range opportunities {
		var reasons []string

		if opportunity.VolunteersNeeded > 1000 {
			reasons = append(reasons, ReasonUnrealisticVolunteerCount)
		}
		if countSimilarTitles(opportunity, byNGO[opportunity.NGOID]) > 5 {
			reasons = append(reasons, ReasonDuplicateOpportunities)
		}
		if len(opportunity.Description) < 50 {
			reasons = append(reasons, ReasonVagueDescription)
		}

		if len(reasons) == 0 {
			continue
		}
		flagged = append(flagged, SuspiciousOpportunity{
			OpportunityID: opportunity.ID,
			Title:         opportunity.Title,
			NGOName:       opportunity.NGO.OrganizationName,
			Reasons:       reasons,
		})
	}

	for _, opportunity := range flagged {
		s.raiseSuspicion(models.EntityOpportunity, opportunity.OpportunityID,
			"Suspicious opportunity",
			opportunity.Title+" flagged: "+strings.Join(opportunity.Reasons, ", "))
	}

	s.Log.Info("opportunity scan finished", zap.Int("flagged", len(flagged)))
	return flagged, nil
}

// countSimilarTitles counts the OTHER opportunities from the same NGO
// whose title contains this title's leading characters. A plain
// case-insensitive substring check, the prefix capped at ten
// characters.
func countSimilarTitles(opportunity models.VolunteerOpportunity, siblings []models.VolunteerOpportunity) int {
	runes := []rune(opportunity.Title)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	prefix := strings.ToLower(string(runes))

	similar := 0
	for _, sibling := range siblings {
		if sibling.ID == opportunity.ID {
			continue
		}
		if strings.Contains(strings.ToLower(sibling.Title), prefix) {
			similar++
		}
	}
	return similar
}

// raiseSuspicion files a SUSPICIOUS_ACTIVITY alert unless an unresolved
// one already exists for the same entity. Scan reruns must not pile up
// duplicate alerts.
func (s *AnomalyService) raiseSuspicion(entityType models.AlertEntityType, entityID uint, title, message string) {
	var existing int64
	err := s.DB.Model(&models.SystemAlert{}).
		Where("alert_type = ? AND is_resolved = ? AND related_entity_type = ? AND related_entity_id = ?",
			models.AlertSuspiciousActivity, false, entityType, entityID).
		Count(&existing).Error
	if err != nil {
		s.Log.Warn("suspicion alert dedupe check failed", zap.Error(err))
		return
	}
	if existing > 0 {
		return
	}

	if _, err := s.Alerts.Create(models.AlertSuspiciousActivity, models.PriorityHigh,
		title, message, &entityType, &entityID); err != nil {
		s.Log.Warn("failed to raise suspicion alert", zap.Error(err))
	}
}
