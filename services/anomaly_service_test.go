package services

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func newAnomalyService(t *testing.T) (*AnomalyService, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	alerts := NewAlertService(db, zap.NewNop())
	return NewAnomalyService(db, zap.NewNop(), alerts), testutil.NewFixtures(t, db)
}

func TestFlagLargeAmountDonor(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)

	// 99 donors of 10 keep the mean near 10; one donor gives 5000.
	for i := 0; i < 99; i++ {
		donor := fixtures.User(models.UserTypeDonor)
		fixtures.Donation(donor.ID, ngo.ID, 10, models.DonationStatusCompleted)
	}
	whale := fixtures.User(models.UserTypeDonor)
	fixtures.Donation(whale.ID, ngo.ID, 5000, models.DonationStatusCompleted)

	flagged, err := service.FlagSuspiciousDonationPatterns()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("want 1 flagged donor, got %d", len(flagged))
	}
	if flagged[0].DonorID != whale.ID || flagged[0].Pattern != PatternLargeAmount {
		t.Fatalf("unexpected flag: %+v", flagged[0])
	}
	if flagged[0].TotalAmount != 5000 || flagged[0].DonationCount != 1 {
		t.Fatalf("aggregate mismatch: %+v", flagged[0])
	}
}

func TestFlagHighFrequencyDonor(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)
	frequent := fixtures.User(models.UserTypeDonor)
	for i := 0; i < 101; i++ {
		fixtures.Donation(frequent.ID, ngo.ID, 1, models.DonationStatusCompleted)
	}

	flagged, err := service.FlagSuspiciousDonationPatterns()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("want 1 flagged donor, got %d", len(flagged))
	}
	if flagged[0].Pattern != PatternHighFrequency || flagged[0].DonationCount != 101 {
		t.Fatalf("unexpected flag: %+v", flagged[0])
	}
}

func TestDetectSuspiciousOpportunities(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)

	unrealistic := fixtures.Opportunity(ngo.ID, 5000, 0)

	vague := fixtures.Opportunity(ngo.ID, 5, 0)
	if err := service.DB.Model(&models.VolunteerOpportunity{}).
		Where("id = ?", vague.ID).
		Update("description", "Help us out on weekends").Error; err != nil {
		t.Fatalf("shorten description: %v", err)
	}

	clean := fixtures.Opportunity(ngo.ID, 5, 0)

	flagged, err := service.DetectSuspiciousOpportunities()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	byID := map[uint]SuspiciousOpportunity{}
	for _, opportunity := range flagged {
		byID[opportunity.OpportunityID] = opportunity
	}

	if entry, ok := byID[unrealistic.ID]; !ok || !hasReason(entry, ReasonUnrealisticVolunteerCount) {
		t.Fatalf("unrealistic count not flagged: %+v", entry)
	}
	if entry, ok := byID[vague.ID]; !ok || !hasReason(entry, ReasonVagueDescription) {
		t.Fatalf("vague description not flagged: %+v", entry)
	}
	if _, ok := byID[clean.ID]; ok {
		t.Fatal("clean opportunity flagged")
	}
}

func TestDetectDuplicateTitles(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)
	other := fixtures.NGO(models.NGOStatusActive)

	// seven same-ngo opportunities sharing a title prefix
	for i := 0; i < 7; i++ {
		opportunity := fixtures.Opportunity(ngo.ID, 5, 0)
		if err := service.DB.Model(&models.VolunteerOpportunity{}).
			Where("id = ?", opportunity.ID).
			Update("title", "Beach Cleanup Drive "+strings.Repeat("x", i+1)).Error; err != nil {
			t.Fatalf("retitle: %v", err)
		}
	}
	// same title family under a different NGO must not count
	foreign := fixtures.Opportunity(other.ID, 5, 0)
	if err := service.DB.Model(&models.VolunteerOpportunity{}).
		Where("id = ?", foreign.ID).
		Update("title", "Beach Cleanup Drive Z").Error; err != nil {
		t.Fatalf("retitle foreign: %v", err)
	}

	flagged, err := service.DetectSuspiciousOpportunities()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	duplicates := 0
	for _, opportunity := range flagged {
		if hasReason(opportunity, ReasonDuplicateOpportunities) {
			duplicates++
			if opportunity.OpportunityID == foreign.ID {
				t.Fatal("cross-ngo title must not be flagged as duplicate")
			}
		}
	}
	if duplicates != 7 {
		t.Fatalf("want 7 duplicate-flagged opportunities, got %d", duplicates)
	}
}

func TestDetectDuplicateTitlesMultibyte(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)

	// the shared prefix is counted in characters, not bytes
	for i := 0; i < 7; i++ {
		opportunity := fixtures.Opportunity(ngo.ID, 5, 0)
		if err := service.DB.Model(&models.VolunteerOpportunity{}).
			Where("id = ?", opportunity.ID).
			Update("title", "海岸クリーンアップ大作戦 "+strings.Repeat("x", i+1)).Error; err != nil {
			t.Fatalf("retitle: %v", err)
		}
	}

	flagged, err := service.DetectSuspiciousOpportunities()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	duplicates := 0
	for _, opportunity := range flagged {
		if hasReason(opportunity, ReasonDuplicateOpportunities) {
			duplicates++
		}
	}
	if duplicates != 7 {
		t.Fatalf("want 7 duplicate-flagged opportunities, got %d", duplicates)
	}
}

func TestSuspicionAlertsTargetOpportunityEntity(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)
	opportunity := fixtures.Opportunity(ngo.ID, 5000, 0)

	// an NGO-scoped alert sharing the numeric id must not absorb
	// the opportunity's own alert
	fixtures.Alert(models.AlertSuspiciousActivity, models.PriorityHigh, models.EntityNGO, opportunity.ID)

	if _, err := service.DetectSuspiciousOpportunities(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	var alerts []models.SystemAlert
	err := service.DB.
		Where("alert_type = ? AND related_entity_type = ? AND related_entity_id = ?",
			models.AlertSuspiciousActivity, models.EntityOpportunity, opportunity.ID).
		Find(&alerts).Error
	if err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("want 1 opportunity-scoped alert, got %d", len(alerts))
	}
}

func TestScanRerunsDoNotDuplicateAlerts(t *testing.T) {
	service, fixtures := newAnomalyService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)
	fixtures.Opportunity(ngo.ID, 5000, 0)

	if _, err := service.DetectSuspiciousOpportunities(); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if _, err := service.DetectSuspiciousOpportunities(); err != nil {
		t.Fatalf("second scan: %v", err)
	}

	var alerts int64
	err := service.DB.Model(&models.SystemAlert{}).
		Where("alert_type = ?", models.AlertSuspiciousActivity).
		Count(&alerts).Error
	if err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	if alerts != 1 {
		t.Fatalf("rerun must not duplicate alerts: got %d", alerts)
	}
}

func hasReason(opportunity SuspiciousOpportunity, reason string) bool {
	for _, r := range opportunity.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
