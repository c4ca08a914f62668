package services

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func newDashboardService(t *testing.T) (*DashboardService, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	alerts := NewAlertService(db, logger)
	verifications := NewVerificationService(db, logger, alerts)
	return NewDashboardService(db, logger, alerts, verifications), testutil.NewFixtures(t, db)
}

func TestDashboardRealtimeFallback(t *testing.T) {
	service, fixtures := newDashboardService(t)

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)
	fixtures.NGO(models.NGOStatusPending)
	fixtures.Donation(donor.ID, ngo.ID, 250, models.DonationStatusCompleted)
	fixtures.Donation(donor.ID, ngo.ID, 100, models.DonationStatusPending)
	fixtures.Opportunity(ngo.ID, 5, 0)

	dashboard, err := service.Dashboard()
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	overview := dashboard.Overview
	if overview.FromSnapshot {
		t.Fatal("no snapshot exists; overview must be realtime")
	}
	if overview.TotalNgosRegistered != 2 || overview.TotalNgosVerified != 1 || overview.TotalNgosPending != 1 {
		t.Fatalf("ngo counters: %+v", overview)
	}
	if overview.TotalDonationsCount != 1 || overview.TotalDonationsAmount != 250 {
		t.Fatalf("pending donations must not count: %+v", overview)
	}
	if overview.ActiveVolunteerOpportunities != 1 {
		t.Fatalf("active opportunities = %d", overview.ActiveVolunteerOpportunities)
	}
}

func TestDashboardPrefersSnapshot(t *testing.T) {
	service, fixtures := newDashboardService(t)

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)
	fixtures.Donation(donor.ID, ngo.ID, 500, models.DonationStatusCompleted)

	if _, err := service.RefreshStatistics(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// mutate after the snapshot; the dashboard must not see it
	fixtures.Donation(donor.ID, ngo.ID, 900, models.DonationStatusCompleted)

	dashboard, err := service.Dashboard()
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !dashboard.Overview.FromSnapshot {
		t.Fatal("overview must come from the snapshot")
	}
	if dashboard.Overview.TotalDonationsAmount != 500 {
		t.Fatalf("snapshot amount = %v, want 500", dashboard.Overview.TotalDonationsAmount)
	}
}

func TestRefreshStatisticsUpsertsTodayRow(t *testing.T) {
	service, fixtures := newDashboardService(t)

	fixtures.NGO(models.NGOStatusActive)

	first, err := service.RefreshStatistics()
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if first.TotalNgosRegistered != 1 {
		t.Fatalf("first snapshot ngos = %d", first.TotalNgosRegistered)
	}

	fixtures.NGO(models.NGOStatusPending)
	second, err := service.RefreshStatistics()
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if second.TotalNgosRegistered != 2 {
		t.Fatalf("second snapshot ngos = %d", second.TotalNgosRegistered)
	}

	var rows int64
	if err := service.DB.Model(&models.PlatformStatistics{}).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("refresh must upsert one row per date, got %d rows", rows)
	}
}

func TestDashboardAlertOrderingAndCap(t *testing.T) {
	service, fixtures := newDashboardService(t)

	ngo := fixtures.NGO(models.NGOStatusActive)
	for i := 0; i < 12; i++ {
		fixtures.Alert(models.AlertSuspiciousActivity, models.PriorityHigh, models.EntityNGO, ngo.ID)
	}
	critical := fixtures.Alert(models.AlertSystemError, models.PriorityCritical, models.EntityNGO, ngo.ID)
	fixtures.Alert(models.AlertMissingFundReport, models.PriorityLow, models.EntityNGO, ngo.ID)

	dashboard, err := service.Dashboard()
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.Alerts) != 10 {
		t.Fatalf("alert cap: got %d, want 10", len(dashboard.Alerts))
	}
	if dashboard.Alerts[0].ID != critical.ID {
		t.Fatal("critical alert must sort first")
	}
	for _, alert := range dashboard.Alerts {
		if alert.Priority == models.PriorityLow {
			t.Fatal("low priority alert leaked into the dashboard")
		}
	}
}

func TestDashboardPendingVerificationProjection(t *testing.T) {
	service, fixtures := newDashboardService(t)

	for i := 0; i < 7; i++ {
		ngo := fixtures.NGO(models.NGOStatusPending)
		fixtures.VerificationRequest(ngo.ID, models.VerificationStatusPending)
	}

	dashboard, err := service.Dashboard()
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.PendingVerifications) != 5 {
		t.Fatalf("pending cap: got %d, want 5", len(dashboard.PendingVerifications))
	}
	first := dashboard.PendingVerifications[0]
	if first.NGOName == "" || first.Cause == "" || first.Location == "" {
		t.Fatalf("projection missing ngo fields: %+v", first)
	}
}

func TestSuspiciousActivitiesCountsUnresolvedHighAlerts(t *testing.T) {
	service, fixtures := newDashboardService(t)

	ngo := fixtures.NGO(models.NGOStatusPending)
	fixtures.Alert(models.AlertNGOPendingApproval, models.PriorityHigh, models.EntityNGO, ngo.ID)
	fixtures.Alert(models.AlertSuspiciousActivity, models.PriorityMedium, models.EntityNGO, ngo.ID)

	resolved := fixtures.Alert(models.AlertSuspiciousActivity, models.PriorityHigh, models.EntityNGO, ngo.ID)
	resolved.IsResolved = true
	if err := service.DB.Save(resolved).Error; err != nil {
		t.Fatalf("resolve alert: %v", err)
	}

	stats, err := service.RefreshStatistics()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stats.SuspiciousActivities != 1 {
		t.Fatalf("suspicious activities = %d, want 1 (unresolved HIGH alerts regardless of type)", stats.SuspiciousActivities)
	}
}

func TestMissingFundReportCount(t *testing.T) {
	service, fixtures := newDashboardService(t)

	donor := fixtures.User(models.UserTypeDonor)
	recent := fixtures.NGO(models.NGOStatusActive)
	quiet := fixtures.NGO(models.NGOStatusActive)
	unverified := fixtures.NGO(models.NGOStatusPending)

	fixtures.Donation(donor.ID, recent.ID, 300, models.DonationStatusCompleted)
	fixtures.Donation(donor.ID, unverified.ID, 300, models.DonationStatusCompleted)
	_ = quiet

	count, err := service.MissingFundReportCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("missing fund reports = %d, want 1", count)
	}
}
