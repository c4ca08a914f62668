package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ngo-connect/api-go/models"
)

// DashboardService assembles the admin overview. It prefers today's
// statistics snapshot and falls back to live counts when no snapshot
// has been taken yet.
type DashboardService struct {
	DB            *gorm.DB
	Log           *zap.Logger
	Alerts        *AlertService
	Verifications *VerificationService
}

func NewDashboardService(db *gorm.DB, logger *zap.Logger, alerts *AlertService, verifications *VerificationService) *DashboardService {
	return &DashboardService{DB: db, Log: logger, Alerts: alerts, Verifications: verifications}
}

// PendingVerificationSummary is the dashboard projection of a
// verification request awaiting review.
type PendingVerificationSummary struct {
	ID                uint      `json:"id"`
	NGOID             uint      `json:"ngo_id"`
	NGOName           string    `json:"ngo_name"`
	Cause             string    `json:"cause"`
	Location          string    `json:"location"`
	SubmittedDate     time.Time `json:"submitted_date"`
	DocumentsProvided string    `json:"documents_provided"`
	VerificationScore int       `json:"verification_score"`
}

type Overview struct {
	TotalNgosRegistered          int     `json:"total_ngos_registered"`
	TotalNgosVerified            int     `json:"total_ngos_verified"`
	TotalNgosPending             int     `json:"total_ngos_pending"`
	TotalUsersRegistered         int     `json:"total_users_registered"`
	TotalUsersActive             int     `json:"total_users_active"`
	TotalUsersBlocked            int     `json:"total_users_blocked"`
	TotalDonors                  int     `json:"total_donors"`
	TotalVolunteers              int     `json:"total_volunteers"`
	TotalDonationsAmount         float64 `json:"total_donations_amount"`
	TotalDonationsCount          int     `json:"total_donations_count"`
	ActiveVolunteerOpportunities int     `json:"active_volunteer_opportunities"`
	PendingVerifications         int     `json:"pending_verifications"`
	MissingFundReports           int     `json:"missing_fund_reports"`
	SuspiciousActivities         int     `json:"suspicious_activities"`
	FromSnapshot                 bool    `json:"from_snapshot"`
}

type Dashboard struct {
	Overview             Overview                     `json:"overview"`
	Alerts               []models.SystemAlert         `json:"alerts"`
	PendingVerifications []PendingVerificationSummary `json:"pending_verifications"`
}

// Dashboard builds the admin landing view: overview counters, the ten
// most pressing unresolved alerts, and the five oldest pending
// verification requests.
func (s *DashboardService) Dashboard() (*Dashboard, error) {
	overview, err := s.overview()
	if err != nil {
		return nil, err
	}

	alerts, err := s.Alerts.HighPriorityUnresolved(10)
	if err != nil {
		s.Log.Warn("dashboard alerts unavailable", zap.Error(err))
		alerts = []models.SystemAlert{}
	}

	pending := []PendingVerificationSummary{}
	requests, err := s.Verifications.Pending(5)
	if err != nil {
		s.Log.Warn("dashboard pending verifications unavailable", zap.Error(err))
	} else {
		for _, request := range requests {
			pending = append(pending, PendingVerificationSummary{
				ID:                request.ID,
				NGOID:             request.NGOID,
				NGOName:           request.NGO.OrganizationName,
				Cause:             request.NGO.Cause,
				Location:          request.NGO.Location,
				SubmittedDate:     request.SubmittedDate,
				DocumentsProvided: request.DocumentsProvided,
				VerificationScore: request.VerificationScore,
			})
		}
	}

	return &Dashboard{Overview: *overview, Alerts: alerts, PendingVerifications: pending}, nil
}

func (s *DashboardService) overview() (*Overview, error) {
	var snapshot models.PlatformStatistics
	err := s.DB.Where("stat_date = ?", today()).First(&snapshot).Error
	if err == nil {
		return &Overview{
			TotalNgosRegistered:          snapshot.TotalNgosRegistered,
			TotalNgosVerified:            snapshot.TotalNgosVerified,
			TotalNgosPending:             snapshot.TotalNgosPending,
			TotalUsersRegistered:         snapshot.TotalUsersRegistered,
			TotalUsersActive:             snapshot.TotalUsersActive,
			TotalUsersBlocked:            snapshot.TotalUsersBlocked,
			TotalDonors:                  snapshot.TotalDonors,
			TotalVolunteers:              snapshot.TotalVolunteers,
			TotalDonationsAmount:         snapshot.TotalDonationsAmount,
			TotalDonationsCount:          snapshot.TotalDonationsCount,
			ActiveVolunteerOpportunities: snapshot.ActiveVolunteerOpportunities,
			PendingVerifications:         snapshot.PendingVerifications,
			MissingFundReports:           snapshot.MissingFundReports,
			SuspiciousActivities:         snapshot.SuspiciousActivities,
			FromSnapshot:                 true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats, err := s.computeStatistics()
	if err != nil {
		return nil, err
	}
	return &Overview{
		TotalNgosRegistered:          stats.TotalNgosRegistered,
		TotalNgosVerified:            stats.TotalNgosVerified,
		TotalNgosPending:             stats.TotalNgosPending,
		TotalUsersRegistered:         stats.TotalUsersRegistered,
		TotalUsersActive:             stats.TotalUsersActive,
		TotalUsersBlocked:            stats.TotalUsersBlocked,
		TotalDonors:                  stats.TotalDonors,
		TotalVolunteers:              stats.TotalVolunteers,
		TotalDonationsAmount:         stats.TotalDonationsAmount,
		TotalDonationsCount:          stats.TotalDonationsCount,
		ActiveVolunteerOpportunities: stats.ActiveVolunteerOpportunities,
		PendingVerifications:         stats.PendingVerifications,
		MissingFundReports:           stats.MissingFundReports,
		SuspiciousActivities:         stats.SuspiciousActivities,
	}, nil
}

// RefreshStatistics recomputes all counters and upserts today's
// snapshot row. Past dates are never touched.
func (s *DashboardService) RefreshStatistics() (*models.PlatformStatistics, error) {
	stats, err := s.computeStatistics()
	if err != nil {
		return nil, err
	}
	stats.StatDate = today()

	err = s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stat_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_ngos_registered", "total_ngos_verified", "total_ngos_pending",
			"total_users_registered", "total_users_active", "total_users_blocked",
			"total_donors", "total_volunteers",
			"total_donations_amount", "total_donations_count",
			"active_volunteer_opportunities", "pending_verifications",
			"missing_fund_reports", "suspicious_activities", "updated_at",
		}),
	}).Create(stats).Error
	if err != nil {
		return nil, err
	}

	s.Log.Info("platform statistics refreshed", zap.Time("stat_date", stats.StatDate))
	return stats, nil
}

// computeStatistics counts everything live. Core counters fail the
// whole call; the heuristic sub-statistics degrade to zero with a
// warning so one bad query cannot blank the dashboard.
func (s *DashboardService) computeStatistics() (*models.PlatformStatistics, error) {
	stats := &models.PlatformStatistics{}

	counts := []struct {
		dest  *int
		query *gorm.DB
	}{
		{&stats.TotalNgosRegistered, s.DB.Model(&models.NGO{})},
		{&stats.TotalNgosVerified, s.DB.Model(&models.NGO{}).Where("is_verified = ?", true)},
		{&stats.TotalNgosPending, s.DB.Model(&models.NGO{}).Where("status = ?", models.NGOStatusPending)},
		{&stats.TotalUsersRegistered, s.DB.Model(&models.User{})},
		{&stats.TotalUsersActive, s.DB.Model(&models.User{}).Where("is_blocked = ? AND email_verified = ?", false, true)},
		{&stats.TotalUsersBlocked, s.DB.Model(&models.User{}).Where("is_blocked = ?", true)},
		{&stats.TotalDonors, s.DB.Model(&models.User{}).Where("user_type = ?", models.UserTypeDonor)},
		{&stats.TotalVolunteers, s.DB.Model(&models.User{}).Where("user_type = ?", models.UserTypeVolunteer)},
		{&stats.TotalDonationsCount, s.DB.Model(&models.Donation{}).Where("status = ?", models.DonationStatusCompleted)},
		{&stats.ActiveVolunteerOpportunities, s.DB.Model(&models.VolunteerOpportunity{}).
			Where("status = ? AND is_active = ?", models.OpportunityStatusActive, true)},
		{&stats.PendingVerifications, s.DB.Model(&models.VerificationRequest{}).
			Where("status = ?", models.VerificationStatusPending)},
	}
	for _, c := range counts {
		var n int64
		if err := c.query.Count(&n).Error; err != nil {
			return nil, err
		}
		*c.dest = int(n)
	}

	err := s.DB.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalDonationsAmount).Error
	if err != nil {
		return nil, err
	}

	missing, err := s.MissingFundReportCount()
	if err != nil {
		s.Log.Warn("missing fund report count unavailable", zap.Error(err))
	} else {
		stats.MissingFundReports = missing
	}

	var suspicious int64
	err = s.DB.Model(&models.SystemAlert{}).
		Where("priority = ? AND is_resolved = ?", models.PriorityHigh, false).
		Count(&suspicious).Error
	if err != nil {
		s.Log.Warn("suspicious activity count unavailable", zap.Error(err))
	} else {
		stats.SuspiciousActivities = int(suspicious)
	}

	return stats, nil
}

// MissingFundReportCount counts verified NGOs that received a completed
// donation in the last three months. It deliberately does not check the
// fund_reports table; see the filing workflow in FundReportService.
// TODO: subtract NGOs that have filed a report inside the window once
// the reporting deadline policy is settled.
func (s *DashboardService) MissingFundReportCount() (int, error) {
	cutoff := time.Now().AddDate(0, -3, 0)

	var n int64
	err := s.DB.Model(&models.NGO{}).
		Where("is_verified = ?", true).
		Where("id IN (?)", s.DB.Model(&models.Donation{}).
			Select("ngo_id").
			Where("status = ? AND donation_date >= ?", models.DonationStatusCompleted, cutoff)).
		Count(&n).Error
	return int(n), err
}

// StatisticsHistory returns past snapshots newest first.
func (s *DashboardService) StatisticsHistory(days int) ([]models.PlatformStatistics, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	var rows []models.PlatformStatistics
	err := s.DB.Where("stat_date >= ?", today().AddDate(0, 0, -days)).
		Order("stat_date DESC").
		Find(&rows).Error
	return rows, err
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
