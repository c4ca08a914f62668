package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ngo-connect/api-go/models"
)

// SetupTestDB opens the database named by TEST_DATABASE_URL, migrates
// the schema, and wipes all tables so each test starts clean. Tests
// calling it are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.NGO{},
		&models.VolunteerOpportunity{},
		&models.VolunteerApplication{},
		&models.Donation{},
		&models.VerificationRequest{},
		&models.SystemAlert{},
		&models.PlatformStatistics{},
		&models.FundReport{},
		&models.ManagementAction{},
		&models.RefreshToken{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	tables := []string{
		"management_actions", "refresh_tokens", "fund_reports",
		"system_alerts", "verification_requests", "donations",
		"volunteer_applications", "volunteer_opportunities",
		"platform_statistics", "ngos", "users",
	}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	return db
}
