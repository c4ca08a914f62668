package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/testutil"
)

func TestDonationCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)

	cases := []struct {
		name  string
		input DonationInput
	}{
		{"zero amount", DonationInput{NGOID: ngo.ID, Amount: 0, PaymentMethod: "CARD"}},
		{"negative amount", DonationInput{NGOID: ngo.ID, Amount: -50, PaymentMethod: "CARD"}},
		{"bad payment method", DonationInput{NGOID: ngo.ID, Amount: 100, PaymentMethod: "CASH"}},
	}
	for _, tc := range cases {
		if _, err := service.Create(donor.ID, tc.input); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: want ErrValidation, got %v", tc.name, err)
		}
	}

	unverified := fixtures.NGO(models.NGOStatusPending)
	_, err := service.Create(donor.ID, DonationInput{NGOID: unverified.ID, Amount: 100, PaymentMethod: "CARD"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("donation to unverified ngo: want ErrInvalidState, got %v", err)
	}
}

func TestDonationCreatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())
	t.Setenv("DONATION_DEFAULT_STATUS", "")

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)

	donation, err := service.Create(donor.ID, DonationInput{
		NGOID:         ngo.ID,
		Amount:        750,
		PaymentMethod: "UPI",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if donation.Status != models.DonationStatusPending {
		t.Fatalf("status = %s, want PENDING", donation.Status)
	}
	if donation.PledgeType != models.PledgeTypeOneTime {
		t.Fatalf("pledge type default = %s", donation.PledgeType)
	}
	if donation.TransactionID == "" {
		t.Fatal("transaction id not assigned")
	}

	// total must not accumulate while the donation is pending
	var reloaded models.User
	if err := db.First(&reloaded, donor.ID).Error; err != nil {
		t.Fatalf("reload donor: %v", err)
	}
	if reloaded.TotalDonations != 0 {
		t.Fatalf("pending donation credited donor total: %v", reloaded.TotalDonations)
	}
}

func TestDonationDefaultStatusOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())
	t.Setenv("DONATION_DEFAULT_STATUS", "COMPLETED")

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)

	donation, err := service.Create(donor.ID, DonationInput{
		NGOID:         ngo.ID,
		Amount:        80,
		PaymentMethod: "NET_BANKING",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if donation.Status != models.DonationStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", donation.Status)
	}

	var reloaded models.User
	if err := db.First(&reloaded, donor.ID).Error; err != nil {
		t.Fatalf("reload donor: %v", err)
	}
	if reloaded.TotalDonations != 80 {
		t.Fatalf("donor total = %v, want 80", reloaded.TotalDonations)
	}
}

func TestDonationCompleteCreditsDonorTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())
	t.Setenv("DONATION_DEFAULT_STATUS", "")

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)

	donation, err := service.Create(donor.ID, DonationInput{
		NGOID:         ngo.ID,
		Amount:        300,
		PaymentMethod: "CARD",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	completed, err := service.Complete(donation.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.DonationStatusCompleted {
		t.Fatalf("status = %s", completed.Status)
	}

	var reloaded models.User
	if err := db.First(&reloaded, donor.ID).Error; err != nil {
		t.Fatalf("reload donor: %v", err)
	}
	if reloaded.TotalDonations != 300 {
		t.Fatalf("donor total = %v, want 300", reloaded.TotalDonations)
	}

	if _, err := service.Complete(donation.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double complete: want ErrInvalidState, got %v", err)
	}
}

func TestDonationFailDoesNotCredit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())
	t.Setenv("DONATION_DEFAULT_STATUS", "")

	donor := fixtures.User(models.UserTypeDonor)
	ngo := fixtures.NGO(models.NGOStatusActive)

	donation, err := service.Create(donor.ID, DonationInput{
		NGOID:         ngo.ID,
		Amount:        120,
		PaymentMethod: "WALLET",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Fail(donation.ID); err != nil {
		t.Fatalf("fail: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, donor.ID).Error; err != nil {
		t.Fatalf("reload donor: %v", err)
	}
	if reloaded.TotalDonations != 0 {
		t.Fatalf("failed donation credited donor total: %v", reloaded.TotalDonations)
	}
}

func TestDonationReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	service := NewDonationService(db, zap.NewNop())

	donor := fixtures.User(models.UserTypeDonor)
	education := fixtures.NGO(models.NGOStatusActive)
	health := fixtures.NGO(models.NGOStatusActive)
	if err := db.Model(&models.NGO{}).Where("id = ?", health.ID).Update("cause", "Health").Error; err != nil {
		t.Fatalf("set cause: %v", err)
	}

	fixtures.Donation(donor.ID, education.ID, 100, models.DonationStatusCompleted)
	fixtures.Donation(donor.ID, education.ID, 200, models.DonationStatusCompleted)
	fixtures.Donation(donor.ID, health.ID, 500, models.DonationStatusCompleted)
	fixtures.Donation(donor.ID, health.ID, 900, models.DonationStatusPending)

	byNGO, err := service.ReportByNGO()
	if err != nil {
		t.Fatalf("report by ngo: %v", err)
	}
	if len(byNGO) != 2 {
		t.Fatalf("want 2 rows, got %d", len(byNGO))
	}
	if byNGO[0].NGOID != health.ID || byNGO[0].TotalAmount != 500 {
		t.Fatalf("largest first: %+v", byNGO[0])
	}
	if byNGO[1].TotalAmount != 300 || byNGO[1].DonationCount != 2 {
		t.Fatalf("education row: %+v", byNGO[1])
	}

	byCause, err := service.ReportByCause()
	if err != nil {
		t.Fatalf("report by cause: %v", err)
	}
	if len(byCause) != 2 || byCause[0].Cause != "Health" {
		t.Fatalf("cause report: %+v", byCause)
	}
}
