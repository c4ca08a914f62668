package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
)

// UserService covers the admin-side user management console: listing,
// account details with activity, block/unblock, and password resets.
type UserService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	return &UserService{DB: db, Log: logger}
}

// UserFilter narrows the management listing. Zero values mean "any".
type UserFilter struct {
	UserType string
	Status   string // ACTIVE, BLOCKED, UNVERIFIED
	Search   string // matches name or email
}

func (s *UserService) List(filter UserFilter, page, size int) ([]models.User, int64, error) {
	query := s.DB.Model(&models.User{})

	if filter.UserType != "" {
		query = query.Where("user_type = ?", filter.UserType)
	}
	switch filter.Status {
	case "BLOCKED":
		query = query.Where("is_blocked = ?", true)
	case "ACTIVE":
		query = query.Where("is_blocked = ? AND email_verified = ?", false, true)
	case "UNVERIFIED":
		query = query.Where("is_blocked = ? AND email_verified = ?", false, false)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&users).Error
	return users, total, err
}

// UserActivity is the detail view: the account plus its donation and
// volunteering footprint.
type UserActivity struct {
	User             models.User `json:"user"`
	DonationCount    int64       `json:"donation_count"`
	DonationTotal    float64     `json:"donation_total"`
	ApplicationCount int64       `json:"application_count"`
	CompletedCount   int64       `json:"completed_count"`
}

func (s *UserService) Details(userID uint) (*UserActivity, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d", userID)
		}
		return nil, err
	}

	activity := UserActivity{User: user}

	err := s.DB.Model(&models.Donation{}).
		Where("donor_id = ? AND status = ?", userID, models.DonationStatusCompleted).
		Count(&activity.DonationCount).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(&models.Donation{}).
		Where("donor_id = ? AND status = ?", userID, models.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&activity.DonationTotal).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(&models.VolunteerApplication{}).
		Where("volunteer_id = ?", userID).
		Count(&activity.ApplicationCount).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(&models.VolunteerApplication{}).
		Where("volunteer_id = ? AND status = ?", userID, models.ApplicationStatusCompleted).
		Count(&activity.CompletedCount).Error
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// Block suspends a user account. Admin accounts cannot be blocked.
func (s *UserService) Block(userID, adminID uint, reason string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d", userID)
		}
		return nil, err
	}
	if user.UserType == models.UserTypeAdmin {
		return nil, invalidStatef("admin accounts cannot be blocked")
	}
	if user.IsBlocked {
		return nil, invalidStatef("user %d is already blocked", userID)
	}

	previous := user.Status()
	now := time.Now()
	user.IsBlocked = true
	user.BlockReason = &reason
	user.BlockedBy = &adminID
	user.BlockedAt = &now
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	s.recordAction(userID, adminID, "BLOCK", reason, previous, user.Status())
	s.Log.Info("user blocked", zap.Uint("user_id", userID), zap.Uint("admin_id", adminID))
	return &user, nil
}

func (s *UserService) Unblock(userID, adminID uint, notes string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d", userID)
		}
		return nil, err
	}
	if !user.IsBlocked {
		return nil, invalidStatef("user %d is not blocked", userID)
	}

	previous := user.Status()
	user.IsBlocked = false
	user.BlockReason = nil
	user.BlockedBy = nil
	user.BlockedAt = nil
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	s.recordAction(userID, adminID, "UNBLOCK", notes, previous, user.Status())
	s.Log.Info("user unblocked", zap.Uint("user_id", userID), zap.Uint("admin_id", adminID))
	return &user, nil
}

// ResetPassword sets a new bcrypt-hashed password and revokes all
// refresh tokens so existing sessions die.
func (s *UserService) ResetPassword(userID, adminID uint, newPassword string) error {
	if len(newPassword) < 8 {
		return validationf("password must be at least 8 characters")
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("user %d", userID)
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashedStr := string(hashed)
	user.Password = &hashedStr

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		s.recordAction(userID, adminID, "PASSWORD_RESET", "", user.Status(), user.Status())
		return nil
	})
}

func (s *UserService) ActionHistory(userID uint) ([]models.ManagementAction, error) {
	var actions []models.ManagementAction
	err := s.DB.Where("target_type = ? AND target_id = ?", models.ManagementTargetUser, userID).
		Order("created_at DESC").
		Find(&actions).Error
	return actions, err
}

func (s *UserService) recordAction(userID, adminID uint, action, notes, previousStatus, newStatus string) {
	entry := models.ManagementAction{
		TargetType:     models.ManagementTargetUser,
		TargetID:       userID,
		ActorID:        adminID,
		Action:         action,
		Notes:          notes,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		s.Log.Warn("failed to record user management action", zap.Error(err))
	}
}
