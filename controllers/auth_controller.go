package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/config"
	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Log    *zap.Logger
	Google *config.GoogleConfig
}

func NewAuthController(db *gorm.DB, logger *zap.Logger) *AuthController {
	google, err := config.NewGoogleConfig()
	if err != nil {
		logger.Warn("google login disabled", zap.Error(err))
	}
	return &AuthController{DB: db, Log: logger, Google: google}
}

type RegisterRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Phone            string `json:"phone"`
	UserType         string `json:"user_type" binding:"required,oneof=DONOR VOLUNTEER NGO"`
	OrganizationName string `json:"organization_name"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var existing int64
	ac.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "success": false})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}
	password := string(hashed)

	user := models.User{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         &password,
		UserType:         models.UserType(req.UserType),
		OrganizationName: req.OrganizationName,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user", "success": false})
		return
	}

	ac.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("user_type", req.UserType))
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: user, Message: "Registration successful"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}
	if user.Password == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked", "success": false})
		return
	}

	ac.issueTokens(c, &user)
}

func (ac *AuthController) issueTokens(c *gin.Context, user *models.User) {
	accessToken, err := utils.GenerateAccessToken(user.ID, string(user.UserType))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(utils.RefreshTokenTTL),
	})

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"user_type": user.UserType,
		},
		"success": true,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}
	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, string(user.UserType))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}
	newRefreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(utils.RefreshTokenTTL)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out"})
}

// GoogleLogin signs a user in with a Google ID token, creating the
// account on first login.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.Google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured", "success": false})
		return
	}

	var input struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	info, err := ac.Google.VerifyIDToken(input.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	var user models.User
	err = ac.DB.Where("email = ?", info.Email).First(&user).Error
	if err != nil {
		user = models.User{
			FullName:      info.Name,
			Email:         info.Email,
			UserType:      models.UserTypeDonor,
			EmailVerified: info.VerifiedEmail,
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user", "success": false})
			return
		}
		ac.Log.Info("user created via google login", zap.Uint("user_id", user.ID))
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked", "success": false})
		return
	}

	ac.issueTokens(c, &user)
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user})
}
