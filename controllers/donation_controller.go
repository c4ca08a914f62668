package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/services"
	"github.com/ngo-connect/api-go/utils"
)

type DonationController struct {
	Donations *services.DonationService
}

func NewDonationController(db *gorm.DB, logger *zap.Logger) *DonationController {
	return &DonationController{Donations: services.NewDonationService(db, logger)}
}

func (dc *DonationController) Create(c *gin.Context) {
	var input services.DonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	donation, err := dc.Donations.Create(utils.GetUser(c).UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: donation, Message: "Donation recorded"})
}

func (dc *DonationController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	donation, err := dc.Donations.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	user := utils.GetUser(c)
	if user.Role != "ADMIN" && donation.DonorID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: donation})
}

// Mine lists the authenticated donor's donations.
func (dc *DonationController) Mine(c *gin.Context) {
	donations, err := dc.Donations.ByDonor(utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: donations})
}

func (dc *DonationController) ByNGO(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	donations, err := dc.Donations.ByNGO(ngoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: donations})
}

// Complete marks a pending donation paid (payment webhook surface).
func (dc *DonationController) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	donation, err := dc.Donations.Complete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: donation, Message: "Donation completed"})
}

func (dc *DonationController) Fail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	donation, err := dc.Donations.Fail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: donation, Message: "Donation marked failed"})
}
