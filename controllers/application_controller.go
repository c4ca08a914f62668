package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/services"
	"github.com/ngo-connect/api-go/utils"
)

type ApplicationController struct {
	Applications *services.ApplicationService
}

func NewApplicationController(db *gorm.DB, logger *zap.Logger) *ApplicationController {
	return &ApplicationController{Applications: services.NewApplicationService(db, logger)}
}

// Submit applies the authenticated volunteer to an opportunity.
func (ac *ApplicationController) Submit(c *gin.Context) {
	opportunityID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.ApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	application, err := ac.Applications.Submit(utils.GetUser(c).UserID, opportunityID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: application, Message: "Application submitted"})
}

func (ac *ApplicationController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	application, err := ac.Applications.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	user := utils.GetUser(c)
	if user.Role != "ADMIN" && application.VolunteerID != user.UserID && application.Opportunity.NGOID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: application})
}

// Mine lists the authenticated volunteer's application history.
func (ac *ApplicationController) Mine(c *gin.Context) {
	applications, err := ac.Applications.ByVolunteer(utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: applications})
}

func (ac *ApplicationController) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	application, err := ac.Applications.Cancel(id, utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: application, Message: "Application cancelled"})
}

// UpdateStatus is the NGO review decision on an application.
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "applicationId")
	if !ok {
		return
	}
	var input struct {
		Status        models.ApplicationStatus `json:"status" binding:"required"`
		ReviewerNotes string                   `json:"reviewer_notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	application, err := ac.Applications.UpdateStatus(applicationID, ngoID, input.Status, input.ReviewerNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: application})
}

// RecordHours stores hours and feedback on a completed engagement.
func (ac *ApplicationController) RecordHours(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "applicationId")
	if !ok {
		return
	}
	var input struct {
		Hours    int    `json:"hours" binding:"required"`
		Feedback string `json:"feedback"`
		Rating   *int   `json:"rating"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	application, err := ac.Applications.RecordHours(applicationID, ngoID, input.Hours, input.Feedback, input.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: application})
}

// ByNGO lists applications across an NGO's opportunities.
func (ac *ApplicationController) ByNGO(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	applications, err := ac.Applications.ByNGO(ngoID, models.ApplicationStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: applications})
}
