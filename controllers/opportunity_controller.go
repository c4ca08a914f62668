package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/services"
)

type OpportunityController struct {
	Opportunities *services.OpportunityService
	Applications  *services.ApplicationService
}

func NewOpportunityController(db *gorm.DB, logger *zap.Logger) *OpportunityController {
	return &OpportunityController{
		Opportunities: services.NewOpportunityService(db, logger),
		Applications:  services.NewApplicationService(db, logger),
	}
}

// List is the public volunteer-facing listing.
func (oc *OpportunityController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	filter := services.OpportunityFilter{
		Cause:          c.Query("cause"),
		Location:       c.Query("location"),
		TimeCommitment: c.Query("timeCommitment"),
		WorkType:       c.Query("workType"),
		Urgency:        c.Query("urgency"),
		Search:         c.Query("search"),
	}

	opportunities, total, err := oc.Opportunities.ListActive(filter, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       opportunities,
		Pagination: newPagination(page, size, total),
	})
}

// Available lists approved opportunities with open slots.
func (oc *OpportunityController) Available(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	opportunities, total, err := oc.Opportunities.Available(page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       opportunities,
		Pagination: newPagination(page, size, total),
	})
}

func (oc *OpportunityController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunity, err := oc.Opportunities.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunity})
}

func (oc *OpportunityController) FilterOptions(c *gin.Context) {
	options, err := oc.Opportunities.FilterOptions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: options})
}

// Create registers a new opportunity for the NGO in the path. It lands
// in the moderation queue.
func (oc *OpportunityController) Create(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.OpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	opportunity, err := oc.Opportunities.Create(ngoID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: opportunity, Message: "Opportunity submitted for approval"})
}

func (oc *OpportunityController) ListByNGO(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunities, err := oc.Opportunities.ListByNGO(ngoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunities})
}

func (oc *OpportunityController) SetActive(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunityID, ok := pathID(c, "opportunityId")
	if !ok {
		return
	}
	var input struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	opportunity, err := oc.Opportunities.SetActive(opportunityID, ngoID, *input.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunity})
}

func (oc *OpportunityController) ListApplications(c *gin.Context) {
	ngoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunityID, ok := pathID(c, "opportunityId")
	if !ok {
		return
	}
	applications, err := oc.Applications.ByOpportunity(opportunityID, ngoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: applications})
}
