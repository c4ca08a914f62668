package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/services"
	"github.com/ngo-connect/api-go/utils"
)

// AdminController exposes the back-office surface: NGO lifecycle,
// verification review, user management, alerts, dashboard, reports,
// and the anomaly scans.
type AdminController struct {
	NGOs          *services.NGOService
	Verifications *services.VerificationService
	Users         *services.UserService
	Alerts        *services.AlertService
	Dashboard     *services.DashboardService
	Anomalies     *services.AnomalyService
	Donations     *services.DonationService
	Opportunities *services.OpportunityService
	FundReports   *services.FundReportService
}

func NewAdminController(db *gorm.DB, logger *zap.Logger) *AdminController {
	alerts := services.NewAlertService(db, logger)
	verifications := services.NewVerificationService(db, logger, alerts)
	return &AdminController{
		NGOs:          services.NewNGOService(db, logger),
		Verifications: verifications,
		Users:         services.NewUserService(db, logger),
		Alerts:        alerts,
		Dashboard:     services.NewDashboardService(db, logger, alerts, verifications),
		Anomalies:     services.NewAnomalyService(db, logger, alerts),
		Donations:     services.NewDonationService(db, logger),
		Opportunities: services.NewOpportunityService(db, logger),
		FundReports:   services.NewFundReportService(db, logger),
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "success": false})
		return 0, false
	}
	return uint(id), true
}

type actionRequest struct {
	Notes string `json:"notes"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- NGO lifecycle ---

func (ac *AdminController) ListNGOs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size < 1 || size > 100 {
		size = 20
	}

	ngos, total, err := ac.NGOs.ListForManagement(c.Query("status"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       ngos,
		Pagination: newPagination(page, size, total),
	})
}

func (ac *AdminController) GetNGO(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ngo, err := ac.NGOs.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo})
}

func (ac *AdminController) ApproveNGO(c *gin.Context) {
	ac.ngoAction(c, func(id, adminID uint, notes string) (*models.NGO, error) {
		return ac.NGOs.Approve(id, adminID, notes)
	})
}

func (ac *AdminController) RejectNGO(c *gin.Context) {
	ac.ngoReasonAction(c, func(id, adminID uint, reason string) (*models.NGO, error) {
		return ac.NGOs.Reject(id, adminID, reason)
	})
}

func (ac *AdminController) SuspendNGO(c *gin.Context) {
	ac.ngoReasonAction(c, func(id, adminID uint, reason string) (*models.NGO, error) {
		return ac.NGOs.Suspend(id, adminID, reason)
	})
}

func (ac *AdminController) DeactivateNGO(c *gin.Context) {
	ac.ngoReasonAction(c, func(id, adminID uint, reason string) (*models.NGO, error) {
		return ac.NGOs.Deactivate(id, adminID, reason)
	})
}

func (ac *AdminController) ReactivateNGO(c *gin.Context) {
	ac.ngoAction(c, func(id, adminID uint, notes string) (*models.NGO, error) {
		return ac.NGOs.Reactivate(id, adminID, notes)
	})
}

func (ac *AdminController) UpdateNGOProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input struct {
		services.NGOProfileUpdate
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ngo, err := ac.NGOs.UpdateProfile(id, utils.GetUser(c).UserID, input.NGOProfileUpdate, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo, Message: "NGO profile updated"})
}

func (ac *AdminController) NGOActionHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actions, err := ac.NGOs.ActionHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: actions})
}

func (ac *AdminController) ngoAction(c *gin.Context, action func(id, adminID uint, notes string) (*models.NGO, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input actionRequest
	_ = c.ShouldBindJSON(&input)

	ngo, err := action(id, utils.GetUser(c).UserID, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo})
}

func (ac *AdminController) ngoReasonAction(c *gin.Context, action func(id, adminID uint, reason string) (*models.NGO, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input reasonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ngo, err := action(id, utils.GetUser(c).UserID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo})
}

// --- Verification review ---

func (ac *AdminController) PendingVerifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	requests, err := ac.Verifications.Pending(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: requests})
}

func (ac *AdminController) ApproveVerification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input actionRequest
	_ = c.ShouldBindJSON(&input)

	request, err := ac.Verifications.Approve(id, utils.GetUser(c).UserID, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: request, Message: "Verification approved"})
}

func (ac *AdminController) RejectVerification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input reasonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	request, err := ac.Verifications.Reject(id, utils.GetUser(c).UserID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: request, Message: "Verification rejected"})
}

// --- Opportunity moderation ---

func (ac *AdminController) PendingOpportunities(c *gin.Context) {
	opportunities, err := ac.Opportunities.PendingList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunities})
}

func (ac *AdminController) ApproveOpportunity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunity, err := ac.Opportunities.Approve(id, utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunity, Message: "Opportunity approved"})
}

func (ac *AdminController) RejectOpportunity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	opportunity, err := ac.Opportunities.Reject(id, utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: opportunity, Message: "Opportunity rejected"})
}

// --- User management ---

func (ac *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size < 1 || size > 100 {
		size = 20
	}

	users, total, err := ac.Users.List(services.UserFilter{
		UserType: c.Query("userType"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       users,
		Pagination: newPagination(page, size, total),
	})
}

func (ac *AdminController) UserDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	details, err := ac.Users.Details(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: details})
}

func (ac *AdminController) BlockUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input reasonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ac.Users.Block(id, utils.GetUser(c).UserID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user, Message: "User blocked"})
}

func (ac *AdminController) UnblockUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input actionRequest
	_ = c.ShouldBindJSON(&input)

	user, err := ac.Users.Unblock(id, utils.GetUser(c).UserID, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user, Message: "User unblocked"})
}

func (ac *AdminController) ResetUserPassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := ac.Users.ResetPassword(id, utils.GetUser(c).UserID, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Password reset"})
}

func (ac *AdminController) UserActionHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actions, err := ac.Users.ActionHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: actions})
}

// --- Alerts ---

func (ac *AdminController) ListAlerts(c *gin.Context) {
	var resolved *bool
	if v := c.Query("resolved"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resolved filter", "success": false})
			return
		}
		resolved = &parsed
	}

	alerts, err := ac.Alerts.List(resolved,
		models.AlertPriority(c.Query("priority")),
		models.AlertType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: alerts})
}

func (ac *AdminController) CreateAlert(c *gin.Context) {
	var input struct {
		AlertType  models.AlertType        `json:"alert_type" binding:"required"`
		Priority   models.AlertPriority    `json:"priority" binding:"required"`
		Title      string                  `json:"title" binding:"required"`
		Message    string                  `json:"message"`
		EntityType *models.AlertEntityType `json:"entity_type"`
		EntityID   *uint                   `json:"entity_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	alert, err := ac.Alerts.Create(input.AlertType, input.Priority, input.Title, input.Message, input.EntityType, input.EntityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: alert})
}

func (ac *AdminController) ResolveAlert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	alert, err := ac.Alerts.Resolve(id, utils.GetUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: alert, Message: "Alert resolved"})
}

// --- Dashboard & statistics ---

func (ac *AdminController) GetDashboard(c *gin.Context) {
	dashboard, err := ac.Dashboard.Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: dashboard})
}

func (ac *AdminController) RefreshStatistics(c *gin.Context) {
	stats, err := ac.Dashboard.RefreshStatistics()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: stats, Message: "Statistics refreshed"})
}

func (ac *AdminController) StatisticsHistory(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	rows, err := ac.Dashboard.StatisticsHistory(days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rows})
}

// --- Anomaly scans ---

func (ac *AdminController) ScanDonationPatterns(c *gin.Context) {
	flagged, err := ac.Anomalies.FlagSuspiciousDonationPatterns()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: flagged})
}

func (ac *AdminController) ScanOpportunities(c *gin.Context) {
	flagged, err := ac.Anomalies.DetectSuspiciousOpportunities()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: flagged})
}

// --- Reports ---

func (ac *AdminController) DonationReportByNGO(c *gin.Context) {
	rows, err := ac.Donations.ReportByNGO()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rows})
}

func (ac *AdminController) DonationReportByCause(c *gin.Context) {
	rows, err := ac.Donations.ReportByCause()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rows})
}

func (ac *AdminController) ParticipationReport(c *gin.Context) {
	rows, err := ac.Opportunities.ParticipationReport()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rows})
}

func (ac *AdminController) RecentFundReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reports, err := ac.FundReports.Recent(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: reports})
}
