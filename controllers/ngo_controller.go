package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/models"
	"github.com/ngo-connect/api-go/services"
)

// NGOController is the public NGO registry plus the NGO self-service
// endpoints (verification submission, fund reports).
type NGOController struct {
	DB            *gorm.DB
	Verifications *services.VerificationService
	FundReports   *services.FundReportService
}

func NewNGOController(db *gorm.DB, logger *zap.Logger) *NGOController {
	alerts := services.NewAlertService(db, logger)
	return &NGOController{
		DB:            db,
		Verifications: services.NewVerificationService(db, logger, alerts),
		FundReports:   services.NewFundReportService(db, logger),
	}
}

type RegisterNGORequest struct {
	OrganizationName    string   `json:"organization_name" binding:"required"`
	Description         string   `json:"description"`
	Cause               string   `json:"cause"`
	Causes              []string `json:"causes"`
	Location            string   `json:"location"`
	Address             string   `json:"address"`
	Website             string   `json:"website"`
	Phone               string   `json:"phone"`
	Email               string   `json:"email" binding:"required,email"`
	RegistrationNumber  string   `json:"registration_number"`
	PointOfContactName  string   `json:"point_of_contact_name"`
	PointOfContactPhone string   `json:"point_of_contact_phone"`
	FoundedYear         *int     `json:"founded_year"`
	ImageURL            string   `json:"image_url"`
}

// Register creates an NGO in PENDING status. Missing optional fields
// get the registry defaults so listings never render empty cells.
func (nc *NGOController) Register(c *gin.Context) {
	var req RegisterNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if req.Description == "" {
		req.Description = "N/A"
	}
	if req.Location == "" {
		req.Location = "Unknown"
	}
	if req.Cause == "" {
		if len(req.Causes) > 0 {
			req.Cause = req.Causes[0]
		} else {
			req.Cause = "General"
		}
	}

	var existing int64
	nc.DB.Model(&models.NGO{}).Where("organization_name = ?", req.OrganizationName).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Organization name already registered", "success": false})
		return
	}

	ngo := models.NGO{
		OrganizationName:    req.OrganizationName,
		Description:         req.Description,
		Cause:               req.Cause,
		Causes:              pq.StringArray(req.Causes),
		Location:            req.Location,
		Address:             req.Address,
		Website:             req.Website,
		Phone:               req.Phone,
		Email:               req.Email,
		RegistrationNumber:  req.RegistrationNumber,
		PointOfContactName:  req.PointOfContactName,
		PointOfContactPhone: req.PointOfContactPhone,
		FoundedYear:         req.FoundedYear,
		ImageURL:            req.ImageURL,
		Status:              models.NGOStatusPending,
	}
	if err := nc.DB.Create(&ngo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not register NGO", "success": false})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: ngo, Message: "NGO registered"})
}

type UpdateNGORequest struct {
	Description         *string  `json:"description"`
	Website             *string  `json:"website"`
	Phone               *string  `json:"phone"`
	Location            *string  `json:"location"`
	Address             *string  `json:"address"`
	PointOfContactName  *string  `json:"point_of_contact_name"`
	PointOfContactPhone *string  `json:"point_of_contact_phone"`
	ImageURL            *string  `json:"image_url"`
	Causes              []string `json:"causes"`
}

// Update is the NGO portal's own profile edit. Name, email and
// registration number stay immutable here; admins change those
// through the management endpoints.
func (nc *NGOController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var ngo models.NGO
	if err := nc.DB.First(&ngo, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found", "success": false})
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.PointOfContactName != nil {
		updates["point_of_contact_name"] = *req.PointOfContactName
	}
	if req.PointOfContactPhone != nil {
		updates["point_of_contact_phone"] = *req.PointOfContactPhone
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Causes != nil {
		updates["causes"] = pq.StringArray(req.Causes)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo})
		return
	}

	if err := nc.DB.Model(&ngo).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update NGO", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo, Message: "NGO updated"})
}

func (nc *NGOController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var ngo models.NGO
	if err := nc.DB.First(&ngo, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ngo})
}

// List returns verified NGOs for the public directory, filterable by
// cause and location, searchable by name.
func (nc *NGOController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size < 1 || size > 100 {
		size = 20
	}

	query := nc.DB.Model(&models.NGO{}).Where("is_verified = ?", true)
	if cause := c.Query("cause"); cause != "" {
		query = query.Where("cause = ? OR ? = ANY(causes)", cause, cause)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("organization_name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list NGOs", "success": false})
		return
	}

	var ngos []models.NGO
	err := query.Order("organization_name ASC").
		Offset(page * size).
		Limit(size).
		Find(&ngos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list NGOs", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       ngos,
		Pagination: newPagination(page, size, total),
	})
}

// Causes returns the distinct causes across verified NGOs for the
// directory filter dropdown.
func (nc *NGOController) Causes(c *gin.Context) {
	var causes []string
	err := nc.DB.Model(&models.NGO{}).
		Where("is_verified = ?", true).
		Distinct().
		Order("cause").
		Pluck("cause", &causes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load causes", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: causes})
}

func (nc *NGOController) Locations(c *gin.Context) {
	var locations []string
	err := nc.DB.Model(&models.NGO{}).
		Where("is_verified = ?", true).
		Distinct().
		Order("location").
		Pluck("location", &locations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load locations", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: locations})
}

// SubmitVerification files a verification request for an NGO.
func (nc *NGOController) SubmitVerification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input struct {
		DocumentsProvided string `json:"documents_provided" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	request, err := nc.Verifications.Submit(id, input.DocumentsProvided)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: request, Message: "Verification request submitted"})
}

func (nc *NGOController) SubmitFundReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.FundReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	report, err := nc.FundReports.Submit(id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: report, Message: "Fund report filed"})
}

func (nc *NGOController) ListFundReports(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reports, err := nc.FundReports.ByNGO(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: reports})
}
