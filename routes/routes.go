package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/controllers"
	"github.com/ngo-connect/api-go/middleware"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, logger *zap.Logger) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, logger)
	ngoController := controllers.NewNGOController(db, logger)
	opportunityController := controllers.NewOpportunityController(db, logger)
	applicationController := controllers.NewApplicationController(db, logger)
	donationController := controllers.NewDonationController(db, logger)
	adminController := controllers.NewAdminController(db, logger)
	uploadController := controllers.NewUploadController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/google-login", authController.GoogleLogin)
		public.POST("/refresh-token", authController.RefreshToken)

		public.GET("/ngos", ngoController.List)
		public.GET("/ngos/:id", ngoController.Get)
		public.GET("/ngos/causes", ngoController.Causes)
		public.GET("/ngos/locations", ngoController.Locations)

		public.GET("/opportunities", opportunityController.List)
		public.GET("/opportunities/available", opportunityController.Available)
		public.GET("/opportunities/filters", opportunityController.FilterOptions)
		public.GET("/opportunities/:id", opportunityController.Get)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)

		protected.POST("/ngos", ngoController.Register)

		SetupDonationRoutes(protected, donationController)
		SetupApplicationRoutes(protected, applicationController)
		SetupNGOPortalRoutes(protected, ngoController, opportunityController, applicationController)
		SetupUploadRoutes(protected, uploadController)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminRequired())
	{
		SetupAdminRoutes(admin, adminController)
	}
}
