package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	admin.GET("/dashboard", adminController.GetDashboard)
	admin.POST("/statistics/refresh", adminController.RefreshStatistics)
	admin.GET("/statistics/history", adminController.StatisticsHistory)

	ngos := admin.Group("/ngos")
	{
		ngos.GET("", adminController.ListNGOs)
		ngos.GET("/:id", adminController.GetNGO)
		ngos.POST("/:id/approve", adminController.ApproveNGO)
		ngos.POST("/:id/reject", adminController.RejectNGO)
		ngos.POST("/:id/suspend", adminController.SuspendNGO)
		ngos.POST("/:id/deactivate", adminController.DeactivateNGO)
		ngos.POST("/:id/reactivate", adminController.ReactivateNGO)
		ngos.PUT("/:id/profile", adminController.UpdateNGOProfile)
		ngos.GET("/:id/actions", adminController.NGOActionHistory)
	}

	verifications := admin.Group("/verifications")
	{
		verifications.GET("/pending", adminController.PendingVerifications)
		verifications.POST("/:id/approve", adminController.ApproveVerification)
		verifications.POST("/:id/reject", adminController.RejectVerification)
	}

	opportunities := admin.Group("/opportunities")
	{
		opportunities.GET("/pending", adminController.PendingOpportunities)
		opportunities.POST("/:id/approve", adminController.ApproveOpportunity)
		opportunities.POST("/:id/reject", adminController.RejectOpportunity)
	}

	users := admin.Group("/users")
	{
		users.GET("", adminController.ListUsers)
		users.GET("/:id", adminController.UserDetails)
		users.POST("/:id/block", adminController.BlockUser)
		users.POST("/:id/unblock", adminController.UnblockUser)
		users.POST("/:id/reset-password", adminController.ResetUserPassword)
		users.GET("/:id/actions", adminController.UserActionHistory)
	}

	alerts := admin.Group("/alerts")
	{
		alerts.GET("", adminController.ListAlerts)
		alerts.POST("", adminController.CreateAlert)
		alerts.POST("/:id/resolve", adminController.ResolveAlert)
	}

	scans := admin.Group("/scans")
	{
		scans.POST("/donation-patterns", adminController.ScanDonationPatterns)
		scans.POST("/opportunities", adminController.ScanOpportunities)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("/donations/by-ngo", adminController.DonationReportByNGO)
		reports.GET("/donations/by-cause", adminController.DonationReportByCause)
		reports.GET("/participation", adminController.ParticipationReport)
		reports.GET("/fund-reports", adminController.RecentFundReports)
	}
}
