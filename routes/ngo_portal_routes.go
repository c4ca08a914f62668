package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/controllers"
)

// SetupNGOPortalRoutes wires the NGO self-service surface: posting
// opportunities, reviewing applications, verification and fund reports.
func SetupNGOPortalRoutes(protected *gin.RouterGroup,
	ngoController *controllers.NGOController,
	opportunityController *controllers.OpportunityController,
	applicationController *controllers.ApplicationController) {

	ngos := protected.Group("/ngos/:id")
	{
		ngos.PATCH("", ngoController.Update)
		ngos.POST("/verification", ngoController.SubmitVerification)
		ngos.POST("/fund-reports", ngoController.SubmitFundReport)
		ngos.GET("/fund-reports", ngoController.ListFundReports)

		ngos.POST("/opportunities", opportunityController.Create)
		ngos.GET("/opportunities", opportunityController.ListByNGO)
		ngos.PATCH("/opportunities/:opportunityId/active", opportunityController.SetActive)
		ngos.GET("/opportunities/:opportunityId/applications", opportunityController.ListApplications)

		ngos.GET("/applications", applicationController.ByNGO)
		ngos.PATCH("/applications/:applicationId/status", applicationController.UpdateStatus)
		ngos.POST("/applications/:applicationId/hours", applicationController.RecordHours)
	}
}
