package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/controllers"
)

func SetupDonationRoutes(protected *gin.RouterGroup, donationController *controllers.DonationController) {
	donations := protected.Group("/donations")
	{
		donations.POST("", donationController.Create)
		donations.GET("/mine", donationController.Mine)
		donations.GET("/:id", donationController.Get)
		donations.POST("/:id/complete", donationController.Complete)
		donations.POST("/:id/fail", donationController.Fail)
	}

	protected.GET("/ngos/:id/donations", donationController.ByNGO)
}
