package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/controllers"
)

func SetupApplicationRoutes(protected *gin.RouterGroup, applicationController *controllers.ApplicationController) {
	applications := protected.Group("/applications")
	{
		applications.GET("/mine", applicationController.Mine)
		applications.GET("/:id", applicationController.Get)
		applications.POST("/:id/cancel", applicationController.Cancel)
	}

	// volunteer-side apply lives under the opportunity it targets
	protected.POST("/opportunities/:id/apply", applicationController.Submit)
}
