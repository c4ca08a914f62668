package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		upload.POST("/presigned-url", uploadController.GetPresignedURL)
		upload.POST("/confirm", uploadController.ConfirmUpload)
		upload.DELETE("/file/:key", uploadController.DeleteFile)
	}
}
