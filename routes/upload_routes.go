package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/controllers"
	"github.com/market-meet/api-go/middleware"
)

func SetupUploadRoutes(api *gin.RouterGroup, db *gorm.DB) {
	uploadController := controllers.NewUploadController(db)

	uploads := api.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("/presign", uploadController.GetPresignedURL)
	}
}
