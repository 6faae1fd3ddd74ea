package router

import (
	"github.com/labstack/echo/v4"

	"solelink/internal/adapter/api/handler"
	"solelink/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	userGroup := e.Group("/v1/users")
	userGroup.Use(authMiddleware.Authenticate)

	userGroup.GET("/me", userHandler.GetProfile)
	userGroup.PATCH("/me", userHandler.UpdateProfile)
	userGroup.POST("/me/photo", userHandler.UploadProfilePhoto)
}
