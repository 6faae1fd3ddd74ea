package router

import (
	"github.com/labstack/echo/v4"

	"solelink/internal/adapter/api/handler"
	"solelink/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	tokenGroup := e.Group("/v1/notifications/tokens")
	tokenGroup.Use(authMiddleware.Authenticate)

	tokenGroup.POST("", notificationHandler.RegisterToken)
	tokenGroup.DELETE("/:token", notificationHandler.UnregisterToken)
}
