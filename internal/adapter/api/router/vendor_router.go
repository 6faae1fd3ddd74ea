package router

import (
	"github.com/labstack/echo/v4"

	"solelink/internal/adapter/api/handler"
	"solelink/internal/adapter/api/middleware"
)

func SetupVendorRouter(e *echo.Echo, vendorHandler *handler.VendorHandler, authMiddleware *middleware.AuthMiddleware) {
	vendorGroup := e.Group("/v1/vendors")
	vendorGroup.Use(authMiddleware.Authenticate)

	vendorGroup.POST("", vendorHandler.Register)
	vendorGroup.GET("", vendorHandler.Search)
	vendorGroup.GET("/:id", vendorHandler.GetByID)
}
