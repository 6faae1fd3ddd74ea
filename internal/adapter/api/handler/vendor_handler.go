package handler

import (
	"github.com/labstack/echo/v4"

	"solelink/internal/usecase"
	"solelink/pkg/errors"
	"solelink/pkg/response"
)

type VendorHandler struct {
	vendorUseCase *usecase.VendorUseCase
}

func NewVendorHandler(vendorUseCase *usecase.VendorUseCase) *VendorHandler {
	return &VendorHandler{
		vendorUseCase: vendorUseCase,
	}
}

func (h *VendorHandler) Register(c echo.Context) error {
	userID := c.Get("uid").(string)

	var req usecase.RegisterVendorInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	vendor, err := h.vendorUseCase.Register(c.Request().Context(), userID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, vendor)
}

func (h *VendorHandler) Search(c echo.Context) error {
	city := c.QueryParam("city")
	zipCode := c.QueryParam("zip")

	vendors, err := h.vendorUseCase.Search(c.Request().Context(), city, zipCode)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, vendors)
}

func (h *VendorHandler) GetByID(c echo.Context) error {
	vendorID := c.Param("id")
	if vendorID == "" {
		return response.Error(c, errors.BadRequest("Vendor ID is required", nil))
	}

	vendor, err := h.vendorUseCase.GetByID(c.Request().Context(), vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, vendor)
}
