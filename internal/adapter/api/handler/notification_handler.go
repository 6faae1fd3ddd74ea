package handler

import (
	"github.com/labstack/echo/v4"

	"solelink/internal/usecase"
	"solelink/pkg/errors"
	"solelink/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) RegisterToken(c echo.Context) error {
	userID := c.Get("uid").(string)

	var req usecase.RegisterTokenInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.notificationUseCase.RegisterToken(c.Request().Context(), userID, req); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "Device token registered",
	})
}

func (h *NotificationHandler) UnregisterToken(c echo.Context) error {
	userID := c.Get("uid").(string)
	token := c.Param("token")

	if err := h.notificationUseCase.UnregisterToken(c.Request().Context(), userID, token); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Device token removed",
	})
}
