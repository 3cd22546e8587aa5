package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListMine returns the caller's most recent notifications.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.NotificationView
// @Router       /notifications [get]
func (h *NotificationHandler) ListMine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	views, err := h.notificationService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// MarkRead marks one notification read. Idempotent.
//
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Notification ID"
// @Success      200  {object}  messageResponse
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "notification marked read"})
}

// MarkAllRead marks every notification of the caller read. Idempotent.
//
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), userID, ""); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "all notifications marked read"})
}
