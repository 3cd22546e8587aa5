package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateProfile edits the caller's own profile. Accepts multipart form data
// with an optional avatar image; empty fields are left unchanged.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        username  formData  string  false  "New username"
// @Param        bio       formData  string  false  "New bio"
// @Param        avatar    formData  file    false  "Avatar image"
// @Success      200       {object}  domain.User
// @Failure      400       {object}  map[string]string
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	avatarPath, err := formFile(c, "avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:     userID,
		Username:   c.FormValue("username"),
		Bio:        c.FormValue("bio"),
		AvatarPath: avatarPath,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// List returns all accounts, optionally filtered. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Match against username or email"
// @Success      200     {array}   domain.User
// @Failure      403     {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetRole changes a user's role. Admin only.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "User ID"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.SetRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "role updated"})
}

// Delete removes a user account. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
