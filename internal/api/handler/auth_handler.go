package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

type inviteResponse struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new active account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login authenticates a user and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Profile returns the authenticated user's account.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Invite creates a pending account and emails a setup link. Admin only.
//
// @Summary      Invite a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      inviteRequest  true  "Invitee details"
// @Success      201   {object}  inviteResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/invite [post]
func (h *AuthHandler) Invite(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	result, err := h.authService.Invite(c.Request().Context(), userID, req.Email, role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, inviteResponse{Email: result.Email, Link: result.Link})
}

// CompleteProfile finishes a pending invited account. Accepts multipart form
// data with an optional avatar image.
//
// @Summary      Complete an invited profile
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        token     path      string  true   "Invitation token"
// @Param        username  formData  string  true   "Chosen username"
// @Param        password  formData  string  true   "Chosen password"
// @Param        avatar    formData  file    false  "Avatar image"
// @Success      200       {object}  domain.User
// @Failure      400       {object}  map[string]string
// @Router       /auth/complete-profile/{token} [post]
func (h *AuthHandler) CompleteProfile(c echo.Context) error {
	token := c.Param("token")
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	avatarPath, err := formFile(c, "avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}

	user, err := h.authService.CompleteProfile(c.Request().Context(), ports.CompleteProfileInput{
		Token:      token,
		Username:   username,
		Password:   password,
		AvatarPath: avatarPath,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// ForgotPassword emails a password reset link. Always answers 200 so the
// endpoint cannot be used to probe registered addresses.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if err == domain.ErrUserNotFound {
			return c.JSON(http.StatusOK, messageResponse{Message: "reset email sent"})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "reset email sent"})
}

// ResetPassword sets a new password from a valid reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-password/{token} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}
