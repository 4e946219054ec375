// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"gatekeeper/config"
	"gatekeeper/internal/delivery/http/middleware"
	"gatekeeper/internal/delivery/http/response"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ResetRequestInput asks for a password-reset token for an email.
type ResetRequestInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetUpdateInput consumes a reset token to set a new password.
type ResetUpdateInput struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	ResetToken  string `json:"reset_token" form:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	authUc usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUc: authUc,
		cfg:    cfg,
		logger: logger,
	}
}

// Welcome handles GET /.
func (h *AuthHandler) Welcome(c echo.Context) error {
	return response.Success(c, http.StatusOK, nil, "Bienvenue")
}

// Register handles POST /users.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authUc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email": user.Email,
	}, "user created")
}

// Login handles POST /sessions. A successful login sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	ctx := c.Request().Context()

	valid, err := h.authUc.ValidLogin(ctx, input)
	if err != nil {
		return errors.WithStack(err)
	}
	if !valid {
		return response.Unauthorized(c, "INVALID_CREDENTIALS", "invalid email or password")
	}

	token, err := h.authUc.CreateSession(ctx, input.Email)
	if err != nil {
		return errors.WithStack(err)
	}
	if token == "" {
		// The account vanished between the credential check and now.
		return response.Unauthorized(c, "INVALID_CREDENTIALS", "invalid email or password")
	}

	c.SetCookie(h.sessionCookie(token, 0))

	return response.Success(c, http.StatusOK, map[string]any{
		"email": input.Email,
	}, "logged in")
}

// Logout handles DELETE /sessions. It destroys the session behind the cookie
// and redirects to the index.
func (h *AuthHandler) Logout(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Forbidden(c, "FORBIDDEN", "Forbidden")
	}

	if err := h.authUc.DestroySession(c.Request().Context(), user.ID); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie("", -1))

	return c.Redirect(http.StatusFound, "/")
}

// Profile handles GET /profile.
func (h *AuthHandler) Profile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Forbidden(c, "FORBIDDEN", "Forbidden")
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email": user.Email,
	}, "")
}

// RequestReset handles POST /reset_password. The token is returned in the
// response body; mailing it out is a deployment concern, not ours.
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var input ResetRequestInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset request input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.authUc.RequestPasswordReset(c.Request().Context(), input.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email":       input.Email,
		"reset_token": token,
	}, "")
}

// UpdatePassword handles PUT /reset_password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var input ResetUpdateInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password update input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.authUc.UpdatePassword(c.Request().Context(), input.ResetToken, input.NewPassword); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email": input.Email,
	}, "Password updated")
}

// sessionCookie builds the session cookie. maxAge < 0 expires it immediately.
func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.Auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
