package middleware

import (
	"context"
	"log/slog"

	"gatekeeper/config"
	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/delivery/http/response"
	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware resolves the requesting user from the session cookie, with
// HTTP Basic credentials as a fallback for clients that do not hold a session.
type AuthMiddleware struct {
	authUc usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{authUc: authUc, cfg: cfg, logger: logger}
}

// Authenticate enforces the access policy. The user is resolved on every
// request so handlers on public paths (logout, for one) can still see who is
// calling; only paths outside auth.publicPaths reject anonymous requests.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := m.ResolveUser(c)
		if user != nil {
			c.Set(deliverycontext.KeyCurrentUser, user)
		}

		if user == nil && RequiresAuth(c.Request().URL.Path, m.cfg.Auth.PublicPaths) {
			return response.Forbidden(c, "FORBIDDEN", "Forbidden")
		}

		return next(c)
	}
}

// ResolveUser returns the user behind the request, or nil when the request
// carries no valid session cookie and no valid Basic credentials.
func (m *AuthMiddleware) ResolveUser(c echo.Context) *entity.User {
	ctx := c.Request().Context()

	if user := m.resolveFromCookie(ctx, c); user != nil {
		return user
	}

	return m.resolveFromBasic(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
}

func (m *AuthMiddleware) resolveFromCookie(ctx context.Context, c echo.Context) *entity.User {
	cookie, err := c.Cookie(m.cfg.Auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	user, err := m.authUc.ResolveSession(ctx, cookie.Value)
	if err != nil {
		m.logger.Warn("session lookup failed", slog.Any("error", err))

		return nil
	}

	return user
}

func (m *AuthMiddleware) resolveFromBasic(ctx context.Context, header string) *entity.User {
	email, password, ok := ExtractBasicCredentials(header)
	if !ok {
		return nil
	}

	valid, err := m.authUc.ValidLogin(ctx, usecase.LoginInput{Email: email, Password: password})
	if err != nil || !valid {
		return nil
	}

	user, err := m.authUc.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	return user
}

// CurrentUser reads the user placed on the echo context by Authenticate.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(deliverycontext.KeyCurrentUser).(*entity.User)

	return user
}
