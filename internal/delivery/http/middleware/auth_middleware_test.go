package middleware

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	mockUsecase "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		SessionCookieName: "session_id",
		PublicPaths:       []string{"/", "/health", "/users", "/sessions", "/reset_password"},
	}

	return cfg
}

func newAuthMiddlewareTest(t *testing.T) (*AuthMiddleware, *mockUsecase.MockAuthUsecase) {
	authUc := mockUsecase.NewMockAuthUsecase(t)
	m := NewAuthMiddleware(authUc, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	return m, authUc
}

func invoke(t *testing.T, m *AuthMiddleware, req *http.Request) (*httptest.ResponseRecorder, *entity.User) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *entity.User
	handler := m.Authenticate(func(c echo.Context) error {
		seen = CurrentUser(c)

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return rec, seen
}

func TestAuthenticate_PublicPathPassesAnonymously(t *testing.T) {
	m, _ := newAuthMiddlewareTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec, seen := invoke(t, m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticate_ProtectedPathWithoutCredentials(t *testing.T) {
	m, _ := newAuthMiddlewareTest(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec, _ := invoke(t, m, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestAuthenticate_ValidSessionCookie(t *testing.T) {
	m, authUc := newAuthMiddlewareTest(t)

	user := &entity.User{ID: uuid.New(), Email: "bob@example.com", SessionToken: "token-1"}
	authUc.On("ResolveSession", mock.Anything, "token-1").Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "token-1"})
	rec, seen := invoke(t, m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

func TestAuthenticate_StaleSessionCookie(t *testing.T) {
	m, authUc := newAuthMiddlewareTest(t)

	authUc.On("ResolveSession", mock.Anything, "stale").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale"})
	rec, _ := invoke(t, m, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticate_BasicCredentialsFallback(t *testing.T) {
	m, authUc := newAuthMiddlewareTest(t)

	user := &entity.User{ID: uuid.New(), Email: "bob@example.com"}
	authUc.On("ValidLogin", mock.Anything, usecase.LoginInput{Email: "bob@example.com", Password: "secret"}).
		Return(true, nil)
	authUc.On("FindByEmail", mock.Anything, "bob@example.com").Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAuthorization,
		"Basic "+base64.StdEncoding.EncodeToString([]byte("bob@example.com:secret")))
	rec, seen := invoke(t, m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "bob@example.com", seen.Email)
}

func TestAuthenticate_BasicCredentialsWrongPassword(t *testing.T) {
	m, authUc := newAuthMiddlewareTest(t)

	authUc.On("ValidLogin", mock.Anything, usecase.LoginInput{Email: "bob@example.com", Password: "wrong"}).
		Return(false, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAuthorization,
		"Basic "+base64.StdEncoding.EncodeToString([]byte("bob@example.com:wrong")))
	rec, _ := invoke(t, m, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticate_PublicPathStillResolvesUser(t *testing.T) {
	m, authUc := newAuthMiddlewareTest(t)

	user := &entity.User{ID: uuid.New(), Email: "bob@example.com", SessionToken: "token-1"}
	authUc.On("ResolveSession", mock.Anything, "token-1").Return(user, nil)

	// Logout lives on a public path but still needs to know who is calling.
	req := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "token-1"})
	rec, seen := invoke(t, m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
}
