package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func newTestApp(tm *TokenManager) *fiber.App {
	app := fiber.New()
	app.Use(NewMiddleware(tm).Authenticate)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"authenticated": false})
		}
		return c.JSON(fiber.Map{"authenticated": true, "subject": identity.Username})
	})
	return app
}

func TestAuthenticateWithValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newTestApp(tm)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "alice", body["subject"])
}

func TestAuthenticateWithoutTokenProceedsUnauthenticated(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newTestApp(tm)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["authenticated"])
}

func TestAuthenticateWithBadCredentialProceedsUnauthenticated(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newTestApp(tm)

	for _, header := range []string{
		"Bearer not-a-token",
		"Basic dXNlcjpwYXNz",
		"Bearer",
	} {
		req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, header)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "header %q", header)
		assert.Equal(t, false, decodeBody(t, resp)["authenticated"], "header %q", header)
	}
}

func TestIdentityDoesNotLeakAcrossRequests(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newTestApp(tm)

	token, _, err := tm.Issue(&domain.User{ID: 1, Username: "bob", Roles: []domain.RoleName{domain.RoleUser}})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, true, decodeBody(t, resp)["authenticated"])

	// The next request carries no credential and must start unauthenticated.
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, false, decodeBody(t, resp)["authenticated"])
}
