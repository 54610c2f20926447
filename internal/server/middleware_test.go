package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline-dev/threadline/internal/auth"
)

func adminProductRequest(t *testing.T) *http.Request {
	t.Helper()
	return jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
		"name":        "Guarded Tee",
		"description": "Only admins may create this",
		"price":       19.99,
		"category":    "SHIRTS",
		"sizes":       []string{"M", "L"},
	})
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(srv, adminProductRequest(t))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Authentication required", body["error"])
}

func TestAdminRoutes_RejectTamperedCookie(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "admin@threadline.dev", "correct-horse", "Admin", true)

	cookie := loginAs(t, srv, "admin@threadline.dev", "correct-horse")
	cookie.Value = cookie.Value + "corrupted"

	req := adminProductRequest(t)
	req.AddCookie(cookie)
	rec := perform(srv, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The broken cookie is cleared so the client recovers on its own
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAdminRoutes_ForbidNonAdminSession(t *testing.T) {
	srv := newTestServer(t)

	// A session cookie minted for a non-admin should never reach the
	// login response, but the guard still has to hold if one exists.
	session := auth.Mint("usr_shopper", "shopper@example.com", "Shopper", false)
	token, err := srv.codec.Encode(session)
	require.NoError(t, err)

	req := adminProductRequest(t)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := perform(srv, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Admin access required", body["error"])
}

func TestAdminRoutes_AllowAdminSession(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "admin@threadline.dev", "correct-horse", "Admin", true)

	cookie := loginAs(t, srv, "admin@threadline.dev", "correct-horse")

	req := adminProductRequest(t)
	req.AddCookie(cookie)
	rec := perform(srv, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	// The same cookie keeps working across requests
	req = adminProductRequest(t)
	req.AddCookie(cookie)
	rec = perform(srv, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPublicRoutes_SkipGuard(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(srv, httpGet(t, "/api/products"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(srv, httpGet(t, "/health"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
