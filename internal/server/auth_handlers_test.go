package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline-dev/threadline/internal/auth"
)

func TestLogin_AdminSuccess(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "admin@example.com", "admin123", "Admin User", true)

	rec := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin123",
	}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, "Admin User", resp.User.Name)
	assert.True(t, resp.User.IsAdmin)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

// Unknown email and wrong password must be indistinguishable by status and
// body shape.
func TestLogin_InvalidCredentialsMerged(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "admin@example.com", "admin123", "Admin", true)

	wrongPassword := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "not-the-password",
	}))
	unknownEmail := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "admin123",
	}))

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	assert.Empty(t, wrongPassword.Result().Cookies())
	assert.Empty(t, unknownEmail.Result().Cookies())
}

func TestLogin_NonAdminForbidden(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "shopper@example.com", "shopper123", "Shopper", false)

	rec := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "shopper@example.com",
		"password": "shopper123",
	}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "no session cookie may be set for non-admins")
}

func TestLogin_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing email", body: map[string]string{"password": "x"}},
		{name: "missing password", body: map[string]string{"email": "a@b.com"}},
		{name: "invalid email", body: map[string]string{"email": "not-an-email", "password": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/login", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogout_Idempotent(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "admin@example.com", "admin123", "Admin", true)

	// Logout with an active session
	cookie := loginAs(t, s, "admin@example.com", "admin123")
	req := jsonRequest(t, http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	withSession := perform(s, req)

	// Logout with no session at all
	withoutSession := perform(s, jsonRequest(t, http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, withSession.Code)
	assert.Equal(t, http.StatusOK, withoutSession.Code)
	assert.Equal(t, withSession.Body.String(), withoutSession.Body.String())

	// Both responses clear the cookie
	for name, rec := range map[string]*httptest.ResponseRecorder{
		"with session":    withSession,
		"without session": withoutSession,
	} {
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1, name)
		assert.Empty(t, cookies[0].Value, name)
		assert.Negative(t, cookies[0].MaxAge, name)
	}
}

func TestSession_LoginThenIntrospect(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "admin@example.com", "admin123", "Admin", true)

	cookie := loginAs(t, s, "admin@example.com", "admin123")

	req := jsonRequest(t, http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec := perform(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.True(t, resp.User.IsAdmin)
}

func TestSession_NoCookieIsNull(t *testing.T) {
	s := newTestServer(t)

	rec := perform(s, jsonRequest(t, http.MethodGet, "/api/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeBody(t, rec, &resp)
	assert.Nil(t, resp.User)
}

// A malformed cookie reads as "not signed in" and is cleared so the client
// recovers on its own.
func TestSession_MalformedCookieSelfHeals(t *testing.T) {
	s := newTestServer(t)

	req := jsonRequest(t, http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "corrupted-garbage"})
	rec := perform(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeBody(t, rec, &resp)
	assert.Nil(t, resp.User)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "malformed cookie must be cleared")
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSession_AfterLogoutIsNull(t *testing.T) {
	s := newTestServer(t)
	createUser(t, s, "admin@example.com", "admin123", "Admin", true)

	cookie := loginAs(t, s, "admin@example.com", "admin123")

	logoutReq := jsonRequest(t, http.MethodPost, "/api/auth/logout", nil)
	logoutReq.AddCookie(cookie)
	logoutRec := perform(s, logoutReq)
	require.Equal(t, http.StatusOK, logoutRec.Code)

	// The client drops the cookie; a fresh introspection carries none
	rec := perform(s, jsonRequest(t, http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeBody(t, rec, &resp)
	assert.Nil(t, resp.User)
}
