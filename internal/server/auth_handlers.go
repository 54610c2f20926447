package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/threadline-dev/threadline/internal/auth"
	"github.com/threadline-dev/threadline/internal/models"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionUser represents the identity returned from login and introspection
type SessionUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User *SessionUser `json:"user"`
}

// SessionResponse represents a session introspection response.
// User is null when no valid session is present; that is not an error.
type SessionResponse struct {
	User *SessionUser `json:"user"`
}

func toSessionUser(session *auth.Session) *SessionUser {
	return &SessionUser{
		ID:        session.UserID,
		Email:     session.Email,
		Name:      session.Name,
		IsAdmin:   session.IsAdmin,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	}
}

// invalidCredentials sends the merged rejection for unknown email and wrong
// password. The two cases must stay indistinguishable to the client.
func invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
}

// login authenticates an admin and mints the session cookie.
// POST /api/auth/login
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			invalidCredentials(c)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		invalidCredentials(c)
		return
	}

	// The admin panel is the only authenticated surface; valid credentials
	// without the admin flag get a 403 and no cookie
	if !user.IsAdmin {
		s.logger.Warn().Str("email", user.Email).Msg("Non-admin login attempt rejected")
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	// Mint the session. IsAdmin comes from the user record, never from input.
	session := auth.Mint(user.ID, user.Email, user.Name, user.IsAdmin)
	value, err := s.codec.Encode(session)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	auth.WriteSessionCookie(c.Writer, value, s.config.IsProduction())

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Admin logged in")

	c.JSON(http.StatusOK, LoginResponse{User: toSessionUser(&session)})
}

// logout clears the session cookie. Idempotent: succeeds with or without an
// active session.
// POST /api/auth/logout
func (s *Server) logout(c *gin.Context) {
	auth.ClearSessionCookie(c.Writer, s.config.IsProduction())
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// getSession reports the current session, or null when absent or undecodable.
// A malformed cookie is cleared as a side effect.
// GET /api/auth/session
func (s *Server) getSession(c *gin.Context) {
	value := auth.ReadSessionCookie(c.Request)
	if value == "" {
		c.JSON(http.StatusOK, SessionResponse{User: nil})
		return
	}

	session, err := s.codec.Decode(value)
	if err != nil {
		// Corrupted or expired cookie: clear it and report logged-out
		auth.ClearSessionCookie(c.Writer, s.config.IsProduction())
		c.JSON(http.StatusOK, SessionResponse{User: nil})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{User: toSessionUser(session)})
}
