package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/threadline-dev/threadline/internal/auth"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionInvalid = errors.New("invalid session")
	ErrAdminOnly      = errors.New("admin access required")
)

const sessionContextKey = "session"

func setSession(c *gin.Context, session *auth.Session) {
	c.Set(sessionContextKey, session)
}

// GetSession returns the decoded session for the current request, if any
func GetSession(c *gin.Context) (*auth.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*auth.Session)
	return session, ok
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// SessionAuthMiddleware decodes the session cookie and injects the session
// into the request context. The check re-runs on every request; there is no
// cached verdict. A malformed cookie is cleared so the client is not wedged
// into a permanent error state.
func SessionAuthMiddleware(codec *auth.Codec, secureCookies bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := auth.ReadSessionCookie(c.Request)
		if value == "" {
			respondWithError(c, log, http.StatusUnauthorized, ErrNoSession, "Authentication required")
			return
		}

		session, err := codec.Decode(value)
		if err != nil {
			// Self-heal: drop the unusable cookie along with the rejection
			auth.ClearSessionCookie(c.Writer, secureCookies)
			respondWithError(c, log, http.StatusUnauthorized, ErrSessionInvalid, "Authentication required")
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// RequireAdminMiddleware ensures the authenticated session carries the admin
// flag. The flag was sourced from the user record at login; a non-admin
// session can never be promoted client-side because the cookie is signed.
func RequireAdminMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, ErrNoSession, "Authentication required")
			return
		}

		if !session.IsAdmin {
			respondWithError(c, log, http.StatusForbidden, ErrAdminOnly, "Admin access required")
			return
		}

		c.Next()
	}
}
