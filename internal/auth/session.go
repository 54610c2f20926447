package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a minted session stays valid
const SessionTTL = 24 * time.Hour

// ErrMalformedSession is returned when a cookie value cannot be decoded into
// a valid session: bad signature, expired token, missing fields, wrong types.
// Callers treat it as "not signed in", never as a user-visible error.
var ErrMalformedSession = errors.New("malformed session")

// Session is the identity carried inside the admin session cookie. It is the
// only session state the server trusts; there is no server-side session table.
// IsAdmin is copied from the user record at mint time and never read from
// client input.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// sessionClaims is the JWT payload for a session cookie
type sessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Codec signs sessions into opaque cookie values and verifies them back.
// An HMAC signature makes the cookie tamper-evident: flipping any byte of
// the value invalidates it instead of producing a different session.
type Codec struct {
	secret []byte
}

// NewCodec creates a session codec with the given signing secret
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode serializes a session into a signed cookie value
func (c *Codec) Encode(session Session) (string, error) {
	if session.UserID == "" || session.Email == "" {
		return "", fmt.Errorf("session is missing required fields")
	}

	claims := sessionClaims{
		Email:   session.Email,
		Name:    session.Name,
		IsAdmin: session.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a cookie value and returns the session it carries. Any
// failure (signature, expiry, structure) is reported as ErrMalformedSession.
func (c *Codec) Decode(value string) (*Session, error) {
	token, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrMalformedSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedSession
	}

	// Reject structurally incomplete payloads even when the signature checks out
	if claims.Subject == "" || claims.Email == "" ||
		claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrMalformedSession
	}

	// Numeric JWT dates come back in local time; sessions are minted in UTC
	return &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		IsAdmin:   claims.IsAdmin,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Mint creates a fresh session for a user identity
func Mint(userID, email, name string, isAdmin bool) Session {
	now := time.Now().UTC().Truncate(time.Second)
	return Session{
		UserID:    userID,
		Email:     email,
		Name:      name,
		IsAdmin:   isAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(SessionTTL),
	}
}
