// Package session owns the client's authentication state: the bearer token
// and username, their durable storage, and the login, logout and validate
// operations that change them.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Keys under which the session is persisted.
const (
	TokenKey    = "auth_token"
	UsernameKey = "username"
)

// Session is the client-held record of the current user. The zero value is
// the signed-out session.
type Session struct {
	Token    string
	Username string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// ExpiresAt returns the exp claim of a JWT token. The signature is not
// checked; the server remains the authority on validity. ok is false for
// opaque tokens and tokens without exp.
func (s Session) ExpiresAt() (t time.Time, ok bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token's exp claim is at or before now.
// Sessions without a known expiry never report expired.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
