// Package session holds the client's session state: the access token, the
// policy that decides when it expires, where it is stored, and the cookie
// jar adapter that is the only place cookies are read or written.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// DefaultTTL is the session lifetime used when the token carries no expiry.
const DefaultTTL = 24 * time.Hour

// Token is an opaque bearer credential plus the moment it stops being sent.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token is non-empty and not expired at now.
// A zero ExpiresAt never expires.
func (t Token) Valid(now time.Time) bool {
	if t.Value == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}

// OAuth2 converts the token so the oauth2 package can set the header.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{AccessToken: t.Value, TokenType: "Bearer", Expiry: t.ExpiresAt}
}

// ExpiryPolicy decides the expiry for every newly issued token, whichever
// flow produced it (password login, refresh, OAuth callback).
//
// A JWT with an exp claim expires at exp. Anything else lives for TTL.
type ExpiryPolicy struct {
	TTL time.Duration
	Now func() time.Time
}

func (p ExpiryPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p ExpiryPolicy) ttl() time.Duration {
	if p.TTL > 0 {
		return p.TTL
	}
	return DefaultTTL
}

// Issue wraps raw in a Token with its expiry resolved.
func (p ExpiryPolicy) Issue(raw string) Token {
	if exp, ok := jwtExpiry(raw); ok {
		return Token{Value: raw, ExpiresAt: exp}
	}
	return Token{Value: raw, ExpiresAt: p.now().Add(p.ttl())}
}

// jwtExpiry reads exp without verifying the signature. The backend is the
// only party that verifies; the client just needs to know when to stop.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
