package session

import (
	"net/http"
	"net/url"
	"time"

	"github.com/riskcheck/console/internal/common"
)

// NewCookie renders t as the browser-readable session cookie:
// path "/", SameSite=Lax and an explicit expiry.
func NewCookie(t Token) *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    url.QueryEscape(t.Value),
		Path:     "/",
		Expires:  t.ExpiresAt.UTC(),
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie clears name by overwriting it with an expired value.
func ExpiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest reads the session cookie of an incoming request.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.AccessTokenCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}
	return v, true
}
