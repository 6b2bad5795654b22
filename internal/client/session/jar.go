package session

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/riskcheck/console/internal/client/repositories/cookies"
	"github.com/riskcheck/console/internal/logging"
)

// Jar is an http.CookieJar that mirrors every cookie the backend sets into a
// cookies.Repository, so the refresh session survives process restarts.
// A nil repository gives a purely in-memory jar.
type Jar struct {
	mu     sync.RWMutex
	inner  *cookiejar.Jar
	repo   cookies.Repository
	logger logging.Logger
	now    func() time.Time
}

// NewJar builds a Jar and replays the non-expired cookies held by repo.
func NewJar(ctx context.Context, repo cookies.Repository, logger logging.Logger) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	j := &Jar{inner: inner, repo: repo, logger: logger, now: time.Now}

	if repo == nil {
		return j, nil
	}
	stored, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range stored {
		u, err := url.Parse(s.Origin)
		if err != nil {
			logger.Warn(ctx, "skipping stored cookie with bad origin", "origin", s.Origin, "error", err)
			continue
		}
		inner.SetCookies(u, []*http.Cookie{s.Cookie})
	}
	return j, nil
}

func (j *Jar) SetCookies(u *url.URL, list []*http.Cookie) {
	j.mu.RLock()
	inner := j.inner
	j.mu.RUnlock()
	inner.SetCookies(u, list)

	if j.repo == nil {
		return
	}
	ctx := context.Background()
	origin := originOf(u)
	for _, c := range list {
		path := cookiePath(u, c)
		var err error
		switch {
		case j.expired(c):
			err = j.repo.Delete(ctx, origin, c.Name, path)
		case accepted(inner, u, c, path):
			stored := *c
			stored.Path = path
			err = j.repo.Upsert(ctx, origin, &stored)
		default:
			j.logger.Debug(ctx, "cookie rejected, not persisted", "cookie", c.Name)
		}
		if err != nil {
			j.logger.Warn(ctx, "cookie not persisted", "cookie", c.Name, "error", err)
		}
	}
}

// cookiePath is the path the cookie is scoped to: its own Path attribute, or
// the directory of the request path when that is missing (RFC 6265 5.1.4).
func cookiePath(u *url.URL, c *http.Cookie) string {
	if c.Path != "" && c.Path[0] == '/' {
		return c.Path
	}
	p := u.EscapedPath()
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndexByte(p, '/')
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// accepted reports whether inner kept c, so rejected cookies (bad domain,
// public suffix) are never replayed after a restart.
func accepted(inner http.CookieJar, u *url.URL, c *http.Cookie, path string) bool {
	target := *u
	target.Path, target.RawPath = path, ""
	if c.Secure {
		target.Scheme = "https"
	}
	for _, got := range inner.Cookies(&target) {
		if got.Name == c.Name && got.Value == c.Value {
			return true
		}
	}
	return false
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

// Expire overwrites name with an already-expired cookie, removing it.
func (j *Jar) Expire(u *url.URL, name string) {
	j.SetCookies(u, []*http.Cookie{ExpiredCookie(name)})
}

// Clear drops every cookie from memory and from the repository.
func (j *Jar) Clear(ctx context.Context) error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()

	if j.repo == nil {
		return nil
	}
	return j.repo.Clear(ctx)
}

func (j *Jar) expired(c *http.Cookie) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !c.Expires.After(j.now())
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// CookieValue returns the value of the named cookie the jar would send to u.
// The API client uses it to pick up tokens the backend sets as cookies.
func CookieValue(jar http.CookieJar, u *url.URL, name string) (string, bool) {
	if jar == nil {
		return "", false
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == name && c.Value != "" {
			if v, err := url.QueryUnescape(c.Value); err == nil {
				return v, true
			}
			return c.Value, true
		}
	}
	return "", false
}
