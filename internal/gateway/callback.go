package gateway

import (
	"net/http"

	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/routes"
)

// oauthCallback finishes Google sign-in. The backend redirects here with
// either ?error=..., ?accessToken=..., or nothing when it already set the
// session cookie itself.
func (s *Server) oauthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if msg := q.Get("error"); msg != "" {
		s.logger.Warn(ctx, "oauth callback failed", "error", msg)
		http.Redirect(w, r, routes.LoginPath+"?error=oauth", http.StatusFound)
		return
	}

	if raw := q.Get("accessToken"); raw != "" {
		c := session.NewCookie(s.policy.Issue(raw))
		c.Secure = s.secureCookie
		http.SetCookie(w, c)
		s.logger.Info(ctx, "oauth session established", "expires", c.Expires)
		http.Redirect(w, r, routes.DashboardPath, http.StatusFound)
		return
	}

	if _, ok := session.FromRequest(r); ok {
		http.Redirect(w, r, routes.DashboardPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, routes.LoginPath+"?error=oauth", http.StatusFound)
}

// logout drops the session cookie. The backend session is ended by the
// frontend's own call to /auth/logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	c := session.ExpiredCookie(common.AccessTokenCookieName)
	c.Secure = s.secureCookie
	http.SetCookie(w, c)
	http.Redirect(w, r, routes.LoginPath, http.StatusFound)
}
