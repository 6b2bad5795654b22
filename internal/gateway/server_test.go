package gateway

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newGateway(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream-Path", r.URL.Path)
		w.Header().Set("X-Upstream-Request-Id", r.Header.Get(common.RequestIDHeaderName))
		_, _ = w.Write([]byte("page " + r.URL.Path))
	}))
	t.Cleanup(upstream.Close)

	s, err := NewServer("127.0.0.1:0", upstream.URL, logging.Nop(), opts...)
	require.NoError(t, err)
	return s, upstream
}

func do(s *Server, method, target string, withSession bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if withSession {
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: "tok"})
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestNewServer_RejectsRelativeUpstream(t *testing.T) {
	_, err := NewServer(":0", "localhost:3001", logging.Nop())
	require.Error(t, err)
}

func TestGate(t *testing.T) {
	s, _ := newGateway(t)

	tests := []struct {
		name         string
		path         string
		session      bool
		wantStatus   int
		wantLocation string
	}{
		{name: "anonymous on login", path: "/login", wantStatus: http.StatusOK},
		{name: "anonymous on dashboard", path: "/dashboard", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/login"},
		{name: "anonymous on nested protected", path: "/api-key/new?x=1", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/login?x=1"},
		{name: "signed in on login", path: "/login", session: true, wantStatus: http.StatusTemporaryRedirect, wantLocation: "/dashboard"},
		{name: "signed in on root", path: "/", session: true, wantStatus: http.StatusTemporaryRedirect, wantLocation: "/dashboard"},
		{name: "signed in on settings", path: "/settings", session: true, wantStatus: http.StatusOK},
		{name: "static asset", path: "/_next/static/app.js", wantStatus: http.StatusOK},
		{name: "favicon signed in", path: "/favicon.ico", session: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodGet, tt.path, tt.session)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			} else {
				assert.NotEmpty(t, rec.Header().Get("X-Upstream-Path"))
			}
		})
	}
}

func TestProxy_ForwardsRequestID(t *testing.T) {
	s, _ := newGateway(t)

	rec := do(s, http.MethodGet, "/register", false)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(common.RequestIDHeaderName)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Header().Get("X-Upstream-Request-Id"))
	assert.Equal(t, "page /register", rec.Body.String())
}

func TestProxy_UpstreamDown(t *testing.T) {
	s, upstream := newGateway(t)
	upstream.Close()

	rec := do(s, http.MethodGet, "/login", false)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthz(t *testing.T) {
	s, upstream := newGateway(t)
	upstream.Close()

	rec := do(s, http.MethodGet, "/healthz", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestOAuthCallback_SetsSessionCookie(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newGateway(t,
		WithExpiryPolicy(session.ExpiryPolicy{TTL: 24 * time.Hour, Now: func() time.Time { return now }}),
		WithSecureCookie(true),
	)

	rec := do(s, http.MethodGet, "/auth/callback?accessToken=abc%2Bdef", false)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, common.AccessTokenCookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Secure)
	assert.True(t, c.Expires.Equal(now.Add(24*time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	v, ok := session.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, "abc+def", v)
}

func TestOAuthCallback_Outcomes(t *testing.T) {
	s, _ := newGateway(t)

	rec := do(s, http.MethodGet, "/auth/callback?error=access_denied", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?error=oauth", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())

	rec = do(s, http.MethodGet, "/auth/callback", true)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = do(s, http.MethodGet, "/auth/callback", false)
	assert.Equal(t, "/login?error=oauth", rec.Header().Get("Location"))
}

func TestLogout_ExpiresCookie(t *testing.T) {
	s, _ := newGateway(t)

	rec := do(s, http.MethodPost, "/logout", true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.AccessTokenCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s, _ := newGateway(t, WithShutdownTimeout(time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
