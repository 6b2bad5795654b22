package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// fakeBackend serves /items, which accepts only "Bearer <valid>", and
// /auth/refresh, which issues refreshToken.
type fakeBackend struct {
	mu           sync.Mutex
	valid        string
	refreshToken string
	refreshCode  int
	viaCookie    bool
	alwaysDeny   bool

	refreshCalls atomic.Int32
	itemCalls    atomic.Int32
	authHeaders  []string
	refreshAuth  []string

	// refreshGate, when set, blocks the refresh handler until closed.
	refreshGate chan struct{}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/items", func(w http.ResponseWriter, r *http.Request) {
		b.itemCalls.Add(1)
		h := r.Header.Get("Authorization")
		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, h)
		ok := !b.alwaysDeny && h == "Bearer "+b.valid
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"statusCode":200,"message":"ok","data":{"count":3},"timestamp":"2026-01-01T00:00:00Z"}`))
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		b.mu.Lock()
		b.refreshAuth = append(b.refreshAuth, r.Header.Get("Authorization"))
		gate := b.refreshGate
		code, tok, viaCookie := b.refreshCode, b.refreshToken, b.viaCookie
		b.mu.Unlock()
		if gate != nil {
			<-gate
		}
		if code != 0 && code != http.StatusOK {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"message":"refresh token expired"}`))
			return
		}
		if viaCookie {
			if tok != "" {
				http.SetCookie(w, &http.Cookie{Name: common.AccessTokenCookieName, Value: tok, Path: "/"})
			}
			_, _ = w.Write([]byte(`{"success":true,"statusCode":200,"data":{}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"statusCode": 200,
			"data":       map[string]string{"accessToken": tok},
		})
	})
	return mux
}

func (b *fakeBackend) headers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

func newTestClient(t *testing.T, b *fakeBackend, store session.Store) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	c, err := New(srv.URL+"/api/v1", store, WithHTTPClient(&http.Client{Jar: jar, Timeout: 5 * time.Second}))
	require.NoError(t, err)
	return c, srv
}

func storeWith(t *testing.T, value string) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	if value != "" {
		require.NoError(t, s.Save(context.Background(), session.Token{Value: value, ExpiresAt: time.Now().Add(time.Hour)}))
	}
	return s
}

func getItems(ctx context.Context, c *Client) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: "/items"})
}

// ---- tests ----

func TestNew_Validation(t *testing.T) {
	_, err := New("not-a-url", session.NewMemoryStore())
	require.Error(t, err)

	_, err = New("http://localhost:8000/api/v1", nil)
	require.Error(t, err)

	c, err := New("http://localhost:8000/api/v1/", session.NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1/users/me?x=1",
		c.URL("users/me", url.Values{"x": {"1"}}).String())
}

func TestDo_NoTokenSendsNoBearer(t *testing.T) {
	b := &fakeBackend{valid: "tok"}
	c, _ := newTestClient(t, b, storeWith(t, ""))

	// refresh issues nothing, so the 401 surfaces as a refresh failure
	_, err := getItems(context.Background(), c)
	require.Error(t, err)

	h := b.headers()
	require.NotEmpty(t, h)
	assert.Equal(t, "", h[0])
}

func TestDo_AttachesStoredToken(t *testing.T) {
	b := &fakeBackend{valid: "tok-1"}
	c, _ := newTestClient(t, b, storeWith(t, "tok-1"))

	resp, err := getItems(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer tok-1"}, b.headers())
	assert.Zero(t, b.refreshCalls.Load())
}

func TestDo_SetsRequestIDAndContentType(t *testing.T) {
	var gotID, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(common.RequestIDHeaderName)
		gotCT = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, err)
	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x", Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Len(t, gotID, 36)
	assert.Equal(t, "application/json", gotCT)
}

func TestDo_RefreshesOnceAndRetries(t *testing.T) {
	b := &fakeBackend{valid: "new", refreshToken: "new"}
	store := storeWith(t, "old")
	c, _ := newTestClient(t, b, store)

	env, err := Get[struct {
		Count int `json:"count"`
	}](context.Background(), c, "/items", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, env.Data.Count)

	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.Equal(t, []string{"Bearer old", "Bearer new"}, b.headers())

	tok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", tok.Value)
	assert.True(t, tok.ExpiresAt.After(time.Now()))
	assert.False(t, c.Refreshing())
}

func TestRefresh_NeverSendsBearer(t *testing.T) {
	b := &fakeBackend{valid: "new", refreshToken: "new"}
	c, _ := newTestClient(t, b, storeWith(t, "old"))

	_, err := getItems(context.Background(), c)
	require.NoError(t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{""}, b.refreshAuth)
}

func TestRefresh_TokenFromCookie(t *testing.T) {
	b := &fakeBackend{valid: "cookie-tok", refreshToken: "cookie-tok", viaCookie: true}
	store := storeWith(t, "old")
	c, _ := newTestClient(t, b, store)

	_, err := getItems(context.Background(), c)
	require.NoError(t, err)

	tok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cookie-tok", tok.Value)
}

func TestRefresh_NoTokenIssued(t *testing.T) {
	b := &fakeBackend{valid: "x", viaCookie: true}
	c, _ := newTestClient(t, b, storeWith(t, "old"))

	_, err := getItems(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorIs(t, err, ErrNoTokenIssued)
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 3

	gate := make(chan struct{})
	b := &fakeBackend{valid: "new", refreshToken: "new", refreshGate: gate}
	c, _ := newTestClient(t, b, storeWith(t, "old"))

	var joined atomic.Int32
	setAfterJoin(t, func() {
		if joined.Add(1) == n {
			close(gate)
		}
	})

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = getItems(context.Background(), c)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, b.refreshCalls.Load())

	var retried int
	for _, h := range b.headers() {
		if h == "Bearer new" {
			retried++
		}
	}
	assert.Equal(t, n, retried)
	assert.False(t, c.Refreshing())
}

func TestDo_RefreshFailureRejectsAllAndResets(t *testing.T) {
	const n = 4

	gate := make(chan struct{})
	b := &fakeBackend{valid: "new", refreshCode: http.StatusUnauthorized, refreshGate: gate}
	c, _ := newTestClient(t, b, storeWith(t, "old"))

	var joined atomic.Int32
	setAfterJoin(t, func() {
		if joined.Add(1) == n {
			close(gate)
		}
	})

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = getItems(context.Background(), c)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, ErrRefreshFailed)
		assert.True(t, err == errs[0], "every waiter sees the same error value")
	}
	var rerr *RefreshError
	require.ErrorAs(t, errs[0], &rerr)
	var apiErr *APIError
	require.ErrorAs(t, rerr.Err, &apiErr)
	assert.Equal(t, "refresh token expired", apiErr.Message)

	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.EqualValues(t, n, b.itemCalls.Load())
	assert.False(t, c.Refreshing())

	// a later 401 starts a fresh refresh
	afterJoin = func() {}
	b.mu.Lock()
	b.refreshGate = nil
	b.refreshCode = http.StatusOK
	b.refreshToken = "new"
	b.mu.Unlock()

	_, err := getItems(context.Background(), c)
	require.NoError(t, err)
	assert.EqualValues(t, 2, b.refreshCalls.Load())
}

func TestDo_SecondUnauthorizedIsTerminal(t *testing.T) {
	b := &fakeBackend{alwaysDeny: true, refreshToken: "new"}
	c, _ := newTestClient(t, b, storeWith(t, "old"))

	_, err := getItems(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrRefreshFailed)

	assert.EqualValues(t, 2, b.itemCalls.Load())
	assert.EqualValues(t, 1, b.refreshCalls.Load())
}

func TestDo_SkipRefresh(t *testing.T) {
	b := &fakeBackend{valid: "x", refreshToken: "x"}
	c, _ := newTestClient(t, b, storeWith(t, ""))

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/items", SkipRefresh: true})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, b.refreshCalls.Load())
}

func TestDo_TransportErrorUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, session.NewMemoryStore())
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/items"})
	require.Error(t, err)
	var uerr *url.Error
	assert.ErrorAs(t, err, &uerr)
	assert.NotErrorIs(t, err, ErrRefreshFailed)
}

func TestDo_NonAuthErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":["plan required","upgrade"]}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no such list"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/forbidden"})
	require.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "plan required; upgrade")

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/missing"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no such list")

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/other"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "api error 502: Bad Gateway", apiErr.Error())
}

func TestRefresh_CallerCancelStopsWaitingOnly(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{valid: "new", refreshToken: "new", refreshGate: gate}
	store := storeWith(t, "old")
	c, _ := newTestClient(t, b, store)

	ctx, cancel := context.WithCancel(context.Background())
	setAfterJoin(t, cancel)

	_, err := getItems(ctx, c)
	require.ErrorIs(t, err, context.Canceled)
	require.Eventually(t, c.Refreshing, 2*time.Second, 10*time.Millisecond)

	close(gate)
	require.Eventually(t, func() bool { return !c.Refreshing() }, 2*time.Second, 10*time.Millisecond)

	tok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", tok.Value)
}

type panickingStore struct{ *session.MemoryStore }

func (panickingStore) Save(context.Context, session.Token) error { panic("disk on fire") }

func TestRefresh_PanicBecomesRefreshError(t *testing.T) {
	b := &fakeBackend{valid: "new", refreshToken: "new"}
	c, _ := newTestClient(t, b, panickingStore{session.NewMemoryStore()})

	_, err := c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrRefreshFailed)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, c.Refreshing())
}

func TestClearSession_NextRequestIsAnonymous(t *testing.T) {
	b := &fakeBackend{valid: "tok"}
	store := storeWith(t, "tok")
	c, srv := newTestClient(t, b, store)

	u, _ := url.Parse(srv.URL)
	c.http.Jar.SetCookies(u, []*http.Cookie{{Name: common.AccessTokenCookieName, Value: "tok", Path: "/"}})

	require.NoError(t, c.ClearSession(context.Background()))

	_, err := c.Session(context.Background())
	require.True(t, errors.Is(err, common.ErrNoSession))
	_, ok := session.CookieValue(c.http.Jar, c.BaseURL(), common.AccessTokenCookieName)
	assert.False(t, ok)

	_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/items", SkipRefresh: true})
	assert.Equal(t, []string{""}, b.headers())
}

func TestSaveSession_AppliesPolicy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewMemoryStore()
	c, err := New("http://localhost/api", store,
		WithTokenPolicy(session.ExpiryPolicy{TTL: 2 * time.Hour, Now: func() time.Time { return now }}))
	require.NoError(t, err)

	tok, err := c.SaveSession(context.Background(), "opaque")
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), tok.ExpiresAt)
}

// setAfterJoin installs fn as the refresh join hook for the rest of the test.
func setAfterJoin(t *testing.T, fn func()) {
	t.Helper()
	old := afterJoin
	afterJoin = fn
	t.Cleanup(func() { afterJoin = old })
}
