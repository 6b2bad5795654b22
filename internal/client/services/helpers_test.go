package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/repositories/metadata"
	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/client/storage"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// recorded is one request the fake backend saw.
type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

type backend struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu   sync.Mutex
	seen []recorded
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		b.mu.Lock()
		b.seen = append(b.seen, rec)
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

// handle registers a route like "POST /api/v1/auth/login".
func (b *backend) handle(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *backend) requests() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded(nil), b.seen...)
}

func (b *backend) count(method, path string) int {
	n := 0
	for _, r := range b.requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *backend) last(method, path string) recorded {
	b.t.Helper()
	reqs := b.requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i]
		}
	}
	b.t.Fatalf("no %s %s request recorded", method, path)
	return recorded{}
}

func (b *backend) client(store session.Store) *api.Client {
	b.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(b.t, err)
	c, err := api.New(b.srv.URL+"/api/v1", store, api.WithHTTPClient(&http.Client{Jar: jar, Timeout: 5 * time.Second}))
	require.NoError(b.t, err)
	return c
}

func signedIn(t *testing.T, token string) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), session.Token{Value: token, ExpiresAt: time.Now().Add(time.Hour)}))
	return s
}

func metadataRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func ok(data string) string {
	return `{"success":true,"statusCode":200,"message":"ok","data":` + data + `,"timestamp":"2026-01-01T00:00:00Z"}`
}

const userJSON = `{"id":"u1","email":"ann@example.com","name":"Ann","subscription":{"id":"s1","status":"active","plan":{"id":"p1","name":"Pro","features":{"analytics":"full","customLists":true}}}}`
