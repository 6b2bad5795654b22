// Package gateway is the HTTP front door of the console: it gates routes on
// the session cookie, completes the OAuth callback server-side and proxies
// everything else to the frontend server.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/logging"
)

type Server struct {
	address         string
	upstream        *url.URL
	policy          session.ExpiryPolicy
	secureCookie    bool
	shutdownTimeout time.Duration
	logger          logging.Logger
	handler         http.Handler
}

type Option func(*Server)

func WithExpiryPolicy(p session.ExpiryPolicy) Option {
	return func(s *Server) { s.policy = p }
}

func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

func NewServer(address, upstream string, l logging.Logger, opts ...Option) (*Server, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream %q must be absolute", upstream)
	}

	s := &Server{
		address:         address,
		upstream:        u,
		shutdownTimeout: 10 * time.Second,
		logger:          l.With("module", "gateway"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(s.upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Error(r.Context(), "upstream error", "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}

	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/callback", s.oauthCallback).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodGet, http.MethodPost)

	r.PathPrefix("/").Handler(s.gate(proxy))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gateway...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting gateway", "address", listen.Addr().String(), "upstream", s.upstream.String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
