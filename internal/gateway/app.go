package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/gateway/config"
	"github.com/riskcheck/console/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout, false)

	s, err := NewServer(c.ListenAddr, c.UpstreamURL, logger,
		WithExpiryPolicy(session.ExpiryPolicy{TTL: c.SessionTTL}),
		WithSecureCookie(c.SecureCookie),
		WithShutdownTimeout(c.ShutdownTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway init error: %w", err)
	}
	return &App{config: c, logger: logger, server: s}, nil
}

// Run blocks until SIGINT/SIGTERM/SIGQUIT or a server failure.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "gateway stopped", "error", err)
		return err
	}
	return nil
}
