package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/config"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/client/repositories/cookies"
	"github.com/riskcheck/console/internal/client/repositories/metadata"
	"github.com/riskcheck/console/internal/client/services"
	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/client/storage"
	"github.com/riskcheck/console/internal/filex"
	"github.com/riskcheck/console/internal/logging"
)

// AppName names the per-user data directory.
const AppName = "riskcheck"

type Mode string

const (
	ModeSignedOut Mode = "signed out"
	ModeSignedIn  Mode = "signed in"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	client *api.Client

	authService         services.AuthService
	userService         services.UserService
	apiKeyService       services.APIKeyService
	customListService   services.CustomListService
	dashboardService    services.DashboardService
	analyticsService    services.AnalyticsService
	subscriptionService services.SubscriptionService

	mu   sync.RWMutex
	user *models.User
	Mode Mode

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// NewApp opens the session database and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stderr, c.Debug)

	dsn := c.SessionDB
	if dsn == "" {
		p, err := filex.DataFile(AppName, "session.db")
		if err != nil {
			return nil, fmt.Errorf("data dir error: %w", err)
		}
		dsn = p
	}

	db, err := storage.Open(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	jar, err := session.NewJar(ctx, cookies.NewSQLiteRepository(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cookie jar error: %w", err)
	}

	hc := &http.Client{Jar: jar, Timeout: c.RequestTimeout}
	client, err := api.New(c.APIURL, session.NewSQLiteStore(db),
		api.WithHTTPClient(hc),
		api.WithLogger(logger),
		api.WithTokenPolicy(session.ExpiryPolicy{TTL: c.SessionTTL}),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(client, metadata.NewSQLiteRepository(db), logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.db = db
	return a, nil
}

// newApp wires services around an existing client. meta may be nil.
func newApp(client *api.Client, meta metadata.Repository, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	auth := services.NewAuthService(client, meta)
	return &App{
		logger:              logger,
		client:              client,
		authService:         auth,
		userService:         services.NewUserService(client, auth),
		apiKeyService:       services.NewAPIKeyService(client),
		customListService:   services.NewCustomListService(client),
		dashboardService:    services.NewDashboardService(client, auth),
		analyticsService:    services.NewAnalyticsService(client),
		subscriptionService: services.NewSubscriptionService(client),
		Mode:                ModeSignedOut,
		reader:              reader,
		out:                 out,
		now:                 time.Now,
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) currentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

// setUser records who is signed in; nil signs out.
func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	mode := ModeSignedOut
	if u != nil {
		mode = ModeSignedIn
	}
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Debug(context.Background(), "mode changed", "mode", string(mode))
	}
}

func (a *App) status() string {
	if u := a.currentUser(); u != nil {
		return u.Email
	}
	return string(ModeSignedOut)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// fail reports err to the user. A failed refresh ends the session: the
// local token is dropped and the user has to log in again.
func (a *App) fail(ctx context.Context, action string, err error) error {
	a.logger.Debug(ctx, action+" failed", "error", err)
	if errors.Is(err, api.ErrRefreshFailed) {
		_ = a.client.ClearSession(ctx)
		a.setUser(nil)
		a.println("Your session has expired. Please log in again.")
		return err
	}
	a.printf("Error: %s\n", humanError(err))
	return err
}

func humanError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// restoreSession signs the user back in from a stored token or refresh cookie.
func (a *App) restoreSession(ctx context.Context) {
	ok, u := a.authService.IsAuthenticated(ctx)
	if !ok {
		return
	}
	a.setUser(u)
}

// StartSessionWatcher refreshes the access token shortly before it expires
// so that idle sessions survive. A failed refresh signs the user out.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx, interval)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context, lead time.Duration) {
	if !a.isLoggedIn() {
		return
	}
	tok, err := a.client.Session(ctx)
	if err == nil && (tok.ExpiresAt.IsZero() || a.now().Add(lead).Before(tok.ExpiresAt)) {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := a.client.Refresh(rctx); err != nil {
		if errors.Is(err, api.ErrRefreshFailed) {
			a.logger.Warn(ctx, "session refresh failed", "error", err)
			_ = a.client.ClearSession(ctx)
			a.setUser(nil)
			a.println("\nYour session has expired. Please log in again.")
		}
		return
	}
	a.logger.Debug(ctx, "session refreshed")
}
