// Package services contains the console's application services. Each one
// wraps a group of backend endpoints behind typed calls on the api.Client.
// This file defines the authentication service: password and Google sign-in,
// registration, password reset and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/client/repositories/metadata"
	"github.com/riskcheck/console/internal/common"
)

// MinPasswordLength is enforced locally before a reset is sent.
const MinPasswordLength = 6

// lastEmailKey remembers who signed in last so the CLI can prefill prompts.
const lastEmailKey = "last_email"

// AuthService defines authentication operations for the console.
//
// Contract:
//   - Login/CompleteOAuth store the issued access token in the session store.
//   - Logout always forgets the local session, even when the backend call fails.
//   - ResetPassword validates its input before any request is sent.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, email, password, name string) error
	Logout(ctx context.Context) error
	GoogleAuthURL() string
	CompleteOAuth(ctx context.Context, query url.Values) (*models.User, error)
	SendResetLink(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
	CurrentUser(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) (bool, *models.User)
	HasSession(ctx context.Context) bool
	LastEmail(ctx context.Context) string
}

type authService struct {
	client *api.Client
	meta   metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client.
// meta may be nil, in which case the last signed-in email is not remembered.
func NewAuthService(client *api.Client, meta metadata.Repository) AuthService {
	return &authService{client: client, meta: meta}
}

// credentialRequest builds a request whose 401 means "wrong input", so the
// client must not try to refresh on it.
func credentialRequest(method, path string, body any) (api.Request, error) {
	r, err := api.NewJSONRequest(method, path, body)
	if err != nil {
		return api.Request{}, err
	}
	r.SkipRefresh = true
	return r, nil
}

// Login authenticates with email and password and stores the issued token.
func (a *authService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	r, err := credentialRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	env, err := api.Call[models.LoginResult](ctx, a.client, r)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if env.Data.AccessToken == "" {
		return nil, fmt.Errorf("login error: %w", api.ErrNoTokenIssued)
	}

	if _, err := a.client.SaveSession(ctx, env.Data.AccessToken); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	a.rememberEmail(ctx, email)
	return &env.Data, nil
}

func (a *authService) rememberEmail(ctx context.Context, email string) {
	if a.meta == nil {
		return
	}
	_ = a.meta.Set(ctx, lastEmailKey, email)
}

// LastEmail returns the email of the last successful login, or "".
func (a *authService) LastEmail(ctx context.Context) string {
	if a.meta == nil {
		return ""
	}
	v, err := a.meta.Get(ctx, lastEmailKey)
	if err != nil {
		return ""
	}
	return v
}

// Register creates a new account. It does not sign in.
func (a *authService) Register(ctx context.Context, email, password, name string) error {
	r, err := credentialRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return err
	}
	if _, err := a.client.Do(ctx, r); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout tells the backend to end the session and then forgets it locally.
// The local session is cleared even if the backend call fails; that error is
// still returned.
func (a *authService) Logout(ctx context.Context) error {
	_, netErr := a.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/logout"})
	clearErr := a.client.ClearSession(context.WithoutCancel(ctx))
	if netErr != nil {
		netErr = fmt.Errorf("logout error: %w", netErr)
	}
	return errors.Join(netErr, clearErr)
}

// GoogleAuthURL is where the browser goes to start Google sign-in. The
// backend redirects to <frontend>/auth/callback when done.
func (a *authService) GoogleAuthURL() string {
	return a.client.URL("/auth/google", nil).String()
}

// CompleteOAuth handles the query string the backend appends to the OAuth
// callback: ?error=... fails, ?accessToken=... signs in, and an empty query
// succeeds only if the backend already established a cookie session.
func (a *authService) CompleteOAuth(ctx context.Context, query url.Values) (*models.User, error) {
	if msg := query.Get("error"); msg != "" {
		return nil, fmt.Errorf("%w: %s", common.ErrOAuthFailed, msg)
	}

	if tok := query.Get("accessToken"); tok != "" {
		if _, err := a.client.SaveSession(ctx, tok); err != nil {
			return nil, fmt.Errorf("session saving error: %w", err)
		}
	}

	ok, user := a.IsAuthenticated(ctx)
	if !ok {
		if err := a.client.ClearSession(ctx); err != nil {
			return nil, errors.Join(common.ErrOAuthFailed, err)
		}
		return nil, common.ErrOAuthFailed
	}
	a.rememberEmail(ctx, user.Email)
	return user, nil
}

// SendResetLink asks the backend to email a password reset link.
func (a *authService) SendResetLink(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return common.ErrEmptyValue
	}
	r, err := credentialRequest(http.MethodPost, "/auth/send-reset-password-link", map[string]string{"email": email})
	if err != nil {
		return err
	}
	if _, err := a.client.Do(ctx, r); err != nil {
		return fmt.Errorf("send reset link error: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
func (a *authService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if err := ValidateNewPassword(password, confirm); err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("reset token: %w", common.ErrEmptyValue)
	}
	r, err := credentialRequest(http.MethodPost, "/auth/reset-password", map[string]string{
		"token":    token,
		"password": password,
	})
	if err != nil {
		return err
	}
	if _, err := a.client.Do(ctx, r); err != nil {
		return fmt.Errorf("reset password error: %w", err)
	}
	return nil
}

// ValidateNewPassword checks a password and its confirmation.
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return common.ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return common.ErrPasswordTooShort
	}
	return nil
}

// CurrentUser fetches the signed-in user's profile.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	env, err := api.Get[models.User](ctx, a.client, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// IsAuthenticated is CurrentUser reduced to a yes/no; any error means no.
func (a *authService) IsAuthenticated(ctx context.Context) (bool, *models.User) {
	u, err := a.CurrentUser(ctx)
	if err != nil {
		return false, nil
	}
	return true, u
}

// HasSession reports whether a usable token is stored, without a network call.
func (a *authService) HasSession(ctx context.Context) bool {
	_, err := a.client.Session(ctx)
	return err == nil
}
