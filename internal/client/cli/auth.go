package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/riskcheck/console/internal/client/services"
	"github.com/riskcheck/console/internal/common"
)

// test seams
var (
	getSimpleText    = GetSimpleText
	getTextOrDefault = GetTextOrDefault
	getPassword      = GetPassword
	confirm          = Confirm
)

// readSecret reads a password and returns it as a string, wiping the buffer.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}
	again, err := a.readSecret("Repeat password")
	if err != nil {
		return err
	}
	if err := services.ValidateNewPassword(password, again); err != nil {
		return a.fail(ctx, "register", err)
	}

	if err := a.authService.Register(ctx, email, password, name); err != nil {
		return a.fail(ctx, "register", err)
	}
	a.println("Account created. You can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getTextOrDefault(a.reader, "Email", a.authService.LastEmail(ctx), a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	if _, err := a.authService.Login(ctx, email, password); err != nil {
		return a.fail(ctx, "login", err)
	}
	return a.loadUser(ctx)
}

// loadUser fetches the profile after a fresh sign-in.
func (a *App) loadUser(ctx context.Context) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, "load profile", err)
	}
	a.setUser(u)
	a.printf("Logged in as %s\n", u.Email)
	return nil
}

// Google signs in through the browser. The backend finishes the OAuth dance
// and redirects to <frontend>/auth/callback; the user pastes that address
// back here.
func (a *App) Google(ctx context.Context) error {
	a.println("Open this address in your browser and sign in with Google:")
	a.println("  " + a.authService.GoogleAuthURL())

	raw, err := getSimpleText(a.reader, "Paste the address you were redirected to", a.out)
	if err != nil {
		return err
	}
	query, err := callbackQuery(raw)
	if err != nil {
		return a.fail(ctx, "google sign-in", err)
	}

	u, err := a.authService.CompleteOAuth(ctx, query)
	if err != nil {
		return a.fail(ctx, "google sign-in", err)
	}
	a.setUser(u)
	a.printf("Logged in as %s\n", u.Email)
	return nil
}

// callbackQuery accepts a full callback URL or just its query string.
func callbackQuery(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, common.ErrEmptyValue
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	} else if strings.Contains(raw, "://") {
		return url.Values{}, nil
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("callback address: %w", err)
	}
	return q, nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getTextOrDefault(a.reader, "Email", a.authService.LastEmail(ctx), a.out)
	if err != nil {
		return err
	}
	if err := a.authService.SendResetLink(ctx, email); err != nil {
		return a.fail(ctx, "send reset link", err)
	}
	a.println("If the address is registered, a reset link is on its way.")
	return nil
}

func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Reset link or token (from the email)", a.out)
	if err != nil {
		return err
	}
	if strings.Contains(token, "?") {
		if q, err := callbackQuery(token); err == nil {
			token = q.Get("token")
		}
	}
	password, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	again, err := a.readSecret("Repeat new password")
	if err != nil {
		return err
	}

	if err := a.authService.ResetPassword(ctx, token, password, again); err != nil {
		return a.fail(ctx, "reset password", err)
	}
	a.println("Password changed. You can log in now.")
	return nil
}

// Logout always signs out locally; a backend failure is only reported.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.setUser(nil)
	if err != nil {
		a.logger.Warn(ctx, "logout incomplete", "error", err)
		a.println("Logged out locally; the server could not be reached.")
		return err
	}
	a.println("Logged out")
	return nil
}
