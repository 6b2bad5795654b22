package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
)

const refreshKey = "session"

// afterJoin runs once a caller is attached to a refresh; test seam
var afterJoin = func() {}

// Refresh exchanges the cookie session for a new access token.
//
// Callers that arrive while a refresh is in flight wait for it instead of
// starting another one, and all of them receive the same token or the same
// *RefreshError. The refresh itself is detached from the caller's
// cancellation; a caller whose ctx ends stops waiting with ctx.Err().
func (c *Client) Refresh(ctx context.Context) (session.Token, error) {
	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		c.refreshing.Store(true)
		defer c.refreshing.Store(false)
		return c.refresh(context.WithoutCancel(ctx))
	})
	afterJoin()

	select {
	case res := <-ch:
		if res.Err != nil {
			return session.Token{}, res.Err
		}
		return res.Val.(session.Token), nil
	case <-ctx.Done():
		return session.Token{}, ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context) (tok session.Token, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &RefreshError{Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	c.logger.Info(ctx, "refreshing session")

	// The expired bearer is deliberately not attached: the refresh cookie
	// in the jar is the credential here.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(c.refreshPath, nil).String(), nil)
	if err != nil {
		return session.Token{}, &RefreshError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeaderName, c.requestID())

	resp, err := c.roundTrip(req)
	if err != nil {
		c.logger.Error(ctx, "session refresh failed", "error", err)
		return session.Token{}, &RefreshError{Err: err}
	}
	if _, err := checkStatus(resp); err != nil {
		c.logger.Error(ctx, "session refresh rejected", "status", resp.StatusCode)
		return session.Token{}, &RefreshError{Err: err}
	}

	raw := tokenFromBody(resp.Body)
	if raw == "" {
		raw, _ = session.CookieValue(c.http.Jar, c.baseURL, common.AccessTokenCookieName)
	}
	if raw == "" {
		return session.Token{}, &RefreshError{Err: ErrNoTokenIssued}
	}

	tok = c.policy.Issue(raw)
	if err := c.store.Save(ctx, tok); err != nil {
		return session.Token{}, &RefreshError{Err: fmt.Errorf("save session: %w", err)}
	}

	c.logger.Info(ctx, "session refreshed", "expires_at", tok.ExpiresAt)
	return tok, nil
}

// tokenFromBody accepts {"data":{"accessToken":"..."}}; anything else means
// the backend only set the cookie.
func tokenFromBody(body []byte) string {
	var env Envelope[struct {
		AccessToken string `json:"accessToken"`
	}]
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Data.AccessToken
}

// SaveSession stores raw as the current access token under the client's
// expiry policy and returns the stored token.
func (c *Client) SaveSession(ctx context.Context, raw string) (session.Token, error) {
	tok := c.policy.Issue(raw)
	if err := c.store.Save(ctx, tok); err != nil {
		return session.Token{}, err
	}
	return tok, nil
}

// Session returns the current token, or common.ErrNoSession.
func (c *Client) Session(ctx context.Context) (session.Token, error) {
	return c.store.Load(ctx)
}

// ClearSession forgets the access token locally: the store entry and the
// accessToken cookie in the jar.
func (c *Client) ClearSession(ctx context.Context) error {
	if jar, ok := c.http.Jar.(interface {
		Expire(u *url.URL, name string)
	}); ok {
		jar.Expire(c.baseURL, common.AccessTokenCookieName)
	} else if c.http.Jar != nil {
		c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{session.ExpiredCookie(common.AccessTokenCookieName)})
	}
	return c.store.Clear(ctx)
}

// ClearCookies empties the cookie jar, persisted cookies included, when the
// jar supports it.
func (c *Client) ClearCookies(ctx context.Context) error {
	if jar, ok := c.http.Jar.(interface {
		Clear(ctx context.Context) error
	}); ok {
		return jar.Clear(ctx)
	}
	return nil
}
