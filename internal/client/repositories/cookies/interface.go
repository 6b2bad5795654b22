// Package cookies persists backend cookies (notably the refresh session
// cookie) so the CLI survives restarts without logging in again.
package cookies

import (
	"context"
	"net/http"
)

// Stored is a cookie together with the origin (scheme://host) that set it.
type Stored struct {
	Origin string
	Cookie *http.Cookie
}

type Repository interface {
	Upsert(ctx context.Context, origin string, c *http.Cookie) error
	Delete(ctx context.Context, origin, name, path string) error
	// List returns every cookie whose expiry is unset or after now.
	List(ctx context.Context) ([]Stored, error)
	Clear(ctx context.Context) error
}
