package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/riskcheck/console/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func cookiePath(c *http.Cookie) string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

func (r *SQLiteRepository) Upsert(ctx context.Context, origin string, c *http.Cookie) error {
	var expires sql.NullInt64
	switch {
	case c.MaxAge > 0:
		expires = sql.NullInt64{Int64: r.now().Add(time.Duration(c.MaxAge) * time.Second).Unix(), Valid: true}
	case !c.Expires.IsZero():
		expires = sql.NullInt64{Int64: c.Expires.Unix(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (origin, name, path, value, domain, expires, secure, http_only, same_site)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(origin, name, path) DO UPDATE SET
			value = excluded.value,
			domain = excluded.domain,
			expires = excluded.expires,
			secure = excluded.secure,
			http_only = excluded.http_only,
			same_site = excluded.same_site
	`, origin, c.Name, cookiePath(c), c.Value, c.Domain, expires, c.Secure, c.HttpOnly, int(c.SameSite))
	if err != nil {
		return fmt.Errorf("failed to save cookie %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, origin, name, path string) error {
	if path == "" {
		path = "/"
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE origin = ? AND name = ? AND path = ?`, origin, name, path)
	if err != nil {
		return fmt.Errorf("failed to delete cookie %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Stored, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT origin, name, path, value, domain, expires, secure, http_only, same_site
		FROM cookies
		WHERE expires IS NULL OR expires > ?
		ORDER BY origin, name
	`, r.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		var (
			s        Stored
			c        http.Cookie
			expires  sql.NullInt64
			sameSite int
		)
		if err := rows.Scan(&s.Origin, &c.Name, &c.Path, &c.Value, &c.Domain, &expires, &c.Secure, &c.HttpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		if expires.Valid {
			c.Expires = time.Unix(expires.Int64, 0)
		}
		c.SameSite = http.SameSite(sameSite)
		s.Cookie = &c
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}
