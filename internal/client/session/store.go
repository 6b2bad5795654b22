package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskcheck/console/internal/client/repositories/metadata"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/dbx"
)

// Store keeps the current access token.
//
// Load returns common.ErrNoSession when there is no token or it has expired;
// callers treat that as "send the request anonymously", not as a failure.
type Store interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, t Token) error
	Clear(ctx context.Context) error
}

// MemoryStore is a Store that lives for the process only.
type MemoryStore struct {
	mu  sync.RWMutex
	tok Token
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.tok.Valid(m.now()) {
		return Token{}, common.ErrNoSession
	}
	return m.tok, nil
}

func (m *MemoryStore) Save(_ context.Context, t Token) error {
	m.mu.Lock()
	m.tok = t
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.tok = Token{}
	m.mu.Unlock()
	return nil
}

const (
	keyAccessToken = "access_token"
	keyExpiresAt   = "access_token_expires_at"
)

// SQLiteStore persists the token in the metadata table of the local database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Load(ctx context.Context) (Token, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	value, err := repo.Get(ctx, keyAccessToken)
	if errors.Is(err, metadata.ErrNotFound) {
		return Token{}, common.ErrNoSession
	}
	if err != nil {
		return Token{}, err
	}

	tok := Token{Value: value}
	if raw, err := repo.Get(ctx, keyExpiresAt); err == nil && raw != "" {
		exp, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return Token{}, fmt.Errorf("stored session expiry %q: %w", raw, perr)
		}
		tok.ExpiresAt = exp
	}

	if !tok.Valid(s.now()) {
		return Token{}, common.ErrNoSession
	}
	return tok, nil
}

func (s *SQLiteStore) Save(ctx context.Context, t Token) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, t.Value); err != nil {
			return err
		}
		if t.ExpiresAt.IsZero() {
			return repo.Delete(ctx, keyExpiresAt)
		}
		return repo.Set(ctx, keyExpiresAt, t.ExpiresAt.UTC().Format(time.RFC3339))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, keyAccessToken, keyExpiresAt)
}
