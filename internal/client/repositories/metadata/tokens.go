package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/common"
	"github.com/dmitrijs2005/agentmarket/internal/dbx"
)

// TokenStore persists the session bearer token and the last username used
// to log in.
type TokenStore struct {
	db   *sql.DB
	repo *SQLiteRepository
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db, repo: NewSQLiteRepository(db)}
}

// Load returns the persisted token, or "" if none is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	rec, _, err := s.repo.Get(ctx, common.AccessTokenMetadataKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return rec.Value, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.repo.Put(ctx, common.AccessTokenMetadataKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.AccessTokenMetadataKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// SavedAt reports when the current token was written. ok is false if no
// token is stored.
func (s *TokenStore) SavedAt(ctx context.Context) (time.Time, bool, error) {
	rec, ok, err := s.repo.Get(ctx, common.AccessTokenMetadataKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return rec.UpdatedAt, true, nil
}

// LastUsername returns the username of the most recent successful login.
func (s *TokenStore) LastUsername(ctx context.Context) (string, error) {
	rec, _, err := s.repo.Get(ctx, common.LastUsernameMetadataKey)
	return rec.Value, err
}

func (s *TokenStore) RememberUsername(ctx context.Context, username string) error {
	return s.repo.Put(ctx, common.LastUsernameMetadataKey, username)
}

// Wipe removes every record the client has stored, atomically.
func (s *TokenStore) Wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		recs, err := repo.List(ctx)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(recs))
		for _, r := range recs {
			keys = append(keys, r.Key)
		}
		return repo.Delete(ctx, keys...)
	})
}
