// Package session owns the credential pair and the login/logout lifecycle.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avidals/bocado/internal/dbx"
)

// Credential slots in the local database. The pair is always written and
// cleared together; only the access half is ever replaced on its own.
const (
	slotAccess  = "access_token"
	slotRefresh = "refresh_token"
)

// TokenStore durably holds the access/refresh credential pair so a session
// survives process restarts. It carries no network or business logic.
// An unavailable store reads as "no session"; reads never fail loudly.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Pair returns both credentials; ok is false unless both halves are present.
func (s *TokenStore) Pair(ctx context.Context) (access, refresh string, ok bool) {
	access, aok := s.get(ctx, slotAccess)
	refresh, rok := s.get(ctx, slotRefresh)
	if !aok || !rok {
		return "", "", false
	}
	return access, refresh, true
}

// Access returns the access credential. Satisfies api.CredentialSource.
func (s *TokenStore) Access(ctx context.Context) (string, bool) {
	return s.get(ctx, slotAccess)
}

// Refresh returns the refresh credential. Satisfies api.CredentialSource.
func (s *TokenStore) Refresh(ctx context.Context) (string, bool) {
	return s.get(ctx, slotRefresh)
}

// SetPair stores both credentials in one transaction.
func (s *TokenStore) SetPair(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, slotAccess, access); err != nil {
			return err
		}
		return set(ctx, tx, slotRefresh, refresh)
	})
}

// SetAccess replaces only the access credential after a silent renewal.
func (s *TokenStore) SetAccess(ctx context.Context, access string) error {
	return set(ctx, s.db, slotAccess, access)
}

// Clear removes both credentials in one transaction. Safe to call when
// nothing is stored.
func (s *TokenStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := del(ctx, tx, slotAccess); err != nil {
			return err
		}
		return del(ctx, tx, slotRefresh)
	})
}

func (s *TokenStore) get(ctx context.Context, key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, db dbx.DBTX, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete credentials[%s]: %w", key, err)
	}
	return nil
}
