package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/russross/meddler"
)

// ErrNotFound is returned when no subscription exists for a wallet.
// It is the normal "not subscribed" case, not a database failure.
var ErrNotFound = errors.New("subscription not found")

// AlertStore persists wallet-to-email subscriptions in SQLite.
// All wallet inputs are normalized to lowercase before any key comparison.
type AlertStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewAlertStore creates a SQLite-backed AlertStore.
func NewAlertStore(db *sql.DB, log *logger.Logger) *AlertStore {
	return &AlertStore{
		db:  db,
		log: log.WithComponent(common.ComponentAlertStore),
	}
}

// Upsert inserts or updates the subscription for wallet, enabling
// notifications. It reports whether a new row was created. Concurrent
// upserts for the same wallet are serialized by SQLite's atomic upsert.
func (s *AlertStore) Upsert(ctx context.Context, wallet, email string) (*Subscription, bool, error) {
	key := common.NormalizeAddress(wallet)

	_, err := s.Lookup(ctx, key)
	created := errors.Is(err, ErrNotFound)
	if err != nil && !created {
		return nil, false, err
	}

	now := time.Now().UTC()
	const upsertQuery = `
		INSERT INTO subscriptions (wallet, email, enabled, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(wallet) DO UPDATE SET
			email = excluded.email,
			enabled = 1,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, upsertQuery, key, email, now, now); err != nil {
		return nil, false, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	sub, err := s.Lookup(ctx, key)
	if err != nil {
		return nil, false, err
	}

	s.log.Debugw("subscription upserted", "wallet", key, "created", created)
	return sub, created, nil
}

// Lookup returns the subscription for wallet, or ErrNotFound.
func (s *AlertStore) Lookup(ctx context.Context, wallet string) (*Subscription, error) {
	key := common.NormalizeAddress(wallet)

	sub := new(Subscription)
	err := meddler.QueryRow(s.db, sub, `SELECT * FROM subscriptions WHERE wallet = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return sub, nil
}

// Disable soft-deletes the subscription: the row is preserved with
// enabled=false so a later re-subscribe reuses it. Returns ErrNotFound
// if the wallet was never subscribed.
func (s *AlertStore) Disable(ctx context.Context, wallet string) (*Subscription, error) {
	key := common.NormalizeAddress(wallet)

	if _, err := s.Lookup(ctx, key); err != nil {
		return nil, err
	}

	const disableQuery = `UPDATE subscriptions SET enabled = 0, updated_at = ? WHERE wallet = ?`
	if _, err := s.db.ExecContext(ctx, disableQuery, time.Now().UTC(), key); err != nil {
		return nil, fmt.Errorf("failed to disable subscription: %w", err)
	}

	return s.Lookup(ctx, key)
}

// Delete hard-deletes the subscription row. Deleting an absent wallet is
// not an error, matching the removal endpoint's contract.
func (s *AlertStore) Delete(ctx context.Context, wallet string) error {
	key := common.NormalizeAddress(wallet)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE wallet = ?`, key); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

// Ping reports whether the underlying database is reachable.
func (s *AlertStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
