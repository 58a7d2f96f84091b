package store

import (
	"context"
	"os"
	"testing"

	"github.com/cryptohub-labs/walletalert/internal/db"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/internal/migrations"
	"github.com/stretchr/testify/require"
)

const (
	testWallet      = "0xAbC1230000000000000000000000000000000001"
	testWalletLower = "0xabc1230000000000000000000000000000000001"
)

func setupTestStore(t *testing.T) (*AlertStore, func()) {
	tmpFile, err := os.CreateTemp("", "alertstore_test_*.db")
	require.NoError(t, err)
	tmpFile.Close()

	dbPath := tmpFile.Name()

	err = migrations.RunMigrations(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)

	store := NewAlertStore(sqlDB, logger.NewNopLogger())

	cleanup := func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return store, cleanup
}

func TestAlertStore_UpsertCreates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sub, created, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, testWalletLower, sub.WalletHex())
	require.Equal(t, "user@example.com", sub.Email)
	require.True(t, sub.Enabled)
	require.False(t, sub.CreatedAt.IsZero())
}

func TestAlertStore_UpsertUpdatesExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, created, err := store.Upsert(ctx, testWallet, "old@example.com")
	require.NoError(t, err)
	require.True(t, created)

	// Same wallet in different case must hit the same row
	sub, created, err := store.Upsert(ctx, testWalletLower, "new@example.com")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "new@example.com", sub.Email)

	// Still exactly one subscription
	found, err := store.Lookup(ctx, testWallet)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", found.Email)
}

func TestAlertStore_LookupIsCaseInsensitive(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		wallet string
	}{
		{"mixed case", testWallet},
		{"lowercase", testWalletLower},
		{"uppercase hex digits", "0xABC1230000000000000000000000000000000001"},
		{"surrounding whitespace", "  " + testWallet + "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := store.Lookup(ctx, tt.wallet)
			require.NoError(t, err)
			require.Equal(t, testWalletLower, sub.WalletHex())
		})
	}
}

func TestAlertStore_LookupNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Lookup(context.Background(), testWallet)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAlertStore_DisableKeepsRow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)

	sub, err := store.Disable(ctx, testWallet)
	require.NoError(t, err)
	require.False(t, sub.Enabled)
	require.Equal(t, "user@example.com", sub.Email)

	// Row is preserved, just disabled
	found, err := store.Lookup(ctx, testWallet)
	require.NoError(t, err)
	require.False(t, found.Enabled)
}

func TestAlertStore_DisableUnknownWallet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Disable(context.Background(), testWallet)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAlertStore_ResubscribeReenables(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)

	_, err = store.Disable(ctx, testWallet)
	require.NoError(t, err)

	sub, created, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)
	require.False(t, created)
	require.True(t, sub.Enabled)
}

func TestAlertStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := store.Upsert(ctx, testWallet, "user@example.com")
	require.NoError(t, err)

	err = store.Delete(ctx, testWalletLower)
	require.NoError(t, err)

	_, err = store.Lookup(ctx, testWallet)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAlertStore_DeleteAbsentWallet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Removing a wallet that never subscribed is not an error
	err := store.Delete(context.Background(), testWallet)
	require.NoError(t, err)
}
