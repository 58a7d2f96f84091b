package dedup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

// ProcessedTransaction records that a notification was already dispatched
// for a transaction hash. The participant addresses and value are a
// denormalized copy of the triggering activity, kept for audit.
type ProcessedTransaction struct {
	TxHash      ethcommon.Hash    `meddler:"tx_hash,hash"`
	Wallet      ethcommon.Address `meddler:"wallet,address"`
	FromAddress ethcommon.Address `meddler:"from_address,address"`
	ToAddress   ethcommon.Address `meddler:"to_address,address"`
	Value       string            `meddler:"value"`
	CreatedAt   time.Time         `meddler:"created_at"`
}

// Ledger is the set of transaction hashes already notified on. It is
// consulted before dispatch and written only after a successful send, so
// a transient send failure does not permanently suppress the hash.
//
// Deduplication is global per hash, not per (hash, wallet) pair: once the
// first notification for a hash lands, later subscribers sharing that
// transaction are suppressed.
type Ledger struct {
	db  *sql.DB
	log *logger.Logger
}

// NewLedger creates a SQLite-backed dedup ledger.
func NewLedger(db *sql.DB, log *logger.Logger) *Ledger {
	return &Ledger{
		db:  db,
		log: log.WithComponent(common.ComponentDedupLedger),
	}
}

// HasProcessed reports whether a notification was already sent for hash.
// The hash is normalized to lowercase before the lookup.
func (l *Ledger) HasProcessed(ctx context.Context, hash string) (bool, error) {
	key := common.NormalizeAddress(hash)

	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processed_transactions WHERE tx_hash = ?`, key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query processed transactions: %w", err)
	}

	return count > 0, nil
}

// MarkProcessed records a dispatched notification. INSERT OR IGNORE makes
// the call idempotent, so concurrent dispatches for the same hash cannot
// fail on the primary key.
func (l *Ledger) MarkProcessed(ctx context.Context, tx *ProcessedTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	const insertQuery = `
		INSERT OR IGNORE INTO processed_transactions
			(tx_hash, wallet, from_address, to_address, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, insertQuery,
		strings.ToLower(tx.TxHash.Hex()),
		strings.ToLower(tx.Wallet.Hex()),
		strings.ToLower(tx.FromAddress.Hex()),
		strings.ToLower(tx.ToAddress.Hex()),
		tx.Value,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert processed transaction: %w", err)
	}

	l.log.Debugw("transaction marked processed", "hash", tx.TxHash.Hex())
	return nil
}

// Get returns the audit record for hash, or sql.ErrNoRows wrapped in a
// descriptive error if none exists.
func (l *Ledger) Get(ctx context.Context, hash string) (*ProcessedTransaction, error) {
	key := common.NormalizeAddress(hash)

	tx := new(ProcessedTransaction)
	err := meddler.QueryRow(l.db, tx, `SELECT * FROM processed_transactions WHERE tx_hash = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed transaction: %w", err)
	}

	return tx, nil
}
