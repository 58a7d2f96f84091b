package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/pkg/config"
)

// Maintenance periodically checkpoints the WAL and vacuums the alert
// database. The subscription and ledger tables are small, but soft-deleted
// subscriptions and a growing processed-transaction ledger still fragment
// pages over time.
type Maintenance struct {
	db     *sql.DB
	dbPath string
	config config.MaintenanceConfig
	log    *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMaintenance creates a maintenance worker. A nil config returns nil,
// which callers treat as "maintenance disabled".
func NewMaintenance(dbPath string, db *sql.DB, cfg *config.MaintenanceConfig, log *logger.Logger) *Maintenance {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	return &Maintenance{
		db:     db,
		dbPath: dbPath,
		config: *cfg,
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

// Start begins background maintenance.
func (m *Maintenance) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	if m.config.VacuumOnStartup {
		m.log.Info("Running startup maintenance")
		if err := m.Run(ctx); err != nil {
			m.log.Warnf("Startup maintenance failed: %v", err)
		}
	}

	m.wg.Add(1)
	go m.worker(ctx)

	m.log.Infof("Background maintenance started - interval: %v, checkpoint mode: %s",
		m.config.CheckInterval.Duration, m.config.WALCheckpointMode)
}

// Stop stops background maintenance and waits for completion.
func (m *Maintenance) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.log.Info("Background maintenance stopped")
}

func (m *Maintenance) worker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CheckInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Run(ctx); err != nil {
				m.log.Warnf("Periodic maintenance failed: %v", err)
			}
		}
	}
}

// Run performs one maintenance pass: WAL checkpoint, then VACUUM.
func (m *Maintenance) Run(ctx context.Context) error {
	start := time.Now().UTC()
	MaintenanceRunsInc()

	if err := ctx.Err(); err != nil {
		return err
	}

	var maintenanceErr error

	if err := m.walCheckpoint(); err != nil {
		m.log.Errorf("WAL checkpoint failed: %v", err)
		maintenanceErr = fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	if err := m.vacuum(); err != nil {
		m.log.Warnf("VACUUM failed: %v", err)
		if maintenanceErr == nil {
			maintenanceErr = fmt.Errorf("VACUUM failed: %w", err)
		}
	}

	duration := time.Since(start)
	MaintenanceDurationLog(duration)
	DBSizeLog(m.dbPath)

	if maintenanceErr != nil {
		MaintenanceErrorInc()
		return maintenanceErr
	}

	MaintenanceSuccessInc()
	m.log.Infof("Maintenance completed in %v", duration)
	return nil
}

func (m *Maintenance) walCheckpoint() error {
	isWAL, err := m.isWALMode()
	if err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}
	if !isWAL {
		m.log.Debug("Database not in WAL mode, skipping WAL checkpoint")
		return nil
	}

	checkpointSQL := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.config.WALCheckpointMode)

	var busyCount, logFrames, checkpointedFrames int
	if err := m.db.QueryRow(checkpointSQL).Scan(&busyCount, &logFrames, &checkpointedFrames); err != nil {
		return fmt.Errorf("failed to execute WAL checkpoint: %w", err)
	}

	WALCheckpointInc(strings.ToLower(m.config.WALCheckpointMode))

	if busyCount > 0 {
		m.log.Warnf("WAL checkpoint encountered %d busy pages", busyCount)
	}

	return nil
}

// vacuum requires that no other connection holds an open transaction.
func (m *Maintenance) vacuum() error {
	if _, err := m.db.Exec("VACUUM"); err != nil {
		if strings.Contains(err.Error(), "database is locked") {
			return fmt.Errorf("cannot vacuum: database is locked (retry later)")
		}
		return fmt.Errorf("vacuum failed: %w", err)
	}

	VacuumRunsInc()
	return nil
}

func (m *Maintenance) isWALMode() (bool, error) {
	var mode string
	if err := m.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return false, err
	}
	return strings.EqualFold(mode, "wal"), nil
}
