package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/cryptohub-labs/walletalert/internal/db"
	"github.com/cryptohub-labs/walletalert/internal/logger"
)

//go:embed 001_initial.sql
var mig0001 string

func all() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_initial.sql",
			SQL: mig0001,
		},
	}
}

// RunMigrations runs all migrations for the alert database at dbPath.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, all())
}

// RunMigrationsDB runs all migrations on an already open DB.
func RunMigrationsDB(log *logger.Logger, sqlDB *sql.DB) error {
	return db.RunMigrationsDB(log, sqlDB, all())
}
