package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// applyMigrations brings the schema up to the newest embedded migration.
// Applied versions are tracked in goose's version table, so reopening a
// store only runs what is new.
func applyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS) ([]*goose.MigrationResult, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, migrationFS)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return results, nil
}
