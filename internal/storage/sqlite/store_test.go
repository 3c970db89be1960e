package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
	"github.com/mcoot/lasertag/internal/storage/sqlite/migrations"
	"github.com/mcoot/lasertag/internal/storage/storagetest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "lasertag.db"))
	require.NoError(t, err)
	return store
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return openTempStore(t) },
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lasertag.db")
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.CreatePlayer(ctx, &model.Player{Username: "alice", Team: model.TeamYellow, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetPlayerByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerID(1), got.ID)
}

func TestAppendHitRejectsUnknownPlayers(t *testing.T) {
	store := openTempStore(t)
	defer store.Close()

	err := store.AppendHit(context.Background(), &model.Hit{HitterID: 1, TargetID: 2, Timestamp: time.Now()})
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}

func TestApplyMigrationsRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	defer store.Close()

	// Open already applied everything, so a second pass is a no-op
	results, err := applyMigrations(ctx, store.sqlDB, migrations.FS)
	require.NoError(t, err)
	assert.Empty(t, results)

	var version int64
	require.NoError(t, store.sqlDB.QueryRowContext(ctx,
		`SELECT MAX(version_id) FROM goose_db_version`).Scan(&version))
	assert.Equal(t, int64(1), version)
}
