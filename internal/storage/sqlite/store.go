// Package sqlite provides a SQLite-backed ledger storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
	"github.com/mcoot/lasertag/internal/storage/sqlite/migrations"
)

// Store persists ledger state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer connection keeps id assignment and snapshots serialized
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Player operations

func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (username, team, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		player.Username,
		string(player.Team),
		toMillis(player.CreatedAt),
		toMillis(player.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("create player: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	player.ID = model.PlayerID(id)
	return nil
}

func (s *Store) UpdatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE players SET username = ?, team = ?, updated_at = ? WHERE id = ?`,
		player.Username,
		string(player.Team),
		toMillis(player.UpdatedAt),
		int64(player.ID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("update player: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if affected == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

const playerColumns = `id, username, team, created_at, updated_at`

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, int64(id))
	return scanPlayerRow(row)
}

func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE username = ?`, username)
	return scanPlayerRow(row)
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return listPlayers(ctx, s.sqlDB)
}

func listPlayers(ctx context.Context, q queryer) ([]*model.Player, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := make([]*model.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayerRow(row *sql.Row) (*model.Player, error) {
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		player    model.Player
		id        int64
		team      string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&id, &player.Username, &team, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	player.ID = model.PlayerID(id)
	player.Team = model.Team(team)
	player.CreatedAt = fromMillis(createdAt)
	player.UpdatedAt = fromMillis(updatedAt)
	return &player, nil
}

// Hit operations

func (s *Store) AppendHit(ctx context.Context, hit *model.Hit) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO hits (hitter_id, target_id, timestamp) VALUES (?, ?, ?)`,
		int64(hit.HitterID),
		int64(hit.TargetID),
		toMillis(hit.Timestamp),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrPlayerNotFound
		}
		return fmt.Errorf("append hit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append hit: %w", err)
	}
	hit.ID = model.HitID(id)
	return nil
}

const hitColumns = `id, hitter_id, target_id, timestamp`

func (s *Store) ListHits(ctx context.Context) ([]*model.Hit, error) {
	return listHits(ctx, s.sqlDB, `SELECT `+hitColumns+` FROM hits ORDER BY id`)
}

func (s *Store) ListHitsByHitter(ctx context.Context, hitterID model.PlayerID) ([]*model.Hit, error) {
	return listHits(ctx, s.sqlDB, `SELECT `+hitColumns+` FROM hits WHERE hitter_id = ? ORDER BY id`, int64(hitterID))
}

func (s *Store) ListHitsByTarget(ctx context.Context, targetID model.PlayerID) ([]*model.Hit, error) {
	return listHits(ctx, s.sqlDB, `SELECT `+hitColumns+` FROM hits WHERE target_id = ? ORDER BY id`, int64(targetID))
}

func listHits(ctx context.Context, q queryer, query string, args ...any) ([]*model.Hit, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hits: %w", err)
	}
	defer rows.Close()

	hits := make([]*model.Hit, 0)
	for rows.Next() {
		var (
			id, hitterID, targetID, timestamp int64
		)
		if err := rows.Scan(&id, &hitterID, &targetID, &timestamp); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, &model.Hit{
			ID:        model.HitID(id),
			HitterID:  model.PlayerID(hitterID),
			TargetID:  model.PlayerID(targetID),
			Timestamp: fromMillis(timestamp),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hits: %w", err)
	}
	return hits, nil
}

// Stream slot operations

func (s *Store) SaveStreamSlot(ctx context.Context, slot *model.StreamSlot) error {
	if _, err := s.GetPlayer(ctx, slot.PlayerID); err != nil {
		return err
	}

	var activatedAt sql.NullInt64
	if !slot.ActivatedAt.IsZero() {
		activatedAt = sql.NullInt64{Int64: toMillis(slot.ActivatedAt), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO stream_slots (player_id, endpoint, state, error, activated_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
		   endpoint = excluded.endpoint,
		   state = excluded.state,
		   error = excluded.error,
		   activated_at = excluded.activated_at,
		   updated_at = excluded.updated_at`,
		int64(slot.PlayerID),
		slot.Endpoint,
		string(slot.State),
		slot.Error,
		activatedAt,
		toMillis(slot.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save stream slot: %w", err)
	}
	return nil
}

const streamColumns = `player_id, endpoint, state, error, activated_at, updated_at`

func (s *Store) GetStreamSlot(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	slots, err := listStreams(ctx, s.sqlDB, `SELECT `+streamColumns+` FROM stream_slots WHERE player_id = ?`, int64(playerID))
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, model.ErrStreamSlotNotFound
	}
	return slots[0], nil
}

func (s *Store) DeleteStreamSlot(ctx context.Context, playerID model.PlayerID) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM stream_slots WHERE player_id = ?`, int64(playerID)); err != nil {
		return fmt.Errorf("delete stream slot: %w", err)
	}
	return nil
}

func (s *Store) ListStreamSlots(ctx context.Context) ([]*model.StreamSlot, error) {
	return listStreams(ctx, s.sqlDB, `SELECT `+streamColumns+` FROM stream_slots ORDER BY player_id`)
}

func listStreams(ctx context.Context, q queryer, query string, args ...any) ([]*model.StreamSlot, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stream slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*model.StreamSlot, 0)
	for rows.Next() {
		var (
			slot        model.StreamSlot
			playerID    int64
			state       string
			activatedAt sql.NullInt64
			updatedAt   int64
		)
		if err := rows.Scan(&playerID, &slot.Endpoint, &state, &slot.Error, &activatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan stream slot: %w", err)
		}
		slot.PlayerID = model.PlayerID(playerID)
		slot.State = model.StreamState(state)
		if activatedAt.Valid {
			slot.ActivatedAt = fromMillis(activatedAt.Int64)
		}
		slot.UpdatedAt = fromMillis(updatedAt)
		slots = append(slots, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stream slots: %w", err)
	}
	return slots, nil
}

// Snapshot and lifecycle

func (s *Store) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	players, err := listPlayers(ctx, tx)
	if err != nil {
		return nil, err
	}
	hits, err := listHits(ctx, tx, `SELECT `+hitColumns+` FROM hits ORDER BY id`)
	if err != nil {
		return nil, err
	}
	streams, err := listStreams(ctx, tx, `SELECT `+streamColumns+` FROM stream_slots ORDER BY player_id`)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Players: players,
		Hits:    hits,
		Streams: streams,
	}, nil
}

func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM stream_slots`,
		`DELETE FROM hits`,
		`DELETE FROM players`,
		`DELETE FROM sqlite_sequence WHERE name IN ('players', 'hits')`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
