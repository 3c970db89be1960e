package storage

import (
	"context"

	"github.com/mcoot/lasertag/internal/model"
)

// Storage defines the interface for ledger persistence. Implementations must
// be safe for concurrent use.
type Storage interface {
	// Player operations
	// CreatePlayer assigns player.ID. It fails with model.ErrUsernameTaken if
	// the username is already registered.
	CreatePlayer(ctx context.Context, player *model.Player) error
	// UpdatePlayer overwrites an existing player's mutable fields
	UpdatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Hit operations
	// AppendHit assigns hit.ID and appends it atomically
	AppendHit(ctx context.Context, hit *model.Hit) error
	ListHits(ctx context.Context) ([]*model.Hit, error)
	ListHitsByHitter(ctx context.Context, hitterID model.PlayerID) ([]*model.Hit, error)
	ListHitsByTarget(ctx context.Context, targetID model.PlayerID) ([]*model.Hit, error)

	// Stream slot operations
	SaveStreamSlot(ctx context.Context, slot *model.StreamSlot) error
	GetStreamSlot(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error)
	DeleteStreamSlot(ctx context.Context, playerID model.PlayerID) error
	ListStreamSlots(ctx context.Context) ([]*model.StreamSlot, error)

	// Snapshot reads players, hits and stream slots in one consistent view
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	// Lifecycle
	// Reset removes all data and restarts id sequences
	Reset(ctx context.Context) error
	Close() error
}
