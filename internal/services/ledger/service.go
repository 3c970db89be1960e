package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/lasertag/internal/dependencies/clock"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// Service is the append-only record of hits between players
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new ledger Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Record appends a hit of hitterID on targetID. A zero timestamp is replaced
// by the current time. Timestamps are kept in UTC at millisecond precision,
// the resolution every storage backend can round trip. Players are never
// modified.
func (s *Service) Record(ctx context.Context, hitterID, targetID model.PlayerID, timestamp time.Time) (*model.Hit, error) {
	if hitterID == targetID {
		return nil, model.ErrSelfHit
	}

	// Players are never deleted, so a successful lookup stays valid
	for _, id := range []model.PlayerID{hitterID, targetID} {
		if _, err := s.storage.GetPlayer(ctx, id); err != nil {
			return nil, err
		}
	}

	if timestamp.IsZero() {
		timestamp = s.clock.Now()
	}

	hit := &model.Hit{
		HitterID:  hitterID,
		TargetID:  targetID,
		Timestamp: timestamp.UTC().Truncate(time.Millisecond),
	}
	if err := s.storage.AppendHit(ctx, hit); err != nil {
		s.logger.Error("failed to append hit",
			slog.Int64("hitter_id", int64(hitterID)),
			slog.Int64("target_id", int64(targetID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("hit recorded",
		slog.Int64("hit_id", int64(hit.ID)),
		slog.Int64("hitter_id", int64(hitterID)),
		slog.Int64("target_id", int64(targetID)),
	)
	return hit, nil
}

// HitsBy returns every hit made by the player, oldest first
func (s *Service) HitsBy(ctx context.Context, playerID model.PlayerID) ([]*model.Hit, error) {
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return s.storage.ListHitsByHitter(ctx, playerID)
}

// HitsAgainst returns every hit taken by the player, oldest first
func (s *Service) HitsAgainst(ctx context.Context, playerID model.PlayerID) ([]*model.Hit, error) {
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return s.storage.ListHitsByTarget(ctx, playerID)
}

// All returns the whole ledger in append order
func (s *Service) All(ctx context.Context) ([]*model.Hit, error) {
	return s.storage.ListHits(ctx)
}
