package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/lasertag/internal/dependencies/clock"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// Service owns player identity and team assignment
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	// mu serializes registrations so one username never yields two players
	mu sync.Mutex
}

// New creates a new registry Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a player for username, or moves the existing player with
// that username to team. created reports which of the two happened.
func (s *Service) Register(ctx context.Context, username, team string) (player *model.Player, created bool, err error) {
	name, err := model.NormalizeUsername(username)
	if err != nil {
		return nil, false, err
	}
	t, err := model.ParseTeam(team)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	existing, err := s.storage.GetPlayerByUsername(ctx, name)
	switch {
	case err == nil:
		if existing.Team == t {
			return existing, false, nil
		}
		previous := existing.Team
		existing.Team = t
		existing.UpdatedAt = now
		if err := s.storage.UpdatePlayer(ctx, existing); err != nil {
			return nil, false, err
		}
		s.logger.Info("player team changed",
			slog.Int64("player_id", int64(existing.ID)),
			slog.String("username", existing.Username),
			slog.String("from", string(previous)),
			slog.String("to", string(t)),
		)
		return existing, false, nil
	case !errors.Is(err, model.ErrPlayerNotFound):
		return nil, false, err
	}

	player = &model.Player{
		Username:  name,
		Team:      t,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		s.logger.Error("failed to create player",
			slog.String("username", name),
			slog.String("error", err.Error()),
		)
		return nil, false, err
	}

	s.logger.Info("player registered",
		slog.Int64("player_id", int64(player.ID)),
		slog.String("username", player.Username),
		slog.String("team", string(player.Team)),
	)
	return player, true, nil
}

// Get retrieves a player by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// GetByUsername retrieves a player by username. The username is normalized
// the same way Register normalizes it.
func (s *Service) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	name, err := model.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPlayerByUsername(ctx, name)
}

// List returns every player in registration order
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}
