package streams

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/lasertag/internal/dependencies/clock"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// DefaultMaxSlots is how many feeds are featured at once unless configured
const DefaultMaxSlots = 4

// Coordinator tracks each player's live feed through its lifecycle
type Coordinator struct {
	storage  storage.Storage
	clock    clock.Clock
	maxSlots int
	logger   *slog.Logger

	// mu serializes transitions so each one reads the state it replaces
	mu sync.Mutex
}

// New creates a new Coordinator featuring at most maxSlots feeds
func New(storage storage.Storage, clock clock.Clock, maxSlots int, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		storage:  storage,
		clock:    clock,
		maxSlots: maxSlots,
		logger:   logger,
	}
}

// MaxSlots returns how many feeds are featured at once
func (c *Coordinator) MaxSlots() int {
	return c.maxSlots
}

// Get returns the player's slot. A player without a stream gets an absent slot.
func (c *Coordinator) Get(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	if _, err := c.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	slot, err := c.storage.GetStreamSlot(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrStreamSlotNotFound) {
			absent := model.AbsentSlot(playerID)
			return &absent, nil
		}
		return nil, err
	}
	return slot, nil
}

// SetEndpoint records a candidate endpoint. The slot goes to pending until
// the transport reports it live, whatever state it was in before.
func (c *Coordinator) SetEndpoint(ctx context.Context, playerID model.PlayerID, endpoint string) (*model.StreamSlot, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, model.ErrInvalidStreamEndpoint
	}
	return c.transition(ctx, playerID, model.StreamEventEndpoint, endpoint, "")
}

// MarkActive reports the endpoint live. Only active slots are shown to viewers.
func (c *Coordinator) MarkActive(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	return c.transition(ctx, playerID, model.StreamEventLive, "", "")
}

// MarkError records a transport failure. The player stays registered.
func (c *Coordinator) MarkError(ctx context.Context, playerID model.PlayerID, reason string) (*model.StreamSlot, error) {
	return c.transition(ctx, playerID, model.StreamEventFailed, "", reason)
}

// Stop ends the stream. The returned slot is stopped; the stored slot is
// removed so later reads see the player as absent.
func (c *Coordinator) Stop(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	return c.transition(ctx, playerID, model.StreamEventStop, "", "")
}

// Display returns the slots currently featured to viewers
func (c *Coordinator) Display(ctx context.Context) ([]model.StreamSlot, error) {
	slots, err := c.storage.ListStreamSlots(ctx)
	if err != nil {
		return nil, err
	}
	return DisplaySlots(slots, c.maxSlots), nil
}

func (c *Coordinator) transition(ctx context.Context, playerID model.PlayerID, event model.StreamEvent, endpoint, reason string) (*model.StreamSlot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	// Repeated live reports keep the original activation time
	if event == model.StreamEventLive && current.State == model.StreamStateActive {
		return current, nil
	}

	next, err := current.Apply(event, endpoint, reason, c.clock.Now())
	if err != nil {
		c.logger.Warn("stream transition rejected",
			slog.Int64("player_id", int64(playerID)),
			slog.String("state", string(current.State)),
			slog.String("event", string(event)),
		)
		return nil, err
	}

	switch next.State {
	case model.StreamStateAbsent, model.StreamStateStopped:
		err = c.storage.DeleteStreamSlot(ctx, playerID)
	default:
		err = c.storage.SaveStreamSlot(ctx, &next)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("stream transition",
		slog.Int64("player_id", int64(playerID)),
		slog.String("from", string(current.State)),
		slog.String("to", string(next.State)),
		slog.String("event", string(event)),
	)
	return &next, nil
}
