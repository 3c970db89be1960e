package memory

import (
	"context"
	"sync"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Values are
// copied on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	playerOrder   []model.PlayerID
	usernameIndex map[string]model.PlayerID
	hits          []*model.Hit
	streams       map[model.PlayerID]*model.StreamSlot

	nextPlayerID model.PlayerID
	nextHitID    model.HitID
}

// New creates a new in-memory storage instance
func New() *Storage {
	s := &Storage{}
	s.reset()
	return s
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) reset() {
	s.players = make(map[model.PlayerID]*model.Player)
	s.playerOrder = nil
	s.usernameIndex = make(map[string]model.PlayerID)
	s.hits = nil
	s.streams = make(map[model.PlayerID]*model.StreamSlot)
	s.nextPlayerID = 1
	s.nextHitID = 1
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[player.Username]; ok {
		return model.ErrUsernameTaken
	}
	player.ID = s.nextPlayerID
	s.nextPlayerID++

	p := *player
	s.players[p.ID] = &p
	s.playerOrder = append(s.playerOrder, p.ID)
	s.usernameIndex[p.Username] = p.ID
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if existing.Username != player.Username {
		if _, taken := s.usernameIndex[player.Username]; taken {
			return model.ErrUsernameTaken
		}
		delete(s.usernameIndex, existing.Username)
		s.usernameIndex[player.Username] = player.ID
	}
	p := *player
	s.players[p.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *s.players[id]
	return &p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPlayersLocked(), nil
}

func (s *Storage) listPlayersLocked() []*model.Player {
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		p := *s.players[id]
		players = append(players, &p)
	}
	return players
}

// Hit operations

func (s *Storage) AppendHit(ctx context.Context, hit *model.Hit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hit.ID = s.nextHitID
	s.nextHitID++
	h := *hit
	s.hits = append(s.hits, &h)
	return nil
}

func (s *Storage) ListHits(ctx context.Context) ([]*model.Hit, error) {
	return s.filterHits(func(*model.Hit) bool { return true }), nil
}

func (s *Storage) ListHitsByHitter(ctx context.Context, hitterID model.PlayerID) ([]*model.Hit, error) {
	return s.filterHits(func(h *model.Hit) bool { return h.HitterID == hitterID }), nil
}

func (s *Storage) ListHitsByTarget(ctx context.Context, targetID model.PlayerID) ([]*model.Hit, error) {
	return s.filterHits(func(h *model.Hit) bool { return h.TargetID == targetID }), nil
}

func (s *Storage) filterHits(keep func(*model.Hit) bool) []*model.Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := []*model.Hit{}
	for _, hit := range s.hits {
		if keep(hit) {
			h := *hit
			hits = append(hits, &h)
		}
	}
	return hits
}

// Stream slot operations

func (s *Storage) SaveStreamSlot(ctx context.Context, slot *model.StreamSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[slot.PlayerID]; !ok {
		return model.ErrPlayerNotFound
	}
	sl := *slot
	s.streams[sl.PlayerID] = &sl
	return nil
}

func (s *Storage) GetStreamSlot(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.streams[playerID]
	if !ok {
		return nil, model.ErrStreamSlotNotFound
	}
	sl := *slot
	return &sl, nil
}

func (s *Storage) DeleteStreamSlot(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.streams, playerID)
	return nil
}

func (s *Storage) ListStreamSlots(ctx context.Context) ([]*model.StreamSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listStreamsLocked(), nil
}

func (s *Storage) listStreamsLocked() []*model.StreamSlot {
	slots := make([]*model.StreamSlot, 0, len(s.streams))
	// Iterate in player order so results are deterministic
	for _, id := range s.playerOrder {
		if slot, ok := s.streams[id]; ok {
			sl := *slot
			slots = append(slots, &sl)
		}
	}
	return slots
}

// Snapshot and lifecycle

func (s *Storage) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := make([]*model.Hit, 0, len(s.hits))
	for _, hit := range s.hits {
		h := *hit
		hits = append(hits, &h)
	}
	return &model.Snapshot{
		Players: s.listPlayersLocked(),
		Hits:    hits,
		Streams: s.listStreamsLocked(),
	}, nil
}

func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Storage) Close() error {
	return nil
}
