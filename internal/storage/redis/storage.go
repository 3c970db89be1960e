package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

// savePlayerScript claims a username for a player id and writes the player
// record in one step, so a failed write never leaves a dangling claim.
// KEYS: username index, players hash.
// ARGV: username, player id, player JSON, previous username or "".
// Returns 0 when the username belongs to another player.
var savePlayerScript = redis.NewScript(`
local owner = redis.call('HGET', KEYS[1], ARGV[1])
if owner and owner ~= ARGV[2] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
if ARGV[4] ~= '' and ARGV[4] ~= ARGV[1] then
	redis.call('HDEL', KEYS[1], ARGV[4])
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

func (s *Storage) savePlayer(ctx context.Context, player *model.Player, previousUsername string) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	saved, err := savePlayerScript.Run(ctx, s.client,
		[]string{usernameIndexKey(), playersKey()},
		player.Username, field(player.ID), data, previousUsername,
	).Int()
	if err != nil {
		return fmt.Errorf("save player %d: %w", player.ID, err)
	}
	if saved == 0 {
		return model.ErrUsernameTaken
	}
	return nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	taken, err := s.client.HExists(ctx, usernameIndexKey(), player.Username).Result()
	if err != nil {
		return err
	}
	if taken {
		return model.ErrUsernameTaken
	}

	id, err := s.client.Incr(ctx, playerSeqKey()).Result()
	if err != nil {
		return err
	}

	// The caller's player only gets its id once the record exists
	created := *player
	created.ID = model.PlayerID(id)
	if err := s.savePlayer(ctx, &created, ""); err != nil {
		return err
	}
	player.ID = created.ID
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	existing, err := s.GetPlayer(ctx, player.ID)
	if err != nil {
		return err
	}
	return s.savePlayer(ctx, player, existing.Username)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.HGet(ctx, playersKey(), field(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	// Look up player ID from username index
	id, err := s.client.HGet(ctx, usernameIndexKey(), username).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	values, err := s.client.HGetAll(ctx, playersKey()).Result()
	if err != nil {
		return nil, err
	}
	return decodePlayers(values)
}

func decodePlayers(values map[string]string) ([]*model.Player, error) {
	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		var player model.Player
		if err := json.Unmarshal([]byte(val), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	// IDs are assigned in creation order
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// Hit operations

func (s *Storage) AppendHit(ctx context.Context, hit *model.Hit) error {
	id, err := s.client.Incr(ctx, hitSeqKey()).Result()
	if err != nil {
		return err
	}
	hit.ID = model.HitID(id)

	data, err := json.Marshal(hit)
	if err != nil {
		return err
	}

	// MULTI/EXEC so the ledger and both indexes change together
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, hitsKey(), data)
		pipe.RPush(ctx, hitsByKey(hit.HitterID), data)
		pipe.RPush(ctx, hitsAgainstKey(hit.TargetID), data)
		return nil
	})
	return err
}

func (s *Storage) ListHits(ctx context.Context) ([]*model.Hit, error) {
	return s.listHits(ctx, hitsKey())
}

func (s *Storage) ListHitsByHitter(ctx context.Context, hitterID model.PlayerID) ([]*model.Hit, error) {
	return s.listHits(ctx, hitsByKey(hitterID))
}

func (s *Storage) ListHitsByTarget(ctx context.Context, targetID model.PlayerID) ([]*model.Hit, error) {
	return s.listHits(ctx, hitsAgainstKey(targetID))
}

func (s *Storage) listHits(ctx context.Context, key string) ([]*model.Hit, error) {
	values, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeHits(values)
}

func decodeHits(values []string) ([]*model.Hit, error) {
	hits := make([]*model.Hit, 0, len(values))
	for _, val := range values {
		var hit model.Hit
		if err := json.Unmarshal([]byte(val), &hit); err != nil {
			return nil, err
		}
		hits = append(hits, &hit)
	}
	return hits, nil
}

// Stream slot operations

func (s *Storage) SaveStreamSlot(ctx context.Context, slot *model.StreamSlot) error {
	exists, err := s.client.HExists(ctx, playersKey(), field(slot.PlayerID)).Result()
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrPlayerNotFound
	}

	data, err := json.Marshal(slot)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, streamsKey(), field(slot.PlayerID), data).Err()
}

func (s *Storage) GetStreamSlot(ctx context.Context, playerID model.PlayerID) (*model.StreamSlot, error) {
	data, err := s.client.HGet(ctx, streamsKey(), field(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStreamSlotNotFound
		}
		return nil, err
	}

	var slot model.StreamSlot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *Storage) DeleteStreamSlot(ctx context.Context, playerID model.PlayerID) error {
	return s.client.HDel(ctx, streamsKey(), field(playerID)).Err()
}

func (s *Storage) ListStreamSlots(ctx context.Context) ([]*model.StreamSlot, error) {
	values, err := s.client.HGetAll(ctx, streamsKey()).Result()
	if err != nil {
		return nil, err
	}
	return decodeStreams(values)
}

func decodeStreams(values map[string]string) ([]*model.StreamSlot, error) {
	slots := make([]*model.StreamSlot, 0, len(values))
	for _, val := range values {
		var slot model.StreamSlot
		if err := json.Unmarshal([]byte(val), &slot); err != nil {
			return nil, err
		}
		slots = append(slots, &slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].PlayerID < slots[j].PlayerID
	})
	return slots, nil
}

// Snapshot and lifecycle

func (s *Storage) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	var (
		playersCmd *redis.MapStringStringCmd
		hitsCmd    *redis.StringSliceCmd
		streamsCmd *redis.MapStringStringCmd
	)

	// One MULTI/EXEC gives a point-in-time view across all three collections
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		playersCmd = pipe.HGetAll(ctx, playersKey())
		hitsCmd = pipe.LRange(ctx, hitsKey(), 0, -1)
		streamsCmd = pipe.HGetAll(ctx, streamsKey())
		return nil
	})
	if err != nil {
		return nil, err
	}

	players, err := decodePlayers(playersCmd.Val())
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(hitsCmd.Val())
	if err != nil {
		return nil, err
	}
	streams, err := decodeStreams(streamsCmd.Val())
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Players: players,
		Hits:    hits,
		Streams: streams,
	}, nil
}

func (s *Storage) Reset(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
