package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/lasertag/internal/dependencies/clock"
	"github.com/mcoot/lasertag/internal/services/leaderboard"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/services/registry"
	"github.com/mcoot/lasertag/internal/services/scoring"
	"github.com/mcoot/lasertag/internal/services/streams"
	"github.com/mcoot/lasertag/internal/storage"
	"github.com/mcoot/lasertag/internal/storage/memory"
	redisstorage "github.com/mcoot/lasertag/internal/storage/redis"
	"github.com/mcoot/lasertag/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Registry    *registry.Service
	Ledger      *ledger.Service
	Scoring     *scoring.Service
	Streams     *streams.Coordinator
	Leaderboard *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// MaxStreamSlots caps the featured feeds; zero means streams.DefaultMaxSlots
	MaxStreamSlots int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), cfg.MaxStreamSlots, logger), nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliteStore, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, maxSlots int, logger *slog.Logger) *App {
	if maxSlots == 0 {
		maxSlots = streams.DefaultMaxSlots
	}

	registryService := registry.New(store, clk, logger)
	ledgerService := ledger.New(store, clk, logger)
	scoringService := scoring.New(ledgerService)
	coordinator := streams.New(store, clk, maxSlots, logger)
	leaderboardService := leaderboard.New(store, maxSlots)

	return &App{
		Storage:     store,
		Clock:       clk,
		Registry:    registryService,
		Ledger:      ledgerService,
		Scoring:     scoringService,
		Streams:     coordinator,
		Leaderboard: leaderboardService,
	}
}
