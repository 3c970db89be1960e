package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/lasertag/internal/api/apierr"
	"github.com/mcoot/lasertag/internal/api/handler"
	"github.com/mcoot/lasertag/internal/api/middleware"
	"github.com/mcoot/lasertag/internal/api/response"
	sharedmw "github.com/mcoot/lasertag/internal/middleware"
	"github.com/mcoot/lasertag/internal/services/leaderboard"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/services/registry"
	"github.com/mcoot/lasertag/internal/services/scoring"
	"github.com/mcoot/lasertag/internal/services/streams"
)

// Version is reported by the info endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Registry    *registry.Service
	Ledger      *ledger.Service
	Scoring     *scoring.Service
	Streams     *streams.Coordinator
	Leaderboard *leaderboard.Service

	// WipeOnStartup reports whether storage was cleared when the server started
	WipeOnStartup bool

	// CORSAllowedOrigins lists dashboard origins; "*" allows any
	CORSAllowedOrigins []string
	// RateLimitRPS is the per-client request rate; zero disables limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Ledger, cfg.Scoring, cfg.Streams)
	hitHandler := handler.NewHitHandler(cfg.Registry, cfg.Ledger)
	streamHandler := handler.NewStreamHandler(cfg.Registry, cfg.Streams)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.Leaderboard)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Player routes
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/stream", streamHandler.Assign).Methods(http.MethodPost)
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}/hits", playerHandler.Hits).Methods(http.MethodGet)

	// Stream routes
	api.HandleFunc("/players/{id:[0-9]+}/stream", streamHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}/stream", streamHandler.Set).Methods(http.MethodPut)
	api.HandleFunc("/players/{id:[0-9]+}/stream", streamHandler.Stop).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id:[0-9]+}/stream/status", streamHandler.Status).Methods(http.MethodPost)
	api.HandleFunc("/streams", streamHandler.Display).Methods(http.MethodGet)

	// Hit routes
	api.HandleFunc("/hits", hitHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/hits", hitHandler.List).Methods(http.MethodGet)

	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Info and health endpoints
	info := infoHandler(cfg.WipeOnStartup)
	r.HandleFunc("/", info).Methods(http.MethodGet)
	api.HandleFunc("/", info).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Middleware wraps the whole router so preflights and unmatched routes
	// pass through it too. Listed outermost first.
	chain := []func(http.Handler) http.Handler{
		sharedmw.Recovery(cfg.Logger, writePanicResponse),
		sharedmw.RequestID,
		sharedmw.Logging(cfg.Logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	}
	if cfg.RateLimitRPS > 0 {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)
	}

	var h http.Handler = r
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// writePanicResponse answers a panicked request with the generic JSON error
func writePanicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func infoHandler(wipeOnStartup bool) http.HandlerFunc {
	info := response.Info{
		Message:       "Laser Tag Game API",
		Version:       Version,
		WipeOnStartup: wipeOnStartup,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, info)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
