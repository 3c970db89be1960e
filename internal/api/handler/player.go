package handler

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/mcoot/lasertag/internal/api/request"
	"github.com/mcoot/lasertag/internal/api/response"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/services/registry"
	"github.com/mcoot/lasertag/internal/services/scoring"
	"github.com/mcoot/lasertag/internal/services/streams"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry *registry.Service
	ledger   *ledger.Service
	scoring  *scoring.Service
	streams  *streams.Coordinator
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry *registry.Service, ledger *ledger.Service, scoring *scoring.Service, streams *streams.Coordinator) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		ledger:   ledger,
		scoring:  scoring,
		streams:  streams,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, created, err := h.registry.Register(r.Context(), req.Username, req.Team)
	if err != nil {
		WriteError(w, err)
		return
	}

	if req.StreamURL != nil && strings.TrimSpace(*req.StreamURL) != "" {
		if _, err := h.streams.SetEndpoint(r.Context(), player.ID, *req.StreamURL); err != nil {
			WriteError(w, err)
			return
		}
	}

	resp, err := h.playerResponse(r, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, status, resp)
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	hits, err := h.ledger.All(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	scores := scoring.Scores(hits)

	out := make([]response.Player, 0, len(players))
	for _, p := range players {
		slot, err := h.streams.Get(r.Context(), p.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		out = append(out, response.PlayerFromModel(p, scores[p.ID], *slot))
	}

	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.registry.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.playerResponse(r, player)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resp)
}

// Hits handles GET /api/v1/players/{id}/hits
func (h *PlayerHandler) Hits(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	given, err := h.ledger.HitsBy(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	received, err := h.ledger.HitsAgainst(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Targets in a breakdown are ordered by id, matching the leaderboard
	byTarget := scoring.Breakdowns(given)[id]
	breakdown := make([]response.HitCount, 0, len(byTarget))
	for _, hit := range given {
		count, ok := byTarget[hit.TargetID]
		if !ok {
			continue
		}
		delete(byTarget, hit.TargetID)
		target, err := h.registry.Get(r.Context(), hit.TargetID)
		if err != nil {
			WriteError(w, err)
			return
		}
		breakdown = append(breakdown, response.HitCount{
			TargetID:       int64(target.ID),
			TargetUsername: target.Username,
			HitCount:       count,
		})
	}
	slices.SortFunc(breakdown, func(a, b response.HitCount) int {
		return cmp.Compare(a.TargetID, b.TargetID)
	})

	response.JSON(w, http.StatusOK, response.PlayerHits{
		PlayerID:  int64(id),
		Score:     len(given),
		Given:     response.HitsFromModel(given),
		Received:  response.HitsFromModel(received),
		Breakdown: breakdown,
	})
}

func (h *PlayerHandler) playerResponse(r *http.Request, player *model.Player) (response.Player, error) {
	score, err := h.scoring.ScoreOf(r.Context(), player.ID)
	if err != nil {
		return response.Player{}, err
	}
	slot, err := h.streams.Get(r.Context(), player.ID)
	if err != nil {
		return response.Player{}, err
	}
	return response.PlayerFromModel(player, score, *slot), nil
}

