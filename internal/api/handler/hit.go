package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/lasertag/internal/api/request"
	"github.com/mcoot/lasertag/internal/api/response"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/services/registry"
)

// HitHandler handles hit ingestion endpoints
type HitHandler struct {
	registry *registry.Service
	ledger   *ledger.Service
}

// NewHitHandler creates a new hit handler
func NewHitHandler(registry *registry.Service, ledger *ledger.Service) *HitHandler {
	return &HitHandler{
		registry: registry,
		ledger:   ledger,
	}
}

// Record handles POST /api/v1/hits
func (h *HitHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req request.RecordHitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	hitterID, err := h.resolve(r.Context(), req.HitterID, req.HitterUsername, "hitter")
	if err != nil {
		WriteError(w, err)
		return
	}
	targetID, err := h.resolve(r.Context(), req.TargetID, req.TargetUsername, "target")
	if err != nil {
		WriteError(w, err)
		return
	}

	var timestamp time.Time
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	hit, err := h.ledger.Record(r.Context(), hitterID, targetID, timestamp)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.HitFromModel(hit))
}

// List handles GET /api/v1/hits
func (h *HitHandler) List(w http.ResponseWriter, r *http.Request) {
	hits, err := h.ledger.All(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HitsFromModel(hits))
}

// resolve picks the player id for one side of a hit. An explicit id wins over
// a username; unknown ids are left for the ledger to reject.
func (h *HitHandler) resolve(ctx context.Context, id *int64, username, side string) (model.PlayerID, error) {
	if id != nil {
		return model.PlayerID(*id), nil
	}
	if username == "" {
		return 0, NewInvalidRequestError(side + "_id or " + side + "_username is required")
	}
	player, err := h.registry.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return player.ID, nil
}
