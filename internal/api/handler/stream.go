package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/lasertag/internal/api/request"
	"github.com/mcoot/lasertag/internal/api/response"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/registry"
	"github.com/mcoot/lasertag/internal/services/streams"
)

// StreamHandler handles stream slot endpoints
type StreamHandler struct {
	registry *registry.Service
	streams  *streams.Coordinator
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(registry *registry.Service, streams *streams.Coordinator) *StreamHandler {
	return &StreamHandler{
		registry: registry,
		streams:  streams,
	}
}

// Assign handles POST /api/v1/players/stream
func (h *StreamHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.registry.GetByUsername(r.Context(), req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSlot(w)(h.streams.SetEndpoint(r.Context(), player.ID, req.StreamURL))
}

// Get handles GET /api/v1/players/{id}/stream
func (h *StreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSlot(w)(h.streams.Get(r.Context(), id))
}

// Set handles PUT /api/v1/players/{id}/stream
func (h *StreamHandler) Set(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.SetStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	h.writeSlot(w)(h.streams.SetEndpoint(r.Context(), id, req.StreamURL))
}

// Status handles POST /api/v1/players/{id}/stream/status
func (h *StreamHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.StreamStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Status == "" {
		WriteError(w, NewInvalidRequestError("status is required"))
		return
	}

	h.writeSlot(w)(h.streams.ApplyTransportStatus(r.Context(), id, req.Status, req.Error))
}

// Stop handles DELETE /api/v1/players/{id}/stream
func (h *StreamHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSlot(w)(h.streams.Stop(r.Context(), id))
}

// Display handles GET /api/v1/streams
func (h *StreamHandler) Display(w http.ResponseWriter, r *http.Request) {
	slots, err := h.streams.Display(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StreamSlotsFromModel(slots))
}

func (h *StreamHandler) writeSlot(w http.ResponseWriter) func(*model.StreamSlot, error) {
	return func(slot *model.StreamSlot, err error) {
		if err != nil {
			WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.StreamSlotFromModel(*slot))
	}
}
