package handler

import (
	"net/http"

	"github.com/mcoot/lasertag/internal/api/response"
	"github.com/mcoot/lasertag/internal/services/leaderboard"
)

// LeaderboardHandler serves the dashboard projection
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	lb, err := h.leaderboard.Render(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(lb))
}
