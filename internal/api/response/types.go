package response

import (
	"time"

	"github.com/mcoot/lasertag/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Team        string  `json:"team"`
	Score       int     `json:"score"`
	StreamURL   *string `json:"stream_url"`
	StreamState string  `json:"stream_state"`
}

// PlayerFromModel converts a model.Player and its derived state
func PlayerFromModel(p *model.Player, score int, slot model.StreamSlot) Player {
	return Player{
		ID:          int64(p.ID),
		Username:    p.Username,
		Team:        string(p.Team),
		Score:       score,
		StreamURL:   slot.ExposedEndpoint(),
		StreamState: string(slot.State),
	}
}

// Hit represents a ledger entry
type Hit struct {
	ID        int64     `json:"id"`
	HitterID  int64     `json:"hitter_id"`
	TargetID  int64     `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HitFromModel converts model.Hit
func HitFromModel(h *model.Hit) Hit {
	return Hit{
		ID:        int64(h.ID),
		HitterID:  int64(h.HitterID),
		TargetID:  int64(h.TargetID),
		Timestamp: h.Timestamp,
	}
}

// HitsFromModel converts a slice of hits, never returning nil
func HitsFromModel(hits []*model.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = HitFromModel(h)
	}
	return out
}

// HitCount is the number of hits on one target
type HitCount struct {
	TargetID       int64  `json:"target_id"`
	TargetUsername string `json:"target_username"`
	HitCount       int    `json:"hit_count"`
}

// PlayerHits lists a player's hits in both directions
type PlayerHits struct {
	PlayerID  int64      `json:"player_id"`
	Score     int        `json:"score"`
	Given     []Hit      `json:"given"`
	Received  []Hit      `json:"received"`
	Breakdown []HitCount `json:"breakdown"`
}

// StreamSlot represents a player's stream
// The endpoint is only present while the stream is active.
type StreamSlot struct {
	PlayerID    int64      `json:"player_id"`
	State       string     `json:"state"`
	StreamURL   *string    `json:"stream_url"`
	Error       string     `json:"error,omitempty"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// StreamSlotFromModel converts model.StreamSlot
func StreamSlotFromModel(s model.StreamSlot) StreamSlot {
	var activatedAt *time.Time
	if !s.ActivatedAt.IsZero() {
		t := s.ActivatedAt
		activatedAt = &t
	}
	return StreamSlot{
		PlayerID:    int64(s.PlayerID),
		State:       string(s.State),
		StreamURL:   s.ExposedEndpoint(),
		Error:       s.Error,
		ActivatedAt: activatedAt,
	}
}

// StreamSlotsFromModel converts display slots
func StreamSlotsFromModel(slots []model.StreamSlot) []StreamSlot {
	out := make([]StreamSlot, len(slots))
	for i, s := range slots {
		out[i] = StreamSlotFromModel(s)
	}
	return out
}

// PlayerStanding is a leaderboard row
type PlayerStanding struct {
	PlayerID    int64      `json:"player_id"`
	Username    string     `json:"username"`
	Team        string     `json:"team"`
	Score       int        `json:"score"`
	StreamURL   *string    `json:"stream_url"`
	StreamState string     `json:"stream_state"`
	HitsGiven   []HitCount `json:"hits_given"`
}

// TeamStanding groups a team's rows
type TeamStanding struct {
	Team       string           `json:"team"`
	TotalScore int              `json:"total_score"`
	Players    []PlayerStanding `json:"players"`
}

// Leaderboard is the dashboard projection
type Leaderboard struct {
	Teams   []TeamStanding `json:"teams"`
	Streams []StreamSlot   `json:"streams"`
}

// LeaderboardFromModel converts model.Leaderboard
func LeaderboardFromModel(lb *model.Leaderboard) Leaderboard {
	teams := make([]TeamStanding, len(lb.Teams))
	for i, t := range lb.Teams {
		players := make([]PlayerStanding, len(t.Players))
		for j, p := range t.Players {
			players[j] = PlayerStanding{
				PlayerID:    int64(p.PlayerID),
				Username:    p.Username,
				Team:        string(p.Team),
				Score:       p.Score,
				StreamURL:   p.StreamEndpoint,
				StreamState: string(p.StreamState),
				HitsGiven:   HitCountsFromModel(p.HitsGiven),
			}
		}
		teams[i] = TeamStanding{
			Team:       string(t.Team),
			TotalScore: t.TotalScore,
			Players:    players,
		}
	}
	return Leaderboard{
		Teams:   teams,
		Streams: StreamSlotsFromModel(lb.Streams),
	}
}

// HitCountsFromModel converts per-target counts
func HitCountsFromModel(counts []model.HitCount) []HitCount {
	out := make([]HitCount, len(counts))
	for i, c := range counts {
		out[i] = HitCount{
			TargetID:       int64(c.TargetID),
			TargetUsername: c.TargetUsername,
			HitCount:       c.Count,
		}
	}
	return out
}

// Info describes the running API
type Info struct {
	Message       string `json:"message"`
	Version       string `json:"version"`
	WipeOnStartup bool   `json:"wipe_on_startup"`
}
