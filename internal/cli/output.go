package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case PlayerHits:
		o.printPlayerHits(v)
	case Hit:
		o.printHit(v)
	case HitList:
		o.printHitList(v)
	case StreamSlot:
		o.printStreamSlot(v)
	case StreamList:
		o.printStreamList(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Team        string  `json:"team"`
	Score       int     `json:"score"`
	StreamURL   *string `json:"stream_url"`
	StreamState string  `json:"stream_state"`
}

// PlayerList is the response of the player list endpoint
type PlayerList []Player

// Hit response type
type Hit struct {
	ID        int64     `json:"id"`
	HitterID  int64     `json:"hitter_id"`
	TargetID  int64     `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HitList is the response of the hit list endpoint
type HitList []Hit

// HitCount response type
type HitCount struct {
	TargetID       int64  `json:"target_id"`
	TargetUsername string `json:"target_username"`
	HitCount       int    `json:"hit_count"`
}

// PlayerHits response type
type PlayerHits struct {
	PlayerID  int64      `json:"player_id"`
	Score     int        `json:"score"`
	Given     []Hit      `json:"given"`
	Received  []Hit      `json:"received"`
	Breakdown []HitCount `json:"breakdown"`
}

// StreamSlot response type
type StreamSlot struct {
	PlayerID    int64      `json:"player_id"`
	State       string     `json:"state"`
	StreamURL   *string    `json:"stream_url"`
	Error       string     `json:"error,omitempty"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// StreamList is the response of the featured streams endpoint
type StreamList []StreamSlot

// PlayerStanding response type
type PlayerStanding struct {
	PlayerID    int64      `json:"player_id"`
	Username    string     `json:"username"`
	Team        string     `json:"team"`
	Score       int        `json:"score"`
	StreamURL   *string    `json:"stream_url"`
	StreamState string     `json:"stream_state"`
	HitsGiven   []HitCount `json:"hits_given"`
}

// TeamStanding response type
type TeamStanding struct {
	Team       string           `json:"team"`
	TotalScore int              `json:"total_score"`
	Players    []PlayerStanding `json:"players"`
}

// Leaderboard response type
type Leaderboard struct {
	Teams   []TeamStanding `json:"teams"`
	Streams []StreamSlot   `json:"streams"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (%d)\n", p.Username, p.ID)
	fmt.Fprintf(o.w, "Team: %s\n", p.Team)
	fmt.Fprintf(o.w, "Score: %d\n", p.Score)
	fmt.Fprintf(o.w, "Stream: %s (%s)\n", orDash(p.StreamURL), p.StreamState)
}

func (o *Output) printPlayerList(players PlayerList) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tTEAM\tSCORE\tSTREAM")
	for _, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Username, p.Team, p.Score, p.StreamState)
	}
	_ = tw.Flush()
}

func (o *Output) printPlayerHits(h PlayerHits) {
	fmt.Fprintf(o.w, "Player %d: %d hits given, %d received\n", h.PlayerID, len(h.Given), len(h.Received))
	for _, c := range h.Breakdown {
		fmt.Fprintf(o.w, "  -> %s (%d): %d\n", c.TargetUsername, c.TargetID, c.HitCount)
	}
}

func (o *Output) printHit(h Hit) {
	fmt.Fprintf(o.w, "Hit %d: %d -> %d at %s\n", h.ID, h.HitterID, h.TargetID, h.Timestamp.Format(time.RFC3339))
}

func (o *Output) printHitList(hits HitList) {
	if len(hits) == 0 {
		fmt.Fprintln(o.w, "No hits")
		return
	}
	for _, h := range hits {
		o.printHit(h)
	}
}

func (o *Output) printStreamSlot(s StreamSlot) {
	fmt.Fprintf(o.w, "Stream for player %d: %s\n", s.PlayerID, s.State)
	if s.StreamURL != nil {
		fmt.Fprintf(o.w, "URL: %s\n", *s.StreamURL)
	}
	if s.Error != "" {
		fmt.Fprintf(o.w, "Error: %s\n", s.Error)
	}
}

func (o *Output) printStreamList(streams StreamList) {
	if len(streams) == 0 {
		fmt.Fprintln(o.w, "No live streams")
		return
	}
	for i, s := range streams {
		fmt.Fprintf(o.w, "%d. player %d: %s\n", i+1, s.PlayerID, orDash(s.StreamURL))
	}
}

func (o *Output) printLeaderboard(lb Leaderboard) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	for _, t := range lb.Teams {
		fmt.Fprintf(tw, "%s\t%d\n", t.Team, t.TotalScore)
		for _, p := range t.Players {
			fmt.Fprintf(tw, "  %s (%d)\t%d\t%s\n", p.Username, p.PlayerID, p.Score, orDash(p.StreamURL))
		}
	}
	_ = tw.Flush()
	if len(lb.Streams) > 0 {
		fmt.Fprintln(o.w, "\nLive:")
		o.printStreamList(lb.Streams)
	}
}
