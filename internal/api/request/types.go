package request

import "time"

// RegisterPlayerRequest is the request body for creating or updating a player
type RegisterPlayerRequest struct {
	Username  string  `json:"username"`
	Team      string  `json:"team"`
	StreamURL *string `json:"stream_url,omitempty"`
}

// AssignStreamRequest is the request body for assigning a stream by username
type AssignStreamRequest struct {
	Username  string `json:"username"`
	StreamURL string `json:"stream_url"`
}

// SetStreamRequest is the request body for setting a player's stream endpoint
type SetStreamRequest struct {
	StreamURL string `json:"stream_url"`
}

// StreamStatusRequest carries a camera transport status callback
type StreamStatusRequest struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RecordHitRequest is the request body for recording a hit. Each side is
// given either by id or by username.
type RecordHitRequest struct {
	HitterID       *int64     `json:"hitter_id,omitempty"`
	TargetID       *int64     `json:"target_id,omitempty"`
	HitterUsername string     `json:"hitter_username,omitempty"`
	TargetUsername string     `json:"target_username,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}
