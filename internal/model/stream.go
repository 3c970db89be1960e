package model

import "time"

// StreamState is the lifecycle state of a player's live feed
type StreamState string

const (
	StreamStateAbsent  StreamState = "absent"  // No endpoint known
	StreamStatePending StreamState = "pending" // Endpoint supplied, transport not ready
	StreamStateActive  StreamState = "active"  // Transport reported the feed live
	StreamStateError   StreamState = "error"   // Transport reported a failure
	StreamStateStopped StreamState = "stopped" // Stopped; storage forgets the slot
)

// StreamEvent is an input to the stream state machine
type StreamEvent string

const (
	StreamEventEndpoint StreamEvent = "endpoint" // A session supplied a candidate endpoint
	StreamEventLive     StreamEvent = "live"     // Transport reported the endpoint live
	StreamEventFailed   StreamEvent = "failed"   // Transport reported a failure
	StreamEventStop     StreamEvent = "stop"     // Explicit stop or session end
)

// Next returns the state reached by applying event in state s
func (s StreamState) Next(event StreamEvent) (StreamState, error) {
	switch event {
	case StreamEventEndpoint:
		return StreamStatePending, nil
	case StreamEventLive:
		if s == StreamStatePending || s == StreamStateActive {
			return StreamStateActive, nil
		}
	case StreamEventFailed:
		if s == StreamStatePending || s == StreamStateActive || s == StreamStateError {
			return StreamStateError, nil
		}
	case StreamEventStop:
		switch s {
		case StreamStateAbsent, StreamStateStopped:
			return StreamStateAbsent, nil
		case StreamStatePending, StreamStateActive, StreamStateError:
			return StreamStateStopped, nil
		}
	}
	return s, ErrInvalidStreamTransition
}

// StreamSlot associates a player with a live feed endpoint
type StreamSlot struct {
	PlayerID    PlayerID
	Endpoint    string
	State       StreamState
	Error       string    // Last transport failure reason
	ActivatedAt time.Time // When the slot last entered active
	UpdatedAt   time.Time
}

// AbsentSlot returns the slot of a player without any stream
func AbsentSlot(playerID PlayerID) StreamSlot {
	return StreamSlot{PlayerID: playerID, State: StreamStateAbsent}
}

// Apply runs event against the slot and returns the resulting slot. The
// receiver is left untouched. endpoint is only read for StreamEventEndpoint
// and reason only for StreamEventFailed.
func (s StreamSlot) Apply(event StreamEvent, endpoint, reason string, now time.Time) (StreamSlot, error) {
	next, err := s.State.Next(event)
	if err != nil {
		return s, err
	}

	out := s
	out.UpdatedAt = now
	switch event {
	case StreamEventEndpoint:
		out.Endpoint = endpoint
		out.Error = ""
		out.ActivatedAt = time.Time{}
	case StreamEventLive:
		if s.State != StreamStateActive {
			out.ActivatedAt = now
		}
	case StreamEventFailed:
		out.Error = reason
		out.ActivatedAt = time.Time{}
	case StreamEventStop:
		if next == StreamStateAbsent {
			return AbsentSlot(s.PlayerID), nil
		}
		out.ActivatedAt = time.Time{}
	}
	out.State = next
	return out, nil
}

// ExposedEndpoint returns the endpoint viewers may connect to, or nil unless
// the slot is active
func (s StreamSlot) ExposedEndpoint() *string {
	if s.State != StreamStateActive || s.Endpoint == "" {
		return nil
	}
	endpoint := s.Endpoint
	return &endpoint
}
