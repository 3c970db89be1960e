package streams

import (
	"context"
	"strings"

	"github.com/mcoot/lasertag/internal/model"
)

// Camera transport connection states, as reported by the glasses session
const (
	TransportNew          = "new"
	TransportConnecting   = "connecting"
	TransportConnected    = "connected"
	TransportDisconnected = "disconnected"
	TransportFailed       = "failed"
	TransportClosed       = "closed"
)

// transportEvents maps transport statuses onto stream events. An empty event
// means the status carries no lifecycle change.
var transportEvents = map[string]model.StreamEvent{
	TransportNew:        "",
	TransportConnecting: "",
	"pending":           "",

	TransportConnected: model.StreamEventLive,
	"active":           model.StreamEventLive,
	"live":             model.StreamEventLive,

	TransportFailed:       model.StreamEventFailed,
	TransportDisconnected: model.StreamEventFailed,
	"error":               model.StreamEventFailed,

	TransportClosed: model.StreamEventStop,
	"stopped":       model.StreamEventStop,
}

// ApplyTransportStatus feeds a transport status callback into the state
// machine. reason is recorded for failures and defaults to the status.
func (c *Coordinator) ApplyTransportStatus(ctx context.Context, playerID model.PlayerID, status, reason string) (*model.StreamSlot, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	event, ok := transportEvents[status]
	if !ok {
		return nil, model.ErrInvalidTransportStatus
	}

	switch event {
	case model.StreamEventLive:
		return c.MarkActive(ctx, playerID)
	case model.StreamEventFailed:
		if strings.TrimSpace(reason) == "" {
			reason = status
		}
		return c.MarkError(ctx, playerID, reason)
	case model.StreamEventStop:
		return c.Stop(ctx, playerID)
	default:
		return c.Get(ctx, playerID)
	}
}
