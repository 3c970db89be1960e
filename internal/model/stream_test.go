package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamStateNext(t *testing.T) {
	tests := []struct {
		name    string
		from    StreamState
		event   StreamEvent
		want    StreamState
		wantErr bool
	}{
		{"absent endpoint", StreamStateAbsent, StreamEventEndpoint, StreamStatePending, false},
		{"pending live", StreamStatePending, StreamEventLive, StreamStateActive, false},
		{"active live is idempotent", StreamStateActive, StreamEventLive, StreamStateActive, false},
		{"active stop", StreamStateActive, StreamEventStop, StreamStateStopped, false},
		{"active failed", StreamStateActive, StreamEventFailed, StreamStateError, false},
		{"pending failed", StreamStatePending, StreamEventFailed, StreamStateError, false},
		{"error endpoint restarts", StreamStateError, StreamEventEndpoint, StreamStatePending, false},
		{"active endpoint restarts", StreamStateActive, StreamEventEndpoint, StreamStatePending, false},
		{"absent stop is a no-op", StreamStateAbsent, StreamEventStop, StreamStateAbsent, false},
		{"absent live", StreamStateAbsent, StreamEventLive, StreamStateAbsent, true},
		{"error live", StreamStateError, StreamEventLive, StreamStateError, true},
		{"absent failed", StreamStateAbsent, StreamEventFailed, StreamStateAbsent, true},
		{"unknown event", StreamStatePending, StreamEvent("bogus"), StreamStatePending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next(tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStreamTransition)
				assert.ErrorIs(t, err, ErrConflict)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreamSlotLifecycle(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	slot := AbsentSlot(1)
	assert.Nil(t, slot.ExposedEndpoint())

	slot, err := slot.Apply(StreamEventEndpoint, "https://cam/1", "", t0)
	require.NoError(t, err)
	assert.Equal(t, StreamStatePending, slot.State)
	assert.Nil(t, slot.ExposedEndpoint(), "pending endpoints are never exposed")

	slot, err = slot.Apply(StreamEventLive, "", "", t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Second), slot.ActivatedAt)
	require.NotNil(t, slot.ExposedEndpoint())
	assert.Equal(t, "https://cam/1", *slot.ExposedEndpoint())

	// A repeated live signal keeps the original activation time
	again, err := slot.Apply(StreamEventLive, "", "", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Second), again.ActivatedAt)

	failed, err := slot.Apply(StreamEventFailed, "", "ice failed", t0.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StreamStateError, failed.State)
	assert.Equal(t, "ice failed", failed.Error)
	assert.Nil(t, failed.ExposedEndpoint())

	stopped, err := slot.Apply(StreamEventStop, "", "", t0.Add(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StreamStateStopped, stopped.State)
	assert.Nil(t, stopped.ExposedEndpoint())
}

func TestStreamSlotApplyLeavesReceiverOnError(t *testing.T) {
	slot := AbsentSlot(7)
	out, err := slot.Apply(StreamEventLive, "", "", time.Now())
	assert.True(t, errors.Is(err, ErrInvalidStreamTransition))
	assert.Equal(t, slot, out)
}

func TestParseTeam(t *testing.T) {
	tests := []struct {
		input   string
		want    Team
		wantErr bool
	}{
		{"yellow", TeamYellow, false},
		{" Green ", TeamGreen, false},
		{"YELLOW", TeamYellow, false},
		{"y", "", true},
		{"", "", true},
		{"blue", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTeam(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTeam)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	got, err := NormalizeUsername("  alice ")
	assert.NoError(t, err)
	assert.Equal(t, "alice", got)

	_, err = NormalizeUsername("   ")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	long := make([]byte, MaxUsernameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NormalizeUsername(string(long))
	assert.ErrorIs(t, err, ErrInvalidUsername)
}
