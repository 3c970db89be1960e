package streams

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/dependencies/mocks"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage/memory"
	"github.com/mcoot/lasertag/internal/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	coordinator *Coordinator
	ctx         context.Context
	alice       model.PlayerID
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.coordinator = New(s.storage, s.clock, DefaultMaxSlots, testutil.NopLogger())
	s.ctx = context.Background()
	s.alice = s.createPlayer("alice")
}

func (s *CoordinatorSuite) createPlayer(username string) model.PlayerID {
	p := &model.Player{Username: username, Team: model.TeamYellow}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	return p.ID
}

func (s *CoordinatorSuite) state(id model.PlayerID) model.StreamState {
	slot, err := s.coordinator.Get(s.ctx, id)
	s.Require().NoError(err)
	return slot.State
}

func (s *CoordinatorSuite) TestNewPlayerIsAbsent() {
	slot, err := s.coordinator.Get(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.StreamStateAbsent, slot.State)
	s.Nil(slot.ExposedEndpoint())
}

func (s *CoordinatorSuite) TestUnknownPlayer() {
	_, err := s.coordinator.Get(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.coordinator.SetEndpoint(s.ctx, 42, "https://cam/x")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *CoordinatorSuite) TestSetEndpointGoesPending() {
	slot, err := s.coordinator.SetEndpoint(s.ctx, s.alice, " https://cam/alice ")
	s.Require().NoError(err)

	s.Equal(model.StreamStatePending, slot.State)
	s.Equal("https://cam/alice", slot.Endpoint)
	s.Nil(slot.ExposedEndpoint(), "pending endpoints are never offered to viewers")
	s.Equal(model.StreamStatePending, s.state(s.alice))
}

func (s *CoordinatorSuite) TestSetEndpointRejectsEmpty() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "   ")
	s.ErrorIs(err, model.ErrInvalidStreamEndpoint)
	s.Equal(model.StreamStateAbsent, s.state(s.alice))
}

func (s *CoordinatorSuite) TestFullLifecycle() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	slot, err := s.coordinator.MarkActive(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.StreamStateActive, slot.State)
	s.Equal(testutil.Epoch.Add(time.Second), slot.ActivatedAt)
	s.Require().NotNil(slot.ExposedEndpoint())
	s.Equal("https://cam/alice", *slot.ExposedEndpoint())

	slot, err = s.coordinator.Stop(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.StreamStateStopped, slot.State)

	// Stopping returns the player to absent
	s.Equal(model.StreamStateAbsent, s.state(s.alice))
}

func (s *CoordinatorSuite) TestMarkActiveRequiresEndpoint() {
	_, err := s.coordinator.MarkActive(s.ctx, s.alice)
	s.ErrorIs(err, model.ErrInvalidStreamTransition)
	s.ErrorIs(err, model.ErrConflict)
	s.Equal(model.StreamStateAbsent, s.state(s.alice))
}

func (s *CoordinatorSuite) TestMarkActiveTwiceKeepsActivationTime() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)
	_, err = s.coordinator.MarkActive(s.ctx, s.alice)
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	slot, err := s.coordinator.MarkActive(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(testutil.Epoch, slot.ActivatedAt)
}

func (s *CoordinatorSuite) TestMarkErrorRecordsReason() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)
	_, err = s.coordinator.MarkActive(s.ctx, s.alice)
	s.Require().NoError(err)

	slot, err := s.coordinator.MarkError(s.ctx, s.alice, "ice failed")
	s.Require().NoError(err)
	s.Equal(model.StreamStateError, slot.State)
	s.Equal("ice failed", slot.Error)
	s.Nil(slot.ExposedEndpoint())

	// Player is still registered
	_, err = s.storage.GetPlayer(s.ctx, s.alice)
	s.NoError(err)
}

func (s *CoordinatorSuite) TestErrorRecoversThroughNewEndpoint() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/a1")
	s.Require().NoError(err)
	_, err = s.coordinator.MarkError(s.ctx, s.alice, "boom")
	s.Require().NoError(err)

	_, err = s.coordinator.MarkActive(s.ctx, s.alice)
	s.ErrorIs(err, model.ErrInvalidStreamTransition)

	slot, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/a2")
	s.Require().NoError(err)
	s.Equal(model.StreamStatePending, slot.State)
	s.Empty(slot.Error)
}

func (s *CoordinatorSuite) TestStopWithoutStreamIsNoop() {
	slot, err := s.coordinator.Stop(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.StreamStateAbsent, slot.State)
}

func (s *CoordinatorSuite) TestFailedTransitionLeavesSlotUntouched() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)
	_, err = s.coordinator.Stop(s.ctx, s.alice)
	s.Require().NoError(err)

	_, err = s.coordinator.MarkError(s.ctx, s.alice, "late failure")
	s.ErrorIs(err, model.ErrInvalidStreamTransition)
	s.Equal(model.StreamStateAbsent, s.state(s.alice))
}

func (s *CoordinatorSuite) TestDisplayOrdersByActivation() {
	bob := s.createPlayer("bob")
	carol := s.createPlayer("carol")

	for _, id := range []model.PlayerID{carol, s.alice, bob} {
		_, err := s.coordinator.SetEndpoint(s.ctx, id, "https://cam")
		s.Require().NoError(err)
		_, err = s.coordinator.MarkActive(s.ctx, id)
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	featured, err := s.coordinator.Display(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(featured, 3)
	s.Equal(carol, featured[0].PlayerID)
	s.Equal(s.alice, featured[1].PlayerID)
	s.Equal(bob, featured[2].PlayerID)
}

func (s *CoordinatorSuite) TestDisplayFillsFreedSlot() {
	s.coordinator = New(s.storage, s.clock, 2, testutil.NopLogger())
	bob := s.createPlayer("bob")
	carol := s.createPlayer("carol")

	for _, id := range []model.PlayerID{s.alice, bob, carol} {
		_, err := s.coordinator.SetEndpoint(s.ctx, id, "https://cam")
		s.Require().NoError(err)
		_, err = s.coordinator.MarkActive(s.ctx, id)
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	featured, err := s.coordinator.Display(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(featured, 2)
	s.Equal(s.alice, featured[0].PlayerID)
	s.Equal(bob, featured[1].PlayerID)

	_, err = s.coordinator.MarkError(s.ctx, s.alice, "dropped")
	s.Require().NoError(err)

	featured, err = s.coordinator.Display(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(featured, 2)
	s.Equal(bob, featured[0].PlayerID)
	s.Equal(carol, featured[1].PlayerID)
}

// Transport adapter

func (s *CoordinatorSuite) TestTransportStatusDrivesLifecycle() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)

	slot, err := s.coordinator.ApplyTransportStatus(s.ctx, s.alice, TransportConnecting, "")
	s.Require().NoError(err)
	s.Equal(model.StreamStatePending, slot.State)

	slot, err = s.coordinator.ApplyTransportStatus(s.ctx, s.alice, " Connected ", "")
	s.Require().NoError(err)
	s.Equal(model.StreamStateActive, slot.State)

	slot, err = s.coordinator.ApplyTransportStatus(s.ctx, s.alice, TransportDisconnected, "")
	s.Require().NoError(err)
	s.Equal(model.StreamStateError, slot.State)
	s.Equal(TransportDisconnected, slot.Error)

	slot, err = s.coordinator.ApplyTransportStatus(s.ctx, s.alice, TransportClosed, "")
	s.Require().NoError(err)
	s.Equal(model.StreamStateStopped, slot.State)
	s.Equal(model.StreamStateAbsent, s.state(s.alice))
}

func (s *CoordinatorSuite) TestTransportFailureKeepsReason() {
	_, err := s.coordinator.SetEndpoint(s.ctx, s.alice, "https://cam/alice")
	s.Require().NoError(err)

	slot, err := s.coordinator.ApplyTransportStatus(s.ctx, s.alice, TransportFailed, "dtls timeout")
	s.Require().NoError(err)
	s.Equal("dtls timeout", slot.Error)
}

func (s *CoordinatorSuite) TestTransportUnknownStatus() {
	_, err := s.coordinator.ApplyTransportStatus(s.ctx, s.alice, "exploded", "")
	s.ErrorIs(err, model.ErrInvalidTransportStatus)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *CoordinatorSuite) TestTransportLiveBeforeEndpointIsRejected() {
	_, err := s.coordinator.ApplyTransportStatus(s.ctx, s.alice, TransportConnected, "")
	s.ErrorIs(err, model.ErrInvalidStreamTransition)
}
