// Package storagetest holds the contract every storage backend must satisfy.
// Backend packages run it from their own tests:
//
//	suite.Run(t, &storagetest.Suite{NewStorage: func(t *testing.T) storage.Storage { ... }})
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
)

// Suite exercises a storage.Storage implementation
type Suite struct {
	suite.Suite

	// NewStorage returns an empty storage; it is called before every test
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
	now     time.Time
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *Suite) createPlayer(username string, team model.Team) *model.Player {
	p := &model.Player{Username: username, Team: team, CreatedAt: s.now, UpdatedAt: s.now}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	return p
}

func (s *Suite) appendHit(hitter, target model.PlayerID) *model.Hit {
	h := &model.Hit{HitterID: hitter, TargetID: target, Timestamp: s.now}
	s.Require().NoError(s.storage.AppendHit(s.ctx, h))
	return h
}

// Player tests

func (s *Suite) TestCreatePlayerAssignsSequentialIDs() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)

	s.Equal(model.PlayerID(1), alice.ID)
	s.Equal(model.PlayerID(2), bob.ID)
}

func (s *Suite) TestCreatePlayerRejectsDuplicateUsername() {
	s.createPlayer("alice", model.TeamYellow)

	err := s.storage.CreatePlayer(s.ctx, &model.Player{Username: "alice", Team: model.TeamGreen})
	s.ErrorIs(err, model.ErrUsernameTaken)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Equal(model.TeamYellow, players[0].Team)
}

func (s *Suite) TestGetPlayer() {
	alice := s.createPlayer("alice", model.TeamYellow)

	got, err := s.storage.GetPlayer(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal(model.TeamYellow, got.Team)
	s.WithinDuration(s.now, got.CreatedAt, 0)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByUsername() {
	s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)

	got, err := s.storage.GetPlayerByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(bob.ID, got.ID)

	_, err = s.storage.GetPlayerByUsername(s.ctx, "carol")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayer() {
	alice := s.createPlayer("alice", model.TeamYellow)
	alice.Team = model.TeamGreen
	alice.UpdatedAt = s.now.Add(time.Minute)

	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, alice))

	got, err := s.storage.GetPlayer(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(model.TeamGreen, got.Team)
	s.WithinDuration(s.now.Add(time.Minute), got.UpdatedAt, 0)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	err := s.storage.UpdatePlayer(s.ctx, &model.Player{ID: 9, Username: "ghost", Team: model.TeamGreen})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestReturnedPlayerIsACopy() {
	alice := s.createPlayer("alice", model.TeamYellow)

	got, err := s.storage.GetPlayer(s.ctx, alice.ID)
	s.Require().NoError(err)
	got.Team = model.TeamGreen

	again, err := s.storage.GetPlayer(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(model.TeamYellow, again.Team)
}

func (s *Suite) TestListPlayersInsertionOrder() {
	s.createPlayer("carol", model.TeamGreen)
	s.createPlayer("alice", model.TeamYellow)
	s.createPlayer("bob", model.TeamGreen)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("carol", players[0].Username)
	s.Equal("alice", players[1].Username)
	s.Equal("bob", players[2].Username)
}

// Hit tests

func (s *Suite) TestAppendHitAssignsSequentialIDs() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)

	first := s.appendHit(alice.ID, bob.ID)
	second := s.appendHit(bob.ID, alice.ID)

	s.Equal(model.HitID(1), first.ID)
	s.Equal(model.HitID(2), second.ID)
}

func (s *Suite) TestListHitsFilters() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)
	carol := s.createPlayer("carol", model.TeamGreen)

	s.appendHit(alice.ID, bob.ID)
	s.appendHit(bob.ID, alice.ID)
	s.appendHit(alice.ID, carol.ID)

	all, err := s.storage.ListHits(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	byAlice, err := s.storage.ListHitsByHitter(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(byAlice, 2)
	s.Equal(bob.ID, byAlice[0].TargetID)
	s.Equal(carol.ID, byAlice[1].TargetID)

	againstAlice, err := s.storage.ListHitsByTarget(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(againstAlice, 1)
	s.Equal(bob.ID, againstAlice[0].HitterID)
	s.WithinDuration(s.now, againstAlice[0].Timestamp, 0)

	byCarol, err := s.storage.ListHitsByHitter(s.ctx, carol.ID)
	s.Require().NoError(err)
	s.Empty(byCarol)
}

func (s *Suite) TestHitTimestampRoundTripsAtMillisecondPrecision() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)

	stamp := time.Date(2024, 1, 1, 12, 0, 0, 123000000, time.UTC)
	s.Require().NoError(s.storage.AppendHit(s.ctx, &model.Hit{HitterID: alice.ID, TargetID: bob.ID, Timestamp: stamp}))

	hits, err := s.storage.ListHits(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.True(stamp.Equal(hits[0].Timestamp), "stored %s, want %s", hits[0].Timestamp, stamp)
}

// Stream slot tests

func (s *Suite) TestSaveAndGetStreamSlot() {
	alice := s.createPlayer("alice", model.TeamYellow)
	slot := &model.StreamSlot{
		PlayerID:    alice.ID,
		Endpoint:    "https://cam/alice",
		State:       model.StreamStateActive,
		ActivatedAt: s.now,
		UpdatedAt:   s.now,
	}
	s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, slot))

	got, err := s.storage.GetStreamSlot(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("https://cam/alice", got.Endpoint)
	s.Equal(model.StreamStateActive, got.State)
	s.WithinDuration(s.now, got.ActivatedAt, 0)
}

func (s *Suite) TestStreamSlotZeroActivationRoundTrips() {
	alice := s.createPlayer("alice", model.TeamYellow)
	slot := &model.StreamSlot{PlayerID: alice.ID, Endpoint: "e", State: model.StreamStatePending, UpdatedAt: s.now}
	s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, slot))

	got, err := s.storage.GetStreamSlot(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.True(got.ActivatedAt.IsZero())
}

func (s *Suite) TestGetStreamSlotNotFound() {
	alice := s.createPlayer("alice", model.TeamYellow)
	_, err := s.storage.GetStreamSlot(s.ctx, alice.ID)
	s.ErrorIs(err, model.ErrStreamSlotNotFound)
}

func (s *Suite) TestDeleteStreamSlot() {
	alice := s.createPlayer("alice", model.TeamYellow)
	s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, &model.StreamSlot{
		PlayerID: alice.ID, Endpoint: "e", State: model.StreamStatePending, UpdatedAt: s.now,
	}))

	s.Require().NoError(s.storage.DeleteStreamSlot(s.ctx, alice.ID))

	_, err := s.storage.GetStreamSlot(s.ctx, alice.ID)
	s.ErrorIs(err, model.ErrStreamSlotNotFound)
	s.NoError(s.storage.DeleteStreamSlot(s.ctx, alice.ID), "deleting twice is fine")
}

func (s *Suite) TestListStreamSlots() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)
	for _, id := range []model.PlayerID{bob.ID, alice.ID} {
		s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, &model.StreamSlot{
			PlayerID: id, Endpoint: "e", State: model.StreamStatePending, UpdatedAt: s.now,
		}))
	}

	slots, err := s.storage.ListStreamSlots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(slots, 2)
	s.Equal(alice.ID, slots[0].PlayerID)
	s.Equal(bob.ID, slots[1].PlayerID)
}

// Snapshot and lifecycle tests

func (s *Suite) TestSnapshot() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)
	s.appendHit(alice.ID, bob.ID)
	s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, &model.StreamSlot{
		PlayerID: bob.ID, Endpoint: "e", State: model.StreamStatePending, UpdatedAt: s.now,
	}))

	snap, err := s.storage.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snap.Players, 2)
	s.Equal(alice.ID, snap.Players[0].ID)
	s.Equal(bob.ID, snap.Players[1].ID)
	s.Require().Len(snap.Hits, 1)
	s.Equal(alice.ID, snap.Hits[0].HitterID)
	s.Require().Len(snap.Streams, 1)
	s.Equal(bob.ID, snap.Streams[0].PlayerID)
}

func (s *Suite) TestSnapshotEmpty() {
	snap, err := s.storage.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Players)
	s.Empty(snap.Hits)
	s.Empty(snap.Streams)
}

func (s *Suite) TestResetClearsEverything() {
	alice := s.createPlayer("alice", model.TeamYellow)
	bob := s.createPlayer("bob", model.TeamGreen)
	s.appendHit(alice.ID, bob.ID)
	s.Require().NoError(s.storage.SaveStreamSlot(s.ctx, &model.StreamSlot{
		PlayerID: alice.ID, Endpoint: "e", State: model.StreamStatePending, UpdatedAt: s.now,
	}))

	s.Require().NoError(s.storage.Reset(s.ctx))

	snap, err := s.storage.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Players)
	s.Empty(snap.Hits)
	s.Empty(snap.Streams)

	_, err = s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	// Sequences restart
	carol := s.createPlayer("carol", model.TeamYellow)
	s.Equal(model.PlayerID(1), carol.ID)
}
