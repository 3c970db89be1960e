package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/dependencies/mocks"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/services/registry"
	"github.com/mcoot/lasertag/internal/services/scoring"
	"github.com/mcoot/lasertag/internal/services/streams"
	"github.com/mcoot/lasertag/internal/storage/memory"
	"github.com/mcoot/lasertag/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock       *mocks.MockClock
	registry    *registry.Service
	ledger      *ledger.Service
	scoring     *scoring.Service
	coordinator *streams.Coordinator
	service     *Service
	ctx         context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.registry = registry.New(store, s.clock, logger)
	s.ledger = ledger.New(store, s.clock, logger)
	s.scoring = scoring.New(s.ledger)
	s.coordinator = streams.New(store, s.clock, streams.DefaultMaxSlots, logger)
	s.service = New(store, streams.DefaultMaxSlots)
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(username, team string) model.PlayerID {
	p, _, err := s.registry.Register(s.ctx, username, team)
	s.Require().NoError(err)
	return p.ID
}

func (s *ServiceSuite) hit(hitter, target model.PlayerID) {
	_, err := s.ledger.Record(s.ctx, hitter, target, time.Time{})
	s.Require().NoError(err)
}

func (s *ServiceSuite) render() *model.Leaderboard {
	lb, err := s.service.Render(s.ctx)
	s.Require().NoError(err)
	return lb
}

func (s *ServiceSuite) team(lb *model.Leaderboard, team model.Team) model.TeamStanding {
	for _, t := range lb.Teams {
		if t.Team == team {
			return t
		}
	}
	s.FailNow("team missing", "team %s", team)
	return model.TeamStanding{}
}

func (s *ServiceSuite) standing(lb *model.Leaderboard, id model.PlayerID) model.PlayerStanding {
	for _, t := range lb.Teams {
		for _, p := range t.Players {
			if p.PlayerID == id {
				return p
			}
		}
	}
	s.FailNow("player missing", "player %d", id)
	return model.PlayerStanding{}
}

func (s *ServiceSuite) TestEmptyLedgerListsEveryTeam() {
	lb := s.render()

	s.Require().Len(lb.Teams, 2)
	s.Equal(model.TeamYellow, lb.Teams[0].Team)
	s.Equal(model.TeamGreen, lb.Teams[1].Team)
	for _, t := range lb.Teams {
		s.Zero(t.TotalScore)
		s.Empty(t.Players)
	}
	s.Empty(lb.Streams)
}

func (s *ServiceSuite) TestAliceHitsBob() {
	alice := s.register("alice", "yellow")
	bob := s.register("bob", "green")
	s.Equal(model.PlayerID(1), alice)
	s.Equal(model.PlayerID(2), bob)

	s.hit(alice, bob)

	lb := s.render()
	s.Equal(model.TeamYellow, lb.Teams[0].Team)
	s.Equal(1, lb.Teams[0].TotalScore)
	s.Equal(model.TeamGreen, lb.Teams[1].Team)
	s.Equal(0, lb.Teams[1].TotalScore)

	aliceRow := s.standing(lb, alice)
	s.Equal(1, aliceRow.Score)
	s.Equal([]model.HitCount{{TargetID: bob, TargetUsername: "bob", Count: 1}}, aliceRow.HitsGiven)
	s.Empty(s.standing(lb, bob).HitsGiven)
}

func (s *ServiceSuite) TestReRegistrationMovesPlayerBetweenTeams() {
	alice := s.register("alice", "yellow")
	bob := s.register("bob", "green")
	s.hit(alice, bob)

	again := s.register("alice", "green")
	s.Equal(alice, again)

	lb := s.render()
	green := s.team(lb, model.TeamGreen)
	yellow := s.team(lb, model.TeamYellow)

	s.Len(green.Players, 2)
	s.Equal(1, green.TotalScore)
	s.Empty(yellow.Players)
	s.Zero(yellow.TotalScore)
	s.Equal(model.TeamGreen, lb.Teams[0].Team)
}

func (s *ServiceSuite) TestEndpointVisibleOnlyWhileActive() {
	alice := s.register("alice", "yellow")
	bob := s.register("bob", "green")
	s.hit(alice, bob)

	_, err := s.coordinator.SetEndpoint(s.ctx, alice, "https://cam/alice")
	s.Require().NoError(err)
	row := s.standing(s.render(), alice)
	s.Equal(model.StreamStatePending, row.StreamState)
	s.Nil(row.StreamEndpoint)

	_, err = s.coordinator.MarkActive(s.ctx, alice)
	s.Require().NoError(err)
	lb := s.render()
	row = s.standing(lb, alice)
	s.Require().NotNil(row.StreamEndpoint)
	s.Equal("https://cam/alice", *row.StreamEndpoint)
	s.Require().Len(lb.Streams, 1)
	s.Equal(alice, lb.Streams[0].PlayerID)

	_, err = s.coordinator.MarkError(s.ctx, alice, "lost")
	s.Require().NoError(err)
	lb = s.render()
	row = s.standing(lb, alice)
	s.Nil(row.StreamEndpoint)
	s.Equal(model.StreamStateError, row.StreamState)
	s.Equal(1, row.Score)
	s.Empty(lb.Streams)
}

func (s *ServiceSuite) TestPlayersRankedByScoreThenID() {
	alice := s.register("alice", "green")
	bob := s.register("bob", "green")
	carol := s.register("carol", "green")
	dave := s.register("dave", "yellow")

	s.hit(carol, dave)
	s.hit(carol, dave)
	s.hit(bob, dave)
	s.hit(alice, dave)

	green := s.team(s.render(), model.TeamGreen)
	s.Require().Len(green.Players, 3)
	s.Equal(carol, green.Players[0].PlayerID)
	s.Equal(alice, green.Players[1].PlayerID)
	s.Equal(bob, green.Players[2].PlayerID)
	s.Equal(4, green.TotalScore)
}

func (s *ServiceSuite) TestTiedTeamsUseFixedOrder() {
	green := s.register("gina", "green")
	yellow := s.register("yuri", "yellow")
	s.hit(green, yellow)
	s.hit(yellow, green)

	lb := s.render()
	s.Equal(model.TeamYellow, lb.Teams[0].Team)
	s.Equal(model.TeamGreen, lb.Teams[1].Team)
}

func (s *ServiceSuite) TestRenderIsDeterministic() {
	alice := s.register("alice", "yellow")
	bob := s.register("bob", "green")
	carol := s.register("carol", "green")
	s.hit(alice, bob)
	s.hit(carol, alice)
	s.hit(alice, carol)

	s.Equal(s.render(), s.render())
}

func (s *ServiceSuite) TestReadAfterWrite() {
	alice := s.register("alice", "yellow")
	bob := s.register("bob", "green")

	for i := 1; i <= 5; i++ {
		s.hit(bob, alice)
		row := s.standing(s.render(), bob)
		s.Equal(i, row.Score)

		score, err := s.scoring.ScoreOf(s.ctx, bob)
		s.Require().NoError(err)
		s.Equal(row.Score, score)
	}
}

func (s *ServiceSuite) TestProjectIsPure() {
	snap := &model.Snapshot{
		Players: []*model.Player{
			{ID: 1, Username: "alice", Team: model.TeamYellow},
			{ID: 2, Username: "bob", Team: model.TeamGreen},
		},
		Hits: []*model.Hit{
			{ID: 1, HitterID: 2, TargetID: 1},
			{ID: 2, HitterID: 2, TargetID: 1},
		},
		Streams: []*model.StreamSlot{
			{PlayerID: 2, Endpoint: "https://cam/bob", State: model.StreamStateActive, ActivatedAt: testutil.Epoch},
		},
	}

	lb := Project(snap, 1)
	s.Equal(model.TeamGreen, lb.Teams[0].Team)
	s.Equal(2, lb.Teams[0].TotalScore)
	s.Equal([]model.HitCount{{TargetID: 1, TargetUsername: "alice", Count: 2}}, lb.Teams[0].Players[0].HitsGiven)
	s.Require().Len(lb.Streams, 1)

	s.Equal(lb, Project(snap, 1))
}
