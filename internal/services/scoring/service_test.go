package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/dependencies/mocks"
	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/ledger"
	"github.com/mcoot/lasertag/internal/storage/memory"
	"github.com/mcoot/lasertag/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	ledger  *ledger.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.ledger = ledger.New(s.storage, mocks.NewMockClock(testutil.Epoch), testutil.NopLogger())
	s.service = New(s.ledger)
	s.ctx = context.Background()

	for _, p := range []*model.Player{
		{Username: "alice", Team: model.TeamYellow},
		{Username: "bob", Team: model.TeamGreen},
		{Username: "carol", Team: model.TeamGreen},
	} {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	}
}

func (s *ServiceSuite) hit(hitter, target model.PlayerID) {
	_, err := s.ledger.Record(s.ctx, hitter, target, time.Time{})
	s.Require().NoError(err)
}

func (s *ServiceSuite) score(id model.PlayerID) int {
	score, err := s.service.ScoreOf(s.ctx, id)
	s.Require().NoError(err)
	return score
}

func (s *ServiceSuite) TestScoreStartsAtZero() {
	s.Equal(0, s.score(1))
	s.Equal(0, s.score(2))
}

func (s *ServiceSuite) TestSingleHit() {
	s.hit(1, 2)

	s.Equal(1, s.score(1))
	s.Equal(0, s.score(2))
}

func (s *ServiceSuite) TestTripleHitBreakdown() {
	s.hit(1, 2)
	s.hit(1, 2)
	s.hit(1, 2)

	s.Equal(3, s.score(1))

	breakdown, err := s.service.HitBreakdown(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(map[model.PlayerID]int{2: 3}, breakdown)
}

func (s *ServiceSuite) TestBreakdownAcrossTargets() {
	s.hit(1, 2)
	s.hit(1, 3)
	s.hit(1, 2)
	s.hit(2, 1)

	breakdown, err := s.service.HitBreakdown(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(map[model.PlayerID]int{2: 2, 3: 1}, breakdown)

	empty, err := s.service.HitBreakdown(s.ctx, 3)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *ServiceSuite) TestUnknownPlayer() {
	_, err := s.service.ScoreOf(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.HitBreakdown(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestScoreMatchesLedgerAfterEveryWrite() {
	pairs := [][2]model.PlayerID{{1, 2}, {2, 3}, {3, 1}, {1, 3}, {1, 2}, {2, 1}}
	for _, pair := range pairs {
		s.hit(pair[0], pair[1])

		all, err := s.ledger.All(s.ctx)
		s.Require().NoError(err)
		for id := model.PlayerID(1); id <= 3; id++ {
			want := 0
			for _, h := range all {
				if h.HitterID == id {
					want++
				}
			}
			s.Equal(want, s.score(id), "player %d", id)
		}
	}
}

func (s *ServiceSuite) TestPureHelpersAgreeWithService() {
	s.hit(1, 2)
	s.hit(1, 2)
	s.hit(3, 1)

	all, err := s.ledger.All(s.ctx)
	s.Require().NoError(err)

	scores := Scores(all)
	s.Equal(map[model.PlayerID]int{1: 2, 3: 1}, scores)
	s.Equal(s.score(1), scores[1])
	s.Equal(s.score(2), scores[2])

	breakdowns := Breakdowns(all)
	s.Equal(map[model.PlayerID]int{2: 2}, breakdowns[1])
	s.Equal(map[model.PlayerID]int{1: 1}, breakdowns[3])
	s.Nil(breakdowns[2])
}
