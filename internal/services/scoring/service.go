package scoring

import (
	"context"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/ledger"
)

// Service derives scores from the hit ledger. Nothing is cached, so a read
// always reflects every hit recorded before it.
type Service struct {
	ledger *ledger.Service
}

// New creates a new ScoringService
func New(ledger *ledger.Service) *Service {
	return &Service{
		ledger: ledger,
	}
}

// ScoreOf returns the number of hits the player has made
func (s *Service) ScoreOf(ctx context.Context, playerID model.PlayerID) (int, error) {
	hits, err := s.ledger.HitsBy(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return len(hits), nil
}

// HitBreakdown returns how many times the player hit each target
func (s *Service) HitBreakdown(ctx context.Context, playerID model.PlayerID) (map[model.PlayerID]int, error) {
	hits, err := s.ledger.HitsBy(ctx, playerID)
	if err != nil {
		return nil, err
	}
	breakdown := Breakdowns(hits)[playerID]
	if breakdown == nil {
		breakdown = make(map[model.PlayerID]int)
	}
	return breakdown, nil
}

// Scores counts hits per hitter. Players with no hits are absent from the map.
func Scores(hits []*model.Hit) map[model.PlayerID]int {
	scores := make(map[model.PlayerID]int)
	for _, hit := range hits {
		scores[hit.HitterID]++
	}
	return scores
}

// Breakdowns counts hits per hitter and target
func Breakdowns(hits []*model.Hit) map[model.PlayerID]map[model.PlayerID]int {
	out := make(map[model.PlayerID]map[model.PlayerID]int)
	for _, hit := range hits {
		byTarget, ok := out[hit.HitterID]
		if !ok {
			byTarget = make(map[model.PlayerID]int)
			out[hit.HitterID] = byTarget
		}
		byTarget[hit.TargetID]++
	}
	return out
}

// Interface for dependency injection
type ServiceInterface interface {
	ScoreOf(ctx context.Context, playerID model.PlayerID) (int, error)
	HitBreakdown(ctx context.Context, playerID model.PlayerID) (map[model.PlayerID]int, error)
}

var _ ServiceInterface = (*Service)(nil)
