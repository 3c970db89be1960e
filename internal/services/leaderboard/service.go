package leaderboard

import (
	"context"
	"sort"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/services/scoring"
	"github.com/mcoot/lasertag/internal/services/streams"
	"github.com/mcoot/lasertag/internal/storage"
)

// Service renders the team-grouped ranking served to the dashboard. It holds
// no state of its own.
type Service struct {
	storage  storage.Storage
	maxSlots int
}

// New creates a new leaderboard Service featuring at most maxSlots streams
func New(storage storage.Storage, maxSlots int) *Service {
	return &Service{
		storage:  storage,
		maxSlots: maxSlots,
	}
}

// Render builds the leaderboard from one consistent snapshot of the ledger
func (s *Service) Render(ctx context.Context) (*model.Leaderboard, error) {
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Project(snap, s.maxSlots), nil
}

// Project is the pure projection behind Render. Every recognized team is
// listed, even without players. Teams rank by total score, then by their
// position in model.Teams; players rank by score, then by id.
func Project(snap *model.Snapshot, maxSlots int) *model.Leaderboard {
	scores := scoring.Scores(snap.Hits)
	breakdowns := scoring.Breakdowns(snap.Hits)

	usernames := make(map[model.PlayerID]string, len(snap.Players))
	for _, p := range snap.Players {
		usernames[p.ID] = p.Username
	}

	slots := make(map[model.PlayerID]*model.StreamSlot, len(snap.Streams))
	for _, slot := range snap.Streams {
		slots[slot.PlayerID] = slot
	}

	teams := make([]model.TeamStanding, len(model.Teams))
	for i, team := range model.Teams {
		teams[i] = model.TeamStanding{Team: team, Players: []model.PlayerStanding{}}
	}

	for _, p := range snap.Players {
		rank := p.Team.Rank()
		if rank < 0 {
			continue
		}

		standing := model.PlayerStanding{
			PlayerID:    p.ID,
			Username:    p.Username,
			Team:        p.Team,
			Score:       scores[p.ID],
			StreamState: model.StreamStateAbsent,
			HitsGiven:   hitsGiven(breakdowns[p.ID], usernames),
		}
		if slot, ok := slots[p.ID]; ok {
			standing.StreamState = slot.State
			standing.StreamEndpoint = slot.ExposedEndpoint()
		}

		teams[rank].Players = append(teams[rank].Players, standing)
		teams[rank].TotalScore += standing.Score
	}

	for i := range teams {
		players := teams[i].Players
		sort.Slice(players, func(a, b int) bool {
			if players[a].Score != players[b].Score {
				return players[a].Score > players[b].Score
			}
			return players[a].PlayerID < players[b].PlayerID
		})
	}

	sort.SliceStable(teams, func(a, b int) bool {
		if teams[a].TotalScore != teams[b].TotalScore {
			return teams[a].TotalScore > teams[b].TotalScore
		}
		return teams[a].Team.Rank() < teams[b].Team.Rank()
	})

	return &model.Leaderboard{
		Teams:   teams,
		Streams: streams.DisplaySlots(snap.Streams, maxSlots),
	}
}

func hitsGiven(byTarget map[model.PlayerID]int, usernames map[model.PlayerID]string) []model.HitCount {
	counts := make([]model.HitCount, 0, len(byTarget))
	for target, count := range byTarget {
		counts = append(counts, model.HitCount{
			TargetID:       target,
			TargetUsername: usernames[target],
			Count:          count,
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].TargetID < counts[j].TargetID
	})
	return counts
}
