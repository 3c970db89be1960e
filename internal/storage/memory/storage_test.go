package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lasertag/internal/model"
	"github.com/mcoot/lasertag/internal/storage"
	"github.com/mcoot/lasertag/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestConcurrentAppendHitKeepsEveryHit(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreatePlayer(ctx, &model.Player{Username: "alice", Team: model.TeamYellow}))
	require.NoError(t, s.CreatePlayer(ctx, &model.Player{Username: "bob", Team: model.TeamGreen}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AppendHit(ctx, &model.Hit{HitterID: 1, TargetID: 2})
		}()
	}
	wg.Wait()

	hits, err := s.ListHits(ctx)
	require.NoError(t, err)
	assert.Len(t, hits, 50)

	seen := make(map[model.HitID]bool)
	for _, h := range hits {
		seen[h.ID] = true
	}
	assert.Len(t, seen, 50, "hit ids must be unique")
}
