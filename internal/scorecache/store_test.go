package scorecache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/scorecache"
	"wobble/internal/services"
	"wobble/internal/testsupport"
)

func TestPutAndGet(t *testing.T) {
	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "episode.mkv", []scorecache.Score{
		{Frame: 7, Neighbor: 6, Score: 0.003},
		{Frame: 12, Neighbor: 13, Score: 0.001},
	}))

	score, ok, err := store.Get(ctx, "episode.mkv", 7, 6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.003, score)

	_, ok, err = store.Get(ctx, "episode.mkv", 7, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "other.mkv", 7, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutReplacesExistingScore(t *testing.T) {
	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedScores(t, store, "a", scorecache.Score{Frame: 1, Neighbor: 0, Score: 0.5})
	testsupport.SeedScores(t, store, "a", scorecache.Score{Frame: 1, Neighbor: 0, Score: 0.25})

	scores, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []scorecache.Score{{Frame: 1, Neighbor: 0, Score: 0.25}}, scores)
}

func TestPutValidatesBeforeWriting(t *testing.T) {
	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.Put(ctx, "a", []scorecache.Score{
		{Frame: 0, Neighbor: 1, Score: 0.1},
		{Frame: 1, Neighbor: 2, Score: 1.5},
	})
	assert.True(t, errors.Is(err, services.ErrValidation))

	scores, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, scores)

	err = store.Put(ctx, " ", []scorecache.Score{{Frame: 0, Neighbor: 1}})
	assert.True(t, errors.Is(err, services.ErrValidation))

	err = store.Put(ctx, "a", []scorecache.Score{{Frame: -1, Neighbor: 0}})
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestListSourcesAndDelete(t *testing.T) {
	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedScores(t, store, "b.mkv", scorecache.Score{Frame: 3, Neighbor: 4, Score: 0.2})
	testsupport.SeedScores(t, store, "a.mkv",
		scorecache.Score{Frame: 9, Neighbor: 8, Score: 0.1},
		scorecache.Score{Frame: 2, Neighbor: 1, Score: 0.3},
	)

	scores, err := store.List(ctx, "a.mkv")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 2, scores[0].Frame)

	sources, err := store.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.mkv", sources[0].Source)
	assert.Equal(t, 2, sources[0].Count)
	assert.False(t, sources[0].RecordedAt.IsZero())

	removed, err := store.Delete(ctx, "a.mkv")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	sources, err = store.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "b.mkv", sources[0].Source)
}

func TestReopenKeepsScores(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := scorecache.OpenFromConfig(cfg)
	require.NoError(t, err)
	testsupport.SeedScores(t, store, "a", scorecache.Score{Frame: 5, Neighbor: 4, Score: 0.75})
	require.NoError(t, store.Close())

	reopened := testsupport.MustOpenScoreCache(t, cfg)
	score, ok, err := reopened.Get(context.Background(), "a", 5, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.75, score)
}

func TestOpenDisabled(t *testing.T) {
	_, err := scorecache.OpenFromConfig(testsupport.NewConfig(t, testsupport.WithoutScoreCache()))
	assert.ErrorIs(t, err, scorecache.ErrDisabled)
}

func TestPutFailsWhileAnotherWriterHoldsTheLock(t *testing.T) {
	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))

	other := flock.New(store.Path() + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = store.Put(ctx, "a", []scorecache.Score{{Frame: 1, Neighbor: 0, Score: 0.1}})
	assert.ErrorIs(t, err, scorecache.ErrCacheLocked)
}

func TestConcurrentWritersSerialize(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenScoreCache(t, cfg)
	second := testsupport.MustOpenScoreCache(t, cfg)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		for _, store := range []*scorecache.Store{first, second} {
			wg.Add(1)
			go func(store *scorecache.Store, frame int) {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				errs <- store.Put(ctx, "a", []scorecache.Score{{Frame: frame, Neighbor: frame + 1, Score: 0.5}})
			}(store, i)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	scores, err := first.List(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, scores, 10)
}
