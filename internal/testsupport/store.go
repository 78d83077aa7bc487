package testsupport

import (
	"context"
	"testing"

	"wobble/internal/config"
	"wobble/internal/scorecache"
)

// MustOpenScoreCache opens the configured score cache and closes it on
// cleanup.
func MustOpenScoreCache(t testing.TB, cfg *config.Config) *scorecache.Store {
	t.Helper()

	store, err := scorecache.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("scorecache.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedScores stores scores for source.
func SeedScores(t testing.TB, store *scorecache.Store, source string, scores ...scorecache.Score) {
	t.Helper()

	if err := store.Put(context.Background(), source, scores); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
}
