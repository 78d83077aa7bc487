package scorecache

import (
	"context"
	"errors"
	"fmt"

	"wobble/internal/clip"
)

// ErrScoreMissing is returned by the cache oracle for pairs never stored.
var ErrScoreMissing = errors.New("score not cached")

// Oracle answers similarity queries from the cache alone.
type Oracle struct {
	ctx    context.Context
	store  *Store
	source string
}

var _ clip.SimilarityOracle = (*Oracle)(nil)

// NewOracle reads scores recorded for source. ctx bounds every lookup.
func NewOracle(ctx context.Context, store *Store, source string) *Oracle {
	return &Oracle{ctx: ensureContext(ctx), store: store, source: source}
}

// Difference ignores fields; the cache is keyed by frame indices.
func (o *Oracle) Difference(_ clip.Sequence, a, b int) (float64, error) {
	score, ok, err := o.store.Get(o.ctx, o.source, a, b)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s frames %d/%d", ErrScoreMissing, o.source, a, b)
	}
	return score, nil
}

// CachingOracle consults the cache before a live oracle and records every
// live answer.
type CachingOracle struct {
	ctx    context.Context
	store  *Store
	source string
	live   clip.SimilarityOracle
}

var _ clip.SimilarityOracle = (*CachingOracle)(nil)

// NewCachingOracle wraps live.
func NewCachingOracle(ctx context.Context, store *Store, source string, live clip.SimilarityOracle) *CachingOracle {
	return &CachingOracle{ctx: ensureContext(ctx), store: store, source: source, live: live}
}

func (o *CachingOracle) Difference(fields clip.Sequence, a, b int) (float64, error) {
	score, ok, err := o.store.Get(o.ctx, o.source, a, b)
	if err != nil {
		return 0, err
	}
	if ok {
		return score, nil
	}
	if o.live == nil {
		return 0, fmt.Errorf("%w: %s frames %d/%d", ErrScoreMissing, o.source, a, b)
	}
	score, err = o.live.Difference(fields, a, b)
	if err != nil {
		return 0, err
	}
	if err := o.store.Put(o.ctx, o.source, []Score{{Frame: a, Neighbor: b, Score: score}}); err != nil {
		return 0, fmt.Errorf("cache score: %w", err)
	}
	return score, nil
}
