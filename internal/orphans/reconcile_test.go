package orphans_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/annotations"
	"wobble/internal/orphans"
	"wobble/internal/services"
)

// frameSevenB is ten frames with a single 'b' orphan at frame 7.
const frameSevenB = "ccccccbbcc"

func scoreTable(scores map[int]float64) orphans.SimilarityFunc {
	return func(frame, neighbor int) (float64, error) {
		return scores[frame], nil
	}
}

func classify(t *testing.T, fm *annotations.FieldMatches) orphans.Groups {
	t.Helper()
	groups, err := orphans.DefaultClassifier().Classify(fm)
	require.NoError(t, err)
	return groups
}

func TestReconcileDeinterlacesAboveThreshold(t *testing.T) {
	fm := mustMatches(t, "cccccccbcc")
	groups := classify(t, fm)
	require.Equal(t, []int{7}, groups.B)

	var compared [2]int
	similarity := func(frame, neighbor int) (float64, error) {
		compared = [2]int{frame, neighbor}
		return 0.003, nil
	}

	result, err := orphans.Reconcile(fm, groups, similarity, orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, result.Deinterlace)
	assert.Equal(t, [2]int{7, 6}, compared)
	assert.Equal(t, annotations.MatchCurrent, result.Revised[7])

	got, err := fm.At(7)
	require.NoError(t, err)
	assert.Equal(t, annotations.MatchCurrent, got)
	assert.Equal(t, []int{7}, result.DeinterlaceFor(annotations.MatchPreviousOpposite))
}

func TestReconcileKeepsBelowThreshold(t *testing.T) {
	fm := mustMatches(t, "cccccccbcc")
	groups := classify(t, fm)

	result, err := orphans.Reconcile(fm, groups, scoreTable(map[int]float64{7: 0.001}), orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, result.Deinterlace)
	assert.Equal(t, []int{7}, result.Kept())

	original, err := fm.OriginalAt(7)
	require.NoError(t, err)
	assert.Equal(t, original, result.Revised[7])
	assert.Equal(t, "cccccccbcc", fm.String())
}

func TestReconcileComparesNextFrameForN(t *testing.T) {
	fm := mustMatches(t, "ccnccc")
	var neighbors []int
	similarity := func(frame, neighbor int) (float64, error) {
		neighbors = append(neighbors, neighbor)
		return 0.5, nil
	}
	_, err := orphans.Reconcile(fm, classify(t, fm), similarity, orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, neighbors)
}

func TestReconcileThresholdIsInclusive(t *testing.T) {
	fm := mustMatches(t, frameSevenB)
	result, err := orphans.Reconcile(fm, classify(t, fm), scoreTable(map[int]float64{6: 0.0025, 7: 0.0024}), orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, result.Deinterlace)
	assert.Equal(t, []int{7}, result.Kept())
	assert.Equal(t, "cccccccbcc", fm.String())
}

func TestReconcileRevertsStaleWorkingValues(t *testing.T) {
	fm := mustMatches(t, "ccbcc")
	groups := classify(t, fm)

	_, err := orphans.Reconcile(fm, groups, scoreTable(map[int]float64{2: 0.9}), orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, "ccccc", fm.String())

	require.NoError(t, fm.Set(2, annotations.MatchPreviousOpposite))
	result, err := orphans.Reconcile(fm, groups, scoreTable(map[int]float64{2: 0.0}), orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.Kept())
	assert.Equal(t, fm.OriginalString(), fm.String())
}

func TestReconcileWithoutOrphansIsNoop(t *testing.T) {
	fm := mustMatches(t, "ncccc")
	groups := classify(t, fm)
	require.True(t, groups.Empty())

	called := false
	result, err := orphans.Reconcile(fm, groups, func(int, int) (float64, error) {
		called = true
		return 1, nil
	}, orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, result.Decisions)
	assert.Equal(t, fm.Working(), result.Revised)
}

func TestReconcileMissingOracleLeavesMatchesUnchanged(t *testing.T) {
	fm := mustMatches(t, "cncbc")
	before := fm.String()

	_, err := orphans.Reconcile(fm, classify(t, fm), nil, orphans.DefaultThreshold)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrDependencyUnavailable))
	assert.Equal(t, before, fm.String())
}

func TestReconcileSimilarityFailureLeavesMatchesUnchanged(t *testing.T) {
	fm := mustMatches(t, "cnccbccnc")
	boom := errors.New("oracle crashed")
	calls := 0
	similarity := func(frame, neighbor int) (float64, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return 0.9, nil
	}

	_, err := orphans.Reconcile(fm, classify(t, fm), similarity, orphans.DefaultThreshold)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, "cnccbccnc", fm.String())
	assert.Empty(t, fm.Modified())
}

func TestReconcileUnscoredPolicy(t *testing.T) {
	fm := mustMatches(t, "ccccn")
	groups := classify(t, fm)
	require.Equal(t, []int{4}, groups.N)

	result, err := orphans.Reconcile(fm, groups, scoreTable(nil), orphans.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, result.Deinterlace)
	assert.False(t, result.Decisions[0].Scored)

	fm = mustMatches(t, "ccccn")
	result, err = orphans.Reconcile(fm, groups, scoreTable(nil), orphans.DefaultThreshold, orphans.WithUnscoredPolicy(false))
	require.NoError(t, err)
	assert.Empty(t, result.Deinterlace)
	assert.Equal(t, "ccccn", fm.String())
}

func TestReconcileRejectsStaleGroups(t *testing.T) {
	fm := mustMatches(t, "ccbcc")
	groups := classify(t, fm)
	require.NoError(t, fm.Set(2, annotations.MatchCurrent))

	_, err := orphans.Reconcile(fm, groups, scoreTable(nil), orphans.DefaultThreshold)
	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindStaleOrphan, verr.Kind)
}

func TestReconcileRejectsInvalidThreshold(t *testing.T) {
	fm := mustMatches(t, "ccbcc")
	_, err := orphans.Reconcile(fm, classify(t, fm), scoreTable(nil), orphans.Threshold(2))
	assert.True(t, errors.Is(err, services.ErrValidation))
	assert.Equal(t, "ccbcc", fm.String())
}
