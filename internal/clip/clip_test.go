package clip_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/clip"
	"wobble/internal/clipgraph"
	"wobble/internal/services"
)

func TestToolkitRequireReportsMissing(t *testing.T) {
	tk := clipgraph.Toolkit(nil)
	tk.Deinterlacer = nil

	err := tk.Require(clip.CapFieldSeparator, clip.CapSimilarityOracle, clip.CapDeinterlacer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrDependencyUnavailable))

	var depErr *clip.DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, []clip.Capability{clip.CapSimilarityOracle, clip.CapDeinterlacer}, depErr.Missing)
	assert.Contains(t, err.Error(), "similarity oracle")

	assert.NoError(t, tk.Require(clip.CapFieldMatcher, clip.CapDecimator))
}

func TestFieldSimilarityUsesSameParityFields(t *testing.T) {
	var seenLen int
	oracle := clip.OracleFunc(func(fields clip.Sequence, a, b int) (float64, error) {
		seenLen = fields.Len()
		return float64(a+b) / 100, nil
	})
	src := clipgraph.Source("ep01.mkv", 8)

	score, err := clip.FieldSimilarity(clipgraph.Toolkit(oracle), src, clip.TopFieldFirst)
	require.NoError(t, err)

	got, err := score(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.07, got, 1e-9)
	assert.Equal(t, 8, seenLen)
}

func TestFieldSimilarityRejectsOutOfRangeScores(t *testing.T) {
	oracle := clip.OracleFunc(func(clip.Sequence, int, int) (float64, error) { return 1.5, nil })
	score, err := clip.FieldSimilarity(clipgraph.Toolkit(oracle), clipgraph.Source("x", 3), clip.TopFieldFirst)
	require.NoError(t, err)

	_, err = score(0, 1)
	assert.True(t, errors.Is(err, services.ErrExternalTool))
}

func TestFieldSimilarityFailsFastWithoutOracle(t *testing.T) {
	_, err := clip.FieldSimilarity(clipgraph.Toolkit(nil), clipgraph.Source("x", 3), clip.TopFieldFirst)
	assert.True(t, errors.Is(err, services.ErrDependencyUnavailable))
}

func TestParseFieldOrder(t *testing.T) {
	for _, value := range []string{"tff", "TT", "bt"} {
		order, err := clip.ParseFieldOrder(value)
		require.NoError(t, err)
		assert.True(t, order.IsTFF(), value)
	}
	for _, value := range []string{"bff", "bb", "tb"} {
		order, err := clip.ParseFieldOrder(value)
		require.NoError(t, err)
		assert.Equal(t, clip.BottomFieldFirst, order, value)
	}

	_, err := clip.ParseFieldOrder("progressive")
	assert.Error(t, err)

	assert.Equal(t, clip.TopFieldFirst, clip.FieldOrderFromParam(1))
	assert.Equal(t, clip.BottomFieldFirst, clip.FieldOrderFromParam(0))
}
