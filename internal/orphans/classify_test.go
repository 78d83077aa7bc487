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

func mustMatches(t *testing.T, hint string) *annotations.FieldMatches {
	t.Helper()
	fm, err := annotations.ParseFieldMatches(hint)
	require.NoError(t, err)
	return fm
}

func TestRecordsExcludeLeadingNextAndTrailingPrevious(t *testing.T) {
	records := orphans.DefaultClassifier().Records(mustMatches(t, "ncbcn"))
	assert.Equal(t, []orphans.Record{
		{Frame: 2, Match: annotations.MatchPreviousOpposite},
		{Frame: 4, Match: annotations.MatchNext},
	}, records)
}

func TestRecordsExcludeTrailingB(t *testing.T) {
	records := orphans.DefaultClassifier().Records(mustMatches(t, "cbccb"))
	assert.Equal(t, []orphans.Record{{Frame: 1, Match: annotations.MatchPreviousOpposite}}, records)
}

func TestClassifyGroupsBySymbol(t *testing.T) {
	classifier, err := orphans.NewClassifier(annotations.MatchNext, annotations.MatchPreviousOpposite, annotations.MatchNextOpposite, annotations.MatchPrevious)
	require.NoError(t, err)

	groups, err := classifier.Classify(mustMatches(t, "pcnbucnbpu"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, groups.N)
	assert.Equal(t, []int{3, 7}, groups.B)
	assert.Equal(t, []int{4, 9}, groups.U)
	assert.Equal(t, []int{0, 8}, groups.P)
	assert.Equal(t, 8, groups.Len())
	assert.Equal(t, []int{4, 9}, groups.For(annotations.MatchNextOpposite))
	assert.Nil(t, groups.For(annotations.MatchCurrent))

	records := groups.Records()
	require.Len(t, records, 8)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].Frame, records[i].Frame)
	}
}

func TestDefaultClassifierIgnoresUAndP(t *testing.T) {
	groups, err := orphans.DefaultClassifier().Classify(mustMatches(t, "cupcc"))
	require.NoError(t, err)
	assert.True(t, groups.Empty())
}

func TestNewClassifierRejectsCurrent(t *testing.T) {
	_, err := orphans.NewClassifier(annotations.MatchNext, annotations.MatchCurrent)
	assert.True(t, errors.Is(err, services.ErrUnknownMatchSymbol))
}

func TestNewClassifierDefaultsAndDeduplicates(t *testing.T) {
	classifier, err := orphans.NewClassifier()
	require.NoError(t, err)
	assert.Equal(t, orphans.DefaultSymbols, classifier.Symbols())

	classifier, err = orphans.NewClassifier(annotations.MatchNext, annotations.MatchNext)
	require.NoError(t, err)
	assert.Equal(t, []annotations.Match{annotations.MatchNext}, classifier.Symbols())
}

func TestGroupRejectsUnknownSymbol(t *testing.T) {
	_, err := orphans.Group([]orphans.Record{{Frame: 3, Match: annotations.Match('x')}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrUnknownMatchSymbol))

	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindUnknownMatchSymbol, verr.Kind)
	assert.Equal(t, 3, verr.Index)
}

func TestNewThresholdBounds(t *testing.T) {
	for _, value := range []float64{0, 1, 0.0025} {
		th, err := orphans.NewThreshold(value)
		require.NoError(t, err, value)
		assert.Equal(t, orphans.Threshold(value), th)
	}

	_, err := orphans.NewThreshold(1.5)
	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindInvalidThreshold, verr.Kind)
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = orphans.NewThreshold(-0.1)
	assert.Error(t, err)
}
