package scorecache_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/scorecache"
	"wobble/internal/services"
	"wobble/internal/testsupport"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []scorecache.Score
	}{
		{
			name:  "header",
			input: "frame,neighbor,score\n7,6,0.003\n12,13,0.001\n",
			want:  []scorecache.Score{{Frame: 7, Neighbor: 6, Score: 0.003}, {Frame: 12, Neighbor: 13, Score: 0.001}},
		},
		{
			name:  "no header with comments and spaces",
			input: "# exported scores\n7, 6, 0.003\n\n",
			want:  []scorecache.Score{{Frame: 7, Neighbor: 6, Score: 0.003}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorecache.ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSVReportsLine(t *testing.T) {
	_, err := scorecache.ReadCSV(strings.NewReader("frame,neighbor,score\n1,0,0.1\n2,1,abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = scorecache.ReadCSV(strings.NewReader("1,0,2\n"))
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = scorecache.ReadCSV(strings.NewReader("1,0\n"))
	assert.Error(t, err)
}

func TestWriteCSVRoundTripsThroughImport(t *testing.T) {
	var buf bytes.Buffer
	scores := []scorecache.Score{{Frame: 0, Neighbor: 1, Score: 0.0025}, {Frame: 9, Neighbor: 8, Score: 1}}
	require.NoError(t, scorecache.WriteCSV(&buf, scores))
	assert.True(t, strings.HasPrefix(buf.String(), "frame,neighbor,score\n"))

	store := testsupport.MustOpenScoreCache(t, testsupport.NewConfig(t))
	n, err := store.Import(context.Background(), "episode.mkv", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.List(context.Background(), "episode.mkv")
	require.NoError(t, err)
	assert.Equal(t, scores, got)
}
