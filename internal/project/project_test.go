package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/project"
	"wobble/internal/services"
)

func TestLoadEpisode(t *testing.T) {
	proj, err := project.Load(filepath.Join("testdata", "episode.wob"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(proj.Path))
	assert.Equal(t, "episode01.m2ts", proj.InputFile)
	assert.Equal(t, "lsmas.LWLibavSource", proj.SourceFilter)
	assert.Equal(t, []annotations.FrameRange{{First: 0, Last: 11}}, proj.Trim)
	assert.Equal(t, clip.TopFieldFirst, proj.FieldOrder)

	require.NotNil(t, proj.Matches)
	assert.Equal(t, "ccnccbcccncc", proj.Matches.String())
	assert.Equal(t, 12, proj.FrameCount())

	assert.Equal(t, []int{4, 9}, proj.Decimations.Frames())
	assert.Equal(t, 10, proj.OutputFrameCount())

	require.Len(t, proj.Sections, 2)
	assert.Equal(t, []int{0, 6}, proj.Sections.Starts())
	assert.Equal(t, []int{0, 5}, proj.Keyframes())

	assert.Equal(t, annotations.FreezeFrames{{First: 7, Last: 8, Replacement: 6}}, proj.FreezeFrames)

	preset, ok := proj.Presets.Lookup("dering")
	require.True(t, ok)
	assert.Contains(t, preset.Contents, "EdgeCleaner")

	require.Len(t, proj.CustomLists, 2)
	assert.Equal(t, annotations.PostFieldMatch, proj.CustomLists[0].Position)
	assert.Equal(t, []int{1, 2, 3, 10}, proj.CustomLists[0].Frames())
	assert.Equal(t, annotations.PostDecimate, proj.CustomLists[1].Position)
	assert.Equal(t, []int{0}, proj.CustomLists[1].Frames())

	assert.Equal(t, []int{2, 5}, proj.CombedFrames)
	assert.Equal(t, []project.InterlacedFade{{Frame: 3, FieldDifference: 0.0041}}, proj.InterlacedFades)
}

func TestSectionLists(t *testing.T) {
	proj, err := project.Load(filepath.Join("testdata", "episode.wob"))
	require.NoError(t, err)

	lists, err := proj.SectionLists()
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "deblock", lists[0].Preset)
	assert.Equal(t, annotations.PreDecimate, lists[0].Position)
	assert.Equal(t, []annotations.FrameRange{{First: 6, Last: 11}}, lists[0].Ranges)
}

func TestParseMissingRequiredFields(t *testing.T) {
	_, err := project.Parse(strings.NewReader(`{"matches": "ccc"}`))
	require.Error(t, err)

	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindMissingField, verr.Kind)
	assert.Contains(t, verr.Field, "input file")
	assert.Contains(t, verr.Field, "source filter")
}

func TestParseMatchesAsHintString(t *testing.T) {
	proj, err := project.Parse(strings.NewReader(`{"input file": "a.mkv", "source filter": "bs.VideoSource", "matches": "cnb", "vfm parameters": {"order": 0}}`))
	require.NoError(t, err)
	assert.Equal(t, "cnb", proj.Matches.String())
	assert.Equal(t, clip.BottomFieldFirst, proj.FieldOrder)
}

func TestParseWithoutMatches(t *testing.T) {
	proj, err := project.Parse(strings.NewReader(`{"input file": "a.mkv", "source filter": "bs.VideoSource", "trim": [[0, 99], [200, 249]]}`))
	require.NoError(t, err)
	assert.Nil(t, proj.Matches)
	assert.Equal(t, 150, proj.FrameCount())

	_, err = proj.RequireMatches()
	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindMissingField, verr.Kind)
}

func TestParseRejectsBadAnnotations(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind annotations.ErrorKind
	}{
		{"unknown match", `"matches": ["c", "x"]`, annotations.KindUnknownMatchSymbol},
		{"multi-char match", `"matches": ["c", "cc"]`, annotations.KindUnknownMatchSymbol},
		{"negative decimation", `"matches": "ccc", "decimated frames": [-1]`, annotations.KindNegativeFrameIndex},
		{"negative section", `"sections": [{"start": -3, "presets": []}]`, annotations.KindNegativeFrameIndex},
		{"inverted freeze", `"frozen frames": [[5, 2, 1]]`, annotations.KindInvalidRange},
		{"short freeze", `"frozen frames": [[5, 2]]`, annotations.KindInvalidRange},
		{"bad position", `"custom lists": [{"name": "a", "preset": "p", "position": "sideways", "frames": [[0, 1]]}]`, annotations.KindInvalidPosition},
		{"empty list", `"custom lists": [{"name": "a", "preset": "p", "position": "post source", "frames": []}]`, annotations.KindInvalidRange},
		{"decimation past end", `"matches": "ccc", "decimated frames": [3]`, annotations.KindOutOfBounds},
		{"list past end", `"matches": "ccc", "custom lists": [{"name": "a", "preset": "p", "position": "post source", "frames": [[1, 5]]}]`, annotations.KindOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"input file": "a.mkv", "source filter": "bs.VideoSource", ` + tc.body + `}`
			_, err := project.Parse(strings.NewReader(body))
			require.Error(t, err)
			var verr *annotations.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.kind, verr.Kind)
		})
	}
}

func TestParseUnknownMatchIsCorruption(t *testing.T) {
	_, err := project.Parse(strings.NewReader(`{"input file": "a.mkv", "source filter": "s", "matches": "ccz"}`))
	assert.True(t, errors.Is(err, services.ErrUnknownMatchSymbol))
	assert.Equal(t, 2, services.ExitCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := project.Load(filepath.Join(t.TempDir(), "missing.wob"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
