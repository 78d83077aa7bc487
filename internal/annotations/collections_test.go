package annotations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/annotations"
)

func TestSectionsSortAndKeyframes(t *testing.T) {
	sections, err := annotations.NewSections([]annotations.Section{
		{Start: 120, Presets: []string{"dehalo"}},
		{Start: 0},
		{Start: 48, Presets: []string{"deband", "grain"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 48, 120}, sections.Starts())

	d, err := annotations.NewDecimations([]int{4, 9, 14, 48, 100})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 45, 115}, sections.Keyframes(d))
}

func TestSectionsRejectNegativeStart(t *testing.T) {
	_, err := annotations.NewSections([]annotations.Section{{Start: 0}, {Start: -5}})
	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindNegativeFrameIndex, verr.Kind)
	assert.Equal(t, 1, verr.Index)

	_, err = annotations.NewSection(-1)
	assert.Error(t, err)
}

func TestSectionsRange(t *testing.T) {
	sections, err := annotations.NewSections([]annotations.Section{{Start: 0}, {Start: 10}})
	require.NoError(t, err)

	r, err := sections.Range(0, 30)
	require.NoError(t, err)
	assert.Equal(t, annotations.FrameRange{First: 0, Last: 9}, r)

	r, err = sections.Range(1, 30)
	require.NoError(t, err)
	assert.Equal(t, annotations.FrameRange{First: 10, Last: 29}, r)

	_, err = sections.Range(2, 30)
	assert.Error(t, err)
}

func TestCustomListsFromSections(t *testing.T) {
	sections, err := annotations.NewSections([]annotations.Section{
		{Start: 0, Presets: []string{"base"}},
		{Start: 10},
		{Start: 20, Presets: []string{"dehalo", "grain"}},
		{Start: 20, Presets: []string{"override"}},
	})
	require.NoError(t, err)

	lists, err := annotations.CustomListsFromSections(sections, 30)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, "section_0", lists[0].Name)
	assert.Equal(t, "base", lists[0].Preset)
	assert.Equal(t, annotations.PreDecimate, lists[0].Position)
	assert.Equal(t, []annotations.FrameRange{{First: 0, Last: 9}}, lists[0].Ranges)

	assert.Equal(t, "override", lists[1].Preset)
	assert.Equal(t, []annotations.FrameRange{{First: 20, Last: 29}}, lists[1].Ranges)
}

func TestNewCustomListValidation(t *testing.T) {
	_, err := annotations.NewCustomList("empty", "p", annotations.PostSource, nil)
	assert.Error(t, err)

	_, err = annotations.NewCustomList("backwards", "p", annotations.PostSource, []annotations.FrameRange{{First: 5, Last: 2}})
	var verr *annotations.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, annotations.KindInvalidRange, verr.Kind)
	assert.Equal(t, "custom list backwards", verr.Field)

	list, err := annotations.NewCustomList("ok", "p", annotations.PostDecimate, []annotations.FrameRange{{First: 3, Last: 4}, {First: 1, Last: 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, list.Frames())

	lists := annotations.CustomLists{list}
	assert.Len(t, lists.AtPosition(annotations.PostDecimate), 1)
	assert.Empty(t, lists.AtPosition(annotations.PreDecimate))
	assert.Equal(t, "ok: preset=p, position=post-decimate, frames=3-4, 1", lists.String())
}

func TestFreezeFrames(t *testing.T) {
	_, err := annotations.NewFreezeFrame(10, 5, 0)
	assert.Error(t, err)
	_, err = annotations.NewFreezeFrame(-1, 5, 0)
	assert.Error(t, err)

	frames, err := annotations.NewFreezeFrames([]annotations.FreezeFrame{{First: 1, Last: 3, Replacement: 0}, {First: 8, Last: 8, Replacement: 9}})
	require.NoError(t, err)
	firsts, lasts, repl := frames.Columns()
	assert.Equal(t, []int{1, 8}, firsts)
	assert.Equal(t, []int{3, 8}, lasts)
	assert.Equal(t, []int{0, 9}, repl)
}

func TestRangesFromFrames(t *testing.T) {
	ranges := annotations.RangesFromFrames([]int{7, 1, 2, 3, 3, 9, 8, 12})
	assert.Equal(t, []annotations.FrameRange{{First: 1, Last: 3}, {First: 7, Last: 9}, {First: 12, Last: 12}}, ranges)
	assert.Equal(t, "1-3, 7-9, 12", annotations.FormatRanges(ranges))
	assert.Equal(t, []int{1, 2, 3, 7, 8, 9, 12}, annotations.FramesFromRanges(ranges))
	assert.Nil(t, annotations.RangesFromFrames(nil))
}

func TestParsePosition(t *testing.T) {
	cases := map[string]annotations.Position{
		"post source":      annotations.PostSource,
		"post-field-match": annotations.PostFieldMatch,
		"pre decimation":   annotations.PreDecimate,
		"Pre-Decimate":     annotations.PreDecimate,
		"post decimation":  annotations.PostDecimate,
	}
	for input, want := range cases {
		got, err := annotations.ParsePosition(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := annotations.ParsePosition("mid decimation")
	assert.Error(t, err)
}
