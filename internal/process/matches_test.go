package process_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/clipgraph"
	"wobble/internal/process"
	"wobble/internal/project"
	"wobble/internal/strategy"
)

func TestMatchFieldsTagsWorkingAndOriginalMatch(t *testing.T) {
	fm, err := annotations.ParseFieldMatches("ccbcc")
	require.NoError(t, err)
	require.NoError(t, fm.Set(2, annotations.MatchCurrent))
	proj := &project.Project{FieldOrder: clip.TopFieldFirst, Matches: fm}

	out, err := process.MatchFields(clipgraph.Toolkit(nil), clipgraph.Source("src", 5), proj)
	require.NoError(t, err)

	last := out.(*clipgraph.Node)
	assert.Equal(t, []int{0, 1, 3, 4}, last.Frames())
	assert.Equal(t, clip.Props{strategy.PropMatch: "c", strategy.PropOriginalMatch: "c"}, last.Inputs()[1].Props())

	first := last.Inputs()[0]
	assert.Equal(t, []int{2}, first.Frames())
	assert.Equal(t, clip.Props{strategy.PropMatch: "c", strategy.PropOriginalMatch: "b"}, first.Inputs()[1].Props())
	assert.Equal(t, "field_match", first.Inputs()[0].Op())
}

func TestMatchFieldsUniformMatchesTagOnce(t *testing.T) {
	fm, err := annotations.ParseFieldMatches("ccccc")
	require.NoError(t, err)

	out, err := process.MatchFields(clipgraph.Toolkit(nil), clipgraph.Source("src", 5), &project.Project{Matches: fm})
	require.NoError(t, err)
	node := out.(*clipgraph.Node)
	assert.Equal(t, "set_frame_props", node.Op())
	assert.Empty(t, clipgraph.Find(node, "replace_frames"))
}

func TestMatchFieldsRequiresMatches(t *testing.T) {
	_, err := process.MatchFields(clipgraph.Toolkit(nil), clipgraph.Source("src", 5), &project.Project{})
	var verr *annotations.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, annotations.KindMissingField, verr.Kind)
}

func TestWriteKeyframes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, process.WriteKeyframes(&buf, []int{0, 4, 120}))
	assert.Equal(t, "# keyframe format v1\nfps 0\n0\n4\n120\n", buf.String())

	path := filepath.Join(t.TempDir(), "out", "keyframes.txt")
	require.NoError(t, process.WriteKeyframesFile(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# keyframe format v1\nfps 0\n", string(data))
}
