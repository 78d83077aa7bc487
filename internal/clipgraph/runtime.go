package clipgraph

import (
	"fmt"
	"slices"
	"strings"

	"wobble/internal/annotations"
	"wobble/internal/clip"
)

// Runtime implements every clip capability symbolically.
type Runtime struct{}

var (
	_ clip.Sequence       = (*Node)(nil)
	_ clip.FieldSeparator = Runtime{}
	_ clip.Deinterlacer   = Runtime{}
	_ clip.FieldMatcher   = Runtime{}
	_ clip.Decimator      = Runtime{}
	_ clip.FrameFreezer   = Runtime{}
	_ clip.PresetRunner   = Runtime{}
)

// Toolkit returns a toolkit backed by the symbolic runtime. The similarity
// oracle is supplied by the caller because scores cannot be derived from
// the graph; a nil oracle leaves the capability unavailable.
func Toolkit(oracle clip.SimilarityOracle) clip.Toolkit {
	rt := Runtime{}
	return clip.Toolkit{
		Separator:    rt,
		Oracle:       oracle,
		Deinterlacer: rt,
		Matcher:      rt,
		Decimator:    rt,
		Freezer:      rt,
		Presets:      rt,
	}
}

// SeparateFields doubles the frame count.
func (Runtime) SeparateFields(seq clip.Sequence, order clip.FieldOrder) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	return derive(node, "separate_fields", node.length*2, order.String()), nil
}

// Deinterlace produces one frame per field.
func (Runtime) Deinterlace(seq clip.Sequence, order clip.FieldOrder) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	return derive(node, "deinterlace", node.length*2, order.String()), nil
}

// MatchFields requires one match symbol per frame.
func (Runtime) MatchFields(seq clip.Sequence, order clip.FieldOrder, matches string) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	if len(matches) != node.length {
		return nil, fmt.Errorf("match fields: %d matches for %d frames", len(matches), node.length)
	}
	return derive(node, "field_match", node.length, order.String(), summarizeMatches(matches)), nil
}

// DeleteFrames drops the listed frames; indices outside the sequence are ignored.
func (Runtime) DeleteFrames(seq clip.Sequence, frames []int) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	var kept []int
	for _, frame := range frames {
		if frame >= 0 && frame < node.length {
			kept = append(kept, frame)
		}
	}
	slices.Sort(kept)
	kept = slices.Compact(kept)
	out := derive(node, "delete_frames", node.length-len(kept), annotations.FormatRanges(annotations.RangesFromFrames(kept)))
	out.frames = kept
	return out, nil
}

// FreezeFrames keeps the frame count.
func (Runtime) FreezeFrames(seq clip.Sequence, firsts, lasts, replacements []int) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	if len(firsts) != len(lasts) || len(lasts) != len(replacements) {
		return nil, fmt.Errorf("freeze frames: mismatched column lengths")
	}
	args := make([]string, 0, len(firsts))
	for i := range firsts {
		if err := clip.CheckFrames(node, []int{firsts[i], lasts[i], replacements[i]}); err != nil {
			return nil, fmt.Errorf("freeze frames: %w", err)
		}
		args = append(args, fmt.Sprintf("%d-%d<-%d", firsts[i], lasts[i], replacements[i]))
	}
	return derive(node, "freeze_frames", node.length, args...), nil
}

// RunPreset records the preset by name.
func (Runtime) RunPreset(seq clip.Sequence, name, contents string) (clip.Sequence, error) {
	node, err := asNode(seq)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("run preset: empty preset name")
	}
	return derive(node, "preset", node.length, name), nil
}

func derive(parent *Node, op string, length int, args ...string) *Node {
	return &Node{op: op, args: args, inputs: []*Node{parent}, length: length}
}

// summarizeMatches run-length encodes a match string so long hint strings
// stay readable, e.g. "c*3 n c*2".
func summarizeMatches(matches string) string {
	if matches == "" {
		return ""
	}
	var parts []string
	run := 1
	for i := 1; i <= len(matches); i++ {
		if i < len(matches) && matches[i] == matches[i-1] {
			run++
			continue
		}
		if run > 1 {
			parts = append(parts, fmt.Sprintf("%c*%d", matches[i-1], run))
		} else {
			parts = append(parts, string(matches[i-1]))
		}
		run = 1
	}
	return strings.Join(parts, " ")
}
