package clipgraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"wobble/internal/annotations"
	"wobble/internal/clip"
)

var errForeignSequence = errors.New("sequence was not produced by clipgraph")

// Node is one immutable operation in the graph.
type Node struct {
	op     string
	args   []string
	inputs []*Node
	length int
	props  clip.Props
	frames []int
}

// Source creates a root node standing for a decoded input of length frames.
func Source(name string, length int) *Node {
	return &Node{op: "source", args: []string{name}, length: length}
}

// Len returns the frame count.
func (n *Node) Len() int {
	return n.length
}

// Op returns the operation name.
func (n *Node) Op() string {
	return n.op
}

// Args returns the rendered operation arguments.
func (n *Node) Args() []string {
	return slices.Clone(n.args)
}

// Inputs returns the nodes this node was derived from.
func (n *Node) Inputs() []*Node {
	return slices.Clone(n.inputs)
}

// Frames returns the frame indices a replace node substituted.
func (n *Node) Frames() []int {
	return slices.Clone(n.frames)
}

// Props returns the props set directly on this node.
func (n *Node) Props() clip.Props {
	return maps.Clone(n.props)
}

// ReplaceFrames substitutes frames from source.
func (n *Node) ReplaceFrames(frames []int, source clip.Sequence) (clip.Sequence, error) {
	src, err := asNode(source)
	if err != nil {
		return nil, err
	}
	if src.length != n.length {
		return nil, fmt.Errorf("replace frames: source length %d does not match %d", src.length, n.length)
	}
	if err := clip.CheckFrames(n, frames); err != nil {
		return nil, fmt.Errorf("replace frames: %w", err)
	}
	sorted := slices.Clone(frames)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return &Node{
		op:     "replace_frames",
		args:   []string{annotations.FormatRanges(annotations.RangesFromFrames(sorted))},
		inputs: []*Node{n, src},
		length: n.length,
		frames: sorted,
	}, nil
}

// SetFrameProps tags every frame with props.
func (n *Node) SetFrameProps(props clip.Props) clip.Sequence {
	keys := slices.Sorted(maps.Keys(props))
	args := make([]string, 0, len(keys))
	for _, key := range keys {
		args = append(args, fmt.Sprintf("%s=%v", key, props[key]))
	}
	return &Node{
		op:     "set_frame_props",
		args:   args,
		inputs: []*Node{n},
		length: n.length,
		props:  maps.Clone(props),
	}
}

// SelectEvery keeps frames whose index modulo cycle equals offset.
func (n *Node) SelectEvery(cycle, offset int) (clip.Sequence, error) {
	if cycle <= 0 || offset < 0 || offset >= cycle {
		return nil, fmt.Errorf("select every: invalid cycle %d offset %d", cycle, offset)
	}
	length := 0
	if n.length > offset {
		length = (n.length-offset-1)/cycle + 1
	}
	return &Node{
		op:     "select_every",
		args:   []string{fmt.Sprintf("cycle=%d", cycle), fmt.Sprintf("offset=%d", offset)},
		inputs: []*Node{n},
		length: length,
	}, nil
}

func asNode(seq clip.Sequence) (*Node, error) {
	node, ok := seq.(*Node)
	if !ok || node == nil {
		return nil, errForeignSequence
	}
	return node, nil
}
