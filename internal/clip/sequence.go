package clip

import (
	"fmt"
	"strings"
)

// FieldOrder says which field of an interlaced frame is temporally first.
type FieldOrder int

const (
	BottomFieldFirst FieldOrder = iota
	TopFieldFirst
)

// IsTFF reports whether the top field comes first.
func (o FieldOrder) IsTFF() bool {
	return o == TopFieldFirst
}

func (o FieldOrder) String() string {
	if o == TopFieldFirst {
		return "tff"
	}
	return "bff"
}

// ParseFieldOrder accepts "tff"/"bff" and the ffprobe spellings. ffprobe's
// "tb" and "bt" name the coded order first and the display order second;
// the display order wins.
func ParseFieldOrder(value string) (FieldOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tff", "tt", "bt", "top":
		return TopFieldFirst, nil
	case "bff", "bb", "tb", "bottom":
		return BottomFieldFirst, nil
	default:
		return 0, fmt.Errorf("unknown field order %q", value)
	}
}

// FieldOrderFromParam maps a field-matcher "order" parameter (1 = top field
// first) onto a FieldOrder.
func FieldOrderFromParam(order int) FieldOrder {
	if order != 0 {
		return TopFieldFirst
	}
	return BottomFieldFirst
}

// Props are diagnostic key/value annotations attached to frames.
type Props map[string]any

// Sequence is an opaque handle to a decodable sequence of frames of known
// length. Implementations must not mutate the receiver.
type Sequence interface {
	Len() int
	// ReplaceFrames substitutes frames at the given indices with the frames
	// at the same indices of source, which must have the same length.
	ReplaceFrames(frames []int, source Sequence) (Sequence, error)
	// SetFrameProps tags every frame with props.
	SetFrameProps(props Props) Sequence
	// SelectEvery keeps frames whose index modulo cycle equals offset.
	SelectEvery(cycle, offset int) (Sequence, error)
}

// CheckFrames validates that every frame index lies inside seq.
func CheckFrames(seq Sequence, frames []int) error {
	length := seq.Len()
	for _, frame := range frames {
		if frame < 0 || frame >= length {
			return fmt.Errorf("frame %d is out of bounds (0-%d)", frame, length-1)
		}
	}
	return nil
}
