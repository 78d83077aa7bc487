package annotations

import (
	"fmt"
	"slices"
	"strings"
)

// FrameRange is an inclusive range of original frame indices.
type FrameRange struct {
	First int
	Last  int
}

// NewFrameRange validates that both ends are non-negative and ordered.
func NewFrameRange(first, last int) (FrameRange, error) {
	if err := checkNonNegative("frame range", first, last); err != nil {
		return FrameRange{}, err
	}
	if first > last {
		return FrameRange{}, newValidationError(KindInvalidRange, "frame range", -1, "first frame %d must not be after last frame %d", first, last)
	}
	return FrameRange{First: first, Last: last}, nil
}

// Len returns the number of frames covered.
func (r FrameRange) Len() int {
	return r.Last - r.First + 1
}

func (r FrameRange) String() string {
	if r.First == r.Last {
		return fmt.Sprintf("%d", r.First)
	}
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// RangesFromFrames collapses frames into sorted, merged inclusive ranges.
func RangesFromFrames(frames []int) []FrameRange {
	if len(frames) == 0 {
		return nil
	}
	sorted := slices.Clone(frames)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranges := []FrameRange{{First: sorted[0], Last: sorted[0]}}
	for _, frame := range sorted[1:] {
		last := &ranges[len(ranges)-1]
		if frame == last.Last+1 {
			last.Last = frame
			continue
		}
		ranges = append(ranges, FrameRange{First: frame, Last: frame})
	}
	return ranges
}

// FramesFromRanges expands ranges into ascending unique frame indices.
func FramesFromRanges(ranges []FrameRange) []int {
	var frames []int
	for _, r := range ranges {
		for frame := r.First; frame <= r.Last; frame++ {
			frames = append(frames, frame)
		}
	}
	slices.Sort(frames)
	return slices.Compact(frames)
}

// FormatRanges renders ranges as "1-3, 7".
func FormatRanges(ranges []FrameRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}
