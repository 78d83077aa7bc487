package annotations

import (
	"slices"
	"sort"
)

// Decimations is the ascending, duplicate-free set of original frame indices
// removed from the output timeline.
type Decimations struct {
	frames []int
}

// NewDecimations validates, sorts, and deduplicates frames. Building from an
// already canonical slice yields identical content.
func NewDecimations(frames []int) (Decimations, error) {
	if err := checkNonNegative("decimated frames", frames...); err != nil {
		return Decimations{}, err
	}
	sorted := make([]int, len(frames))
	copy(sorted, frames)
	slices.Sort(sorted)
	return Decimations{frames: slices.Compact(sorted)}, nil
}

// Frames returns a copy of the decimated frames in ascending order.
func (d Decimations) Frames() []int {
	out := make([]int, len(d.frames))
	copy(out, d.frames)
	return out
}

// Len returns the number of decimated frames.
func (d Decimations) Len() int {
	return len(d.frames)
}

// Contains reports whether frame is decimated.
func (d Decimations) Contains(frame int) bool {
	_, ok := d.Find(frame)
	return ok
}

// Find returns the position of frame within the decimated set.
func (d Decimations) Find(frame int) (int, bool) {
	i := sort.SearchInts(d.frames, frame)
	return i, i < len(d.frames) && d.frames[i] == frame
}

// CountBefore returns how many decimated frames precede frame.
func (d Decimations) CountBefore(frame int) int {
	return sort.SearchInts(d.frames, frame)
}

// Translate maps an original frame index onto the decimated output timeline.
// Two indices can translate to the same output position only when a frame
// between them was decimated away.
func Translate(frame int, decimations Decimations) int {
	return frame - decimations.CountBefore(frame)
}

// OutputLength returns the frame count left after decimating a clip of
// frameCount frames. Decimations at or beyond frameCount are ignored.
func (d Decimations) OutputLength(frameCount int) int {
	return frameCount - d.CountBefore(frameCount)
}
