package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// Section marks a manually authored segment boundary and the presets that
// apply from Start until the next section.
type Section struct {
	Start   int
	Presets []string
}

// NewSection validates the start frame.
func NewSection(start int, presets ...string) (Section, error) {
	if err := checkNonNegative("section start", start); err != nil {
		return Section{}, err
	}
	return Section{Start: start, Presets: append([]string(nil), presets...)}, nil
}

func (s Section) String() string {
	if len(s.Presets) == 0 {
		return fmt.Sprintf("%d", s.Start)
	}
	return fmt.Sprintf("%d [%s]", s.Start, strings.Join(s.Presets, ", "))
}

// Sections is kept in ascending start order. Overlap is not cross-checked.
type Sections []Section

// NewSections validates every start and sorts by start, keeping the authored
// order of sections that share a start.
func NewSections(sections []Section) (Sections, error) {
	out := make(Sections, 0, len(sections))
	for i, section := range sections {
		if section.Start < 0 {
			return nil, newValidationError(KindNegativeFrameIndex, "sections", i, "start %d is negative", section.Start)
		}
		out = append(out, Section{Start: section.Start, Presets: append([]string(nil), section.Presets...)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// Starts returns the section start frames.
func (s Sections) Starts() []int {
	starts := make([]int, 0, len(s))
	for _, section := range s {
		starts = append(starts, section.Start)
	}
	return starts
}

// Keyframes translates every section start onto the decimated timeline.
func (s Sections) Keyframes(decimations Decimations) []int {
	keyframes := make([]int, 0, len(s))
	for _, section := range s {
		keyframes = append(keyframes, Translate(section.Start, decimations))
	}
	return keyframes
}

// Range returns the inclusive frame range covered by section i in a clip of
// frameCount frames.
func (s Sections) Range(i, frameCount int) (FrameRange, error) {
	if i < 0 || i >= len(s) {
		return FrameRange{}, newValidationError(KindOutOfBounds, "sections", i, "section index out of bounds (0-%d)", len(s)-1)
	}
	last := frameCount - 1
	if i+1 < len(s) {
		last = s[i+1].Start - 1
	}
	return NewFrameRange(s[i].Start, last)
}

func (s Sections) span(i, frameCount int) (FrameRange, bool) {
	r, err := s.Range(i, frameCount)
	if err != nil {
		return FrameRange{}, false
	}
	return r, true
}

func (s Sections) String() string {
	parts := make([]string, 0, len(s))
	for _, section := range s {
		parts = append(parts, section.String())
	}
	return strings.Join(parts, ", ")
}
