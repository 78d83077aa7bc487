package annotations

import (
	"strings"
)

// FieldMatches is the authoritative field-matching record, one Match per
// frame. It keeps a mutable working sequence alongside a frozen copy of the
// authored matches so reconciled frames can always be reverted exactly.
type FieldMatches struct {
	working  []Match
	original []Match
}

// NewFieldMatches validates matches and captures the frozen original copy.
func NewFieldMatches(matches []Match) (*FieldMatches, error) {
	if len(matches) == 0 {
		return nil, newValidationError(KindEmptyMatches, "matches", -1, "at least one match is required")
	}
	for frame, m := range matches {
		if !m.Valid() {
			return nil, unknownMatchError("matches", frame, m)
		}
	}
	working := make([]Match, len(matches))
	copy(working, matches)
	original := make([]Match, len(matches))
	copy(original, matches)
	return &FieldMatches{working: working, original: original}, nil
}

// ParseFieldMatches builds FieldMatches from a match hint string such as "cccnn".
func ParseFieldMatches(hint string) (*FieldMatches, error) {
	matches := make([]Match, len(hint))
	for i := 0; i < len(hint); i++ {
		matches[i] = Match(hint[i])
	}
	return NewFieldMatches(matches)
}

// Len returns the frame count.
func (f *FieldMatches) Len() int {
	return len(f.working)
}

// At returns the working match for frame.
func (f *FieldMatches) At(frame int) (Match, error) {
	if err := f.checkBounds(frame); err != nil {
		return 0, err
	}
	return f.working[frame], nil
}

// OriginalAt returns the authored match for frame.
func (f *FieldMatches) OriginalAt(frame int) (Match, error) {
	if err := f.checkBounds(frame); err != nil {
		return 0, err
	}
	return f.original[frame], nil
}

// Set overwrites the working match for frame.
func (f *FieldMatches) Set(frame int, m Match) error {
	if err := f.checkBounds(frame); err != nil {
		return err
	}
	if !m.Valid() {
		return unknownMatchError("matches", frame, m)
	}
	f.working[frame] = m
	return nil
}

// Revert restores the authored match for frame.
func (f *FieldMatches) Revert(frame int) error {
	if err := f.checkBounds(frame); err != nil {
		return err
	}
	f.working[frame] = f.original[frame]
	return nil
}

// Working returns a copy of the working sequence.
func (f *FieldMatches) Working() []Match {
	out := make([]Match, len(f.working))
	copy(out, f.working)
	return out
}

// Original returns a copy of the authored sequence.
func (f *FieldMatches) Original() []Match {
	out := make([]Match, len(f.original))
	copy(out, f.original)
	return out
}

// MatchesWithSymbol lists the frames whose working match equals symbol, in
// ascending order.
func (f *FieldMatches) MatchesWithSymbol(symbol Match) []int {
	var frames []int
	for frame, m := range f.working {
		if m == symbol {
			frames = append(frames, frame)
		}
	}
	return frames
}

// Contains reports whether any frame currently carries symbol.
func (f *FieldMatches) Contains(symbol Match) bool {
	for _, m := range f.working {
		if m == symbol {
			return true
		}
	}
	return false
}

// Modified lists frames whose working match differs from the authored one.
func (f *FieldMatches) Modified() []int {
	var frames []int
	for frame := range f.working {
		if f.working[frame] != f.original[frame] {
			frames = append(frames, frame)
		}
	}
	return frames
}

// String returns the working matches as a hint string, one character per frame.
func (f *FieldMatches) String() string {
	return matchString(f.working)
}

// OriginalString returns the authored matches as a hint string.
func (f *FieldMatches) OriginalString() string {
	return matchString(f.original)
}

func (f *FieldMatches) checkBounds(frame int) error {
	if frame < 0 || frame >= len(f.working) {
		return newValidationError(KindOutOfBounds, "matches", frame, "frame %d is out of bounds (0-%d)", frame, len(f.working)-1)
	}
	return nil
}

func matchString(matches []Match) string {
	var b strings.Builder
	b.Grow(len(matches))
	for _, m := range matches {
		b.WriteByte(byte(m))
	}
	return b.String()
}
