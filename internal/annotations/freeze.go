package annotations

// FreezeFrame replaces frames First..Last with Replacement.
type FreezeFrame struct {
	First       int
	Last        int
	Replacement int
}

// NewFreezeFrame validates the indices.
func NewFreezeFrame(first, last, replacement int) (FreezeFrame, error) {
	if err := checkNonNegative("frozen frames", first, last, replacement); err != nil {
		return FreezeFrame{}, err
	}
	if first > last {
		return FreezeFrame{}, newValidationError(KindInvalidRange, "frozen frames", -1, "first frame (%d) must start before the last frame (%d)", first, last)
	}
	return FreezeFrame{First: first, Last: last, Replacement: replacement}, nil
}

// FreezeFrames is passed through to the runtime unchanged.
type FreezeFrames []FreezeFrame

// NewFreezeFrames validates every entry.
func NewFreezeFrames(frames []FreezeFrame) (FreezeFrames, error) {
	out := make(FreezeFrames, 0, len(frames))
	for _, f := range frames {
		checked, err := NewFreezeFrame(f.First, f.Last, f.Replacement)
		if err != nil {
			return nil, err
		}
		out = append(out, checked)
	}
	return out, nil
}

// Columns splits the entries into the parallel first/last/replacement slices
// the runtime expects.
func (f FreezeFrames) Columns() (firsts, lasts, replacements []int) {
	firsts = make([]int, 0, len(f))
	lasts = make([]int, 0, len(f))
	replacements = make([]int, 0, len(f))
	for _, freeze := range f {
		firsts = append(firsts, freeze.First)
		lasts = append(lasts, freeze.Last)
		replacements = append(replacements, freeze.Replacement)
	}
	return firsts, lasts, replacements
}
