package annotations

import (
	"fmt"
	"strings"
)

// CustomList applies a preset to selected frame ranges at a given position.
type CustomList struct {
	Name     string
	Preset   string
	Position Position
	Ranges   []FrameRange
}

// NewCustomList validates the list's ranges and position.
func NewCustomList(name, preset string, position Position, ranges []FrameRange) (CustomList, error) {
	if len(ranges) == 0 {
		return CustomList{}, newValidationError(KindInvalidRange, "custom list "+name, -1, "frames cannot be empty")
	}
	if !position.Valid() {
		return CustomList{}, newValidationError(KindInvalidPosition, "custom list "+name, -1, "position %d", int(position))
	}
	checked := make([]FrameRange, 0, len(ranges))
	for i, r := range ranges {
		fr, err := NewFrameRange(r.First, r.Last)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok {
				verr.Field = "custom list " + name
				verr.Index = i
			}
			return CustomList{}, err
		}
		checked = append(checked, fr)
	}
	return CustomList{Name: name, Preset: preset, Position: position, Ranges: checked}, nil
}

// Frames expands the list's ranges.
func (c CustomList) Frames() []int {
	return FramesFromRanges(c.Ranges)
}

// CustomLists is applied in declaration order.
type CustomLists []CustomList

func (c CustomLists) String() string {
	parts := make([]string, 0, len(c))
	for _, list := range c {
		parts = append(parts, fmt.Sprintf("%s: preset=%s, position=%s, frames=%s",
			list.Name, list.Preset, list.Position, FormatRanges(list.Ranges)))
	}
	return strings.Join(parts, ", ")
}

// AtPosition returns the lists applied at position, in declaration order.
func (c CustomLists) AtPosition(position Position) CustomLists {
	var out CustomLists
	for _, list := range c {
		if list.Position == position {
			out = append(out, list)
		}
	}
	return out
}

// CustomListsFromSections turns every section that names a preset into a
// pre-decimation custom list covering the section. Only the first preset of
// a section is used; sections that cover no frames are skipped.
func CustomListsFromSections(sections Sections, frameCount int) (CustomLists, error) {
	var lists CustomLists
	for i, section := range sections {
		if len(section.Presets) == 0 {
			continue
		}
		r, ok := sections.span(i, frameCount)
		if !ok {
			continue
		}
		list, err := NewCustomList(fmt.Sprintf("section_%d", section.Start), section.Presets[0], PreDecimate, []FrameRange{r})
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}
