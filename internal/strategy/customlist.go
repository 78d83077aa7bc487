package strategy

import (
	"context"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/project"
)

// CustomListStrategy runs a preset over the whole sequence and keeps the
// result only on the list's frames.
type CustomListStrategy struct {
	list    annotations.CustomList
	toolkit clip.Toolkit
}

// NewCustomListStrategy wraps list.
func NewCustomListStrategy(list annotations.CustomList, toolkit clip.Toolkit) *CustomListStrategy {
	return &CustomListStrategy{list: list, toolkit: toolkit}
}

// CustomListStrategies wraps every list in declaration order.
func CustomListStrategies(lists annotations.CustomLists, toolkit clip.Toolkit) []Strategy {
	out := make([]Strategy, 0, len(lists))
	for _, list := range lists {
		out = append(out, NewCustomListStrategy(list, toolkit))
	}
	return out
}

func (s *CustomListStrategy) Name() string { return "custom-list:" + s.list.Name }

func (s *CustomListStrategy) Position() annotations.Position { return s.list.Position }

// Apply fails when the preset is unknown. After decimation the list's frames
// are translated to the decimated timeline and decimated frames are skipped.
func (s *CustomListStrategy) Apply(_ context.Context, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	if err := s.toolkit.Require(clip.CapPresetRunner); err != nil {
		return nil, err
	}
	preset, ok := proj.Presets.Lookup(s.list.Preset)
	if !ok {
		return nil, annotations.NewValidationError(annotations.KindMissingField, "custom list "+s.list.Name, -1, "preset %q is not defined", s.list.Preset)
	}

	frames := s.list.Frames()
	if s.list.Position == annotations.PostDecimate {
		frames = translateFrames(frames, proj.Decimations)
	}
	if len(frames) == 0 {
		return seq, nil
	}

	filtered, err := s.toolkit.Presets.RunPreset(seq, preset.Name, preset.Contents)
	if err != nil {
		return nil, err
	}
	return seq.ReplaceFrames(frames, filtered)
}

func translateFrames(frames []int, decimations annotations.Decimations) []int {
	out := make([]int, 0, len(frames))
	for _, frame := range frames {
		if decimations.Contains(frame) {
			continue
		}
		out = append(out, annotations.Translate(frame, decimations))
	}
	return out
}
