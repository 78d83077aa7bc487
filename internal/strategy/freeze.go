package strategy

import (
	"context"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/project"
)

// FreezeFramesStrategy passes the project's freeze frames to the runtime
// right after field matching.
type FreezeFramesStrategy struct {
	toolkit clip.Toolkit
}

// NewFreezeFramesStrategy returns the freeze-frame strategy.
func NewFreezeFramesStrategy(toolkit clip.Toolkit) *FreezeFramesStrategy {
	return &FreezeFramesStrategy{toolkit: toolkit}
}

func (s *FreezeFramesStrategy) Name() string { return "freeze-frames" }

func (s *FreezeFramesStrategy) Position() annotations.Position { return annotations.PostFieldMatch }

// Apply is a no-op for projects without freeze frames.
func (s *FreezeFramesStrategy) Apply(_ context.Context, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	if len(proj.FreezeFrames) == 0 {
		return seq, nil
	}
	if err := s.toolkit.Require(clip.CapFrameFreezer); err != nil {
		return nil, err
	}
	firsts, lasts, replacements := proj.FreezeFrames.Columns()
	return s.toolkit.Freezer.FreezeFrames(seq, firsts, lasts, replacements)
}
