package project

import (
	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/orphans"
)

// InterlacedFade marks a frame whose fields differ by a fade rather than motion.
type InterlacedFade struct {
	Frame           int
	FieldDifference float64
}

// Project is a loaded Wobbly project.
type Project struct {
	Path         string
	InputFile    string
	SourceFilter string
	Trim         []annotations.FrameRange
	FieldOrder   clip.FieldOrder

	// Matches is nil when the project has not been field matched yet.
	Matches         *annotations.FieldMatches
	Decimations     annotations.Decimations
	Sections        annotations.Sections
	FreezeFrames    annotations.FreezeFrames
	Presets         annotations.Presets
	CustomLists     annotations.CustomLists
	CombedFrames    []int
	InterlacedFades []InterlacedFade

	// Reconciled holds the orphan reconciliation outcome once a run has
	// decided it. Strategies reuse it instead of scoring again.
	Reconciled *orphans.Result
}

// FrameCount returns the source frame count: the match count when matches
// exist, otherwise the trimmed length.
func (p *Project) FrameCount() int {
	if p.Matches != nil {
		return p.Matches.Len()
	}
	total := 0
	for _, r := range p.Trim {
		total += r.Len()
	}
	return total
}

// OutputFrameCount returns the frame count after decimation.
func (p *Project) OutputFrameCount() int {
	return p.Decimations.OutputLength(p.FrameCount())
}

// Keyframes returns the section starts translated to the decimated timeline.
func (p *Project) Keyframes() []int {
	return p.Sections.Keyframes(p.Decimations)
}

// RequireMatches returns the field matches or a MissingField error.
func (p *Project) RequireMatches() (*annotations.FieldMatches, error) {
	if p.Matches == nil {
		return nil, annotations.NewValidationError(annotations.KindMissingField, keyMatches, -1, "project has no field matches")
	}
	return p.Matches, nil
}

// SectionLists converts the sections' presets into custom lists.
func (p *Project) SectionLists() (annotations.CustomLists, error) {
	return annotations.CustomListsFromSections(p.Sections, p.FrameCount())
}
