package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wobble/internal/annotations"
	"wobble/internal/clip"
)

const (
	keyInputFile       = "input file"
	keySourceFilter    = "source filter"
	keyTrim            = "trim"
	keyVFMParameters   = "vfm parameters"
	keyMatches         = "matches"
	keyDecimatedFrames = "decimated frames"
	keySections        = "sections"
	keyFrozenFrames    = "frozen frames"
	keyPresets         = "presets"
	keyCustomLists     = "custom lists"
	keyCombedFrames    = "combed frames"
	keyInterlacedFades = "interlaced fades"
)

var requiredKeys = []string{keyInputFile, keySourceFilter}

type rawSection struct {
	Start   *int     `json:"start"`
	Presets []string `json:"presets"`
}

type rawPreset struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

type rawCustomList struct {
	Name     string            `json:"name"`
	Preset   string            `json:"preset"`
	Position string            `json:"position"`
	Frames   []json.RawMessage `json:"frames"`
}

type rawFade struct {
	Frame           int     `json:"frame"`
	FieldDifference float64 `json:"field difference"`
}

type rawVFM struct {
	Order *int `json:"order"`
}

// Load reads and validates the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	proj, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	proj.Path = path
	return proj, nil
}

// Parse decodes a project from r.
func Parse(r io.Reader) (*Project, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, annotations.NewValidationError(annotations.KindMissingField, strings.Join(missing, ", "), -1, "required project field missing")
	}

	p := &Project{FieldOrder: clip.TopFieldFirst}
	steps := []struct {
		key   string
		parse func(json.RawMessage) error
	}{
		{keyInputFile, func(raw json.RawMessage) error { return json.Unmarshal(raw, &p.InputFile) }},
		{keySourceFilter, func(raw json.RawMessage) error { return json.Unmarshal(raw, &p.SourceFilter) }},
		{keyTrim, p.parseTrim},
		{keyVFMParameters, p.parseVFM},
		{keyMatches, p.parseMatches},
		{keyDecimatedFrames, p.parseDecimations},
		{keySections, p.parseSections},
		{keyFrozenFrames, p.parseFrozenFrames},
		{keyPresets, p.parsePresets},
		{keyCustomLists, p.parseCustomLists},
		{keyCombedFrames, p.parseCombedFrames},
		{keyInterlacedFades, p.parseInterlacedFades},
	}
	for _, step := range steps {
		raw, ok := doc[step.key]
		if !ok || isNull(raw) {
			continue
		}
		if err := step.parse(raw); err != nil {
			return nil, wrapKey(step.key, err)
		}
	}

	if err := p.checkBounds(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) parseTrim(raw json.RawMessage) error {
	var pairs [][]int
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return err
	}
	for i, pair := range pairs {
		if len(pair) != 2 {
			return annotations.NewValidationError(annotations.KindInvalidRange, keyTrim, i, "expected [first, last], got %d values", len(pair))
		}
		r, err := annotations.NewFrameRange(pair[0], pair[1])
		if err != nil {
			return err
		}
		p.Trim = append(p.Trim, r)
	}
	return nil
}

func (p *Project) parseVFM(raw json.RawMessage) error {
	var params rawVFM
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	if params.Order != nil {
		p.FieldOrder = clip.FieldOrderFromParam(*params.Order)
	}
	return nil
}

// parseMatches accepts either a hint string or a list of one-character strings.
func (p *Project) parseMatches(raw json.RawMessage) error {
	var hint string
	if err := json.Unmarshal(raw, &hint); err != nil {
		var symbols []string
		if err := json.Unmarshal(raw, &symbols); err != nil {
			return err
		}
		var b strings.Builder
		for i, s := range symbols {
			if len(s) != 1 {
				return annotations.NewValidationError(annotations.KindUnknownMatchSymbol, keyMatches, i, "%q", s)
			}
			b.WriteString(s)
		}
		hint = b.String()
	}
	matches, err := annotations.ParseFieldMatches(hint)
	if err != nil {
		return err
	}
	p.Matches = matches
	return nil
}

func (p *Project) parseDecimations(raw json.RawMessage) error {
	var frames []int
	if err := json.Unmarshal(raw, &frames); err != nil {
		return err
	}
	decimations, err := annotations.NewDecimations(frames)
	if err != nil {
		return err
	}
	p.Decimations = decimations
	return nil
}

func (p *Project) parseSections(raw json.RawMessage) error {
	var items []rawSection
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	sections := make([]annotations.Section, 0, len(items))
	for i, item := range items {
		if item.Start == nil {
			return annotations.NewValidationError(annotations.KindMissingField, "start", i, "section has no start frame")
		}
		section, err := annotations.NewSection(*item.Start, item.Presets...)
		if err != nil {
			return err
		}
		sections = append(sections, section)
	}
	out, err := annotations.NewSections(sections)
	if err != nil {
		return err
	}
	p.Sections = out
	return nil
}

func (p *Project) parseFrozenFrames(raw json.RawMessage) error {
	var triples [][]int
	if err := json.Unmarshal(raw, &triples); err != nil {
		return err
	}
	frames := make([]annotations.FreezeFrame, 0, len(triples))
	for i, triple := range triples {
		if len(triple) != 3 {
			return annotations.NewValidationError(annotations.KindInvalidRange, keyFrozenFrames, i, "expected [first, last, replacement], got %d values", len(triple))
		}
		ff, err := annotations.NewFreezeFrame(triple[0], triple[1], triple[2])
		if err != nil {
			return err
		}
		frames = append(frames, ff)
	}
	out, err := annotations.NewFreezeFrames(frames)
	if err != nil {
		return err
	}
	p.FreezeFrames = out
	return nil
}

func (p *Project) parsePresets(raw json.RawMessage) error {
	var items []rawPreset
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return annotations.NewValidationError(annotations.KindMissingField, "name", i, "preset has no name")
		}
		p.Presets = append(p.Presets, annotations.Preset{Name: item.Name, Contents: item.Contents})
	}
	return nil
}

func (p *Project) parseCustomLists(raw json.RawMessage) error {
	var items []rawCustomList
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	for _, item := range items {
		position, err := annotations.ParsePosition(item.Position)
		if err != nil {
			return fmt.Errorf("custom list %q: %w", item.Name, err)
		}
		ranges, err := parseListFrames(item.Name, item.Frames)
		if err != nil {
			return err
		}
		list, err := annotations.NewCustomList(item.Name, item.Preset, position, ranges)
		if err != nil {
			return err
		}
		p.CustomLists = append(p.CustomLists, list)
	}
	return nil
}

// parseListFrames accepts [first, last] pairs and bare frame numbers.
func parseListFrames(name string, items []json.RawMessage) ([]annotations.FrameRange, error) {
	ranges := make([]annotations.FrameRange, 0, len(items))
	for i, item := range items {
		var single int
		if err := json.Unmarshal(item, &single); err == nil {
			ranges = append(ranges, annotations.FrameRange{First: single, Last: single})
			continue
		}
		var pair []int
		if err := json.Unmarshal(item, &pair); err != nil {
			return nil, fmt.Errorf("custom list %q frames[%d]: %w", name, i, err)
		}
		switch len(pair) {
		case 1:
			ranges = append(ranges, annotations.FrameRange{First: pair[0], Last: pair[0]})
		case 2:
			ranges = append(ranges, annotations.FrameRange{First: pair[0], Last: pair[1]})
		default:
			return nil, annotations.NewValidationError(annotations.KindInvalidRange, "custom list "+name, i, "expected [first, last], got %d values", len(pair))
		}
	}
	return ranges, nil
}

func (p *Project) parseCombedFrames(raw json.RawMessage) error {
	var frames []int
	if err := json.Unmarshal(raw, &frames); err != nil {
		return err
	}
	for i, frame := range frames {
		if frame < 0 {
			return annotations.NewValidationError(annotations.KindNegativeFrameIndex, keyCombedFrames, i, "frame %d is negative", frame)
		}
	}
	sort.Ints(frames)
	p.CombedFrames = frames
	return nil
}

func (p *Project) parseInterlacedFades(raw json.RawMessage) error {
	var items []rawFade
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	for i, item := range items {
		if item.Frame < 0 {
			return annotations.NewValidationError(annotations.KindNegativeFrameIndex, keyInterlacedFades, i, "frame %d is negative", item.Frame)
		}
		p.InterlacedFades = append(p.InterlacedFades, InterlacedFade(item))
	}
	return nil
}

// checkBounds rejects annotations that point past the last matched frame.
func (p *Project) checkBounds() error {
	if p.Matches == nil {
		return nil
	}
	last := p.Matches.Len() - 1
	outside := func(key string, index, frame int) error {
		if frame > last {
			return annotations.NewValidationError(annotations.KindOutOfBounds, key, index, "frame %d is past the last frame %d", frame, last)
		}
		return nil
	}
	for i, frame := range p.Decimations.Frames() {
		if err := outside(keyDecimatedFrames, i, frame); err != nil {
			return err
		}
	}
	for i, section := range p.Sections {
		if err := outside(keySections, i, section.Start); err != nil {
			return err
		}
	}
	for i, ff := range p.FreezeFrames {
		if err := outside(keyFrozenFrames, i, max(ff.Last, ff.Replacement)); err != nil {
			return err
		}
	}
	for _, list := range p.CustomLists {
		for i, r := range list.Ranges {
			if err := outside("custom list "+list.Name, i, r.Last); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func wrapKey(key string, err error) error {
	if _, ok := err.(*annotations.ValidationError); ok {
		return err
	}
	return fmt.Errorf("%s: %w", key, err)
}
