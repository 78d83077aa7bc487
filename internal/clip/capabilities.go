package clip

import (
	"fmt"
	"strings"

	"wobble/internal/services"
)

// FieldSeparator splits every frame into its two fields, emitting the field
// that comes first according to order before the other one.
type FieldSeparator interface {
	SeparateFields(seq Sequence, order FieldOrder) (Sequence, error)
}

// SimilarityOracle scores the difference between two frames of a
// field-separated sequence. Scores lie in [0, 1]; higher means more different.
type SimilarityOracle interface {
	Difference(fields Sequence, a, b int) (float64, error)
}

// OracleFunc adapts a function to SimilarityOracle.
type OracleFunc func(fields Sequence, a, b int) (float64, error)

// Difference calls f.
func (f OracleFunc) Difference(fields Sequence, a, b int) (float64, error) {
	return f(fields, a, b)
}

// Deinterlacer returns a full-rate deinterlaced sequence, one output frame
// per input field.
type Deinterlacer interface {
	Deinterlace(seq Sequence, order FieldOrder) (Sequence, error)
}

// FieldMatcher reconstructs frames according to a match hint string with one
// symbol per frame.
type FieldMatcher interface {
	MatchFields(seq Sequence, order FieldOrder, matches string) (Sequence, error)
}

// Decimator drops frames from a sequence.
type Decimator interface {
	DeleteFrames(seq Sequence, frames []int) (Sequence, error)
}

// FrameFreezer replaces frame ranges with a single repeated frame.
type FrameFreezer interface {
	FreezeFrames(seq Sequence, firsts, lasts, replacements []int) (Sequence, error)
}

// PresetRunner evaluates a named project preset over a whole sequence.
type PresetRunner interface {
	RunPreset(seq Sequence, name, contents string) (Sequence, error)
}

// Capability names one optional runtime feature.
type Capability string

const (
	CapFieldSeparator   Capability = "field separator"
	CapSimilarityOracle Capability = "similarity oracle"
	CapDeinterlacer     Capability = "deinterlacing filter"
	CapFieldMatcher     Capability = "field-matching reconstructor"
	CapDecimator        Capability = "decimator"
	CapFrameFreezer     Capability = "frame freezer"
	CapPresetRunner     Capability = "preset runner"
)

// Toolkit bundles the capabilities a runtime provides. Nil fields are
// unavailable.
type Toolkit struct {
	Separator    FieldSeparator
	Oracle       SimilarityOracle
	Deinterlacer Deinterlacer
	Matcher      FieldMatcher
	Decimator    Decimator
	Freezer      FrameFreezer
	Presets      PresetRunner
}

// Has reports whether capability is present.
func (t Toolkit) Has(capability Capability) bool {
	switch capability {
	case CapFieldSeparator:
		return t.Separator != nil
	case CapSimilarityOracle:
		return t.Oracle != nil
	case CapDeinterlacer:
		return t.Deinterlacer != nil
	case CapFieldMatcher:
		return t.Matcher != nil
	case CapDecimator:
		return t.Decimator != nil
	case CapFrameFreezer:
		return t.Freezer != nil
	case CapPresetRunner:
		return t.Presets != nil
	default:
		return false
	}
}

// Require fails with a *DependencyError naming every missing capability.
func (t Toolkit) Require(capabilities ...Capability) error {
	var missing []Capability
	for _, capability := range capabilities {
		if !t.Has(capability) {
			missing = append(missing, capability)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &DependencyError{Missing: missing}
}

// DependencyError reports runtime capabilities that are not available.
type DependencyError struct {
	Missing []Capability
}

func (e *DependencyError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, capability := range e.Missing {
		names = append(names, string(capability))
	}
	return fmt.Sprintf("%s: %s", services.ErrDependencyUnavailable, strings.Join(names, ", "))
}

// Unwrap exposes services.ErrDependencyUnavailable.
func (e *DependencyError) Unwrap() error {
	return services.ErrDependencyUnavailable
}
