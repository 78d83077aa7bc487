package orphans

import (
	"math"

	"wobble/internal/annotations"
)

// DefaultThreshold is the difference score at or above which an orphan is
// deinterlaced.
const DefaultThreshold Threshold = 0.0025

// Threshold is a similarity cut-off in [0, 1].
type Threshold float64

// NewThreshold validates value; both bounds are inclusive.
func NewThreshold(value float64) (Threshold, error) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return 0, annotations.NewValidationError(annotations.KindInvalidThreshold, "threshold", -1, "%v is outside [0, 1]", value)
	}
	return Threshold(value), nil
}

// Exceeded reports whether score calls for deinterlacing.
func (t Threshold) Exceeded(score float64) bool {
	return score >= float64(t)
}
