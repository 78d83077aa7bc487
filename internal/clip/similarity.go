package clip

import (
	"fmt"
	"math"

	"wobble/internal/services"
)

// FieldSimilarity returns a function scoring frame against neighbor using
// the oracle over same-parity separated fields of seq. It fails fast when
// the separator or oracle is missing.
func FieldSimilarity(toolkit Toolkit, seq Sequence, order FieldOrder) (func(frame, neighbor int) (float64, error), error) {
	if err := toolkit.Require(CapFieldSeparator, CapSimilarityOracle); err != nil {
		return nil, err
	}
	fields, err := toolkit.Separator.SeparateFields(seq, order)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "similarity", "separate fields", "", err)
	}
	sameParity, err := fields.SelectEvery(2, 0)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "similarity", "select fields", "", err)
	}
	oracle := toolkit.Oracle
	return func(frame, neighbor int) (float64, error) {
		score, err := oracle.Difference(sameParity, frame, neighbor)
		if err != nil {
			return 0, services.Wrap(services.ErrExternalTool, "similarity", "score", fmt.Sprintf("frames %d/%d", frame, neighbor), err)
		}
		if math.IsNaN(score) || score < 0 || score > 1 {
			return 0, services.Wrap(services.ErrExternalTool, "similarity", "score", fmt.Sprintf("frames %d/%d: score %v outside [0, 1]", frame, neighbor, score), nil)
		}
		return score, nil
	}, nil
}
