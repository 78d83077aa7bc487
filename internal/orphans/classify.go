package orphans

import (
	"slices"

	"wobble/internal/annotations"
)

// Record identifies one orphan frame and the match that made it an orphan.
type Record struct {
	Frame int
	Match annotations.Match
}

// DefaultSymbols are the match symbols treated as orphan candidates unless
// configured otherwise.
var DefaultSymbols = []annotations.Match{annotations.MatchNext, annotations.MatchPreviousOpposite}

// Classifier derives orphan records from a match sequence.
type Classifier struct {
	symbols []annotations.Match
}

// NewClassifier accepts any subset of {n, b, u, p}. No symbols means the
// defaults.
func NewClassifier(symbols ...annotations.Match) (Classifier, error) {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	out := make([]annotations.Match, 0, len(symbols))
	for i, symbol := range symbols {
		switch symbol {
		case annotations.MatchNext, annotations.MatchPreviousOpposite, annotations.MatchNextOpposite, annotations.MatchPrevious:
		default:
			return Classifier{}, annotations.NewValidationError(annotations.KindUnknownMatchSymbol, "orphan symbols", i, "%q cannot mark an orphan", rune(symbol))
		}
		if !slices.Contains(out, symbol) {
			out = append(out, symbol)
		}
	}
	return Classifier{symbols: out}, nil
}

// DefaultClassifier classifies 'n' and 'b' matches.
func DefaultClassifier() Classifier {
	return Classifier{symbols: slices.Clone(DefaultSymbols)}
}

// Symbols returns the configured orphan symbols.
func (c Classifier) Symbols() []annotations.Match {
	if len(c.symbols) == 0 {
		return slices.Clone(DefaultSymbols)
	}
	return slices.Clone(c.symbols)
}

// Records lists orphan frames in ascending order. A leading 'n' and a
// trailing 'b' are never orphans.
func (c Classifier) Records(matches *annotations.FieldMatches) []Record {
	symbols := c.Symbols()
	last := matches.Len() - 1
	working := matches.Working()

	var records []Record
	for frame, m := range working {
		if !slices.Contains(symbols, m) {
			continue
		}
		if (m == annotations.MatchNext && frame == 0) || (m == annotations.MatchPreviousOpposite && frame == last) {
			continue
		}
		records = append(records, Record{Frame: frame, Match: m})
	}
	return records
}

// Classify derives and groups the orphan records of matches.
func (c Classifier) Classify(matches *annotations.FieldMatches) (Groups, error) {
	return Group(c.Records(matches))
}
