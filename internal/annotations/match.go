package annotations

// Match is a per-frame field-match decision.
//
//	p: matched to the previous field
//	c: matched to the current field (no match)
//	n: matched to the next field
//	b: matched to the previous field of opposite parity
//	u: matched to the next field of opposite parity
type Match byte

const (
	MatchPrevious         Match = 'p'
	MatchCurrent          Match = 'c'
	MatchNext             Match = 'n'
	MatchPreviousOpposite Match = 'b'
	MatchNextOpposite     Match = 'u'
)

// AllMatches lists every valid match symbol.
var AllMatches = []Match{MatchPrevious, MatchCurrent, MatchNext, MatchPreviousOpposite, MatchNextOpposite}

// Valid reports whether m is one of the five known symbols.
func (m Match) Valid() bool {
	switch m {
	case MatchPrevious, MatchCurrent, MatchNext, MatchPreviousOpposite, MatchNextOpposite:
		return true
	default:
		return false
	}
}

func (m Match) String() string {
	return string(rune(m))
}

// ParseMatch converts a single-character symbol into a Match.
func ParseMatch(value string) (Match, error) {
	if len(value) != 1 || !Match(value[0]).Valid() {
		return 0, newValidationError(KindUnknownMatchSymbol, "match", -1, "%q", value)
	}
	return Match(value[0]), nil
}

// Neighbor returns the frame offset a match compares against: -1 for
// matches that pull from the previous frame, +1 for the next frame, and 0
// for 'c'.
func (m Match) Neighbor() int {
	switch m {
	case MatchPrevious, MatchPreviousOpposite:
		return -1
	case MatchNext, MatchNextOpposite:
		return 1
	default:
		return 0
	}
}

func unknownMatchError(field string, frame int, m Match) error {
	return newValidationError(KindUnknownMatchSymbol, field, frame, "%q", rune(m))
}
