package annotations

import "strings"

// Position places a strategy relative to field matching and decimation.
type Position int

const (
	PostSource Position = iota
	PostFieldMatch
	PreDecimate
	PostDecimate
)

// Positions returns every position in application order.
func Positions() []Position {
	return []Position{PostSource, PostFieldMatch, PreDecimate, PostDecimate}
}

func (p Position) String() string {
	switch p {
	case PostSource:
		return "post-source"
	case PostFieldMatch:
		return "post-field-match"
	case PreDecimate:
		return "pre-decimate"
	case PostDecimate:
		return "post-decimate"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	return p >= PostSource && p <= PostDecimate
}

// ParsePosition accepts both the hyphenated names and the project-file
// spellings ("post source", "pre decimation", ...).
func ParsePosition(value string) (Position, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	switch normalized {
	case "post source":
		return PostSource, nil
	case "post field match":
		return PostFieldMatch, nil
	case "pre decimate", "pre decimation":
		return PreDecimate, nil
	case "post decimate", "post decimation":
		return PostDecimate, nil
	default:
		return 0, newValidationError(KindInvalidPosition, "position", -1, "%q", value)
	}
}
