package orphans

import (
	"slices"

	"wobble/internal/annotations"
)

// Groups partitions orphan frames by match symbol. Each slice is ascending.
type Groups struct {
	N []int
	B []int
	U []int
	P []int
}

// Group partitions records. Any symbol outside {n, b, u, p} signals corrupt
// upstream data and fails with an UnknownMatchSymbol error.
func Group(records []Record) (Groups, error) {
	var g Groups
	for _, record := range records {
		switch record.Match {
		case annotations.MatchNext:
			g.N = append(g.N, record.Frame)
		case annotations.MatchPreviousOpposite:
			g.B = append(g.B, record.Frame)
		case annotations.MatchNextOpposite:
			g.U = append(g.U, record.Frame)
		case annotations.MatchPrevious:
			g.P = append(g.P, record.Frame)
		default:
			return Groups{}, annotations.NewValidationError(annotations.KindUnknownMatchSymbol, "orphan frames", record.Frame, "unknown field match %q", rune(record.Match))
		}
	}
	for _, frames := range []*[]int{&g.N, &g.B, &g.U, &g.P} {
		slices.Sort(*frames)
	}
	return g, nil
}

// For returns the frames grouped under symbol.
func (g Groups) For(symbol annotations.Match) []int {
	switch symbol {
	case annotations.MatchNext:
		return slices.Clone(g.N)
	case annotations.MatchPreviousOpposite:
		return slices.Clone(g.B)
	case annotations.MatchNextOpposite:
		return slices.Clone(g.U)
	case annotations.MatchPrevious:
		return slices.Clone(g.P)
	default:
		return nil
	}
}

// Len returns the total number of orphans.
func (g Groups) Len() int {
	return len(g.N) + len(g.B) + len(g.U) + len(g.P)
}

// Empty reports whether there are no orphans.
func (g Groups) Empty() bool {
	return g.Len() == 0
}

// Records flattens the groups back into frame-ordered records.
func (g Groups) Records() []Record {
	records := make([]Record, 0, g.Len())
	for _, symbol := range groupOrder {
		for _, frame := range g.For(symbol) {
			records = append(records, Record{Frame: frame, Match: symbol})
		}
	}
	slices.SortFunc(records, func(a, b Record) int { return a.Frame - b.Frame })
	return records
}

var groupOrder = []annotations.Match{
	annotations.MatchNext,
	annotations.MatchPreviousOpposite,
	annotations.MatchNextOpposite,
	annotations.MatchPrevious,
}

// Symbols lists the group symbols in their fixed order.
func Symbols() []annotations.Match {
	return slices.Clone(groupOrder)
}
