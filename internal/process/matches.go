package process

import (
	"fmt"
	"slices"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/project"
	"wobble/internal/services"
	"wobble/internal/strategy"
)

type matchPair struct {
	working  annotations.Match
	original annotations.Match
}

// MatchFields reconstructs progressive frames from the project's working
// matches and tags every frame with its working and original match.
func MatchFields(toolkit clip.Toolkit, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	matches, err := proj.RequireMatches()
	if err != nil {
		return nil, err
	}
	if err := toolkit.Require(clip.CapFieldMatcher); err != nil {
		return nil, err
	}
	matched, err := toolkit.Matcher.MatchFields(seq, proj.FieldOrder, matches.String())
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "field match", "match fields", "", err)
	}

	working := matches.Working()
	original := matches.Original()
	groups := make(map[matchPair][]int)
	var order []matchPair
	for frame := range working {
		pair := matchPair{working: working[frame], original: original[frame]}
		if _, ok := groups[pair]; !ok {
			order = append(order, pair)
		}
		groups[pair] = append(groups[pair], frame)
	}
	slices.SortFunc(order, func(a, b matchPair) int {
		if a.working != b.working {
			return int(a.working) - int(b.working)
		}
		return int(a.original) - int(b.original)
	})

	out := matched
	for _, pair := range order {
		tagged := matched.SetFrameProps(clip.Props{
			strategy.PropMatch:         pair.working.String(),
			strategy.PropOriginalMatch: pair.original.String(),
		})
		if len(groups[pair]) == matched.Len() {
			return tagged, nil
		}
		if out, err = out.ReplaceFrames(groups[pair], tagged); err != nil {
			return nil, fmt.Errorf("tag %s/%s matches: %w", pair.working, pair.original, err)
		}
	}
	return out, nil
}
