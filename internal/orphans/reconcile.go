package orphans

import (
	"fmt"
	"log/slog"
	"slices"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/logging"
)

// SimilarityFunc scores the difference between frame and neighbor in [0, 1].
type SimilarityFunc func(frame, neighbor int) (float64, error)

// Action is the outcome for one orphan.
type Action string

const (
	ActionDeinterlace Action = "deinterlace"
	ActionKeep        Action = "keep"
)

// Decision records how one orphan was resolved.
type Decision struct {
	Frame    int
	Match    annotations.Match
	Neighbor int
	Score    float64
	Scored   bool
	Action   Action
}

// Result is the outcome of a reconciliation pass.
type Result struct {
	Threshold   Threshold
	Decisions   []Decision
	Deinterlace []int
	Revised     []annotations.Match
}

// DeinterlaceFor returns the deinterlaced frames whose orphan match was symbol.
func (r Result) DeinterlaceFor(symbol annotations.Match) []int {
	var frames []int
	for _, d := range r.Decisions {
		if d.Action == ActionDeinterlace && d.Match == symbol {
			frames = append(frames, d.Frame)
		}
	}
	return frames
}

// Kept returns the frames that kept their field match.
func (r Result) Kept() []int {
	var frames []int
	for _, d := range r.Decisions {
		if d.Action == ActionKeep {
			frames = append(frames, d.Frame)
		}
	}
	return frames
}

type options struct {
	deinterlaceUnscored bool
	logger              *slog.Logger
}

// Option adjusts Reconcile.
type Option func(*options)

// WithUnscoredPolicy controls orphans whose neighbour lies outside the clip
// and therefore cannot be scored. They are deinterlaced by default.
func WithUnscoredPolicy(deinterlace bool) Option {
	return func(o *options) {
		o.deinterlaceUnscored = deinterlace
	}
}

// WithLogger logs every decision at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Reconcile decides every orphan in groups and rewrites matches in place:
// deinterlaced orphans get 'c', kept orphans are reset to their authored
// match. A nil similarity fails before anything is read or written, and a
// similarity error leaves matches untouched.
func Reconcile(matches *annotations.FieldMatches, groups Groups, similarity SimilarityFunc, threshold Threshold, opts ...Option) (Result, error) {
	o := options{deinterlaceUnscored: true}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.NewComponentLogger(o.logger, "orphans")

	if similarity == nil {
		return Result{}, &clip.DependencyError{Missing: []clip.Capability{clip.CapSimilarityOracle}}
	}
	if _, err := NewThreshold(float64(threshold)); err != nil {
		return Result{}, err
	}

	result := Result{Threshold: threshold}
	if groups.Empty() {
		result.Revised = matches.Working()
		return result, nil
	}

	decisions := make([]Decision, 0, groups.Len())
	for _, record := range groups.Records() {
		current, err := matches.At(record.Frame)
		if err != nil {
			return Result{}, err
		}
		if current != record.Match {
			return Result{}, annotations.NewValidationError(annotations.KindStaleOrphan, "orphan frames", record.Frame,
				"orphan match %q no longer matches sequence value %q", rune(record.Match), rune(current))
		}

		decision := Decision{Frame: record.Frame, Match: record.Match, Neighbor: record.Frame + record.Match.Neighbor()}
		if decision.Neighbor < 0 || decision.Neighbor >= matches.Len() {
			decision.Action = ActionKeep
			if o.deinterlaceUnscored {
				decision.Action = ActionDeinterlace
			}
			decisions = append(decisions, decision)
			continue
		}

		score, err := similarity(decision.Frame, decision.Neighbor)
		if err != nil {
			return Result{}, fmt.Errorf("score orphan frame %d: %w", decision.Frame, err)
		}
		decision.Score = score
		decision.Scored = true
		decision.Action = ActionKeep
		if threshold.Exceeded(score) {
			decision.Action = ActionDeinterlace
		}
		decisions = append(decisions, decision)
	}

	for _, d := range decisions {
		var err error
		if d.Action == ActionDeinterlace {
			err = matches.Set(d.Frame, annotations.MatchCurrent)
			result.Deinterlace = append(result.Deinterlace, d.Frame)
		} else {
			err = matches.Revert(d.Frame)
		}
		if err != nil {
			return Result{}, err
		}
		logDecision(logger, d, threshold)
	}

	slices.Sort(result.Deinterlace)
	result.Decisions = decisions
	result.Revised = matches.Working()

	logger.Info("orphan reconciliation complete",
		logging.Int("orphans", len(decisions)),
		logging.Int("deinterlace", len(result.Deinterlace)),
		logging.Float64("threshold", float64(threshold)))
	return result, nil
}

func logDecision(logger *slog.Logger, d Decision, threshold Threshold) {
	reason := "score below threshold"
	switch {
	case !d.Scored:
		reason = "neighbour outside clip"
	case d.Action == ActionDeinterlace:
		reason = "score at or above threshold"
	}
	attrs := logging.DecisionAttrs("orphan_field", string(d.Action), reason)
	attrs = append(attrs,
		logging.Frame(d.Frame),
		logging.String("match", d.Match.String()),
		logging.Int("neighbor", d.Neighbor),
		logging.Float64("score", d.Score),
		logging.Float64("threshold", float64(threshold)))
	logger.Debug("orphan decision", logging.Args(attrs...)...)
}
