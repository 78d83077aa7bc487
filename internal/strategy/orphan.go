package strategy

import (
	"context"
	"log/slog"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/logging"
	"wobble/internal/orphans"
	"wobble/internal/project"
)

// Frame props set by the orphan strategy and the field matcher.
const (
	PropOrphanDeint      = "WobbleOrphanDeint"
	PropOrphanDeintField = "WobbleOrphanDeintField"
	PropMatch            = "WobbleMatch"
	PropOriginalMatch    = "WobbleOriginalMatch"
)

// OrphanDeinterlace substitutes deinterlaced frames for orphans whose field
// match cannot be trusted. It runs before decimation on the field-matched
// sequence.
type OrphanDeinterlace struct {
	toolkit    clip.Toolkit
	classifier orphans.Classifier
	threshold  orphans.Threshold
	unscored   bool
	logger     *slog.Logger
}

// OrphanOption configures OrphanDeinterlace.
type OrphanOption func(*OrphanDeinterlace)

// WithClassifier selects the orphan symbols.
func WithClassifier(c orphans.Classifier) OrphanOption {
	return func(s *OrphanDeinterlace) {
		s.classifier = c
	}
}

// WithDeinterlaceUnscored sets the policy for orphans that cannot be scored.
func WithDeinterlaceUnscored(deinterlace bool) OrphanOption {
	return func(s *OrphanDeinterlace) {
		s.unscored = deinterlace
	}
}

// WithOrphanLogger sets the logger used for decisions.
func WithOrphanLogger(logger *slog.Logger) OrphanOption {
	return func(s *OrphanDeinterlace) {
		s.logger = logger
	}
}

// NewOrphanDeinterlace validates threshold.
func NewOrphanDeinterlace(toolkit clip.Toolkit, threshold float64, opts ...OrphanOption) (*OrphanDeinterlace, error) {
	t, err := orphans.NewThreshold(threshold)
	if err != nil {
		return nil, err
	}
	s := &OrphanDeinterlace{
		toolkit:    toolkit,
		classifier: orphans.DefaultClassifier(),
		threshold:  t,
		unscored:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *OrphanDeinterlace) Name() string { return "orphan-deinterlace" }

func (s *OrphanDeinterlace) Position() annotations.Position { return annotations.PreDecimate }

// Threshold returns the configured threshold.
func (s *OrphanDeinterlace) Threshold() orphans.Threshold { return s.threshold }

// Reconcile classifies and decides the project's orphans against source,
// rewriting the project's matches and recording the outcome on the project.
func (s *OrphanDeinterlace) Reconcile(ctx context.Context, source clip.Sequence, proj *project.Project) (orphans.Result, error) {
	matches, err := proj.RequireMatches()
	if err != nil {
		return orphans.Result{}, err
	}
	similarity, err := clip.FieldSimilarity(s.toolkit, source, proj.FieldOrder)
	if err != nil {
		return orphans.Result{}, err
	}
	groups, err := s.classifier.Classify(matches)
	if err != nil {
		return orphans.Result{}, err
	}
	result, err := orphans.Reconcile(matches, groups, similarity, s.threshold,
		orphans.WithUnscoredPolicy(s.unscored),
		orphans.WithLogger(logging.WithContext(ctx, s.logger)))
	if err != nil {
		return orphans.Result{}, err
	}
	proj.Reconciled = &result
	return result, nil
}

// Apply deinterlaces seq once and substitutes the frames decided for
// deinterlacing, tagging them with the orphan's original match. Missing
// capabilities fail before any work.
func (s *OrphanDeinterlace) Apply(ctx context.Context, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	required := []clip.Capability{clip.CapDeinterlacer}
	if proj.Reconciled == nil {
		required = append(required, clip.CapFieldSeparator, clip.CapSimilarityOracle)
	}
	if err := s.toolkit.Require(required...); err != nil {
		return nil, err
	}

	var result orphans.Result
	switch {
	case proj.Reconciled != nil:
		result = *proj.Reconciled
	case proj.Matches == nil:
		return seq, nil
	default:
		var err error
		if result, err = s.Reconcile(ctx, seq, proj); err != nil {
			return nil, err
		}
	}
	if len(result.Deinterlace) == 0 {
		return seq, nil
	}
	if err := clip.CheckFrames(seq, result.Deinterlace); err != nil {
		return nil, err
	}

	base := seq.SetFrameProps(clip.Props{PropOrphanDeint: false})
	full, err := s.toolkit.Deinterlacer.Deinterlace(base, proj.FieldOrder)
	if err != nil {
		return nil, err
	}
	offset := 0
	if proj.FieldOrder.IsTFF() {
		offset = 1
	}
	deinterlaced, err := full.SelectEvery(2, offset)
	if err != nil {
		return nil, err
	}
	deinterlaced = deinterlaced.SetFrameProps(clip.Props{PropOrphanDeint: true})

	out := base
	for _, symbol := range orphans.Symbols() {
		frames := result.DeinterlaceFor(symbol)
		if len(frames) == 0 {
			continue
		}
		tagged := deinterlaced.SetFrameProps(clip.Props{PropOrphanDeintField: symbol.String()})
		if out, err = out.ReplaceFrames(frames, tagged); err != nil {
			return nil, err
		}
	}

	logging.WithContext(ctx, logging.NewComponentLogger(s.logger, "orphans")).Info("orphan frames deinterlaced",
		logging.Int("frames", len(result.Deinterlace)),
		logging.String("ranges", annotations.FormatRanges(annotations.RangesFromFrames(result.Deinterlace))))
	return out, nil
}
