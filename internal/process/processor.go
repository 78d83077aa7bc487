package process

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/config"
	"wobble/internal/logging"
	"wobble/internal/orphans"
	"wobble/internal/project"
	"wobble/internal/services"
	"wobble/internal/strategy"
)

// Options configures a Processor.
type Options struct {
	Logger              *slog.Logger
	Toolkit             clip.Toolkit
	Threshold           float64
	Classifier          orphans.Classifier
	DeinterlaceUnscored bool
	// FieldOrder overrides the project's field order when non-empty.
	FieldOrder string
	// Strategies are registered after the built-in ones.
	Strategies []strategy.Strategy
}

// Processor turns a project and its decoded source into the final sequence.
type Processor struct {
	logger     *slog.Logger
	toolkit    clip.Toolkit
	orphans    *strategy.OrphanDeinterlace
	fieldOrder *clip.FieldOrder
	extra      []strategy.Strategy
}

// Result describes one processing run.
type Result struct {
	Output     clip.Sequence
	Reconciled *orphans.Result
	Plan       []string
	Keyframes  []int
	Elapsed    time.Duration
}

// New validates opts and builds a processor.
func New(opts Options) (*Processor, error) {
	logger := logging.NewComponentLogger(opts.Logger, "process")
	orphan, err := strategy.NewOrphanDeinterlace(opts.Toolkit, opts.Threshold,
		strategy.WithClassifier(opts.Classifier),
		strategy.WithDeinterlaceUnscored(opts.DeinterlaceUnscored),
		strategy.WithOrphanLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	p := &Processor{
		logger:  logger,
		toolkit: opts.Toolkit,
		orphans: orphan,
		extra:   opts.Strategies,
	}
	if strings.TrimSpace(opts.FieldOrder) != "" {
		order, err := clip.ParseFieldOrder(opts.FieldOrder)
		if err != nil {
			return nil, err
		}
		p.fieldOrder = &order
	}
	return p, nil
}

// OptionsFromConfig maps the [orphans] section onto processor options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, fmt.Errorf("config is required")
	}
	symbols := make([]annotations.Match, 0, len(cfg.Orphans.Symbols))
	for _, value := range cfg.Orphans.Symbols {
		symbol, err := annotations.ParseMatch(value)
		if err != nil {
			return Options{}, err
		}
		symbols = append(symbols, symbol)
	}
	classifier, err := orphans.NewClassifier(symbols...)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Threshold:           cfg.Orphans.Threshold,
		Classifier:          classifier,
		DeinterlaceUnscored: cfg.Orphans.DeinterlaceUnscored,
		FieldOrder:          cfg.Orphans.FieldOrder,
	}, nil
}

// OrphanStrategy returns the configured orphan strategy.
func (p *Processor) OrphanStrategy() *strategy.OrphanDeinterlace {
	return p.orphans
}

// Pipeline assembles the strategies for proj: freeze frames, orphan
// deinterlacing when the project has matches, section presets, custom lists,
// then any extra strategies.
func (p *Processor) Pipeline(proj *project.Project) (*strategy.Pipeline, error) {
	pipeline := strategy.New(strategy.WithLogger(p.logger))
	if err := pipeline.Register(strategy.NewFreezeFramesStrategy(p.toolkit)); err != nil {
		return nil, err
	}
	if proj.Matches != nil {
		if err := pipeline.Register(p.orphans); err != nil {
			return nil, err
		}
	}
	sectionLists, err := proj.SectionLists()
	if err != nil {
		return nil, err
	}
	if err := pipeline.Register(strategy.CustomListStrategies(sectionLists, p.toolkit)...); err != nil {
		return nil, err
	}
	if err := pipeline.Register(strategy.CustomListStrategies(proj.CustomLists, p.toolkit)...); err != nil {
		return nil, err
	}
	if err := pipeline.Register(p.extra...); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// Run processes source according to proj. Orphans are reconciled on the
// source before field matching so the matcher sees the revised matches.
func (p *Processor) Run(ctx context.Context, source clip.Sequence, proj *project.Project) (Result, error) {
	if proj == nil {
		return Result{}, fmt.Errorf("project is required")
	}
	if source == nil {
		return Result{}, fmt.Errorf("source sequence is required")
	}
	started := time.Now()
	if proj.Path != "" {
		ctx = services.WithProject(ctx, proj.Path)
	}
	logger := logging.WithContext(ctx, p.logger)
	if p.fieldOrder != nil {
		proj.FieldOrder = *p.fieldOrder
	}
	if proj.Matches != nil && source.Len() != proj.Matches.Len() {
		return Result{}, annotations.NewValidationError(annotations.KindOutOfBounds, "matches", -1,
			"source has %d frames but the project has %d matches", source.Len(), proj.Matches.Len())
	}
	if err := p.requireCapabilities(proj); err != nil {
		return Result{}, err
	}

	pipeline, err := p.Pipeline(proj)
	if err != nil {
		return Result{}, err
	}
	plan, err := pipeline.Plan()
	if err != nil {
		return Result{}, err
	}
	names := make([]string, 0, len(plan))
	for _, s := range plan {
		names = append(names, s.Name())
	}

	logger.Info("processing started",
		logging.String(logging.FieldEventType, "process_start"),
		logging.Int("source_frames", source.Len()),
		logging.String("field_order", proj.FieldOrder.String()),
		logging.Int("strategies", len(plan)))

	seq, err := pipeline.ApplyPosition(ctx, annotations.PostSource, source, proj)
	if err != nil {
		return Result{}, err
	}

	if proj.Matches != nil {
		if proj.Reconciled != nil {
			logger.Debug("orphans already reconciled", logging.Int("deinterlace", len(proj.Reconciled.Deinterlace)))
		} else {
			reconciled, err := p.orphans.Reconcile(services.WithStage(ctx, "reconcile"), seq, proj)
			if err != nil {
				return Result{}, err
			}
			warnUnscored(logger, reconciled)
		}
		if seq, err = MatchFields(p.toolkit, seq, proj); err != nil {
			return Result{}, err
		}
	}

	if seq, err = pipeline.ApplyPosition(ctx, annotations.PostFieldMatch, seq, proj); err != nil {
		return Result{}, err
	}
	if seq, err = pipeline.ApplyPosition(ctx, annotations.PreDecimate, seq, proj); err != nil {
		return Result{}, err
	}
	if proj.Decimations.Len() > 0 {
		if seq, err = p.toolkit.Decimator.DeleteFrames(seq, proj.Decimations.Frames()); err != nil {
			return Result{}, services.Wrap(services.ErrExternalTool, "decimate", "delete frames", "", err)
		}
	}
	if seq, err = pipeline.ApplyPosition(ctx, annotations.PostDecimate, seq, proj); err != nil {
		return Result{}, err
	}

	result := Result{
		Output:     seq,
		Reconciled: proj.Reconciled,
		Plan:       names,
		Keyframes:  proj.Keyframes(),
		Elapsed:    time.Since(started),
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "process_complete"),
		logging.Int("output_frames", seq.Len()),
		logging.Duration("elapsed", result.Elapsed),
	}
	if result.Reconciled != nil {
		attrs = append(attrs, logging.Int("orphans_deinterlaced", len(result.Reconciled.Deinterlace)))
	}
	logger.Info("processing complete", logging.Args(attrs...)...)
	return result, nil
}

// warnUnscored reports orphans decided by policy because their neighbour
// lies outside the clip.
func warnUnscored(logger *slog.Logger, result orphans.Result) {
	var frames []int
	for _, d := range result.Decisions {
		if !d.Scored {
			frames = append(frames, d.Frame)
		}
	}
	if len(frames) == 0 {
		return
	}
	logging.WarnWithContext(logger, "orphans decided without a score", "orphan_unscored",
		logging.Int("count", len(frames)),
		logging.String("frames", annotations.FormatRanges(annotations.RangesFromFrames(frames))),
		logging.String(logging.FieldErrorHint, "set orphans.deinterlace_unscored to change the policy"),
		logging.String(logging.FieldImpact, "these frames follow the unscored policy instead of a similarity check"))
}

// requireCapabilities fails before any work when a stage the project needs
// has no runtime support.
func (p *Processor) requireCapabilities(proj *project.Project) error {
	var required []clip.Capability
	if proj.Matches != nil {
		required = append(required, clip.CapFieldMatcher, clip.CapFieldSeparator, clip.CapSimilarityOracle, clip.CapDeinterlacer)
	}
	if proj.Decimations.Len() > 0 {
		required = append(required, clip.CapDecimator)
	}
	if len(proj.FreezeFrames) > 0 {
		required = append(required, clip.CapFrameFreezer)
	}
	sectionLists, err := proj.SectionLists()
	if err != nil {
		return err
	}
	if len(proj.CustomLists) > 0 || len(sectionLists) > 0 {
		required = append(required, clip.CapPresetRunner)
	}
	return p.toolkit.Require(required...)
}
