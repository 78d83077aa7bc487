package strategy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/logging"
	"wobble/internal/project"
	"wobble/internal/services"
)

var (
	ErrDuplicateStrategy = errors.New("strategy already registered")
	ErrInvalidStrategy   = errors.New("invalid strategy")
)

// positionColors are the DOT fill colours per position.
var positionColors = map[annotations.Position][3]uint8{
	annotations.PostSource:     {0xcf, 0xe8, 0xfc},
	annotations.PostFieldMatch: {0xd4, 0xf4, 0xd2},
	annotations.PreDecimate:    {0xff, 0xe9, 0xb3},
	annotations.PostDecimate:   {0xf8, 0xcf, 0xd4},
}

// Pipeline holds strategies in registration order.
type Pipeline struct {
	strategies []Strategy
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New builds an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Register appends strategies. Names must be unique and positions valid.
func (p *Pipeline) Register(strategies ...Strategy) error {
	for _, s := range strategies {
		if s == nil {
			return errors.Wrap(ErrInvalidStrategy, "nil strategy")
		}
		if !s.Position().Valid() {
			return errors.Wrapf(ErrInvalidStrategy, "%s: position %d", s.Name(), int(s.Position()))
		}
		for _, existing := range p.strategies {
			if existing.Name() == s.Name() {
				return errors.Wrap(ErrDuplicateStrategy, s.Name())
			}
		}
		p.strategies = append(p.strategies, s)
	}
	return nil
}

// Len returns the number of registered strategies.
func (p *Pipeline) Len() int {
	return len(p.strategies)
}

func positionVertex(position annotations.Position) string {
	return "position:" + position.String()
}

func strategyVertex(s Strategy) string {
	return "strategy:" + s.Name()
}

// buildGraph links each position barrier to its strategies and to the next
// barrier; strategies sharing a position are chained in registration order.
func (p *Pipeline) buildGraph() (graph.Graph[string, string], map[string]int, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic())
	rank := make(map[string]int)

	positions := annotations.Positions()
	for i, position := range positions {
		fill, err := fillColor(position)
		if err != nil {
			return nil, nil, err
		}
		vertex := positionVertex(position)
		if err := g.AddVertex(vertex,
			graph.VertexAttribute("shape", "box"),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill),
		); err != nil {
			return nil, nil, errors.Wrap(err, "add position vertex")
		}
		rank[vertex] = -len(positions) + i
		if i > 0 {
			if err := g.AddEdge(positionVertex(positions[i-1]), vertex); err != nil {
				return nil, nil, errors.Wrap(err, "link positions")
			}
		}
	}

	last := make(map[annotations.Position]string)
	for i, s := range p.strategies {
		position := s.Position()
		fill, err := fillColor(position)
		if err != nil {
			return nil, nil, err
		}
		vertex := strategyVertex(s)
		if err := g.AddVertex(vertex,
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill),
		); err != nil {
			return nil, nil, errors.Wrapf(err, "add strategy vertex %s", s.Name())
		}
		rank[vertex] = i

		from := positionVertex(position)
		if prev, ok := last[position]; ok {
			from = prev
		}
		if err := g.AddEdge(from, vertex); err != nil {
			return nil, nil, errors.Wrapf(err, "order strategy %s", s.Name())
		}
		if position < annotations.PostDecimate {
			if err := g.AddEdge(vertex, positionVertex(position+1)); err != nil {
				return nil, nil, errors.Wrapf(err, "bound strategy %s", s.Name())
			}
		}
		last[position] = vertex
	}
	return g, rank, nil
}

func fillColor(position annotations.Position) (string, error) {
	rgb := positionColors[position]
	c, err := colors.RGB(rgb[0], rgb[1], rgb[2])
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return c.ToHEX().String(), nil
}

// Plan returns the strategies in application order.
func (p *Pipeline) Plan() ([]Strategy, error) {
	g, rank, err := p.buildGraph()
	if err != nil {
		return nil, err
	}
	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return rank[a] < rank[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "order strategies")
	}

	byVertex := make(map[string]Strategy, len(p.strategies))
	for _, s := range p.strategies {
		byVertex[strategyVertex(s)] = s
	}
	plan := make([]Strategy, 0, len(p.strategies))
	for _, vertex := range order {
		if s, ok := byVertex[vertex]; ok {
			plan = append(plan, s)
		}
	}
	return plan, nil
}

// ApplyPosition applies the strategies registered at position in order.
// On failure the unmodified input is returned with a *StrategyError.
func (p *Pipeline) ApplyPosition(ctx context.Context, position annotations.Position, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	plan, err := p.Plan()
	if err != nil {
		return seq, err
	}
	var selected []Strategy
	for _, s := range plan {
		if s.Position() == position {
			selected = append(selected, s)
		}
	}
	return p.run(ctx, selected, seq, proj)
}

// ApplyAll applies every strategy, position by position. On failure the
// unmodified input is returned with a *StrategyError.
func (p *Pipeline) ApplyAll(ctx context.Context, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	plan, err := p.Plan()
	if err != nil {
		return seq, err
	}
	return p.run(ctx, plan, seq, proj)
}

func (p *Pipeline) run(ctx context.Context, plan []Strategy, seq clip.Sequence, proj *project.Project) (clip.Sequence, error) {
	current := seq
	for _, s := range plan {
		stageCtx := services.WithStage(ctx, s.Position().String())
		logger := logging.WithContext(stageCtx, p.logger)
		started := time.Now()

		next, err := s.Apply(stageCtx, current, proj)
		if err != nil {
			logging.ErrorWithContext(logger, "strategy failed", "strategy_failed",
				logging.Strategy(s.Name()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the reported input or drop the strategy and rerun"))
			return seq, &StrategyError{Name: s.Name(), Position: s.Position(), Err: err}
		}
		if next == nil {
			return seq, &StrategyError{Name: s.Name(), Position: s.Position(), Err: errors.New("strategy returned no sequence")}
		}
		logger.Debug("strategy applied",
			logging.Strategy(s.Name()),
			logging.Int("frames", next.Len()),
			logging.Duration("elapsed", time.Since(started)))
		current = next
	}
	return current, nil
}

// WriteDOT renders the ordering graph in Graphviz DOT format.
func (p *Pipeline) WriteDOT(w io.Writer) error {
	g, _, err := p.buildGraph()
	if err != nil {
		return err
	}
	if err := draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return fmt.Errorf("render pipeline graph: %w", err)
	}
	return nil
}
