package strategy

import (
	"context"
	"fmt"

	"wobble/internal/annotations"
	"wobble/internal/clip"
	"wobble/internal/project"
	"wobble/internal/services"
)

// Strategy transforms a sequence at a fixed pipeline position.
type Strategy interface {
	Name() string
	Position() annotations.Position
	// Apply returns a new sequence. It must not mutate seq.
	Apply(ctx context.Context, seq clip.Sequence, proj *project.Project) (clip.Sequence, error)
}

// StrategyError reports the strategy that aborted a pipeline run.
type StrategyError struct {
	Name     string
	Position annotations.Position
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %q (%s): %v", e.Name, e.Position, e.Err)
}

// Unwrap exposes both services.ErrStrategy and the underlying cause.
func (e *StrategyError) Unwrap() []error {
	return []error{services.ErrStrategy, e.Err}
}
