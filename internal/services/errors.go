package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrUnknownMatchSymbol    = errors.New("unknown match symbol")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrStrategy              = errors.New("strategy failed")
	ErrExternalTool          = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a failure to the process exit status reported by the CLI.
// Input problems (validation, corrupt match data) exit with 2, a missing
// runtime capability with 3, everything else with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownMatchSymbol):
		return 2
	case errors.Is(err, ErrDependencyUnavailable):
		return 3
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
