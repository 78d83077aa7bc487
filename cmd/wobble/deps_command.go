package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wobble/internal/deps"
	"wobble/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools used by wobble",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			fmt.Fprintln(out, "Dependencies:")
			for _, status := range statuses {
				kind := statusOK
				message := status.Path
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, status.Name)
				}
				return services.Wrap(services.ErrDependencyUnavailable, "deps", "check", strings.Join(names, ", "), nil)
			}
			return nil
		},
	}
}
