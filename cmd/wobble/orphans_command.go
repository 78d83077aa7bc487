package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wobble/internal/process"
)

type orphanReport struct {
	Project string           `json:"project"`
	Frames  int              `json:"frames"`
	Total   int              `json:"total"`
	Orphans map[string][]int `json:"orphans"`
}

func newOrphansCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "orphans <project>",
		Short: "List the orphan fields of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := process.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			proj, _, err := loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			matches, err := proj.RequireMatches()
			if err != nil {
				return err
			}
			groups, err := opts.Classifier.Classify(matches)
			if err != nil {
				return err
			}

			report := orphanReport{
				Project: proj.Path,
				Frames:  matches.Len(),
				Total:   groups.Len(),
				Orphans: make(map[string][]int),
			}
			symbols := opts.Classifier.Symbols()
			rows := make([][]string, 0, len(symbols))
			for _, symbol := range symbols {
				frames := groups.For(symbol)
				report.Orphans[symbol.String()] = append([]int{}, frames...)
				rows = append(rows, []string{symbol.String(), strconv.Itoa(len(frames)), rangesOrDash(frames)})
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d orphan fields in %d frames\n", proj.InputFile, report.Total, report.Frames)
			fmt.Fprintln(out, renderTable([]string{"Match", "Count", "Frames"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
