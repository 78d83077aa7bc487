package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wobble/internal/media/ffprobe"
	"wobble/internal/project"
)

const probeConcurrency = 4

type probeRow struct {
	project    string
	input      string
	expected   int
	frames     int
	exact      bool
	order      string
	wantOrder  string
	mismatched bool
	err        error
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var countFrames bool

	cmd := &cobra.Command{
		Use:   "probe <project>...",
		Short: "Check project inputs against ffprobe's frame count and field order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			binary := cfg.FFprobeBinary()

			rows := make([]probeRow, len(args))
			group, groupCtx := errgroup.WithContext(cmd.Context())
			group.SetLimit(probeConcurrency)
			for i, path := range args {
				group.Go(func() error {
					rows[i] = probeProject(groupCtx, binary, path, countFrames)
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			tableRows := make([][]string, 0, len(rows))
			failed := 0
			for _, row := range rows {
				status := "ok"
				switch {
				case row.err != nil:
					status = row.err.Error()
					failed++
				case row.mismatched:
					status = "mismatch"
					failed++
				}
				frames := "-"
				if row.err == nil {
					frames = strconv.Itoa(row.frames)
					if !row.exact {
						frames = "~" + frames
					}
				}
				tableRows = append(tableRows, []string{
					filepath.Base(row.project),
					strconv.Itoa(row.expected),
					frames,
					row.wantOrder,
					orDash(row.order),
					status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Project", "Expected", "Frames", "Order", "Probed", "Status"},
				tableRows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d projects failed the probe", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&countFrames, "count-frames", false, "Decode the stream for an exact frame count")
	return cmd
}

func probeProject(ctx context.Context, binary, path string, countFrames bool) probeRow {
	row := probeRow{project: path}
	proj, err := project.Load(path)
	if err != nil {
		row.err = err
		return row
	}
	row.project = proj.Path
	row.expected = sourceFrames(proj)
	row.wantOrder = proj.FieldOrder.String()

	row.input = proj.InputFile
	if !filepath.IsAbs(row.input) {
		row.input = filepath.Join(filepath.Dir(proj.Path), row.input)
	}
	result, err := ffprobe.Inspect(ctx, binary, row.input, ffprobe.Options{CountFrames: countFrames})
	if err != nil {
		row.err = err
		return row
	}
	row.frames, row.exact = result.FrameCount()
	if order, ok := result.FieldOrder(); ok {
		row.order = order.String()
		row.mismatched = order != proj.FieldOrder
	}
	// Estimated counts are only compared when the inspection was exact.
	if row.exact && row.frames < row.expected {
		row.mismatched = true
	}
	return row
}

// sourceFrames is the smallest source length the project's trims and
// matches can address.
func sourceFrames(proj *project.Project) int {
	last := -1
	for _, r := range proj.Trim {
		if r.Last > last {
			last = r.Last
		}
	}
	if last < 0 {
		return proj.FrameCount()
	}
	return last + 1
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
