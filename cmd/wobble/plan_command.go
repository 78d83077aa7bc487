package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wobble/internal/clip"
	"wobble/internal/clipgraph"
	"wobble/internal/orphans"
	"wobble/internal/process"
	"wobble/internal/project"
	"wobble/internal/scorecache"
)

type decisionJSON struct {
	Frame    int      `json:"frame"`
	Match    string   `json:"match"`
	Neighbor int      `json:"neighbor"`
	Score    *float64 `json:"score,omitempty"`
	Action   string   `json:"action"`
}

type planReport struct {
	Project         string         `json:"project"`
	Threshold       float64        `json:"threshold"`
	Decisions       []decisionJSON `json:"decisions"`
	Deinterlace     string         `json:"deinterlace"`
	Matches         string         `json:"matches,omitempty"`
	OriginalMatches string         `json:"original_matches,omitempty"`
	Keyframes       []int          `json:"keyframes"`
	Strategies      []string       `json:"strategies"`
	OutputFrames    int            `json:"output_frames"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		threshold  float64
		scoresPath string
		source     string
		asDOT      bool
		asJSON     bool
		showGraph  bool
	)

	cmd := &cobra.Command{
		Use:   "plan <project>",
		Short: "Replay orphan decisions from cached scores and show the processing plan",
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
			if cmd.Flags().Changed("threshold") {
				opts.Threshold = threshold
			}
			proj, runCtx, err := loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			logger, done, err := ctx.openLogger(cmd)
			if err != nil {
				return err
			}
			defer done()
			opts.Logger = logger

			var oracle clip.SimilarityOracle
			cachePath := strings.TrimSpace(scoresPath)
			if cachePath == "" {
				cachePath = cfg.Paths.ScoreCache
			}
			if cachePath != "" {
				store, err := scorecache.Open(cachePath)
				if err != nil {
					return err
				}
				defer store.Close()
				key := strings.TrimSpace(source)
				if key == "" {
					key = proj.InputFile
				}
				oracle = scorecache.NewOracle(runCtx, store, key)
			}
			opts.Toolkit = clipgraph.Toolkit(oracle)

			processor, err := process.New(opts)
			if err != nil {
				return err
			}
			if asDOT {
				pipeline, err := processor.Pipeline(proj)
				if err != nil {
					return err
				}
				return pipeline.WriteDOT(cmd.OutOrStdout())
			}

			result, err := processor.Run(runCtx, clipgraph.Source(proj.InputFile, proj.FrameCount()), proj)
			if err != nil {
				return err
			}
			report := buildPlanReport(proj, result, opts.Threshold)
			if asJSON {
				return writeJSON(cmd, report)
			}
			renderPlan(cmd, processor, proj, result, report, showGraph)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", float64(orphans.DefaultThreshold), "Difference score at or above which an orphan is deinterlaced")
	cmd.Flags().StringVar(&scoresPath, "scores", "", "Score cache database (defaults to paths.score_cache)")
	cmd.Flags().StringVar(&source, "source", "", "Score cache source key (defaults to the project's input file)")
	cmd.Flags().BoolVar(&asDOT, "dot", false, "Print the strategy ordering graph in DOT format")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&showGraph, "graph", false, "Print the symbolic processing graph")
	return cmd
}

func buildPlanReport(proj *project.Project, result process.Result, threshold float64) planReport {
	report := planReport{
		Project:      proj.Path,
		Threshold:    threshold,
		Decisions:    []decisionJSON{},
		Keyframes:    result.Keyframes,
		Strategies:   result.Plan,
		OutputFrames: result.Output.Len(),
	}
	if report.Keyframes == nil {
		report.Keyframes = []int{}
	}
	if proj.Matches != nil {
		report.Matches = proj.Matches.String()
		report.OriginalMatches = proj.Matches.OriginalString()
	}
	if result.Reconciled != nil {
		for _, d := range result.Reconciled.Decisions {
			entry := decisionJSON{Frame: d.Frame, Match: d.Match.String(), Neighbor: d.Neighbor, Action: string(d.Action)}
			if d.Scored {
				score := d.Score
				entry.Score = &score
			}
			report.Decisions = append(report.Decisions, entry)
		}
		if len(result.Reconciled.Deinterlace) > 0 {
			report.Deinterlace = rangesOrDash(result.Reconciled.Deinterlace)
		}
	}
	return report
}

func renderPlan(cmd *cobra.Command, processor *process.Processor, proj *project.Project, result process.Result, report planReport, showGraph bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", proj.Path)
	fmt.Fprintf(out, "Threshold: %g\n", report.Threshold)

	if len(report.Decisions) > 0 {
		rows := make([][]string, 0, len(report.Decisions))
		for _, d := range report.Decisions {
			score := "-"
			if d.Score != nil {
				score = strconv.FormatFloat(*d.Score, 'f', 6, 64)
			}
			rows = append(rows, []string{strconv.Itoa(d.Frame), d.Match, strconv.Itoa(d.Neighbor), score, d.Action})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Frame", "Match", "Neighbor", "Score", "Action"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		))
	} else {
		fmt.Fprintln(out, "No orphan fields")
	}

	deinterlace := report.Deinterlace
	if deinterlace == "" {
		deinterlace = "-"
	}
	fmt.Fprintf(out, "Deinterlace: %s\n", deinterlace)
	if report.Matches != "" {
		fmt.Fprintf(out, "Matches: %s\n", report.Matches)
	}
	fmt.Fprintf(out, "Keyframes: %s\n", joinInts(report.Keyframes))
	fmt.Fprintf(out, "Output frames: %d\n", report.OutputFrames)

	if pipeline, err := processor.Pipeline(proj); err == nil {
		if plan, err := pipeline.Plan(); err == nil && len(plan) > 0 {
			rows := make([][]string, 0, len(plan))
			for i, s := range plan {
				rows = append(rows, []string{strconv.Itoa(i + 1), positionLabel(s.Position()), s.Name()})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Position", "Strategy"}, rows, []columnAlignment{alignRight}))
		}
	}

	if showGraph {
		if node, ok := result.Output.(*clipgraph.Node); ok {
			_ = clipgraph.Render(out, node)
		}
	}
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
