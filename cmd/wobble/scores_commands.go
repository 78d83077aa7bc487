package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wobble/internal/scorecache"
)

func newScoresCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "Manage the field difference score cache",
	}
	scoresCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Score cache database (defaults to paths.score_cache)")

	open := func() (*scorecache.Store, error) {
		if path := strings.TrimSpace(dbPath); path != "" {
			return scorecache.Open(path)
		}
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		store, err := scorecache.OpenFromConfig(cfg)
		if errors.Is(err, scorecache.ErrDisabled) {
			return nil, fmt.Errorf("%w: set paths.score_cache or pass --db", err)
		}
		return store, err
	}

	scoresCmd.AddCommand(newScoresImportCommand(open))
	scoresCmd.AddCommand(newScoresListCommand(open))
	scoresCmd.AddCommand(newScoresClearCommand(open))
	return scoresCmd
}

type storeOpener func() (*scorecache.Store, error)

func newScoresImportCommand(open storeOpener) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import frame,neighbor,score rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open scores: %w", err)
			}
			defer file.Close()

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(cmd.Context(), source, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scores for %s\n", n, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source key, usually the project's input file")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newScoresListCommand(open storeOpener) *cobra.Command {
	var source string
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached sources, or the scores of one source",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if strings.TrimSpace(source) == "" {
				sources, err := store.Sources(cmd.Context())
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					fmt.Fprintln(out, "Score cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(sources))
				for _, s := range sources {
					recorded := "-"
					if !s.RecordedAt.IsZero() {
						recorded = s.RecordedAt.Local().Format(time.DateTime)
					}
					rows = append(rows, []string{s.Source, strconv.Itoa(s.Count), recorded})
				}
				fmt.Fprintln(out, renderTable([]string{"Source", "Scores", "Updated"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
				return nil
			}

			scores, err := store.List(cmd.Context(), source)
			if err != nil {
				return err
			}
			if asCSV {
				return scorecache.WriteCSV(out, scores)
			}
			rows := make([][]string, 0, len(scores))
			for _, s := range scores {
				rows = append(rows, []string{strconv.Itoa(s.Frame), strconv.Itoa(s.Neighbor), strconv.FormatFloat(s.Score, 'f', 6, 64)})
			}
			fmt.Fprintln(out, renderTable([]string{"Frame", "Neighbor", "Score"}, rows, []columnAlignment{alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Only list scores of this source")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write scores as CSV")
	return cmd
}

func newScoresClearCommand(open storeOpener) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the scores of one source",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Delete(cmd.Context(), source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d scores for %s\n", removed, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source key")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
