package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wobble/internal/process"
)

func newKeyframesCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "keyframes <project>",
		Short: "Write section starts on the decimated timeline as keyframes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, _, err := loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			keyframes := proj.Keyframes()

			target := strings.TrimSpace(outputPath)
			if target == "" || target == "-" {
				return process.WriteKeyframes(cmd.OutOrStdout(), keyframes)
			}
			if err := process.WriteKeyframesFile(target, keyframes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d keyframes to %s\n", len(keyframes), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Keyframe file (stdout when empty)")
	return cmd
}
