package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agent-king/bibliography/internal/merger"
	"github.com/agent-king/bibliography/internal/titles"
)

func newCheckCmd() *cobra.Command {
	var against []string
	var minBaseLength int

	cmd := &cobra.Command{
		Use:   "check <title>",
		Short: "Show how a title is normalized and matched",
		Args:  cobra.ExactArgs(1),
		Example: `  agentking check "The Stand: Complete & Uncut" --against "The Stand"
  agentking check "La Clar des vents" --against "La Clé des vents"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			key := titles.Normalize(args[0])

			fmt.Fprintf(out, "key:  %q\n", key)
			fmt.Fprintf(out, "base: %q\n", titles.BaseTitle(key))

			if len(against) == 0 {
				return nil
			}

			exists, tier := merger.Exists(key, merger.NewProjection(against), minBaseLength)
			fmt.Fprintf(out, "exists: %v (%s)\n", exists, tier)

			for _, other := range against {
				otherKey := titles.Normalize(other)
				fmt.Fprintf(out, "  %q -> %q ratio=%.3f similar=%v\n",
					other, otherKey, titles.Ratio(key, otherKey), titles.Similar(key, otherKey))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&against, "against", nil, "Known title to compare with (repeatable)")
	cmd.Flags().IntVar(&minBaseLength, "min-base-length", merger.DefaultMinBaseLength, "Shortest shared base treated as the same work")

	return cmd
}
