package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agent-king/bibliography/internal/config"
)

func newExtractCmd(root *rootOptions) *cobra.Command {
	var sections []string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the candidates scraped from Wikipedia",
		Example: `  agentking extract
  agentking extract --section Novels`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			fetcher := newWikipediaSource(cfg)
			if len(sections) > 0 {
				fetcher.Sections = sections
			}

			candidates, err := fetcher.Fetch(cmd.Context(), nil)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(candidates)
			if err != nil {
				return fmt.Errorf("failed to marshal YAML: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&sections, "section", nil, "Page section to extract (repeatable)")

	return cmd
}
