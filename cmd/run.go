package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agent-king/bibliography/internal/config"
	"github.com/agent-king/bibliography/internal/results"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	var reportDir string
	var exportPath string
	var skipCompletion bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation pass",
		Long: `Collects candidates from every enabled source, merges them against the
catalog, adds the translated ones, completes incomplete rows, sorts every tab
and mails a summary.`,
		Example: `  # Full run against the configured spreadsheet
  agentking run

  # See what would be added without writing anything
  agentking run --dry-run --verbose

  # Keep the accepted books as parquet
  agentking run --export added.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if reportDir != "" {
				cfg.ReportDir = reportDir
			}

			runner, err := newRunner(cmd.Context(), cfg, dryRun)
			if err != nil {
				return err
			}
			runner.SkipCompletion = skipCompletion

			report, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			if cfg.ReportDir != "" {
				_, err := results.SaveYAML(cfg.ReportDir, results.RunConfig{
					Provider: cfg.Analysis.Provider,
					Model:    cfg.Analysis.Model,
					Sources:  sourceNames(runner),
					DryRun:   dryRun,
				}, report)
				if err != nil {
					slog.Error("Failed to save run report", "error", err)
				}
			}

			if exportPath != "" {
				if err := results.SaveBooks(exportPath, report.Added); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d added, %d completed, %d skipped\n",
				len(report.Added), report.Completed, len(report.Skipped))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read the catalog but do not write to it or send mail")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for run reports (defaults to the config value)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write added books to a .parquet or .jsonl file")
	cmd.Flags().BoolVar(&skipCompletion, "skip-completion", false, "Do not complete incomplete rows")

	return cmd
}
