package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agent-king/bibliography/internal/evaluation"
	"github.com/agent-king/bibliography/internal/merger"
	"github.com/agent-king/bibliography/internal/titles"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPath   string
		threshold     float64
		sweep         []float64
		minBaseLength int
		outputJSON    string
		outputReport  string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure title matching against a labeled dataset",
		Long: `Runs every labeled case of a JSONL dataset through the same existence and
similarity checks a run applies, and reports precision and recall.

With --sweep the dataset is evaluated once per threshold and a CSV table is
printed instead of the summary.`,
		Example: `  agentking eval --dataset internal/evaluation/testdata/cases.jsonl
  agentking eval --dataset cases.jsonl --sweep 0.75,0.8,0.85,0.9,0.95`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := evaluation.LoadDataset(datasetPath)
			if err != nil {
				return err
			}
			slog.Info("Evaluating title matching", "cases", len(cases))

			if len(sweep) > 0 {
				return writeSweep(cmd.OutOrStdout(), evaluation.Sweep(cases, sweep, minBaseLength))
			}

			agg := evaluation.Evaluate(cases, threshold, minBaseLength)
			agg.PrintSummary(cmd.OutOrStdout())

			if outputJSON != "" {
				if err := agg.SaveToJSON(outputJSON); err != nil {
					return err
				}
				slog.Info("Saved results", "path", outputJSON)
			}
			if outputReport != "" {
				if err := agg.SaveDetailedReport(outputReport); err != nil {
					return err
				}
				slog.Info("Saved report", "path", outputReport)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the JSONL dataset (required)")
	cmd.Flags().Float64Var(&threshold, "threshold", titles.DefaultThreshold, "Similarity threshold")
	cmd.Flags().Float64SliceVar(&sweep, "sweep", nil, "Evaluate each of these thresholds and print a CSV table")
	cmd.Flags().IntVar(&minBaseLength, "min-base-length", merger.DefaultMinBaseLength, "Shortest shared base treated as the same work")
	cmd.Flags().StringVar(&outputJSON, "output-json", "", "Write the full results as JSON")
	cmd.Flags().StringVar(&outputReport, "output-report", "", "Write misjudged cases to a text report")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func writeSweep(w io.Writer, aggs []*evaluation.Aggregate) error {
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"threshold", "precision", "recall", "f1", "accuracy", "false_positives", "false_negatives"})

	format := func(f float64) string { return strconv.FormatFloat(f, 'f', 3, 64) }
	for _, a := range aggs {
		if err := writer.Write([]string{
			format(a.Threshold),
			format(a.Precision),
			format(a.Recall),
			format(a.F1),
			format(a.Accuracy),
			strconv.Itoa(a.FalsePositives),
			strconv.Itoa(a.FalseNegatives),
		}); err != nil {
			return fmt.Errorf("failed to write sweep row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
