package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agent-king/bibliography/internal/merger"
	"github.com/agent-king/bibliography/internal/titles"
)

// Result is the outcome of one case.
type Result struct {
	Case      Case    `json:"case"`
	Predicted bool    `json:"predicted"`
	Rule      string  `json:"rule"`
	Key       string  `json:"key"`
	Match     string  `json:"match,omitempty"`
	BestRatio float64 `json:"best_ratio"`
}

// Correct reports whether the prediction matches the label.
func (r Result) Correct() bool {
	return r.Predicted == r.Case.Duplicate
}

// Aggregate holds the confusion matrix of one configuration.
type Aggregate struct {
	Threshold     float64 `json:"threshold"`
	MinBaseLength int     `json:"min_base_length"`

	Total          int `json:"total"`
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Accuracy  float64 `json:"accuracy"`

	// ByRule counts predicted duplicates per matching rule.
	ByRule map[string]int `json:"by_rule"`

	Results        []Result  `json:"results"`
	EvaluationDate time.Time `json:"evaluation_date"`
}

// Judge runs a single case through the same checks a run applies: the merge
// existence rules, then fuzzy matching of the normalized title.
func Judge(c Case, threshold float64, minBaseLength int) Result {
	key := titles.Normalize(c.Title)
	r := Result{Case: c, Key: key, Rule: "none"}

	if exists, tier := merger.Exists(key, merger.NewProjection(c.Known), minBaseLength); exists {
		r.Predicted = true
		r.Rule = tier.String()
	}

	for _, k := range c.Known {
		otherKey := titles.Normalize(k)
		if ratio := titles.Ratio(key, otherKey); ratio > r.BestRatio {
			r.BestRatio = ratio
			r.Match = k
		}
	}

	if !r.Predicted {
		if _, ok := titles.NewKnownSet(c.Known...).SimilarKeyAt(key, threshold); ok {
			r.Predicted = true
			r.Rule = "similar"
		}
	}
	return r
}

// Evaluate judges every case with one configuration.
func Evaluate(cases []Case, threshold float64, minBaseLength int) *Aggregate {
	agg := &Aggregate{
		Threshold:      threshold,
		MinBaseLength:  minBaseLength,
		Total:          len(cases),
		ByRule:         make(map[string]int),
		Results:        make([]Result, 0, len(cases)),
		EvaluationDate: time.Now(),
	}

	for _, c := range cases {
		r := Judge(c, threshold, minBaseLength)
		agg.Results = append(agg.Results, r)

		switch {
		case r.Predicted && c.Duplicate:
			agg.TruePositives++
		case r.Predicted && !c.Duplicate:
			agg.FalsePositives++
		case !r.Predicted && c.Duplicate:
			agg.FalseNegatives++
		default:
			agg.TrueNegatives++
		}
		if r.Predicted {
			agg.ByRule[r.Rule]++
		}
	}

	agg.Precision = ratio(agg.TruePositives, agg.TruePositives+agg.FalsePositives)
	agg.Recall = ratio(agg.TruePositives, agg.TruePositives+agg.FalseNegatives)
	if agg.Precision+agg.Recall > 0 {
		agg.F1 = 2 * agg.Precision * agg.Recall / (agg.Precision + agg.Recall)
	}
	agg.Accuracy = ratio(agg.TruePositives+agg.TrueNegatives, agg.Total)
	return agg
}

// Sweep evaluates the cases once per threshold.
func Sweep(cases []Case, thresholds []float64, minBaseLength int) []*Aggregate {
	out := make([]*Aggregate, 0, len(thresholds))
	for _, t := range thresholds {
		out = append(out, Evaluate(cases, t, minBaseLength))
	}
	return out
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// PrintSummary writes a human-readable summary of the evaluation
func (a *Aggregate) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "TITLE MATCHING EVALUATION")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Threshold: %.2f, Min Base Length: %d\n", a.Threshold, a.MinBaseLength)
	fmt.Fprintf(w, "Cases: %d\n", a.Total)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CONFUSION MATRIX")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "True Positives:  %d\n", a.TruePositives)
	fmt.Fprintf(w, "False Positives: %d\n", a.FalsePositives)
	fmt.Fprintf(w, "True Negatives:  %d\n", a.TrueNegatives)
	fmt.Fprintf(w, "False Negatives: %d\n", a.FalseNegatives)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SCORES")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Precision: %.3f\n", a.Precision)
	fmt.Fprintf(w, "Recall:    %.3f\n", a.Recall)
	fmt.Fprintf(w, "F1:        %.3f\n", a.F1)
	fmt.Fprintf(w, "Accuracy:  %.2f%%\n", a.Accuracy*100)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// SaveToJSON saves the aggregate results to a JSON file
func (a *Aggregate) SaveToJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}
	return nil
}

// SaveDetailedReport writes every misjudged case.
func (a *Aggregate) SaveDetailedReport(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	separator := strings.Repeat("=", 80)
	fmt.Fprintf(file, "TITLE MATCHING DETAILED REPORT\n")
	fmt.Fprintf(file, "Generated: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Threshold: %.2f, Min Base Length: %d\n", a.Threshold, a.MinBaseLength)
	fmt.Fprintf(file, "%s\n\n", separator)

	for _, r := range a.Results {
		if r.Correct() {
			continue
		}
		fmt.Fprintf(file, "CASE %s: %s\n", r.Case.ID, r.Case.Title)
		fmt.Fprintf(file, "  Key:       %q\n", r.Key)
		fmt.Fprintf(file, "  Expected:  duplicate=%v\n", r.Case.Duplicate)
		fmt.Fprintf(file, "  Predicted: duplicate=%v (%s)\n", r.Predicted, r.Rule)
		fmt.Fprintf(file, "  Closest:   %q ratio=%.3f\n", r.Match, r.BestRatio)
		if r.Case.Note != "" {
			fmt.Fprintf(file, "  Note:      %s\n", r.Case.Note)
		}
		fmt.Fprintln(file)
	}
	return nil
}
