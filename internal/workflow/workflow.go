// Package workflow runs one reconciliation pass: collect candidates from
// every source, merge them against the catalog, have each one translated and
// filed, then complete and sort the catalog and send a summary.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agent-king/bibliography/internal/merger"
	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/notify"
	"github.com/agent-king/bibliography/internal/titles"
)

// Source produces candidate books. known lists the titles already in the
// catalog; sources may use it to narrow their answer.
type Source interface {
	Name() string
	Fetch(ctx context.Context, known []string) ([]models.Candidate, error)
}

// Analyzer translates, files and completes books.
type Analyzer interface {
	Categorize(ctx context.Context, c models.Candidate, known []string) (*models.Analysis, error)
	Complete(ctx context.Context, row models.IncompleteRow) (*models.Completion, error)
}

// Catalog is where accepted books live.
type Catalog interface {
	ExistingTitles(ctx context.Context) ([]string, error)
	AddBook(ctx context.Context, book models.Book) error
	IncompleteRows(ctx context.Context) ([]models.IncompleteRow, error)
	UpdateRow(ctx context.Context, tab string, row int, u models.RowUpdate) (bool, error)
	SortAll(ctx context.Context) error
}

// Runner wires the collaborators of a run.
type Runner struct {
	Catalog  Catalog
	Sources  []Source
	Analyzer Analyzer
	Notifier notify.Service
	Merger   *merger.Merger
	// Threshold is the similarity ratio used by the French title check. Zero
	// means titles.DefaultThreshold.
	Threshold float64
	// SkipCompletion disables the pass over incomplete rows.
	SkipCompletion bool
}

// Run executes one pass. Only a failure to read the catalog aborts the run;
// every other collaborator failure is logged and recorded in the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	existing, err := r.Catalog.ExistingTitles(ctx)
	if err != nil {
		return nil, err
	}
	known := titles.NewKnownSet(existing...)
	report.Known = known.Len()

	batches := r.collect(ctx, known.Titles(), report)

	m := r.Merger
	if m == nil {
		m = merger.New(merger.Options{})
	}
	candidates := m.Merge(batches, known.Titles())
	report.Candidates = len(candidates)

	if len(candidates) == 0 {
		slog.Info("No new books found")
		r.notify(ctx, nil)
		return report, nil
	}

	slog.Info("Processing candidates", "count", len(candidates))
	for _, c := range candidates {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		r.consider(ctx, c, known, report)
	}

	if !r.SkipCompletion {
		r.complete(ctx, report)
	}

	if err := r.Catalog.SortAll(ctx); err != nil {
		slog.Error("Failed to sort catalog", "error", err)
	}
	r.notify(ctx, report.Added)

	slog.Info("Run finished", "added", len(report.Added), "completed", report.Completed, "skipped", len(report.Skipped))
	return report, nil
}

// collect fetches every source concurrently. Results keep the order of
// r.Sources; a failed source contributes an empty batch.
func (r *Runner) collect(ctx context.Context, known []string, report *Report) [][]models.Candidate {
	batches := make([][]models.Candidate, len(r.Sources))
	failures := make([]string, len(r.Sources))

	var g errgroup.Group
	for i, src := range r.Sources {
		g.Go(func() error {
			candidates, err := src.Fetch(ctx, known)
			if err != nil {
				slog.Error("Source failed", "source", src.Name(), "error", err)
				failures[i] = err.Error()
				return nil
			}
			slog.Info("Source collected", "source", src.Name(), "candidates", len(candidates))
			batches[i] = candidates
			return nil
		})
	}
	_ = g.Wait()

	for i, src := range r.Sources {
		if failures[i] != "" {
			report.SourceErrors = append(report.SourceErrors, SourceError{Source: src.Name(), Error: failures[i]})
		}
	}
	return batches
}

// consider runs a candidate through analysis and the acceptance gate.
func (r *Runner) consider(ctx context.Context, c models.Candidate, known *titles.KnownSet, report *Report) {
	skip := func(reason Reason, detail string) {
		slog.Info("Skipping candidate", "title", c.Title, "reason", reason, "detail", detail)
		report.Skipped = append(report.Skipped, Skip{Title: c.Title, Reason: reason, Detail: detail})
	}

	analysis, err := r.Analyzer.Categorize(ctx, c, known.Titles())
	if err != nil {
		skip(ReasonAnalysisFailed, err.Error())
		return
	}

	verdict, detail := Accept(c, *analysis, known, r.Threshold)
	if verdict != ReasonAccepted {
		skip(verdict, detail)
		return
	}

	book := models.BookFromCandidate(c)
	book.Apply(*analysis)
	if err := r.Catalog.AddBook(ctx, book); err != nil {
		skip(ReasonAddFailed, err.Error())
		return
	}

	report.Added = append(report.Added, book)
	known.Add(book.TitleVO, book.TitleVF)
}

// complete asks for the missing fields of incomplete rows and writes back
// only those.
func (r *Runner) complete(ctx context.Context, report *Report) {
	rows, err := r.Catalog.IncompleteRows(ctx)
	if err != nil {
		slog.Error("Failed to list incomplete rows", "error", err)
		return
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			return
		}
		completion, err := r.Analyzer.Complete(ctx, row)
		if err != nil {
			slog.Warn("Completion failed", "title", row.TitleVO, "error", err)
			continue
		}
		if completion == nil {
			continue
		}

		update := models.UpdateFor(row, *completion)
		if update.Empty() {
			continue
		}
		ok, err := r.Catalog.UpdateRow(ctx, row.Tab, row.Row, update)
		if err != nil {
			slog.Warn("Failed to update row", "tab", row.Tab, "row", row.Row, "error", err)
			continue
		}
		if ok {
			slog.Info("Completed row", "title", row.TitleVO)
			report.Completed++
		}
	}
}

func (r *Runner) notify(ctx context.Context, added []models.Book) {
	if r.Notifier == nil {
		return
	}
	if err := r.Notifier.NotifySummary(ctx, added); err != nil {
		slog.Error("Failed to send summary", "error", err)
	}
}
