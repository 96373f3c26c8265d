package storage

import (
	"context"
	"log/slog"

	"github.com/agent-king/bibliography/internal/models"
)

// Reader is the read side of a catalog.
type Reader interface {
	ExistingTitles(ctx context.Context) ([]string, error)
	IncompleteRows(ctx context.Context) ([]models.IncompleteRow, error)
}

// DryRun reads from a live catalog and keeps every write in memory.
type DryRun struct {
	live    Reader
	pending *Catalog
}

func NewDryRun(live Reader, tabs []string) *DryRun {
	return &DryRun{live: live, pending: New(tabs)}
}

func (d *DryRun) ExistingTitles(ctx context.Context) ([]string, error) {
	return d.live.ExistingTitles(ctx)
}

func (d *DryRun) IncompleteRows(ctx context.Context) ([]models.IncompleteRow, error) {
	return d.live.IncompleteRows(ctx)
}

func (d *DryRun) AddBook(ctx context.Context, book models.Book) error {
	if err := d.pending.AddBook(ctx, book); err != nil {
		return err
	}
	slog.Info("Dry run: would add book", "title_vf", book.TitleVF, "category", book.Category)
	return nil
}

func (d *DryRun) UpdateRow(_ context.Context, tab string, row int, u models.RowUpdate) (bool, error) {
	slog.Info("Dry run: would update row", "tab", tab, "row", row, "update", u)
	return !u.Empty(), nil
}

func (d *DryRun) SortAll(context.Context) error {
	slog.Info("Dry run: skipping sort")
	return nil
}

// Pending returns the books that would have been added.
func (d *DryRun) Pending() []models.Book {
	return d.pending.Added()
}
