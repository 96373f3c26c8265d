// Package sheets stores the catalog in a Google Sheets spreadsheet, one tab
// per category.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/agent-king/bibliography/internal/models"
)

const valueInput = "USER_ENTERED"

// Store reads and writes catalog tabs of one spreadsheet.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	tabs          []string
}

// New connects to the spreadsheet with a service account key file. Extra
// options are appended after the credentials.
func New(ctx context.Context, spreadsheetID, credentialsFile string, tabs []string, opts ...option.ClientOption) (*Store, error) {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, tabs: tabs}, nil
}

// a1 quotes a tab name into an A1 range.
func a1(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}

func (s *Store) values(ctx context.Context, rng string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

// ExistingTitles returns every French and original title of every tab,
// header excluded. Unreadable tabs are logged and skipped.
func (s *Store) ExistingTitles(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var titles []string

	for _, tab := range s.tabs {
		rows, err := s.values(ctx, a1(tab, "A:B"))
		if err != nil {
			slog.Warn("Skipping unreadable tab", "tab", tab, "error", err)
			continue
		}
		if len(rows) > 0 {
			rows = rows[1:]
		}
		for _, row := range rows {
			for _, cell := range row {
				title := strings.TrimSpace(cell)
				if title == "" || seen[title] {
					continue
				}
				seen[title] = true
				titles = append(titles, title)
			}
		}
	}

	slog.Info("Indexed existing titles", "count", len(titles))
	return titles, nil
}

// AddBook appends a book to the tab named by its category.
func (s *Store) AddBook(ctx context.Context, book models.Book) error {
	if !slices.Contains(s.tabs, book.Category) {
		return fmt.Errorf("unknown category %q", book.Category)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{book.Row()}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, a1(book.Category, "A:D"), vr).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", book.Category, err)
	}

	slog.Info("Added book", "title_vf", book.TitleVF, "title_vo", book.TitleVO, "category", book.Category)
	return nil
}

// IncompleteRows lists rows with an original title but a missing French
// title or year.
func (s *Store) IncompleteRows(ctx context.Context) ([]models.IncompleteRow, error) {
	var incomplete []models.IncompleteRow

	for _, tab := range s.tabs {
		rows, err := s.values(ctx, a1(tab, "A:E"))
		if err != nil {
			slog.Warn("Skipping unreadable tab", "tab", tab, "error", err)
			continue
		}
		for i := 1; i < len(rows); i++ {
			if r, ok := models.InspectRow(tab, i+1, rows[i]); ok {
				incomplete = append(incomplete, r)
			}
		}
	}

	slog.Info("Found incomplete rows", "count", len(incomplete))
	return incomplete, nil
}

// UpdateRow writes the non-zero values of u to a sheet row. Details are only
// written when column E is still empty. It reports whether anything was
// written.
func (s *Store) UpdateRow(ctx context.Context, tab string, row int, u models.RowUpdate) (bool, error) {
	var data []*sheets.ValueRange
	set := func(col string, v interface{}) {
		data = append(data, &sheets.ValueRange{
			Range:  a1(tab, fmt.Sprintf("%s%d", col, row)),
			Values: [][]interface{}{{v}},
		})
	}

	if u.TitleVF != "" {
		set("A", u.TitleVF)
	}
	if u.YearVO != 0 {
		set("C", u.YearVO)
	}
	if u.YearVF != 0 {
		set("D", u.YearVF)
	}
	if u.Details != "" {
		current, err := s.values(ctx, a1(tab, fmt.Sprintf("E%d", row)))
		if err != nil {
			return false, fmt.Errorf("failed to read details of %s row %d: %w", tab, row, err)
		}
		if len(current) == 0 || len(current[0]) == 0 || strings.TrimSpace(current[0][0]) == "" {
			set("E", u.Details)
		}
	}

	if len(data) == 0 {
		return false, nil
	}

	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: valueInput, Data: data}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("failed to update %s row %d: %w", tab, row, err)
	}
	return true, nil
}

// SortAll sorts the data rows of every tab by original year, then French
// year. Tabs that fail are logged and skipped.
func (s *Store) SortAll(ctx context.Context) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	ids := make(map[string]int64, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}

	for _, tab := range s.tabs {
		id, ok := ids[tab]
		if !ok {
			slog.Warn("Tab not found", "tab", tab)
			continue
		}
		rows, err := s.values(ctx, a1(tab, "A:E"))
		if err != nil {
			slog.Warn("Skipping unreadable tab", "tab", tab, "error", err)
			continue
		}
		if len(rows) <= 1 {
			continue
		}

		req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
			SortRange: &sheets.SortRangeRequest{
				Range: &sheets.GridRange{
					SheetId:         id,
					StartRowIndex:   1,
					EndRowIndex:     int64(len(rows)),
					ForceSendFields: []string{"SheetId"},
				},
				SortSpecs: []*sheets.SortSpec{
					{DimensionIndex: 2, SortOrder: "ASCENDING"},
					{DimensionIndex: 3, SortOrder: "ASCENDING"},
				},
			},
		}}}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			slog.Warn("Failed to sort tab", "tab", tab, "error", err)
			continue
		}
		slog.Debug("Sorted tab", "tab", tab)
	}
	return nil
}
