// Package storage keeps a catalog in memory. It backs dry runs and tests and
// behaves like the spreadsheet store.
package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/agent-king/bibliography/internal/models"
)

var header = []string{"Titre VF", "Titre VO", "Année VO", "Année VF", "Détails"}

// Catalog is an in-memory catalog with one header row per tab.
type Catalog struct {
	tabs  []string
	rows  map[string][][]string
	added []models.Book
	mu    sync.RWMutex
}

// New returns an empty catalog with a header row in each tab.
func New(tabs []string) *Catalog {
	c := &Catalog{
		tabs: tabs,
		rows: make(map[string][][]string, len(tabs)),
	}
	for _, tab := range tabs {
		c.rows[tab] = [][]string{slices.Clone(header)}
	}
	return c
}

// Seed appends raw rows to a tab. Short rows are allowed.
func (c *Catalog) Seed(tab string, rows ...[]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range rows {
		c.rows[tab] = append(c.rows[tab], slices.Clone(row))
	}
}

// Rows returns a copy of a tab, header included.
func (c *Catalog) Rows(tab string) [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([][]string, len(c.rows[tab]))
	for i, row := range c.rows[tab] {
		result[i] = slices.Clone(row)
	}
	return result
}

// Added returns the books added since the catalog was created.
func (c *Catalog) Added() []models.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.added)
}

func (c *Catalog) ExistingTitles(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var titles []string
	for _, tab := range c.tabs {
		for _, row := range c.rows[tab][1:] {
			for i := 0; i < 2 && i < len(row); i++ {
				title := strings.TrimSpace(row[i])
				if title != "" && !seen[title] {
					seen[title] = true
					titles = append(titles, title)
				}
			}
		}
	}
	return titles, nil
}

func (c *Catalog) AddBook(_ context.Context, book models.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rows[book.Category]; !ok {
		return fmt.Errorf("unknown category %q", book.Category)
	}
	c.rows[book.Category] = append(c.rows[book.Category], []string{
		book.TitleVF, book.TitleVO, strconv.Itoa(book.YearVO), strconv.Itoa(book.YearVF),
	})
	c.added = append(c.added, book)
	return nil
}

func (c *Catalog) IncompleteRows(_ context.Context) ([]models.IncompleteRow, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var incomplete []models.IncompleteRow
	for _, tab := range c.tabs {
		rows := c.rows[tab]
		for i := 1; i < len(rows); i++ {
			if r, ok := models.InspectRow(tab, i+1, rows[i]); ok {
				incomplete = append(incomplete, r)
			}
		}
	}
	return incomplete, nil
}

func (c *Catalog) UpdateRow(_ context.Context, tab string, row int, u models.RowUpdate) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, ok := c.rows[tab]
	if !ok || row < 2 || row > len(rows) {
		return false, fmt.Errorf("no row %d in %q", row, tab)
	}
	cells := rows[row-1]
	for len(cells) < len(header) {
		cells = append(cells, "")
	}

	updated := false
	set := func(col int, v string) {
		cells[col] = v
		updated = true
	}
	if u.TitleVF != "" {
		set(0, u.TitleVF)
	}
	if u.YearVO != 0 {
		set(2, strconv.Itoa(u.YearVO))
	}
	if u.YearVF != 0 {
		set(3, strconv.Itoa(u.YearVF))
	}
	if u.Details != "" && strings.TrimSpace(cells[4]) == "" {
		set(4, u.Details)
	}

	rows[row-1] = cells
	return updated, nil
}

// SortAll orders the data rows of each tab by the numeric value of the
// original year, then the French year. Blank years sort first.
func (c *Catalog) SortAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	year := func(row []string, col int) int {
		if col >= len(row) {
			return 0
		}
		n, _ := strconv.Atoi(strings.TrimSpace(row[col]))
		return n
	}
	for _, tab := range c.tabs {
		data := c.rows[tab][1:]
		sort.SliceStable(data, func(i, j int) bool {
			if a, b := year(data[i], 2), year(data[j], 2); a != b {
				return a < b
			}
			return year(data[i], 3) < year(data[j], 3)
		})
	}
	return nil
}
