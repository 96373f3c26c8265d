package wikipedia

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/agent-king/bibliography/internal/models"
)

const (
	minYear        = 1970
	maxYear        = 2030
	minTitleLength = 2
	minNotesLength = 15
	maxNotesLength = 200

	// SourceName tags candidates produced by this package.
	SourceName = "Wikipedia"
)

var (
	yearPattern       = regexp.MustCompile(`\d{4}`)
	referencePattern  = regexp.MustCompile(`\[\d+\]`)
	annotationPattern = regexp.MustCompile(`(?i)\s*\((?:novel|novella|collection)\)`)
	identifierPattern = regexp.MustCompile(`^[\d\-X]+$`)
)

// publishers are imprint names that show up in title cells of rows that are
// really publication metadata.
var publishers = []string{"doubleday", "viking", "signet", "scribner", "simon", "putnam"}

// pseudonymMarker flags books published as Richard Bachman.
const pseudonymMarker = "bachman"

// Row is a table row reduced to the text the extractor needs. Any tabular
// source that can provide cell text in row order can be parsed with ParseRows.
type Row struct {
	// YearText is the text of the first data cell.
	YearText string
	// Title is the raw title text; HasTitle is false when the row has no
	// title cell at all.
	Title    string
	HasTitle bool
	// Cells holds the text of every cell, in column order.
	Cells []string
}

// Extract returns the candidates listed in the wikitable that follows the
// named section heading. A missing heading or table yields no candidates.
func Extract(doc *goquery.Document, section string) []models.Candidate {
	heading := findHeading(doc, section)
	if heading == nil {
		slog.Warn("Section not found", "section", section)
		return nil
	}

	table := findTable(heading)
	if table == nil {
		slog.Warn("Table not found", "section", section)
		return nil
	}

	var rows []Row
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}
		rows = append(rows, readRow(tr))
	})

	candidates := ParseRows(rows)
	for i := range candidates {
		candidates[i].Source = SourceName
		candidates[i].Section = section
	}

	slog.Debug("Parsed section", "section", section, "rows", len(rows), "candidates", len(candidates))
	return candidates
}

// ParseRows folds over rows in order, carrying the last resolved year forward
// so that rows under a spanned year cell inherit it.
func ParseRows(rows []Row) []models.Candidate {
	var candidates []models.Candidate
	currentYear := 0

	for _, row := range rows {
		candidate, ok := parseRow(row, currentYear)
		if !ok {
			continue
		}
		currentYear = candidate.Year
		candidates = append(candidates, candidate)
	}

	return candidates
}

func parseRow(row Row, previousYear int) (models.Candidate, bool) {
	if len(row.Cells) == 0 {
		return models.Candidate{}, false
	}

	year := resolveYear(row.YearText, previousYear)
	if year == 0 {
		return models.Candidate{}, false
	}

	if !row.HasTitle {
		return models.Candidate{}, false
	}

	title := CleanTitle(row.Title)
	if utf8.RuneCountInString(title) < minTitleLength || isPublisher(title) {
		return models.Candidate{}, false
	}

	notes := findNotes(row.Cells)

	return models.Candidate{
		Title:        title,
		Year:         year,
		Notes:        notes,
		Pseudonymous: strings.Contains(strings.ToLower(notes), pseudonymMarker),
	}, true
}

// resolveYear reads a four digit year, inheriting previous when the cell has
// none or holds an out-of-range value. Zero means unresolved.
func resolveYear(text string, previous int) int {
	year := 0
	if match := yearPattern.FindString(text); match != "" {
		year, _ = strconv.Atoi(match)
	}

	if year == 0 {
		year = previous
	}

	if !validYear(year) {
		if validYear(previous) {
			return previous
		}
		return 0
	}
	return year
}

func validYear(year int) bool {
	return year >= minYear && year <= maxYear
}

// CleanTitle removes footnote references and "(novel)"-style annotations.
func CleanTitle(title string) string {
	title = referencePattern.ReplaceAllString(title, "")
	title = annotationPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func isPublisher(title string) bool {
	lower := strings.ToLower(title)
	for _, pub := range publishers {
		if strings.Contains(lower, pub) {
			return true
		}
	}
	return false
}

// findNotes takes the last cell with enough text that is not an ISBN or a
// footnote marker.
func findNotes(cells []string) string {
	for i := len(cells) - 1; i >= 0; i-- {
		text := cells[i]
		if utf8.RuneCountInString(text) > minNotesLength && !identifierPattern.MatchString(text) {
			return truncate(text, maxNotesLength)
		}
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// findHeading looks the section up by id, on the heading itself or on the
// legacy mw-headline span, then by heading text.
func findHeading(doc *goquery.Document, section string) *goquery.Selection {
	for _, selector := range []string{fmt.Sprintf("h2[id=%q]", section), fmt.Sprintf("span[id=%q]", section)} {
		if heading := doc.Find(selector).First(); heading.Length() > 0 {
			return heading
		}
	}

	want := strings.ToLower(section)
	heading := doc.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.Text()), want)
	}).First()
	if heading.Length() == 0 {
		return nil
	}
	return heading
}

// findTable walks forward in document order from the heading to the first
// wikitable, giving up at the next h2.
func findTable(heading *goquery.Selection) *goquery.Selection {
	start := heading.Get(0)
	for n := nextNode(start); n != nil; n = nextNode(n) {
		if n.Type != html.ElementNode {
			continue
		}
		switch {
		case n.Data == "table" && hasClass(n, "wikitable"):
			return goquery.NewDocumentFromNode(n).Selection
		case n.Data == "h2":
			return nil
		}
	}
	return nil
}

// nextNode returns the node after n in a depth-first, document-order walk.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func readRow(tr *goquery.Selection) Row {
	cells := tr.ChildrenFiltered("td, th")

	row := Row{
		YearText: cellText(tr.ChildrenFiltered("td").First()),
	}
	cells.Each(func(_ int, cell *goquery.Selection) {
		row.Cells = append(row.Cells, cellText(cell))
	})

	titleCell := tr.ChildrenFiltered(`th[scope="row"]`).First()
	if titleCell.Length() == 0 && cells.Length() > 1 {
		titleCell = cells.Eq(1)
	}
	if titleCell.Length() > 0 {
		row.Title = titleText(titleCell)
		row.HasTitle = true
	}

	return row
}

// titleText prefers the link inside the first italics, then the first link,
// then the first italics, then the whole cell.
func titleText(cell *goquery.Selection) string {
	italic := cell.Find("i").First()
	candidates := []*goquery.Selection{
		italic.Find("a").First(),
		cell.Find("a").First(),
		italic,
	}
	for _, s := range candidates {
		if s.Length() > 0 {
			return cellText(s)
		}
	}
	return cellText(cell)
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
