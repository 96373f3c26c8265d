package wikipedia

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/agent-king/bibliography/internal/models"
)

func loadFixture(t testing.TB) *goquery.Document {
	t.Helper()

	f, err := os.Open("testdata/bibliography.html")
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func parseHTML(t testing.TB, body string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

type titleYear struct {
	Title string
	Year  int
}

func summarize(candidates []models.Candidate) []titleYear {
	out := make([]titleYear, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, titleYear{c.Title, c.Year})
	}
	return out
}

func TestExtractNovels(t *testing.T) {
	t.Parallel()

	candidates := Extract(loadFixture(t), "Novels")

	require.Equal(t, []titleYear{
		{"Carrie", 1974},
		{"'Salem's Lot", 1974},
		{"Rage", 1977},
		{"The Long Walk", 1977},
		{"It", 1986},
		{"Misery", 1986},
	}, summarize(candidates))

	require.Equal(t, "First published novel, about a bullied teenager", candidates[0].Notes)
	require.Empty(t, candidates[1].Notes, "short cells and footnote markers are not notes")
	require.True(t, candidates[2].Pseudonymous)
	require.True(t, candidates[3].Pseudonymous)
	require.False(t, candidates[4].Pseudonymous)

	for _, c := range candidates {
		require.Equal(t, SourceName, c.Source)
		require.Equal(t, "Novels", c.Section)
	}
}

func TestExtractCollectionsWithoutRowHeaders(t *testing.T) {
	t.Parallel()

	candidates := Extract(loadFixture(t), "Collections")

	require.Equal(t, []titleYear{
		{"Night Shift", 1978},
		{"Skeleton Crew", 1985},
	}, summarize(candidates))
	require.Equal(t, "Second collection, includes The Mist", candidates[1].Notes)
}

func TestExtractStopsAtNextSection(t *testing.T) {
	t.Parallel()

	// Nonfiction has no table before the Screenplays heading.
	require.Empty(t, Extract(loadFixture(t), "Nonfiction"))
}

func TestExtractMissingSection(t *testing.T) {
	t.Parallel()

	require.Empty(t, Extract(loadFixture(t), "Audiobooks"))
}

func TestExtractLegacyHeadlineSpan(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, `<html><body>
<h2><span class="mw-headline" id="Novels">Novels</span></h2>
<table class="infobox"><tr><td>1990</td><td>Not this one</td></tr></table>
<table class="wikitable">
<tr><th>Year</th><th>Title</th></tr>
<tr><td>1990</td><td><i>The Stand</i></td></tr>
</table>
</body></html>`)

	require.Equal(t, []titleYear{{"The Stand", 1990}}, summarize(Extract(doc, "Novels")))
}

func TestTitleText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cell     string
		expected string
	}{
		{"link in italics", `<i><a href="/wiki/Carrie">Carrie</a></i> (novel)`, "Carrie"},
		{"only the first italics is searched for a link", `<a href="/wiki/Cujo">Cujo</a> <i>Cujo</i> <i><a href="/wiki/Cujo_(film)">Cujo film</a></i>`, "Cujo"},
		{"first link wins over unlinked italics", `<i>Dolores Claiborne</i> <a href="#cite_note-1">[1]</a>`, "[1]"},
		{"italics only", `<i>Gerald's Game</i> (novel)`, "Gerald's Game"},
		{"plain text", `Rose Madder`, "Rose Madder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, "<table><tr><td>"+tt.cell+"</td></tr></table>")
			require.Equal(t, tt.expected, titleText(doc.Find("td").First()))
		})
	}
}

func TestExtractHeadingTextFallback(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, `<html><body>
<h2>Other works</h2>
<h2>NOVELS</h2>
<div><table class="wikitable">
<tr><th>Year</th><th>Title</th></tr>
<tr><td>2019</td><td><a href="/wiki/The_Institute">The Institute</a></td></tr>
</table></div>
</body></html>`)

	require.Equal(t, []titleYear{{"The Institute", 2019}}, summarize(Extract(doc, "novels")))
}

func TestParseRowsForwardFill(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{YearText: "1977", Title: "Rage", HasTitle: true, Cells: []string{"1977", "Rage", "..."}},
		{YearText: "", Title: "The Long Walk", HasTitle: true, Cells: []string{"", "The Long Walk", "..."}},
	}

	require.Equal(t, []titleYear{
		{"Rage", 1977},
		{"The Long Walk", 1977},
	}, summarize(ParseRows(rows)))
}

func TestParseRowsYearOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{YearText: "1986", Title: "It", HasTitle: true, Cells: []string{"1986", "It"}},
		{YearText: "2199", Title: "Misery", HasTitle: true, Cells: []string{"2199", "Misery"}},
	}

	require.Equal(t, []titleYear{
		{"It", 1986},
		{"Misery", 1986},
	}, summarize(ParseRows(rows)))
}

func TestParseRowsDropsUnresolvedRows(t *testing.T) {
	t.Parallel()

	rows := []Row{
		// No year and nothing to inherit.
		{YearText: "", Title: "Orphan", HasTitle: true, Cells: []string{"", "Orphan"}},
		// Out of range with nothing valid to fall back on.
		{YearText: "1900", Title: "Too Early", HasTitle: true, Cells: []string{"1900", "Too Early"}},
		// No title cell.
		{YearText: "1979", Cells: []string{"1979"}},
		// No cells at all.
		{YearText: "1979", Title: "Ghost", HasTitle: true},
		{YearText: "1979", Title: "The Dead Zone [5]", HasTitle: true, Cells: []string{"1979", "The Dead Zone [5]"}},
		// A dropped row does not move the carried year.
		{YearText: "1980", Title: "Simon & Schuster", HasTitle: true, Cells: []string{"1980", "Simon & Schuster"}},
		{YearText: "", Title: "Firestarter (novel)", HasTitle: true, Cells: []string{"", "Firestarter (novel)"}},
	}

	require.Equal(t, []titleYear{
		{"The Dead Zone", 1979},
		{"Firestarter", 1979},
	}, summarize(ParseRows(rows)))
}

func TestFindNotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cells    []string
		expected string
	}{
		{name: "last long cell", cells: []string{"1974", "Carrie", "A note long enough to count"}, expected: "A note long enough to count"},
		{name: "skips isbn", cells: []string{"A note long enough to count", "978-0-385-08695-0"}, expected: "A note long enough to count"},
		{name: "skips identifier with X", cells: []string{"A note long enough to count", "0-670-81302-XXXX"}, expected: "A note long enough to count"},
		{name: "exactly fifteen is too short", cells: []string{"fifteen chars!!"}, expected: ""},
		{name: "none", cells: []string{"1974", "Carrie"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, findNotes(tt.cells))
		})
	}

	long := strings.Repeat("é", 250)
	require.Equal(t, strings.Repeat("é", 200), findNotes([]string{long}))
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Carrie[1]":                "Carrie",
		"It (novel)":               "It",
		"The Body (Novella)":       "The Body",
		"Night Shift (collection)": "Night Shift",
		"Blaze [12][13]":           "Blaze",
		"Joyland (film)":           "Joyland (film)",
	}
	for input, expected := range tests {
		require.Equal(t, expected, CleanTitle(input), input)
	}
}
