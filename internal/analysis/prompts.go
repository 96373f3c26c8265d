package analysis

import (
	"fmt"
	"strings"

	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/providers"
)

// maxPromptTitles caps the known titles quoted in the bibliography prompt.
const maxPromptTitles = 50

var bibliographySchema = &providers.Schema{
	Type: providers.TypeArray,
	Items: &providers.Schema{
		Type: providers.TypeObject,
		Properties: map[string]*providers.Schema{
			models.FieldTitleVO:      {Type: providers.TypeString},
			models.FieldYearVO:       {Type: providers.TypeInteger},
			"Raw_Info":               {Type: providers.TypeString},
			"Is_Duplicate_or_Ignore": {Type: providers.TypeBoolean},
		},
		Required: []string{models.FieldTitleVO, models.FieldYearVO, "Raw_Info", "Is_Duplicate_or_Ignore"},
	},
}

var completionSchema = &providers.Schema{
	Type: providers.TypeObject,
	Properties: map[string]*providers.Schema{
		models.FieldTitleVF: {Type: providers.TypeString},
		models.FieldYearVO:  {Type: providers.TypeInteger},
		models.FieldYearVF:  {Type: providers.TypeInteger},
		models.FieldDetails: {Type: providers.TypeString},
	},
	Required: []string{models.FieldTitleVF, models.FieldYearVO, models.FieldYearVF, models.FieldDetails},
}

func analysisSchema(categories []string) *providers.Schema {
	return &providers.Schema{
		Type: providers.TypeObject,
		Properties: map[string]*providers.Schema{
			models.FieldTitleVF:      {Type: providers.TypeString},
			"Annee_FR":               {Type: providers.TypeInteger},
			models.FieldDetails:      {Type: providers.TypeString},
			"Category":               {Type: providers.TypeString, Enum: categories},
			"Is_Duplicate_or_Ignore": {Type: providers.TypeBoolean},
		},
		Required: []string{models.FieldTitleVF, "Annee_FR", models.FieldDetails, "Category", "Is_Duplicate_or_Ignore"},
	}
}

func buildBibliographyPrompt(known []string) string {
	quoted := known
	if len(quoted) > maxPromptTitles {
		quoted = quoted[:maxPromptTitles]
	}

	return fmt.Sprintf(`You are a Stephen King expert. Search fan sites for works that may be missing from Wikipedia.

SOURCES:
- stephenking.com (official site)
- Club Stephen King (French fan site)
- StephenKingFR
- Goodreads reviews and fan lists

FOCUS:
- Recent or lesser-known novellas
- Collaborations with other authors
- Recently published books
- Limited or special editions

IGNORE:
- Essays and non-fiction
- Individual short stories (collections only)
- Comics
- Adaptations (films, series)

TITLES ALREADY KNOWN (do not include):
%s

Set Is_Duplicate_or_Ignore to true for any book already in that list.

Return a JSON array with the books found.`, strings.Join(quoted, ", "))
}

func buildAnalysisPrompt(c models.Candidate, categories, known []string) string {
	return fmt.Sprintf(`Analyse this Stephen King book for cataloguing.

BOOK:
- Original title: %q
- Original year: %d
- Info: %q

TASKS:
1. Find the official French title (Titre_VF)
2. Find the year of first publication in France (Annee_FR, 0 if unknown or never translated)
3. Write a short summary in French (20 words max)
4. Pick the category

CATEGORIES (pick ONE): %s
- Dark Tower series books belong to "La Tour Sombre"
- Mr Mercedes, Finders Keepers, End of Watch, The Outsider and If It Bleeds belong to "Série Bill Hodges"
- The Gwendy books belong to "Série Gwendy Peterson"
- Books published as Richard Bachman belong to "Richard Bachman"
- Short story collections belong to "Recueils de nouvelles"

Is_Duplicate_or_Ignore is true when:
- the French title you found already exists in the list below
- it is a reissue, an illustrated edition, a director's cut or an uncut version
- the book was never translated into French (Annee_FR = 0)

TITLES ALREADY CATALOGUED (original and French mixed):
%s

Return the JSON.`, c.Title, c.Year, c.Notes, strings.Join(categories, ", "), strings.Join(known, ", "))
}

func buildCompletionPrompt(row models.IncompleteRow) string {
	return fmt.Sprintf(`Complete the missing information for this Stephen King book.

BOOK:
- Original title: %q
- Current French title: %q
- Current original year: %s
- Current French year: %s

MISSING: %s

RULES:
- Titre_VF: official French title, not a literal translation
- Annee_VO: year of first publication in English
- Annee_VF: year of first publication in French (0 if never translated)
- Details: very short French summary (15 words max)

Return ALL fields, including the ones already known.`,
		row.TitleVO, row.TitleVF, orZero(row.YearVO), orZero(row.YearVF), strings.Join(row.Missing, ", "))
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
