package merger

import (
	"reflect"
	"testing"

	"github.com/agent-king/bibliography/internal/models"
)

func TestMergeSkipsEditionOfKnownTranslation(t *testing.T) {
	m := New(Options{})

	result := m.Merge([][]models.Candidate{{
		{Title: "Le Fleau: Complete & Uncut Edition", Year: 1990},
	}}, []string{"Le Fléau"})

	if len(result) != 0 {
		t.Errorf("Expected edition of a known title to be excluded, got %+v", result)
	}
}

func TestMergeFoldsDuplicatesAcrossSources(t *testing.T) {
	m := New(Options{})

	wikipedia := []models.Candidate{
		{Title: "Pet Sematary", Year: 1983, Notes: "Published by Doubleday", Source: "Wikipedia"},
		{Title: "Christine", Year: 1983, Source: "Wikipedia"},
	}
	gemini := []models.Candidate{
		{Title: "Pet Sematary", Notes: "Novel about a burial ground beyond the woods", Duplicate: true},
		{Title: "Holly", Year: 2023, Notes: "Holly Gibney"},
	}

	result := m.Merge([][]models.Candidate{wikipedia, gemini}, nil)

	expected := []models.Candidate{
		{Title: "Pet Sematary", Year: 1983, Notes: "Novel about a burial ground beyond the woods", Duplicate: true, Source: "Wikipedia"},
		{Title: "Christine", Year: 1983, Source: "Wikipedia"},
		{Title: "Holly", Year: 2023, Notes: "Holly Gibney"},
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected:\n%+v\nGot:\n%+v", expected, result)
	}
}

func TestMergeBackfillsYearFromLaterSource(t *testing.T) {
	m := New(Options{})

	result := m.Merge([][]models.Candidate{
		{{Title: "The Long Walk", Notes: "a note that is fairly long"}},
		{{Title: "Long Walk", Year: 1979, Notes: "short"}},
	}, nil)

	if len(result) != 1 {
		t.Fatalf("Expected one merged candidate, got %d", len(result))
	}
	if result[0].Year != 1979 {
		t.Errorf("Expected year to be backfilled, got %d", result[0].Year)
	}
	if result[0].Notes != "a note that is fairly long" {
		t.Errorf("Expected longer note to be kept, got %q", result[0].Notes)
	}
	if result[0].Title != "The Long Walk" {
		t.Errorf("Expected first title to be kept, got %q", result[0].Title)
	}
}

func TestMergeDropsBlankTitles(t *testing.T) {
	m := New(Options{})

	result := m.Merge([][]models.Candidate{{
		{Title: "", Year: 2001},
		{Title: "   ", Year: 2002},
		{Title: "...", Year: 2003},
		{Title: "Dreamcatcher", Year: 2001},
	}}, nil)

	if len(result) != 1 || result[0].Title != "Dreamcatcher" {
		t.Errorf("Expected only Dreamcatcher, got %+v", result)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	m := New(Options{})

	first := []models.Candidate{{Title: "Cujo", Notes: "dog"}}
	second := []models.Candidate{{Title: "Cujo", Year: 1981, Notes: "a rabid St. Bernard"}}
	known := []string{"Carrie"}

	m.Merge([][]models.Candidate{first, second}, known)

	if first[0].Year != 0 || first[0].Notes != "dog" {
		t.Errorf("Expected source slice untouched, got %+v", first[0])
	}
	if len(known) != 1 || known[0] != "Carrie" {
		t.Errorf("Expected known titles untouched, got %v", known)
	}
}

func TestMergeExcludesKnownTitles(t *testing.T) {
	m := New(Options{})

	known := []string{"Shining", "La Tour Sombre I : Le Pistolero", "The Stand"}
	candidates := []models.Candidate{
		{Title: "The Shining"},
		{Title: "The Dark Tower I: The Gunslinger"},
		{Title: "Le Pistolero"},
		{Title: "The Stand: The Complete & Uncut Edition"},
		{Title: "Misery"},
	}

	result := m.Merge([][]models.Candidate{candidates}, known)

	if len(result) != 2 {
		t.Fatalf("Expected 2 survivors, got %+v", result)
	}
	if result[0].Title != "The Dark Tower I: The Gunslinger" || result[1].Title != "Misery" {
		t.Errorf("Unexpected survivors: %+v", result)
	}
}

func TestMergeSharedBaseGuard(t *testing.T) {
	known := []string{"Joy Special Edition"}
	sources := [][]models.Candidate{{{Title: "Joy 2020 Edition", Year: 2020}}}

	if result := New(Options{}).Merge(sources, known); len(result) != 1 {
		t.Errorf("Expected three letter base to survive the default guard, got %+v", result)
	}
	if result := New(Options{MinBaseLength: -1}).Merge(sources, known); len(result) != 0 {
		t.Errorf("Expected disabled guard to exclude the candidate, got %+v", result)
	}
}
