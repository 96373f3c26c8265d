package models

import (
	"reflect"
	"testing"
)

func TestCandidateAbsorb(t *testing.T) {
	base := Candidate{Title: "Pet Sematary", Notes: "short note", Source: "Wikipedia"}
	base.Absorb(Candidate{
		Title:     "Pet Sematary",
		Year:      1983,
		Notes:     "a much longer note about the novel",
		Duplicate: true,
		Source:    "gemini",
	})

	expected := Candidate{
		Title:     "Pet Sematary",
		Year:      1983,
		Notes:     "a much longer note about the novel",
		Duplicate: true,
		Source:    "Wikipedia",
	}
	if !reflect.DeepEqual(base, expected) {
		t.Errorf("Expected %+v, got %+v", expected, base)
	}
}

func TestCandidateAbsorbKeepsExisting(t *testing.T) {
	base := Candidate{Title: "Carrie", Year: 1974, Notes: "the longer of the two notes"}
	base.Absorb(Candidate{Title: "Carrie", Year: 1975, Notes: "shorter"})

	if base.Year != 1974 {
		t.Errorf("Expected year 1974 to be kept, got %d", base.Year)
	}
	if base.Notes != "the longer of the two notes" {
		t.Errorf("Expected longer note to be kept, got %q", base.Notes)
	}
}

func TestBookFromCandidate(t *testing.T) {
	book := BookFromCandidate(Candidate{Title: "Holly", Year: 2023, Notes: "Holly Gibney novel"})
	book.Apply(Analysis{TitleVF: "Holly", YearVF: 2024, Details: "Enquête", Category: " Série Bill Hodges "})

	if book.Category != "Série Bill Hodges" {
		t.Errorf("Expected trimmed category, got %q", book.Category)
	}

	expected := []interface{}{"Holly", "Holly", 2023, 2024}
	if got := book.Row(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Row() = %v, want %v", got, expected)
	}
}

func TestBookApplyDefaultCategory(t *testing.T) {
	book := BookFromCandidate(Candidate{Title: "Fairy Tale", Year: 2022})
	book.Apply(Analysis{TitleVF: "Conte de fées", YearVF: 2023})

	if book.Category != DefaultCategory {
		t.Errorf("Expected %q, got %q", DefaultCategory, book.Category)
	}
}

func TestIncompleteRowIsMissing(t *testing.T) {
	row := IncompleteRow{Missing: []string{FieldTitleVF, FieldYearVF}}

	if !row.IsMissing(FieldTitleVF) || !row.IsMissing(FieldYearVF) {
		t.Error("Expected listed fields to be missing")
	}
	if row.IsMissing(FieldYearVO) {
		t.Error("Expected Annee_VO not to be missing")
	}
}

func TestInspectRow(t *testing.T) {
	tests := []struct {
		name        string
		cells       []string
		wantOK      bool
		wantMissing []string
	}{
		{
			name:   "complete row",
			cells:  []string{"Ça", "It", "1986", "1988", "Un clown"},
			wantOK: false,
		},
		{
			name:        "short row is padded",
			cells:       []string{"", "Holly"},
			wantOK:      true,
			wantMissing: []string{FieldTitleVF, FieldYearVO, FieldYearVF},
		},
		{
			name:        "zero years count as missing",
			cells:       []string{"Billy Summers", "Billy Summers", "2021", "0"},
			wantOK:      true,
			wantMissing: []string{FieldYearVF},
		},
		{
			name:   "no original title",
			cells:  []string{"", "", "2021"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InspectRow("Romans", 7, tt.cells)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if got.Tab != "Romans" || got.Row != 7 {
				t.Errorf("Expected Romans row 7, got %s row %d", got.Tab, got.Row)
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Errorf("Expected missing %v, got %v", tt.wantMissing, got.Missing)
			}
		})
	}
}

func TestUpdateFor(t *testing.T) {
	row := IncompleteRow{
		TitleVO: "Billy Summers",
		TitleVF: "Billy Summers",
		YearVO:  "2021",
		Details: "Already described",
		Missing: []string{FieldYearVF},
	}
	got := UpdateFor(row, Completion{TitleVF: "Autre titre", YearVO: 2020, YearVF: 2022, Details: "New"})

	expected := RowUpdate{YearVF: 2022}
	if got != expected {
		t.Errorf("Expected %+v, got %+v", expected, got)
	}

	row.Details = ""
	if got := UpdateFor(row, Completion{Details: "  Un tueur  "}); got.Details != "Un tueur" {
		t.Errorf("Expected details to be filled, got %q", got.Details)
	}
}
