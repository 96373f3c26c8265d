package models

import "strings"

// Field names shared by the generative collaborator, the catalog and the
// completion pass.
const (
	FieldTitleVO = "Titre_VO"
	FieldTitleVF = "Titre_VF"
	FieldYearVO  = "Annee_VO"
	FieldYearVF  = "Annee_VF"
	FieldDetails = "Details"
)

// DefaultCategory is used when the analysis does not name one.
const DefaultCategory = "Romans"

// Candidate is a book record from one source that has not been accepted yet.
// The JSON names match the loosely typed records exchanged with the
// generative collaborator.
type Candidate struct {
	Title        string `json:"Titre_VO" yaml:"title"`
	Year         int    `json:"Annee_VO" yaml:"year"`
	Notes        string `json:"Raw_Info" yaml:"notes,omitempty"`
	Duplicate    bool   `json:"Is_Duplicate_or_Ignore" yaml:"duplicate"`
	Pseudonymous bool   `json:"Is_Bachman,omitempty" yaml:"pseudonymous,omitempty"`
	Source       string `json:"Source,omitempty" yaml:"source,omitempty"`
	Section      string `json:"Section,omitempty" yaml:"section,omitempty"`
}

// Absorb folds another sighting of the same work into c. A field is only
// overwritten when c's value is empty, except Notes which takes the longer
// value.
func (c *Candidate) Absorb(other Candidate) {
	if c.Title == "" {
		c.Title = other.Title
	}
	if c.Year == 0 {
		c.Year = other.Year
	}
	if len(other.Notes) > len(c.Notes) {
		c.Notes = other.Notes
	}
	if !c.Duplicate {
		c.Duplicate = other.Duplicate
	}
	if !c.Pseudonymous {
		c.Pseudonymous = other.Pseudonymous
	}
	if c.Source == "" {
		c.Source = other.Source
	}
	if c.Section == "" {
		c.Section = other.Section
	}
}

// Analysis is the generative collaborator's verdict on a candidate.
type Analysis struct {
	TitleVF   string `json:"Titre_VF" yaml:"title_vf"`
	YearVF    int    `json:"Annee_FR" yaml:"year_vf"`
	Details   string `json:"Details" yaml:"details"`
	Category  string `json:"Category" yaml:"category"`
	Duplicate bool   `json:"Is_Duplicate_or_Ignore" yaml:"duplicate"`
}

// Book is an accepted catalog entry.
type Book struct {
	TitleVF  string `json:"titre_vf" yaml:"titre_vf" parquet:"titre_vf"`
	TitleVO  string `json:"titre_vo" yaml:"titre_vo" parquet:"titre_vo"`
	YearVO   int    `json:"annee_vo" yaml:"annee_vo" parquet:"annee_vo"`
	YearVF   int    `json:"annee_vf" yaml:"annee_vf" parquet:"annee_vf"`
	Details  string `json:"details,omitempty" yaml:"details,omitempty" parquet:"details,optional"`
	Category string `json:"category" yaml:"category" parquet:"category"`
	RawInfo  string `json:"raw_info,omitempty" yaml:"raw_info,omitempty" parquet:"raw_info,optional"`
}

// BookFromCandidate starts a Book from the source data of a candidate.
func BookFromCandidate(c Candidate) Book {
	return Book{
		TitleVO:  c.Title,
		YearVO:   c.Year,
		RawInfo:  c.Notes,
		Category: DefaultCategory,
	}
}

// Apply copies the translation and categorization of an analysis onto b.
func (b *Book) Apply(a Analysis) {
	b.TitleVF = a.TitleVF
	b.YearVF = a.YearVF
	b.Details = a.Details
	b.Category = strings.TrimSpace(a.Category)
	if b.Category == "" {
		b.Category = DefaultCategory
	}
}

// Row returns the values appended to a catalog tab:
// Titre_VF, Titre_VO, Annee_VO, Annee_VF.
func (b Book) Row() []interface{} {
	return []interface{}{b.TitleVF, b.TitleVO, b.YearVO, b.YearVF}
}

// IncompleteRow is a catalog row missing a translated title or a year.
type IncompleteRow struct {
	Tab     string   `json:"tab" yaml:"tab"`
	Row     int      `json:"row" yaml:"row"` // 1-based sheet row
	TitleVO string   `json:"Titre_VO" yaml:"titre_vo"`
	TitleVF string   `json:"Titre_VF" yaml:"titre_vf"`
	YearVO  string   `json:"Annee_VO" yaml:"annee_vo"`
	YearVF  string   `json:"Annee_VF" yaml:"annee_vf"`
	Details string   `json:"Details" yaml:"details"`
	Missing []string `json:"missing" yaml:"missing"`
}

// IsMissing reports whether field is listed as missing.
func (r IncompleteRow) IsMissing(field string) bool {
	for _, m := range r.Missing {
		if m == field {
			return true
		}
	}
	return false
}

// Completion holds the values suggested for an incomplete row.
type Completion struct {
	TitleVF string `json:"Titre_VF"`
	YearVO  int    `json:"Annee_VO"`
	YearVF  int    `json:"Annee_VF"`
	Details string `json:"Details"`
}

// RowUpdate lists the cells to write on an incomplete row. Zero values are
// left untouched.
type RowUpdate struct {
	TitleVF string
	YearVO  int
	YearVF  int
	Details string
}

// Empty reports whether the update would not write anything.
func (u RowUpdate) Empty() bool {
	return u.TitleVF == "" && u.YearVO == 0 && u.YearVF == 0 && u.Details == ""
}

// rowWidth is the number of catalog columns, A through E.
const rowWidth = 5

// InspectRow checks a catalog row (without header) for missing values. Short
// rows are padded. Rows without an original title are never reported since
// nothing can be looked up for them.
func InspectRow(tab string, row int, cells []string) (IncompleteRow, bool) {
	padded := make([]string, rowWidth)
	for i := 0; i < rowWidth && i < len(cells); i++ {
		padded[i] = strings.TrimSpace(cells[i])
	}

	r := IncompleteRow{
		Tab:     tab,
		Row:     row,
		TitleVF: padded[0],
		TitleVO: padded[1],
		YearVO:  padded[2],
		YearVF:  padded[3],
		Details: padded[4],
	}
	if r.TitleVF == "" {
		r.Missing = append(r.Missing, FieldTitleVF)
	}
	if r.YearVO == "" || r.YearVO == "0" {
		r.Missing = append(r.Missing, FieldYearVO)
	}
	if r.YearVF == "" || r.YearVF == "0" {
		r.Missing = append(r.Missing, FieldYearVF)
	}

	if len(r.Missing) == 0 || r.TitleVO == "" {
		return IncompleteRow{}, false
	}
	return r, true
}

// UpdateFor keeps only the completion values for fields the row is missing.
// Details are only filled when the row has none.
func UpdateFor(row IncompleteRow, c Completion) RowUpdate {
	var u RowUpdate
	if row.IsMissing(FieldTitleVF) {
		u.TitleVF = strings.TrimSpace(c.TitleVF)
	}
	if row.IsMissing(FieldYearVO) {
		u.YearVO = c.YearVO
	}
	if row.IsMissing(FieldYearVF) {
		u.YearVF = c.YearVF
	}
	if row.Details == "" {
		u.Details = strings.TrimSpace(c.Details)
	}
	return u
}
