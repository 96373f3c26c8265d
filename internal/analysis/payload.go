package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agent-king/bibliography/internal/models"
)

// looseInt accepts a JSON number or a numeric string. Anything else decodes
// as unset.
type looseInt struct {
	Value int
	Set   bool
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	} else {
		n = json.Number(data)
	}
	if i, err := strconv.Atoi(n.String()); err == nil {
		l.Value, l.Set = i, true
		return nil
	}
	if f, err := n.Float64(); err == nil {
		l.Value, l.Set = int(f), true
	}
	return nil
}

type bibliographyEntry struct {
	Title     *string   `json:"Titre_VO"`
	Year      *looseInt `json:"Annee_VO"`
	Notes     *string   `json:"Raw_Info"`
	Duplicate *bool     `json:"Is_Duplicate_or_Ignore"`
}

type analysisPayload struct {
	TitleVF   *string   `json:"Titre_VF"`
	YearVF    *looseInt `json:"Annee_FR"`
	Details   *string   `json:"Details"`
	Category  *string   `json:"Category"`
	Duplicate *bool     `json:"Is_Duplicate_or_Ignore"`
}

type completionPayload struct {
	TitleVF *string   `json:"Titre_VF"`
	YearVO  *looseInt `json:"Annee_VO"`
	YearVF  *looseInt `json:"Annee_VF"`
	Details *string   `json:"Details"`
}

// trimFences removes a markdown code block around a JSON answer.
func trimFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func num(l *looseInt) int {
	if l == nil {
		return 0
	}
	return l.Value
}

// decodeBibliography turns a bibliography answer into candidates. Entries
// without a title are dropped.
func decodeBibliography(response string) ([]models.Candidate, error) {
	var entries []bibliographyEntry
	if err := json.Unmarshal([]byte(trimFences(response)), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode bibliography: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(entries))
	for _, e := range entries {
		title := str(e.Title)
		if title == "" {
			continue
		}
		c := models.Candidate{
			Title: title,
			Year:  num(e.Year),
			Notes: str(e.Notes),
		}
		if e.Duplicate != nil {
			c.Duplicate = *e.Duplicate
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// decodeAnalysis validates a categorization answer. A missing duplicate flag
// counts as a duplicate; a missing French title is an error.
func decodeAnalysis(response string) (*models.Analysis, error) {
	var p analysisPayload
	if err := json.Unmarshal([]byte(trimFences(response)), &p); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	a := &models.Analysis{
		TitleVF:   str(p.TitleVF),
		YearVF:    num(p.YearVF),
		Details:   str(p.Details),
		Category:  str(p.Category),
		Duplicate: true,
	}
	if p.Duplicate != nil {
		a.Duplicate = *p.Duplicate
	}
	if a.TitleVF == "" {
		return nil, fmt.Errorf("analysis has no %s", models.FieldTitleVF)
	}
	return a, nil
}

func decodeCompletion(response string) (*models.Completion, error) {
	var p completionPayload
	if err := json.Unmarshal([]byte(trimFences(response)), &p); err != nil {
		return nil, fmt.Errorf("failed to decode completion: %w", err)
	}
	return &models.Completion{
		TitleVF: str(p.TitleVF),
		YearVO:  num(p.YearVO),
		YearVF:  num(p.YearVF),
		Details: str(p.Details),
	}, nil
}
