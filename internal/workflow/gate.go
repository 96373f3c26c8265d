package workflow

import (
	"fmt"

	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/titles"
)

// Reason explains the fate of a candidate.
type Reason string

const (
	ReasonAccepted       Reason = "accepted"
	ReasonAnalysisFailed Reason = "analysis_failed"
	ReasonDuplicate      Reason = "duplicate"
	ReasonNotTranslated  Reason = "not_translated"
	ReasonKnownTitle     Reason = "known_title"
	ReasonSimilarTitle   Reason = "similar_title"
	ReasonAddFailed      Reason = "add_failed"
)

// Accept decides whether an analysed candidate may be added. The French
// title is checked against the catalog even when the analysis says it is
// new.
func Accept(c models.Candidate, a models.Analysis, known *titles.KnownSet, threshold float64) (Reason, string) {
	if c.Duplicate || a.Duplicate {
		return ReasonDuplicate, ""
	}
	if a.YearVF == 0 {
		return ReasonNotTranslated, ""
	}

	key := titles.Normalize(a.TitleVF)
	if known.HasKey(key) {
		return ReasonKnownTitle, a.TitleVF
	}
	if threshold <= 0 {
		threshold = titles.DefaultThreshold
	}
	if match, ok := known.SimilarKeyAt(key, threshold); ok {
		return ReasonSimilarTitle, fmt.Sprintf("%s ~ %s", a.TitleVF, match)
	}
	return ReasonAccepted, ""
}
