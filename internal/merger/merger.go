// Package merger combines candidate lists from several sources into one
// record per work, dropping anything the catalog already holds.
package merger

import (
	"log/slog"
	"strings"

	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/titles"
)

// DefaultMinBaseLength is the base-title length a shared edition-stripped base
// must exceed before two titles are treated as the same work.
const DefaultMinBaseLength = 3

// Options configures a Merger.
type Options struct {
	// MinBaseLength guards the base-to-base rule against tiny bases such as
	// "it" colliding. Zero means DefaultMinBaseLength; negative disables the
	// guard.
	MinBaseLength int
}

// Merger deduplicates candidates across sources.
type Merger struct {
	minBaseLength int
}

// New returns a Merger configured with opts.
func New(opts Options) *Merger {
	minLen := opts.MinBaseLength
	if minLen == 0 {
		minLen = DefaultMinBaseLength
	}
	if minLen < 0 {
		minLen = 0
	}
	return &Merger{minBaseLength: minLen}
}

// Merge returns one candidate per normalized title across all sources, in the
// order each title was first seen. Candidates with a blank title or already
// known to the catalog are dropped; later sightings of a title fill the empty
// fields of the first one and contribute their notes when those are longer.
// Neither sources nor known are modified.
func (m *Merger) Merge(sources [][]models.Candidate, known []string) []models.Candidate {
	projection := NewProjection(known)

	byKey := make(map[string]*models.Candidate)
	var order []string

	for _, source := range sources {
		for _, candidate := range source {
			if strings.TrimSpace(candidate.Title) == "" {
				continue
			}

			key := titles.Normalize(candidate.Title)
			if key == "" {
				continue
			}

			if exists, tier := Exists(key, projection, m.minBaseLength); exists {
				slog.Debug("Skipping known title", "title", candidate.Title, "key", key, "rule", tier.String())
				continue
			}

			if existing, ok := byKey[key]; ok {
				existing.Absorb(candidate)
				continue
			}

			merged := candidate
			byKey[key] = &merged
			order = append(order, key)
		}
	}

	result := make([]models.Candidate, 0, len(order))
	for _, key := range order {
		result = append(result, *byKey[key])
	}

	slog.Info("Merged sources", "sources", len(sources), "unique", len(result))
	return result
}
