package analysis

import (
	"context"

	"github.com/agent-king/bibliography/internal/models"
)

// Source exposes the bibliography query as a candidate source.
type Source struct {
	Client *Client
}

func (s Source) Name() string { return "gemini" }

func (s Source) Fetch(ctx context.Context, known []string) ([]models.Candidate, error) {
	candidates, err := s.Client.FetchBibliography(ctx, known)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].Source = s.Name()
	}
	return candidates, nil
}
