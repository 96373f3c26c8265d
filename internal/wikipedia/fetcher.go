// Package wikipedia scrapes the Stephen King bibliography tables from
// Wikipedia into candidates.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/agent-king/bibliography/internal/models"
)

const (
	// DefaultURL is the English Wikipedia bibliography page.
	DefaultURL = "https://en.wikipedia.org/wiki/Stephen_King_bibliography"

	userAgent = "Mozilla/5.0 (compatible; StephenKingBot/1.0)"
)

// DefaultSections are the page sections holding fiction; Nonfiction is left
// out on purpose since essays are not catalogued.
var DefaultSections = []string{"Novels", "Collections"}

// Fetcher downloads the bibliography page and extracts its tables.
type Fetcher struct {
	URL        string
	Sections   []string
	HTTPClient *http.Client
}

// NewFetcher creates a fetcher for url, or DefaultURL when url is empty.
func NewFetcher(url string) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	return &Fetcher{
		URL:      url,
		Sections: DefaultSections,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name identifies the source in logs.
func (f *Fetcher) Name() string {
	return "wikipedia"
}

// Fetch downloads the page and returns the candidates of every configured
// section, in page order. Known titles are not used: filtering happens when
// sources are merged.
func (f *Fetcher) Fetch(ctx context.Context, _ []string) ([]models.Candidate, error) {
	slog.Info("Scraping Wikipedia", "url", f.URL)

	doc, err := f.document(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	for _, section := range f.Sections {
		candidates = append(candidates, Extract(doc, section)...)
	}

	slog.Info("Wikipedia books found", "count", len(candidates))
	return candidates, nil
}

func (f *Fetcher) document(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Wikipedia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, string(body))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Wikipedia page: %w", err)
	}
	return doc, nil
}
