// Package analysis asks a generative model for bibliography entries,
// translations and categorizations, and validates what comes back.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/apierror"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/providers"
)

const (
	DefaultMaxRetries = 3
	DefaultDelay      = 6 * time.Second
)

// Options configures a Client.
type Options struct {
	Model       string
	Temperature float64
	// Categories are the catalog tabs a book can be filed under.
	Categories []string
	// MaxRetries bounds attempts on rate limiting or overload. Zero means
	// DefaultMaxRetries.
	MaxRetries int
	// Delay is the minimum spacing between calls. Negative disables pacing.
	Delay time.Duration
	// Backoff overrides the pause schedule between retries.
	Backoff *gax.Backoff
}

// Client wraps a provider with prompts, response validation, retries and
// pacing.
type Client struct {
	provider   providers.Provider
	opts       Options
	limiter    *rate.Limiter
	newBackoff func() gax.Backoff
}

// New returns a Client calling p.
func New(p providers.Provider, opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	c := &Client{
		provider: p,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
	}
	c.newBackoff = func() gax.Backoff {
		if opts.Backoff != nil {
			return *opts.Backoff
		}
		return gax.Backoff{Initial: time.Second, Max: 8 * time.Second, Multiplier: 2}
	}
	return c
}

// FetchBibliography asks for books missing from known.
func (c *Client) FetchBibliography(ctx context.Context, known []string) ([]models.Candidate, error) {
	slog.Info("Querying bibliography", "known", len(known))

	text, err := c.call(ctx, buildBibliographyPrompt(known), bibliographySchema)
	if err != nil {
		return nil, err
	}
	candidates, err := decodeBibliography(text)
	if err != nil {
		return nil, err
	}

	slog.Info("Bibliography answered", "titles", len(candidates))
	return candidates, nil
}

// Categorize translates and files a candidate.
func (c *Client) Categorize(ctx context.Context, candidate models.Candidate, known []string) (*models.Analysis, error) {
	slog.Info("Analysing", "title", candidate.Title)

	text, err := c.call(ctx, buildAnalysisPrompt(candidate, c.opts.Categories, known), analysisSchema(c.opts.Categories))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(text)
}

// Complete suggests values for the missing fields of row. It returns nil
// when nothing is missing.
func (c *Client) Complete(ctx context.Context, row models.IncompleteRow) (*models.Completion, error) {
	if len(row.Missing) == 0 {
		return nil, nil
	}
	slog.Info("Completing", "title", row.TitleVO, "missing", row.Missing)

	text, err := c.call(ctx, buildCompletionPrompt(row), completionSchema)
	if err != nil {
		return nil, err
	}
	return decodeCompletion(text)
}

// call paces and retries a single structured request.
func (c *Client) call(ctx context.Context, prompt string, schema *providers.Schema) (string, error) {
	config := providers.Config{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		Prompt:      prompt,
		Schema:      schema,
	}
	backoff := c.newBackoff()

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("failed to wait for rate limiter: %w", err)
		}

		text, err := c.provider.ExtractText(ctx, config)
		if err == nil {
			return text, nil
		}
		if !Retryable(err) {
			return "", fmt.Errorf("failed to call model: %w", err)
		}

		lastErr = err
		slog.Warn("Model call failed, retrying", "attempt", attempt, "max", c.opts.MaxRetries, "error", err)
		if attempt < c.opts.MaxRetries {
			if err := gax.Sleep(ctx, backoff.Pause()); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("failed after %d attempts: %w", c.opts.MaxRetries, lastErr)
}

// Retryable reports whether err is a rate limit or overload answer.
func Retryable(err error) bool {
	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) {
		return retryableCode(statusErr.Code)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableCode(apiErr.Code)
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		return retryableCode(gaxErr.HTTPCode())
	}
	return false
}

func retryableCode(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
