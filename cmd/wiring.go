package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-king/bibliography/internal/analysis"
	"github.com/agent-king/bibliography/internal/config"
	"github.com/agent-king/bibliography/internal/merger"
	"github.com/agent-king/bibliography/internal/notify"
	"github.com/agent-king/bibliography/internal/sheets"
	"github.com/agent-king/bibliography/internal/storage"
	"github.com/agent-king/bibliography/internal/wikipedia"
	"github.com/agent-king/bibliography/internal/workflow"
)

// newAnalysisClient builds the generative client described by cfg.
func newAnalysisClient(cfg *config.Config) (*analysis.Client, error) {
	provider, err := analysis.NewProvider(cfg.Analysis.Provider, cfg.Analysis.APIKey, cfg.Analysis.BaseURL)
	if err != nil {
		return nil, err
	}

	delay := cfg.Analysis.Delay()
	if delay == 0 {
		delay = -1
	}
	return analysis.New(provider, analysis.Options{
		Model:       cfg.Analysis.Model,
		Temperature: cfg.Analysis.Temperature,
		Categories:  cfg.Catalog.Tabs,
		MaxRetries:  cfg.Analysis.MaxRetries,
		Delay:       delay,
	}), nil
}

func newWikipediaSource(cfg *config.Config) *wikipedia.Fetcher {
	f := wikipedia.NewFetcher(cfg.Sources.Wikipedia.URL)
	if len(cfg.Sources.Wikipedia.Sections) > 0 {
		f.Sections = cfg.Sources.Wikipedia.Sections
	}
	return f
}

// newRunner wires the collaborators of a run. A dry run reads the live
// catalog but keeps writes in memory and sends no mail.
func newRunner(ctx context.Context, cfg *config.Config, dryRun bool) (*workflow.Runner, error) {
	client, err := newAnalysisClient(cfg)
	if err != nil {
		return nil, err
	}

	var sources []workflow.Source
	if cfg.Sources.Wikipedia.Enabled {
		sources = append(sources, newWikipediaSource(cfg))
	}
	if cfg.Sources.Generative {
		sources = append(sources, analysis.Source{Client: client})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no source enabled")
	}

	var catalog workflow.Catalog
	notifier := notify.NewService(notify.Config{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		User:      cfg.Email.User,
		Password:  cfg.Email.Password,
		Recipient: cfg.Email.Recipient,
	})

	switch {
	case dryRun && cfg.Catalog.SpreadsheetID == "":
		slog.Warn("No spreadsheet configured, dry run starts from an empty catalog")
		catalog = storage.New(cfg.Catalog.Tabs)
		notifier = notify.NewService(notify.Config{})
	default:
		if err := cfg.RequireCatalog(); err != nil {
			return nil, err
		}
		store, err := sheets.New(ctx, cfg.Catalog.SpreadsheetID, cfg.Catalog.ServiceAccountPath, cfg.Catalog.Tabs)
		if err != nil {
			return nil, err
		}
		catalog = store
		if dryRun {
			catalog = storage.NewDryRun(store, cfg.Catalog.Tabs)
			notifier = notify.NewService(notify.Config{})
		}
	}

	return &workflow.Runner{
		Catalog:   catalog,
		Sources:   sources,
		Analyzer:  client,
		Notifier:  notifier,
		Merger:    merger.New(merger.Options{MinBaseLength: cfg.Matching.MinBaseLength}),
		Threshold: cfg.Matching.Threshold,
	}, nil
}

func sourceNames(r *workflow.Runner) []string {
	names := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		names = append(names, s.Name())
	}
	return names
}
