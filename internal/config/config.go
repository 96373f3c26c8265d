// Package config loads run settings from an optional YAML file and the
// environment. Environment variables take precedence over the file, which
// takes precedence over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTabs are the catalog tabs, one per category.
var DefaultTabs = []string{
	"Romans",
	"La Tour Sombre",
	"Série Bill Hodges",
	"Série Gwendy Peterson",
	"Richard Bachman",
	"Recueils de nouvelles",
}

// Analysis configures the generative collaborator.
type Analysis struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxRetries   int     `yaml:"max_retries"`
	DelaySeconds float64 `yaml:"delay_seconds"`
	APIKey       string  `yaml:"api_key"`
	BaseURL      string  `yaml:"base_url"`
}

// Delay returns the pacing between calls.
func (a Analysis) Delay() time.Duration {
	return time.Duration(a.DelaySeconds * float64(time.Second))
}

// Catalog locates the spreadsheet.
type Catalog struct {
	SpreadsheetID      string   `yaml:"spreadsheet_id"`
	ServiceAccountPath string   `yaml:"service_account_path"`
	Tabs               []string `yaml:"tabs"`
}

// Wikipedia configures the encyclopedia source.
type Wikipedia struct {
	Enabled  bool     `yaml:"enabled"`
	URL      string   `yaml:"url"`
	Sections []string `yaml:"sections"`
}

// Sources lists the candidate sources of a run.
type Sources struct {
	Wikipedia Wikipedia `yaml:"wikipedia"`
	// Generative enables the bibliography query to the analysis model.
	Generative bool `yaml:"generative"`
}

// Matching tunes title comparison.
type Matching struct {
	Threshold     float64 `yaml:"threshold"`
	MinBaseLength int     `yaml:"min_base_length"`
}

// Email configures the run summary.
type Email struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// Config encapsulates all settings of a run.
type Config struct {
	Analysis  Analysis `yaml:"analysis"`
	Catalog   Catalog  `yaml:"catalog"`
	Sources   Sources  `yaml:"sources"`
	Matching  Matching `yaml:"matching"`
	Email     Email    `yaml:"email"`
	ReportDir string   `yaml:"report_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			MaxRetries:   3,
			DelaySeconds: 6,
		},
		Catalog: Catalog{
			ServiceAccountPath: "service_account.json",
			Tabs:               append([]string(nil), DefaultTabs...),
		},
		Sources: Sources{
			Wikipedia:  Wikipedia{Enabled: true},
			Generative: true,
		},
		Matching: Matching{
			Threshold:     0.85,
			MinBaseLength: 3,
		},
		Email: Email{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		ReportDir: "runs",
	}
}

// Load reads path over the defaults, when path is not empty, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	str("ANALYSIS_PROVIDER", &c.Analysis.Provider)
	str("GEMINI_MODEL", &c.Analysis.Model)
	str("SPREADSHEET_ID", &c.Catalog.SpreadsheetID)
	str("SERVICE_ACCOUNT_PATH", &c.Catalog.ServiceAccountPath)
	str("GMAIL_USER", &c.Email.User)
	str("GMAIL_APP_PASSWORD", &c.Email.Password)
	str("NOTIFY_RECIPIENT", &c.Email.Recipient)
	str("WIKIPEDIA_URL", &c.Sources.Wikipedia.URL)

	switch c.Analysis.Provider {
	case "gemini":
		str("GEMINI_API_KEY", &c.Analysis.APIKey)
	case "openai":
		str("OPENAI_API_KEY", &c.Analysis.APIKey)
	case "ollama":
		str("OLLAMA_URL", &c.Analysis.BaseURL)
	}

	if v := os.Getenv("MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_RETRIES %q: %w", v, err)
		}
		c.Analysis.MaxRetries = n
	}
	if v := os.Getenv("API_DELAY_SECONDS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid API_DELAY_SECONDS %q: %w", v, err)
		}
		c.Analysis.DelaySeconds = f
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Analysis.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("analysis.provider must be gemini, openai or ollama, got %q", c.Analysis.Provider)
	}
	if c.Analysis.MaxRetries < 1 {
		return errors.New("analysis.max_retries must be at least 1")
	}
	if c.Analysis.DelaySeconds < 0 {
		return errors.New("analysis.delay_seconds must not be negative")
	}
	if len(c.Catalog.Tabs) == 0 {
		return errors.New("catalog.tabs must list at least one tab")
	}
	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		return errors.New("matching.threshold must be in (0, 1]")
	}
	if c.Matching.MinBaseLength < 0 {
		return errors.New("matching.min_base_length must not be negative")
	}
	return nil
}

// RequireCatalog checks the settings needed to reach the spreadsheet.
func (c *Config) RequireCatalog() error {
	if c.Catalog.SpreadsheetID == "" {
		return errors.New("catalog.spreadsheet_id is required. Set SPREADSHEET_ID or edit the config file")
	}
	return nil
}
