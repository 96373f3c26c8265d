// Package results persists run reports and accepted books.
package results

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agent-king/bibliography/internal/workflow"
)

const timestampLayout = "2006-01-02_15-04-05"

// RunFile is the document written for each run.
type RunFile struct {
	Config RunConfig        `yaml:"config"`
	Report *workflow.Report `yaml:"report"`
}

// RunConfig records what the run was configured with.
type RunConfig struct {
	Provider  string   `yaml:"provider"`
	Model     string   `yaml:"model"`
	Sources   []string `yaml:"sources"`
	DryRun    bool     `yaml:"dryrun"`
	Timestamp string   `yaml:"timestamp"`
}

// SaveYAML writes the report to dir/run_<timestamp>.yaml and returns the
// file path.
func SaveYAML(dir string, cfg RunConfig, report *workflow.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	started := report.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	cfg.Timestamp = started.Format(timestampLayout)

	data, err := yaml.Marshal(&RunFile{Config: cfg, Report: report})
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("run_%s.yaml", cfg.Timestamp))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	slog.Info("Run report saved", "path", filename)
	return filename, nil
}

// LoadYAML reads a run file back.
func LoadYAML(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var run RunFile
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &run, nil
}
