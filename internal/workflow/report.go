package workflow

import (
	"time"

	"github.com/agent-king/bibliography/internal/models"
)

// Report summarizes a run.
type Report struct {
	StartedAt    time.Time     `yaml:"started_at"`
	FinishedAt   time.Time     `yaml:"finished_at"`
	Known        int           `yaml:"known_titles"`
	Candidates   int           `yaml:"candidates"`
	Added        []models.Book `yaml:"added"`
	Skipped      []Skip        `yaml:"skipped,omitempty"`
	Completed    int           `yaml:"completed"`
	SourceErrors []SourceError `yaml:"source_errors,omitempty"`
}

// Skip records a candidate that was not added.
type Skip struct {
	Title  string `yaml:"title"`
	Reason Reason `yaml:"reason"`
	Detail string `yaml:"detail,omitempty"`
}

type SourceError struct {
	Source string `yaml:"source"`
	Error  string `yaml:"error"`
}
