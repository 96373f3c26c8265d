// Package evaluation measures how well title matching separates works the
// catalog already holds from new ones, against a labeled set of cases.
package evaluation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Case is one labeled lookup: is Title already represented by Known?
type Case struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Known []string `json:"known"`
	// Duplicate is the expected answer.
	Duplicate bool   `json:"duplicate"`
	Note      string `json:"note,omitempty"`
}

// LoadDataset reads cases from a JSONL file. Blank lines and lines starting
// with # are ignored.
func LoadDataset(path string) ([]Case, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var cases []Case
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var c Case
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("failed to decode line %d: %w", lineNum, err)
		}
		if c.ID == "" {
			c.ID = fmt.Sprintf("line-%d", lineNum)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	slog.Debug("Loaded dataset", "path", path, "cases", len(cases))
	return cases, nil
}
