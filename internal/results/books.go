package results

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/agent-king/bibliography/internal/models"
)

// SaveBooks writes books to a .parquet or .jsonl file, chosen by extension.
func SaveBooks(path string, books []models.Book) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return saveParquet(path, books)
	case ".jsonl", ".json":
		return saveJSONL(path, books)
	default:
		return fmt.Errorf("unsupported file format: %s (expected .parquet or .jsonl)", ext)
	}
}

// LoadBooks reads books written by SaveBooks.
func LoadBooks(path string) ([]models.Book, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return loadParquet(path)
	case ".jsonl", ".json":
		return loadJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (expected .parquet or .jsonl)", ext)
	}
}

func saveParquet(path string, books []models.Book) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[models.Book](file)
	if _, err := writer.Write(books); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Debug("Wrote parquet file", "path", path, "rows", len(books))
	return nil
}

func loadParquet(path string) ([]models.Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.Book](pf)
	defer reader.Close()

	var books []models.Book
	rows := make([]models.Book, 128)
	for {
		n, err := reader.Read(rows)
		books = append(books, rows[:n]...)
		if err != nil {
			break
		}
	}

	slog.Debug("Read parquet file", "path", path, "rows", len(books))
	return books, nil
}

func saveJSONL(path string, books []models.Book) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSONL file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, b := range books {
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to encode book %q: %w", b.TitleVO, err)
		}
	}
	return w.Flush()
}

func loadJSONL(path string) ([]models.Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL file: %w", err)
	}
	defer file.Close()

	var books []models.Book
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var b models.Book
		if err := json.Unmarshal([]byte(line), &b); err != nil {
			slog.Warn("Skipping malformed line", "line", lineNum, "error", err)
			continue
		}
		books = append(books, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSONL file: %w", err)
	}
	return books, nil
}
