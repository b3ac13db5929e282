// Package snapshot persists the in-memory case collection to JSON. The
// crawl writes through after the list parse and after every successful
// detail merge, so partial progress survives a crash.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/courtdata/meghalaya-orders-crawler/models"
)

// Writer serializes the case collection to a single JSON file named after
// the crawl's date range. Safe for concurrent use; detail workers touch
// disjoint slots, so last-writer-wins on disk is acceptable.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter returns a writer targeting
// <outputDir>/cases_<fdate>_to_<tdate>.json.
func NewWriter(outputDir, fdate, tdate string) *Writer {
	return &Writer{
		path: filepath.Join(outputDir, fmt.Sprintf("cases_%s_to_%s.json", fdate, tdate)),
	}
}

// Path returns the snapshot's file path.
func (w *Writer) Path() string {
	return w.path
}

// Save writes the full collection. HTML escaping is disabled so non-ASCII
// party names and URLs survive literally.
func (w *Writer) Save(cases []models.CaseRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cases); err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := os.WriteFile(w.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot back into memory.
func Load(path string) ([]models.CaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var cases []models.CaseRecord
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return cases, nil
}
