// Package download plans PDF download tasks: deterministic, case-namespaced
// destination paths the orchestrator schedules fetches against.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Task pairs a source URL with its destination path.
// The fetch itself happens elsewhere.
type Task struct {
	URL  string
	Dest string
}

// Plan builds the download task for one order document and makes sure the
// case's destination directory exists. Directory creation is idempotent;
// identical inputs always yield the identical path, so re-runs overwrite
// instead of duplicating.
func Plan(rootDir, rawURL, caseNumber, orderDate string, isMain bool, orderNo string) (Task, error) {
	dest := DestPath(rootDir, caseNumber, orderDate, isMain, orderNo)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Task{}, fmt.Errorf("failed to create download directory: %w", err)
	}
	return Task{URL: rawURL, Dest: dest}, nil
}

// DestPath derives the destination path for an order document. Pure: no
// filesystem access, no randomness.
func DestPath(rootDir, caseNumber, orderDate string, isMain bool, orderNo string) string {
	safeCase := SanitizeCaseNumber(caseNumber)
	date := strings.ReplaceAll(orderDate, "-", "_")

	var filename string
	if isMain {
		filename = fmt.Sprintf("Main_Order_%s_%s.pdf", date, safeCase)
	} else {
		filename = fmt.Sprintf("Order_%s_%s_%s.pdf", orderNo, date, safeCase)
	}
	return filepath.Join(rootDir, safeCase, filename)
}

// SanitizeCaseNumber reduces a case number to a filesystem-safe token:
// letters, digits, underscore and hyphen survive, everything else is
// dropped.
func SanitizeCaseNumber(caseNumber string) string {
	var b strings.Builder
	b.Grow(len(caseNumber))
	for _, r := range caseNumber {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
