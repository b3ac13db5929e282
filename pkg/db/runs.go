package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// Run is one recorded crawl invocation.
type Run struct {
	RunID         string
	FromDate      string
	ToDate        string
	StatusFilter  string
	StartedAt     time.Time
	FinishedAt    sql.NullTime
	CaseCount     int
	DetailSuccess int
	DetailFailed  int
	DownloadCount int
	SnapshotPath  string
}

// Per-case and per-download outcome values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// CreateRun records the start of a crawl and returns its generated ID.
func (db *DB) CreateRun(fromDate, toDate, statusFilter, snapshotPath string) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO runs (run_id, from_date, to_date, status_filter, started_at, snapshot_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, fromDate, toDate, statusFilter, time.Now().UTC(), snapshotPath)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return runID, nil
}

// FinishRun closes out a run with its final counters.
func (db *DB) FinishRun(runID string, caseCount, detailSuccess, detailFailed, downloadCount int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, case_count = ?, detail_success = ?, detail_failed = ?, download_count = ?
		WHERE run_id = ?
	`, time.Now().UTC(), caseCount, detailSuccess, detailFailed, downloadCount, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordCaseFetch notes the outcome of one case's detail enrichment. The
// free-text order date is additionally normalized into a timestamp when it
// parses; the raw text always survives as-is.
func (db *DB) RecordCaseFetch(runID string, caseIdx int, caseNumber, orderDate, detailURL, status, errMsg string) error {
	var orderedAt any
	if t, err := dateparse.ParseAny(orderDate); err == nil {
		orderedAt = t.UTC()
	}

	_, err := db.Exec(`
		INSERT INTO case_fetches (run_id, case_idx, case_number, order_date, ordered_at, detail_url, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, caseIdx, caseNumber, orderDate, orderedAt, detailURL, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to record case fetch: %w", err)
	}
	return nil
}

// RecordDownload notes the outcome of one PDF download.
func (db *DB) RecordDownload(runID, sourceURL, destPath, status, errMsg string) error {
	_, err := db.Exec(`
		INSERT INTO downloads (run_id, source_url, dest_path, status, error)
		VALUES (?, ?, ?, ?, ?)
	`, runID, sourceURL, destPath, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// ListRuns returns recorded runs, most recent first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT run_id, from_date, to_date, status_filter, started_at, finished_at,
		       case_count, detail_success, detail_failed, download_count, snapshot_path
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var snapshotPath sql.NullString
		if err := rows.Scan(&r.RunID, &r.FromDate, &r.ToDate, &r.StatusFilter, &r.StartedAt, &r.FinishedAt,
			&r.CaseCount, &r.DetailSuccess, &r.DetailFailed, &r.DownloadCount, &snapshotPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.SnapshotPath = snapshotPath.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	var r Run
	var snapshotPath sql.NullString
	err := db.QueryRow(`
		SELECT run_id, from_date, to_date, status_filter, started_at, finished_at,
		       case_count, detail_success, detail_failed, download_count, snapshot_path
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.FromDate, &r.ToDate, &r.StatusFilter, &r.StartedAt, &r.FinishedAt,
		&r.CaseCount, &r.DetailSuccess, &r.DetailFailed, &r.DownloadCount, &snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	r.SnapshotPath = snapshotPath.String
	return &r, nil
}
