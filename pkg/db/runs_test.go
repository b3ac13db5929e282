package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite ledger for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	database := &DB{DB: sqlDB, path: ":memory:"}
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestCreateAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("01-01-2024", "20-01-2024", "pending", "cases_01-01-2024_to_20-01-2024.json")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.FromDate != "01-01-2024" || run.ToDate != "20-01-2024" || run.StatusFilter != "pending" {
		t.Errorf("unexpected run fields: %+v", run)
	}
	if run.FinishedAt.Valid {
		t.Error("new run should not be finished")
	}

	if err := db.FinishRun(runID, 12, 10, 2, 7); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	run, err = db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun after finish failed: %v", err)
	}
	if !run.FinishedAt.Valid {
		t.Error("finished run should carry a finish time")
	}
	if run.CaseCount != 12 || run.DetailSuccess != 10 || run.DetailFailed != 2 || run.DownloadCount != 7 {
		t.Errorf("unexpected counters: %+v", run)
	}
}

func TestRecordCaseFetch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("01-01-2024", "20-01-2024", "pending", "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		orderDate string
		status    string
	}{
		{name: "parseable date", orderDate: "2024-01-05", status: StatusSuccess},
		{name: "site-style date", orderDate: "05-01-2024", status: StatusSuccess},
		{name: "free text date", orderDate: "awaited", status: StatusFailed},
		{name: "empty date", orderDate: "", status: StatusSkipped},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.RecordCaseFetch(runID, i, "WP(C) 1/2024", tt.orderDate, "/case-order-view?id=1", tt.status, "")
			if err != nil {
				t.Fatalf("RecordCaseFetch failed: %v", err)
			}
		})
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM case_fetches WHERE run_id = ?", runID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != len(tests) {
		t.Errorf("got %d case fetches, want %d", count, len(tests))
	}

	// Unparseable dates leave the normalized column NULL; the raw text is
	// always kept.
	var nullDates int
	if err := db.QueryRow("SELECT COUNT(*) FROM case_fetches WHERE run_id = ? AND ordered_at IS NULL", runID).Scan(&nullDates); err != nil {
		t.Fatal(err)
	}
	if nullDates != 2 {
		t.Errorf("got %d NULL normalized dates, want 2", nullDates)
	}
}

func TestRecordDownloadAndListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := db.CreateRun("01-01-2024", "10-01-2024", "pending", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.CreateRun("11-01-2024", "20-01-2024", "disposed", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.RecordDownload(first, "https://site/x.pdf", "pdfs/WPC12024/Main_Order_05_01_2024_WPC12024.pdf", StatusSuccess, ""); err != nil {
		t.Fatalf("RecordDownload failed: %v", err)
	}
	if err := db.RecordDownload(first, "https://site/y.pdf", "pdfs/WPC12024/Order_2_06_01_2024_WPC12024.pdf", StatusFailed, "status 404"); err != nil {
		t.Fatalf("RecordDownload failed: %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	seen := map[string]bool{}
	for _, r := range runs {
		seen[r.RunID] = true
	}
	if !seen[first] || !seen[second] {
		t.Errorf("ListRuns missing expected run IDs: %+v", seen)
	}
}
