package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Crawl runs: one row per invocation of the crawl command
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    from_date TEXT NOT NULL,
    to_date TEXT NOT NULL,
    status_filter TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    case_count INTEGER DEFAULT 0,
    detail_success INTEGER DEFAULT 0,
    detail_failed INTEGER DEFAULT 0,
    download_count INTEGER DEFAULT 0,
    snapshot_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Per-case detail fetch outcomes
CREATE TABLE IF NOT EXISTS case_fetches (
    fetch_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    case_idx INTEGER NOT NULL,
    case_number TEXT NOT NULL,
    order_date TEXT,
    ordered_at TIMESTAMP,        -- best-effort normalization of order_date
    detail_url TEXT,
    status TEXT NOT NULL,        -- success | failed | skipped
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_case_fetches_run ON case_fetches(run_id);
CREATE INDEX IF NOT EXISTS idx_case_fetches_number ON case_fetches(case_number);

-- PDF download outcomes
CREATE TABLE IF NOT EXISTS downloads (
    download_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    source_url TEXT NOT NULL,
    dest_path TEXT NOT NULL,
    status TEXT NOT NULL,        -- success | failed
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_downloads_run ON downloads(run_id);
`
