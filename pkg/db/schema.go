package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs table: one row per conversion batch
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    input_dir TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    processed INTEGER NOT NULL DEFAULT 0,
    unmapped INTEGER NOT NULL DEFAULT 0,
    doc_failures INTEGER NOT NULL DEFAULT 0,
    asset_failures INTEGER NOT NULL DEFAULT 0,
    duration_seconds REAL
);

-- Documents table: per-input outcome within a run
CREATE TABLE IF NOT EXISTS documents (
    doc_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    filename TEXT NOT NULL,
    status TEXT NOT NULL,      -- converted, unmapped, parse_failed, write_failed, collision
    output_path TEXT,
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

-- Assets table: per-image fetch outcome within a document
CREATE TABLE IF NOT EXISTS assets (
    asset_id INTEGER PRIMARY KEY AUTOINCREMENT,
    doc_id INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    source_url TEXT NOT NULL,
    local_path TEXT,
    status TEXT NOT NULL,      -- downloaded, failed, pending
    error TEXT,
    FOREIGN KEY (doc_id) REFERENCES documents(doc_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assets_doc ON assets(doc_id);
CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);
`
