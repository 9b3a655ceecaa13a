package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunSummary is one row of the runs table.
type RunSummary struct {
	RunID         int64
	CreatedAt     time.Time
	InputDir      string
	OutputDir     string
	Processed     int
	Unmapped      int
	DocFailures   int
	AssetFailures int
	DurationSecs  float64
}

// DocumentRow is one document outcome within a run.
type DocumentRow struct {
	DocID      int64
	Filename   string
	Status     string
	OutputPath string
	Error      string
}

// AssetRow is one asset outcome within a run, joined with its owning
// document's filename.
type AssetRow struct {
	Filename  string
	Ordinal   int
	SourceURL string
	LocalPath string
	Status    string
	Error     string
}

// InsertRun creates a run row and returns its ID.
func (db *DB) InsertRun(inputDir, outputDir string) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO runs (input_dir, output_dir) VALUES (?, ?)",
		inputDir, outputDir,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun records the aggregate counts and duration of a completed run.
func (db *DB) FinishRun(runID int64, processed, unmapped, docFailures, assetFailures int, duration time.Duration) error {
	_, err := db.Exec(
		`UPDATE runs SET processed = ?, unmapped = ?, doc_failures = ?, asset_failures = ?, duration_seconds = ?
		 WHERE run_id = ?`,
		processed, unmapped, docFailures, assetFailures, duration.Seconds(), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertDocument records one document outcome and returns its ID.
func (db *DB) InsertDocument(runID int64, filename, status, outputPath, errMsg string) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO documents (run_id, filename, status, output_path, error) VALUES (?, ?, ?, ?, ?)",
		runID, filename, status, nullable(outputPath), nullable(errMsg),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}
	return result.LastInsertId()
}

// InsertAsset records one asset fetch outcome.
func (db *DB) InsertAsset(docID int64, ordinal int, sourceURL, localPath, status, errMsg string) error {
	_, err := db.Exec(
		"INSERT INTO assets (doc_id, ordinal, source_url, local_path, status, error) VALUES (?, ?, ?, ?, ?, ?)",
		docID, ordinal, sourceURL, nullable(localPath), status, nullable(errMsg),
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT run_id, created_at, input_dir, output_dir, processed, unmapped,
		        doc_failures, asset_failures, COALESCE(duration_seconds, 0)
		 FROM runs ORDER BY run_id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.InputDir, &r.OutputDir,
			&r.Processed, &r.Unmapped, &r.DocFailures, &r.AssetFailures, &r.DurationSecs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (db *DB) GetRun(runID int64) (*RunSummary, error) {
	var r RunSummary
	err := db.QueryRow(
		`SELECT run_id, created_at, input_dir, output_dir, processed, unmapped,
		        doc_failures, asset_failures, COALESCE(duration_seconds, 0)
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&r.RunID, &r.CreatedAt, &r.InputDir, &r.OutputDir,
		&r.Processed, &r.Unmapped, &r.DocFailures, &r.AssetFailures, &r.DurationSecs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// LatestRunID returns the most recent run's ID.
func (db *DB) LatestRunID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id, nil
}

// GetRunDocuments returns a run's document outcomes in insertion order.
func (db *DB) GetRunDocuments(runID int64) ([]DocumentRow, error) {
	rows, err := db.Query(
		`SELECT doc_id, filename, status, COALESCE(output_path, ''), COALESCE(error, '')
		 FROM documents WHERE run_id = ? ORDER BY doc_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentRow
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.DocID, &d.Filename, &d.Status, &d.OutputPath, &d.Error); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetRunAssets returns a run's asset outcomes, optionally only failed ones.
func (db *DB) GetRunAssets(runID int64, failedOnly bool) ([]AssetRow, error) {
	query := `SELECT d.filename, a.ordinal, a.source_url, COALESCE(a.local_path, ''), a.status, COALESCE(a.error, '')
		 FROM assets a JOIN documents d ON a.doc_id = d.doc_id
		 WHERE d.run_id = ?`
	if failedOnly {
		query += " AND a.status = 'failed'"
	}
	query += " ORDER BY a.asset_id"

	rows, err := db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run assets: %w", err)
	}
	defer rows.Close()

	var assets []AssetRow
	for rows.Next() {
		var a AssetRow
		if err := rows.Scan(&a.Filename, &a.Ordinal, &a.SourceURL, &a.LocalPath, &a.Status, &a.Error); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
