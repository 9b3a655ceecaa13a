// Package models defines data structures shared across the conversion pipeline.
package models

import "time"

// ConvertConfig holds runtime configuration for a conversion run.
// All values come from CLI flags, not external config files.
type ConvertConfig struct {
	InputDir     string
	OutputDir    string
	ImagesDir    string
	TaxonomyPath string
	DBPath       string

	// WorkerCount bounds the document worker pool, AssetWorkerCount the
	// per-document download pool.
	WorkerCount      int
	AssetWorkerCount int

	// AssetHost is the host suffix whose images are mirrored locally.
	// Images from any other host keep their original URL in the output.
	AssetHost string

	// InsecureHosts are host suffixes fetched without TLS verification.
	// The legacy asset host ships a broken certificate chain.
	InsecureHosts []string

	FetchTimeout time.Duration
	ForceFetch   bool
}
