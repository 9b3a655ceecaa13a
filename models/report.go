package models

// DocumentFailure records a document that could not be converted: a body that
// does not follow the export dialect, or an output path already claimed by an
// earlier document in the same run.
type DocumentFailure struct {
	Filename string
	Reason   string
}

// AssetFailure records a single image that could not be mirrored. The owning
// document is still emitted with the original remote URL as a stand-in.
type AssetFailure struct {
	Filename string
	URL      string
	Ordinal  int
	Reason   string
}

// ConversionReport aggregates the outcome of one batch run. It is built
// incrementally by the orchestrator and persisted once at end of run.
type ConversionReport struct {
	Processed        int
	Unmapped         []string
	DocumentFailures []DocumentFailure
	AssetFailures    []AssetFailure
}

// HasErrors reports whether anything in the run needs manual triage.
func (r *ConversionReport) HasErrors() bool {
	return len(r.Unmapped) > 0 || len(r.DocumentFailures) > 0 || len(r.AssetFailures) > 0
}
