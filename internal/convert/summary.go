package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"framer2mdx/models"
	"framer2mdx/pkg/storage"
)

const (
	UnmappedReportName = "unmapped-files.txt"
	ErrorReportName    = "conversion-errors.txt"
)

// WriteReports writes the unmapped-files list and the error log under the
// output directory, one file each per run.
func WriteReports(store *storage.Storage, outputDir string, report *models.ConversionReport) error {
	var unmapped strings.Builder
	if len(report.Unmapped) == 0 {
		unmapped.WriteString("All input files were mapped to the taxonomy.\n")
	}
	for _, name := range report.Unmapped {
		unmapped.WriteString(name + "\n")
	}
	if err := store.SaveFile(filepath.Join(outputDir, UnmappedReportName), []byte(unmapped.String())); err != nil {
		return fmt.Errorf("failed to write unmapped report: %w", err)
	}

	var errs strings.Builder
	if len(report.DocumentFailures) == 0 && len(report.AssetFailures) == 0 {
		errs.WriteString("No conversion errors.\n")
	}
	for _, f := range report.DocumentFailures {
		fmt.Fprintf(&errs, "document %s: %s\n", f.Filename, f.Reason)
	}
	for _, f := range report.AssetFailures {
		fmt.Fprintf(&errs, "asset %s image %d (%s): %s\n", f.Filename, f.Ordinal, f.URL, f.Reason)
	}
	if err := store.SaveFile(filepath.Join(outputDir, ErrorReportName), []byte(errs.String())); err != nil {
		return fmt.Errorf("failed to write error report: %w", err)
	}

	return nil
}

// PrintSummary writes the end-of-run summary: counts first, then every
// unmapped file and failure with enough context to triage manually.
func PrintSummary(w io.Writer, report *models.ConversionReport, duration time.Duration) {
	fmt.Fprintf(w, "\nConversion finished in %.1fs\n", duration.Seconds())
	fmt.Fprintf(w, "  processed:       %d\n", report.Processed)
	fmt.Fprintf(w, "  unmapped:        %d\n", len(report.Unmapped))
	fmt.Fprintf(w, "  doc failures:    %d\n", len(report.DocumentFailures))
	fmt.Fprintf(w, "  asset failures:  %d\n", len(report.AssetFailures))

	if len(report.Unmapped) > 0 {
		fmt.Fprintln(w, "\nUnmapped files (not in taxonomy):")
		for _, name := range report.Unmapped {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(report.DocumentFailures) > 0 {
		fmt.Fprintln(w, "\nDocument failures:")
		for _, f := range report.DocumentFailures {
			fmt.Fprintf(w, "  %s: %s\n", f.Filename, f.Reason)
		}
	}
	if len(report.AssetFailures) > 0 {
		fmt.Fprintln(w, "\nAsset failures (original URL kept in output):")
		for _, f := range report.AssetFailures {
			fmt.Fprintf(w, "  %s image %d: %s (%s)\n", f.Filename, f.Ordinal, f.Reason, f.URL)
		}
	}
}
