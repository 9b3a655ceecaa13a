// Package runs implements the CLI commands for browsing recorded
// conversion runs.
package runs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"framer2mdx/pkg/db"
)

// ListAction prints recent runs, newest first.
func ListAction(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-9s %-9s %-9s %-8s %s\n",
		"ID", "Created", "Processed", "Unmapped", "DocFail", "AssetFail", "Time", "Input Dir")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-10d %-9d %-9d %-9d %-8s %s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Processed,
			r.Unmapped,
			r.DocFailures,
			r.AssetFailures,
			fmt.Sprintf("%.1fs", r.DurationSecs),
			r.InputDir,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Println("\nTip: use 'framer2mdx runs show <id>' to see per-document outcomes")
	return nil
}

// ShowAction prints one run's document and asset outcomes. Without an ID
// argument it shows the latest run.
func ShowAction(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var runID int64
	if c.Args().Len() > 0 {
		runID, err = strconv.ParseInt(c.Args().First(), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q", c.Args().First())
		}
	} else {
		runID, err = database.LatestRunID()
		if err != nil {
			return err
		}
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  input:  %s\n", run.InputDir)
	fmt.Printf("  output: %s\n", run.OutputDir)
	fmt.Printf("  processed %d, unmapped %d, doc failures %d, asset failures %d, %.1fs\n\n",
		run.Processed, run.Unmapped, run.DocFailures, run.AssetFailures, run.DurationSecs)

	docs, err := database.GetRunDocuments(runID)
	if err != nil {
		return err
	}

	fmt.Printf("%-45s %-13s %s\n", "Filename", "Status", "Output / Error")
	fmt.Println(strings.Repeat("-", 110))
	for _, d := range docs {
		detail := d.OutputPath
		if d.Error != "" {
			detail = d.Error
		}
		fmt.Printf("%-45s %-13s %s\n", d.Filename, d.Status, detail)
	}

	failed, err := database.GetRunAssets(runID, true)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		fmt.Println("\nFailed assets:")
		for _, a := range failed {
			fmt.Printf("  %s image %d: %s (%s)\n", a.Filename, a.Ordinal, a.Error, a.SourceURL)
		}
	}

	return nil
}
