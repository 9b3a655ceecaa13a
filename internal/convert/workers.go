package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"framer2mdx/models"
	"framer2mdx/pkg/db"
	"framer2mdx/pkg/fetcher"
	"framer2mdx/pkg/mirror"
	"framer2mdx/pkg/storage"
	"framer2mdx/pkg/taxonomy"
	"framer2mdx/pkg/transpiler"
)

// Orchestrator drives one batch: resolve every input file against the
// taxonomy, parse, mirror assets, render and write. Failure of one unit
// never blocks others; everything is downgraded to a report entry.
type Orchestrator struct {
	cfg      *models.ConvertConfig
	table    *taxonomy.Table
	logger   *slog.Logger
	store    *storage.Storage
	mirror   *mirror.Mirror
	parser   *transpiler.Parser
	database *db.DB // nil disables run recording
}

func NewOrchestrator(cfg *models.ConvertConfig, table *taxonomy.Table, logger *slog.Logger, database *db.DB) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	store := &storage.Storage{}
	f := fetcher.New(cfg.FetchTimeout, cfg.InsecureHosts, logger)

	isAsset := func(rawURL string) bool {
		return cfg.AssetHost == "" || fetcher.MatchesHost(rawURL, cfg.AssetHost)
	}

	return &Orchestrator{
		cfg:      cfg,
		table:    table,
		logger:   logger,
		store:    store,
		mirror:   mirror.New(f, store, logger, cfg.AssetWorkerCount, cfg.ForceFetch),
		parser:   transpiler.NewParser(isAsset),
		database: database,
	}
}

// Run converts every .txt file in the input directory and returns the
// aggregated report. Only an unreadable input directory is fatal.
func (o *Orchestrator) Run() (*models.ConversionReport, error) {
	start := time.Now()
	report := &models.ConversionReport{}

	entries, err := os.ReadDir(o.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var runID int64
	if o.database != nil {
		runID, err = o.database.InsertRun(o.cfg.InputDir, o.cfg.OutputDir)
		if err != nil {
			o.logger.Warn("failed to record run, continuing without run history", "error", err)
			o.database = nil
		}
	}

	workerCount := o.cfg.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobs := make(chan Job, len(entries))
	results := make(chan Result, len(entries))
	var wg sync.WaitGroup
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go o.worker(w, &wg, jobs, results)
	}

	// Dispatch in directory order (ReadDir sorts by filename), claiming
	// output paths up front: on a collision the later filename loses,
	// deterministically.
	claimed := make(map[string]string)
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".txt") {
			continue
		}
		name := ent.Name()

		entry, ok := o.table.Resolve(name)
		if !ok {
			o.logger.Warn("file not in taxonomy, skipping", "file", name)
			report.Unmapped = append(report.Unmapped, name)
			o.recordDocument(runID, name, "unmapped", "", "")
			continue
		}

		doc, err := models.LoadDocument(filepath.Join(o.cfg.InputDir, name))
		if err != nil {
			o.logger.Error("failed to load document", "file", name, "error", err)
			report.DocumentFailures = append(report.DocumentFailures, models.DocumentFailure{Filename: name, Reason: err.Error()})
			o.recordDocument(runID, name, "parse_failed", "", err.Error())
			continue
		}

		loc := entry.Locate(doc.Title, o.cfg.OutputDir, o.cfg.ImagesDir)
		if first, dup := claimed[loc.OutputPath]; dup {
			reason := fmt.Sprintf("output path %s already claimed by %s", loc.OutputPath, first)
			o.logger.Error("output path collision", "file", name, "claimed_by", first)
			report.DocumentFailures = append(report.DocumentFailures, models.DocumentFailure{Filename: name, Reason: reason})
			o.recordDocument(runID, name, "collision", loc.OutputPath, reason)
			continue
		}
		claimed[loc.OutputPath] = name

		jobs <- Job{Doc: doc, Loc: loc}
	}
	close(jobs)

	wg.Wait()
	close(results)
	o.logger.Info("all conversion workers finished")

	for res := range results {
		if res.Err != nil {
			report.DocumentFailures = append(report.DocumentFailures, models.DocumentFailure{Filename: res.Filename, Reason: res.Err.Error()})
			status := "parse_failed"
			if res.ErrType == "save_error" {
				status = "write_failed"
			}
			o.recordDocument(runID, res.Filename, status, res.OutputPath, res.Err.Error())
			continue
		}

		report.Processed++
		docID := o.recordDocument(runID, res.Filename, "converted", res.OutputPath, "")
		for _, ref := range res.Refs {
			o.recordAsset(docID, ref)
			if ref.Status == mirror.StatusFailed {
				report.AssetFailures = append(report.AssetFailures, models.AssetFailure{
					Filename: res.Filename,
					URL:      ref.URL,
					Ordinal:  ref.Ordinal,
					Reason:   ref.Err.Error(),
				})
			}
		}
	}

	// Results arrive in completion order; sort for stable reports.
	sort.Slice(report.DocumentFailures, func(i, j int) bool {
		return report.DocumentFailures[i].Filename < report.DocumentFailures[j].Filename
	})
	sort.Slice(report.AssetFailures, func(i, j int) bool {
		a, b := report.AssetFailures[i], report.AssetFailures[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Ordinal < b.Ordinal
	})

	if o.database != nil {
		err := o.database.FinishRun(runID, report.Processed, len(report.Unmapped),
			len(report.DocumentFailures), len(report.AssetFailures), time.Since(start))
		if err != nil {
			o.logger.Warn("failed to finalize run record", "error", err)
		}
	}

	return report, nil
}

func (o *Orchestrator) worker(id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		o.logger.Info("worker started document", "worker_id", id, "file", job.Doc.Filename)
		result := Result{Filename: job.Doc.Filename, OutputPath: job.Loc.OutputPath}

		nodes, err := o.parser.Parse(job.Doc.Body)
		if err != nil {
			o.logger.Error("failed to parse document body", "worker_id", id, "file", job.Doc.Filename, "error", err)
			result.Err = err
			result.ErrType = "parse_error"
			results <- result
			continue
		}

		refs := o.mirror.Mirror(transpiler.AssetURLs(nodes), job.Loc)
		result.Refs = refs

		mdx := transpiler.Render(job.Doc.Title, nodes, refs)
		if err := o.store.SaveFile(job.Loc.OutputPath, []byte(mdx)); err != nil {
			o.logger.Error("failed to write output file", "worker_id", id, "path", job.Loc.OutputPath, "error", err)
			result.Err = err
			result.ErrType = "save_error"
			results <- result
			continue
		}

		results <- result
		o.logger.Info("worker finished document", "worker_id", id, "file", job.Doc.Filename, "output", job.Loc.OutputPath)
	}
}

func (o *Orchestrator) recordDocument(runID int64, filename, status, outputPath, errMsg string) int64 {
	if o.database == nil {
		return 0
	}
	docID, err := o.database.InsertDocument(runID, filename, status, outputPath, errMsg)
	if err != nil {
		o.logger.Warn("failed to record document outcome", "file", filename, "error", err)
		return 0
	}
	return docID
}

func (o *Orchestrator) recordAsset(docID int64, ref mirror.AssetRef) {
	if o.database == nil || docID == 0 {
		return
	}
	errMsg := ""
	if ref.Err != nil {
		errMsg = ref.Err.Error()
	}
	if err := o.database.InsertAsset(docID, ref.Ordinal, ref.URL, ref.LocalPath, ref.Status.String(), errMsg); err != nil {
		o.logger.Warn("failed to record asset outcome", "url", ref.URL, "error", err)
	}
}
