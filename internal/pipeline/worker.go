package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/parser"
	"github.com/dgallion1/pmguide/internal/sectionizer"
	"github.com/dgallion1/pmguide/internal/store"
)

// Repository is the storage the import pipeline writes to.
type Repository interface {
	Standards() store.StandardStore
	Sections() store.SectionStore
	Imports() store.ImportStore
}

// Worker processes a single import job.
type Worker struct {
	repo       Repository
	log        *slog.Logger
	stats      *ImportStats
	parserOpts parser.Options
	sectionCfg sectionizer.Config
}

func NewWorker(repo Repository, log *slog.Logger, stats *ImportStats, parserOpts parser.Options, sectionCfg sectionizer.Config) *Worker {
	return &Worker{
		repo:       repo,
		log:        log,
		stats:      stats,
		parserOpts: parserOpts,
		sectionCfg: sectionCfg,
	}
}

// Process runs the full import for a job and leaves it in a terminal status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "standard", job.StandardName, "filename", job.Filename)

	status, phase := w.run(ctx, job, log)
	if w.stats != nil {
		w.stats.Record(status, time.Since(start))
	}
	log.Info("import finished", "status", status, "duration", time.Since(start))
	job.SetStatus(status, phase)
}

// run executes the phases and returns the terminal status to record.
func (w *Worker) run(ctx context.Context, job *Job, log *slog.Logger) (JobStatus, string) {
	data := job.FileData()
	hash := ContentHashHex(data)
	job.setContentHash(hash)

	// Phase 0: skip an identical re-upload.
	prev, err := w.repo.Imports().Get(ctx, job.StandardID)
	switch {
	case err == nil && prev.ContentHash == hash:
		log.Info("file already imported, skipping", "sections", prev.Sections)
		job.SetSections(prev.Sections, 0)
		return StatusDupSkipped, "dedup"
	case err != nil && !errors.Is(err, model.ErrNotFound):
		log.Warn("dedup check failed, proceeding", "error", err)
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		return fail(log, job, "parsing", err)
	}
	tree, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		return fail(log, job, "parsing", fmt.Errorf("parse: %w", err))
	}
	job.SetPages(tree.Pages)

	// Phase 2: Sectioning
	job.SetStatus(StatusSectioning, "sectioning")
	secs, err := sectionizer.Sectionize(ctx, tree, w.sectionCfg)
	if err != nil {
		return fail(log, job, "sectioning", err)
	}
	if len(secs) == 0 {
		return fail(log, job, "sectioning", errors.New("no extractable content"))
	}
	job.SetSections(len(secs), 0)
	log.Info("sectioned document", "sections", len(secs), "pages", tree.Pages)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	if err := w.repo.Sections().ReplaceForStandard(ctx, job.StandardID, secs); err != nil {
		return fail(log, job, "storing", err)
	}
	job.SetSections(len(secs), len(secs))

	if tree.Pages > 0 {
		if err := w.repo.Standards().SetTotalPages(ctx, job.StandardID, tree.Pages); err != nil {
			log.Warn("total pages update failed", "error", err)
			job.AddError(fmt.Sprintf("total pages: %s", err))
		}
	}

	rec := store.ImportRecord{
		StandardID:  job.StandardID,
		ContentHash: hash,
		FileName:    job.Filename,
		Sections:    len(secs),
	}
	if err := w.repo.Imports().Put(ctx, rec); err != nil {
		log.Error("import record write failed", "error", err)
		job.AddError(fmt.Sprintf("import record: %s", err))
	}
	return StatusCompleted, "done"
}

func fail(log *slog.Logger, job *Job, phase string, err error) (JobStatus, string) {
	log.Error("import failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	return StatusFailed, phase
}
