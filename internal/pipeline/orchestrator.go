package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/pmguide/internal/config"
	"github.com/dgallion1/pmguide/internal/parser"
	"github.com/dgallion1/pmguide/internal/sectionizer"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("import queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("import pipeline stopped")
)

// Orchestrator manages the document import pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	repo  Repository
	stats *ImportStats
	log   *slog.Logger
	cfg   config.Config

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, repo Repository, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		repo:  repo,
		stats: NewImportStats(time.Hour),
		log:   log,
		cfg:   cfg,
	}
}

// NewWorkerFromConfig builds a worker with the configured parser and
// sectioning settings.
func NewWorkerFromConfig(cfg config.Config, repo Repository, log *slog.Logger, stats *ImportStats) *Worker {
	return NewWorker(repo, log, stats,
		parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		sectionizer.Config{MaxTokens: cfg.MaxSectionTokens, Concurrency: cfg.MaxConcurrentSectioning},
	)
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range max(o.cfg.WorkerCount, 1) {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorkerFromConfig(o.cfg, o.repo, o.log, o.stats)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	interval := min(5*time.Minute, max(o.cfg.JobTTL, time.Second))
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop shuts the pipeline down. Jobs still queued are marked failed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	for job := range o.queue {
		job.AddError("pipeline stopped before processing")
		job.SetStatus(StatusFailed, "shutdown")
	}
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue_full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns import outcome and duration statistics.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}
