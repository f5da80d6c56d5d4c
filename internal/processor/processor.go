// Package processor runs channel detection and repair over many files with a
// bounded worker pool, feeding results into the session registry and
// transcript and reporting progress as a stream of events.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chanfix/internal/audio"
	"chanfix/internal/registry"
)

// Orchestrator owns the registry and transcript for one session and runs at
// most one batch at a time.
type Orchestrator struct {
	analyzer   Classifier
	repairer   Fixer
	registry   *registry.Registry
	transcript *registry.Transcript
	workers    int
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
}

func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		analyzer:   opts.Analyzer,
		repairer:   opts.Repairer,
		registry:   registry.New(),
		transcript: registry.NewTranscript(),
		workers:    workers,
		logger:     logger,
	}
}

func (o *Orchestrator) Registry() *registry.Registry { return o.registry }

func (o *Orchestrator) Transcript() *registry.Transcript { return o.transcript }

// DetectDir discovers media files under dir and starts a detection batch.
func (o *Orchestrator) DetectDir(ctx context.Context, dir string) (<-chan Event, error) {
	if dir == "" {
		return nil, ErrNoInput
	}
	files, err := Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	return o.StartDetect(ctx, files)
}

// StartDetect clears the registry and transcript and classifies files in the
// background. The returned channel yields one event per file followed by
// EventBatchComplete, then closes. It is buffered for the whole batch, so a
// slow consumer never stalls the workers.
func (o *Orchestrator) StartDetect(ctx context.Context, files []string) (<-chan Event, error) {
	if len(files) == 0 {
		return nil, ErrNoMatchingFiles
	}
	if !o.acquire() {
		return nil, ErrBusy
	}

	o.registry.Clear()
	o.transcript.Clear()

	jobs := make([]Job, len(files))
	for i, f := range files {
		jobs[i] = Job{Path: filepath.Clean(f)}
	}
	return o.start(ctx, ModeDetect, jobs), nil
}

// StartRepair repairs every registry file in the selected classifications
// in the background. Events follow the same contract as StartDetect.
func (o *Orchestrator) StartRepair(ctx context.Context, selected []audio.Classification) (<-chan Event, error) {
	if len(selected) == 0 {
		return nil, ErrNoInput
	}
	if !o.acquire() {
		return nil, ErrBusy
	}

	jobs := o.repairJobs(selected)
	if len(jobs) == 0 {
		o.release()
		return nil, ErrNoMatchingFiles
	}
	return o.start(ctx, ModeRepair, jobs), nil
}

// repairJobs builds one job per registry file in the selected
// classifications, each classification taken once. When several inputs map to
// the same output path, the lowest input path keeps it and the others are
// failed up front with ErrOutputCollision, whatever the worker count.
func (o *Orchestrator) repairJobs(selected []audio.Classification) []Job {
	seen := make(map[audio.Classification]bool, len(selected))
	var jobs []Job
	for _, c := range selected {
		if seen[c] {
			continue
		}
		seen[c] = true
		// Classification comes from the category list itself, so no reverse lookup per file.
		for _, f := range o.registry.FilesIn(c) {
			jobs = append(jobs, Job{Path: f, Classification: c})
		}
	}

	owners := make(map[string]string)
	for _, job := range jobs {
		if !job.Classification.Actionable() {
			continue
		}
		out := audio.OutputPath(job.Path)
		if owner, ok := owners[out]; !ok || job.Path < owner {
			owners[out] = job.Path
		}
	}
	for i, job := range jobs {
		if !job.Classification.Actionable() {
			continue
		}
		out := audio.OutputPath(job.Path)
		if owner := owners[out]; owner != job.Path {
			jobs[i].Err = fmt.Errorf("%w: %s also writes %s", ErrOutputCollision, filepath.Base(owner), filepath.Base(out))
		}
	}
	return jobs
}

// DetectFile classifies a single file synchronously, replacing any previous
// registry contents.
func (o *Orchestrator) DetectFile(ctx context.Context, path string) (audio.Classification, error) {
	if path == "" {
		return 0, ErrNoInput
	}
	if !o.acquire() {
		return 0, ErrBusy
	}
	defer o.release()

	path = filepath.Clean(path)
	o.registry.Clear()
	o.transcript.Clear()

	c, err := o.analyzer.Classify(ctx, path)
	o.apply(ModeDetect, Result{Path: path, Classification: c, Err: err})
	return c, err
}

// RepairFile repairs a single file synchronously using its recorded
// classification. The output is "" when no repair was needed.
func (o *Orchestrator) RepairFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrNoInput
	}
	if !o.acquire() {
		return "", ErrBusy
	}
	defer o.release()

	path = filepath.Clean(path)
	c, err := o.registry.CategoryOf(path)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrNotYetClassified)
		}
		return "", err
	}

	out, err := o.repairer.Repair(ctx, path, c)
	o.apply(ModeRepair, Result{Path: path, Classification: c, Output: out, Skipped: err == nil && out == "", Err: err})
	return out, err
}

func (o *Orchestrator) acquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return false
	}
	o.running = true
	return true
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

func (o *Orchestrator) start(ctx context.Context, mode Mode, jobs []Job) <-chan Event {
	batchID := uuid.NewString()
	logger := o.logger.With(slog.String("batch_id", batchID), slog.String("mode", mode.String()))
	events := make(chan Event, len(jobs)+1)

	go func() {
		defer close(events)

		started := time.Now()
		logger.Info("batch started", slog.Int("files", len(jobs)), slog.Int("workers", o.workers))

		summary := o.run(ctx, mode, batchID, jobs, events, logger)
		summary.Elapsed = time.Since(started)

		logger.Info("batch complete",
			slog.Int("processed", summary.Processed),
			slog.Int("errors", summary.Errors),
			slog.Duration("elapsed", summary.Elapsed),
		)
		// Released before the completion event so a consumer may start the next batch on it.
		o.release()
		events <- Event{Kind: EventBatchComplete, BatchID: batchID, Total: len(jobs), Summary: &summary}
	}()
	return events
}

func (o *Orchestrator) run(ctx context.Context, mode Mode, batchID string, jobs []Job, events chan<- Event, logger *slog.Logger) Summary {
	summary := Summary{BatchID: batchID, Mode: mode, Total: len(jobs)}

	jobCh := make(chan Job)
	results := make(chan Result)

	workers := o.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			o.worker(ctx, mode, jobCh, results)
			return nil
		})
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			ev := o.apply(mode, res)
			summary.Processed++
			switch ev.Kind {
			case EventFileFailed:
				summary.Errors++
				logger.Warn("file failed", slog.String("path", res.Path), slog.String("error", res.Err.Error()))
			case EventFileRepaired:
				summary.Repaired++
			case EventFileSkipped:
				summary.Skipped++
			}
			ev.BatchID = batchID
			ev.Total = len(jobs)
			events <- ev
		}
	}()

	g.Go(func() error {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("batch stopped early", slog.String("error", err.Error()))
	}
	close(results)
	<-collectorDone

	if mode == ModeDetect {
		summary.Counts = o.registry.Counts()
	}
	return summary
}

func (o *Orchestrator) worker(ctx context.Context, mode Mode, jobs <-chan Job, results chan<- Result) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			return
		}

		res := Result{Path: job.Path, Classification: job.Classification}
		switch {
		case job.Err != nil:
			res.Err = job.Err
		case mode == ModeDetect:
			res.Classification, res.Err = o.analyzer.Classify(ctx, job.Path)
		case mode == ModeRepair:
			res.Output, res.Err = o.repairer.Repair(ctx, job.Path, job.Classification)
			res.Skipped = res.Err == nil && res.Output == ""
		default:
			res.Err = fmt.Errorf("unknown mode %d", mode)
		}
		results <- res
	}
}

// apply records one result in the registry and transcript and returns the
// matching event. Failed detections are kept out of the registry.
func (o *Orchestrator) apply(mode Mode, res Result) Event {
	ev := Event{Path: res.Path, Classification: res.Classification, Output: res.Output, Err: res.Err}
	var entry registry.Entry

	switch {
	case res.Err != nil:
		ev.Kind = EventFileFailed
		msg := res.Err.Error()
		if mode == ModeRepair {
			msg = "repair failed: " + msg
		}
		entry = registry.Entry{Path: res.Path, Message: msg, Failed: true}
	case mode == ModeDetect:
		ev.Kind = EventFileClassified
		o.registry.Record(res.Path, res.Classification)
		entry = registry.Entry{Path: res.Path, Message: res.Classification.Label()}
	case res.Skipped:
		ev.Kind = EventFileSkipped
		entry = registry.Entry{Path: res.Path, Message: "no repair needed (" + res.Classification.Label() + ")"}
	default:
		ev.Kind = EventFileRepaired
		entry = registry.Entry{Path: res.Path, Message: "repaired -> " + res.Output}
	}

	o.transcript.Append(entry)
	ev.Line = entry.String()
	return ev
}
