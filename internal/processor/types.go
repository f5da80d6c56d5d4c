package processor

import (
	"context"
	"log/slog"
	"time"

	"chanfix/internal/audio"
)

type Mode int

const (
	ModeDetect Mode = iota
	ModeRepair
)

func (m Mode) String() string {
	if m == ModeRepair {
		return "repair"
	}
	return "detect"
}

// Classifier is satisfied by *audio.Analyzer.
type Classifier interface {
	Classify(ctx context.Context, path string) (audio.Classification, error)
}

// Fixer is satisfied by *audio.Repairer.
type Fixer interface {
	Repair(ctx context.Context, path string, c audio.Classification) (string, error)
}

type Options struct {
	// Workers bounds the number of files processed at once; <= 0 uses runtime.NumCPU().
	Workers  int
	Analyzer Classifier
	Repairer Fixer
	Logger   *slog.Logger
}

type Job struct {
	Path           string
	Classification audio.Classification
	// Err, when set, fails the job without running it.
	Err error
}

type Result struct {
	Path           string
	Classification audio.Classification
	Output         string
	Skipped        bool
	Err            error
}

type Summary struct {
	BatchID   string
	Mode      Mode
	Total     int
	Processed int
	Errors    int
	Repaired  int
	Skipped   int
	Counts    map[audio.Classification]int
	Elapsed   time.Duration
}

type EventKind int

const (
	EventFileClassified EventKind = iota
	EventFileRepaired
	EventFileSkipped
	EventFileFailed
	EventBatchComplete
)

func (k EventKind) String() string {
	switch k {
	case EventFileClassified:
		return "classified"
	case EventFileRepaired:
		return "repaired"
	case EventFileSkipped:
		return "skipped"
	case EventFileFailed:
		return "failed"
	case EventBatchComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is emitted for every finished file and once when the batch ends.
type Event struct {
	Kind           EventKind
	BatchID        string
	Path           string
	Classification audio.Classification
	Output         string
	Err            error
	// Line is the transcript line recorded for this file.
	Line string
	// Total is the number of files in the batch.
	Total int
	// Summary is set on EventBatchComplete only.
	Summary *Summary
}
