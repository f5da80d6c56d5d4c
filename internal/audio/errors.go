package audio

import (
	"errors"
	"fmt"
	"path/filepath"

	"chanfix/internal/ffmpeg"
)

var (
	// ErrNoVolumeStats means ffmpeg exited cleanly but printed no mean_volume line.
	ErrNoVolumeStats = errors.New("no volume statistics in ffmpeg output")
	// ErrOutputBusy means another process holds the lock on the repair output.
	ErrOutputBusy = errors.New("output is locked by another process")
)

// AnalysisError reports a failed channel measurement.
type AnalysisError struct {
	Path    string
	Channel ffmpeg.Channel
	Stderr  string
	Err     error
}

func (e *AnalysisError) Error() string {
	side := "left"
	if e.Channel == ffmpeg.ChannelRight {
		side = "right"
	}
	msg := fmt.Sprintf("analyze %s (%s channel): %v", filepath.Base(e.Path), side, e.Err)
	if diag := ffmpeg.Diagnostics(e.Stderr); diag != "" {
		msg += ": " + diag
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Attempt records one failed encoding strategy.
type Attempt struct {
	Strategy string
	Stderr   string
	Err      error
}

// RepairError reports that no strategy produced an output. Any partial output
// has been removed.
type RepairError struct {
	Path     string
	Output   string
	Attempts []Attempt
	Err      error
}

func (e *RepairError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("repair %s: %v", filepath.Base(e.Path), e.Err)
	}
	last := e.Attempts[len(e.Attempts)-1]
	msg := fmt.Sprintf("repair %s: %d strategies failed, last (%s): %v",
		filepath.Base(e.Path), len(e.Attempts), last.Strategy, last.Err)
	if diag := ffmpeg.Diagnostics(last.Stderr); diag != "" {
		msg += ": " + diag
	}
	return msg
}

func (e *RepairError) Unwrap() error { return e.Err }
