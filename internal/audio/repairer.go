package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"chanfix/internal/ffmpeg"
)

const (
	// OutputSuffix is appended to the input base name.
	OutputSuffix = "_fixed"
	// OutputContainer is the fixed output container, independent of the input's.
	OutputContainer = "mp4"

	DefaultHardwareCodec = "h264_qsv"
	DefaultAudioCodec    = "aac"

	partialSuffix = ".partial"
	lockSuffix    = ".lock"
)

// Strategy is one way of handling the video stream during repair.
type Strategy struct {
	Name       string
	VideoCodec string
}

// DefaultStrategies re-encodes video with the hardware codec first and falls
// back to copying the video stream untouched. The audio filter and re-encode
// are the same for both.
func DefaultStrategies(hardwareCodec string) []Strategy {
	if strings.TrimSpace(hardwareCodec) == "" {
		hardwareCodec = DefaultHardwareCodec
	}
	return []Strategy{
		{Name: "hardware", VideoCodec: hardwareCodec},
		{Name: "copy", VideoCodec: ffmpeg.CopyCodec},
	}
}

// RepairOptions configures a Repairer.
type RepairOptions struct {
	// Strategies are tried in order; empty means DefaultStrategies(HardwareCodec).
	Strategies    []Strategy
	HardwareCodec string
	AudioCodec    string
}

// Repairer writes a corrected copy of a file with the live channel duplicated
// onto the silent one.
type Repairer struct {
	runner     ffmpeg.Runner
	strategies []Strategy
	audioCodec string
	logger     *slog.Logger
}

// NewRepairer returns a Repairer backed by runner. A nil logger discards.
func NewRepairer(runner ffmpeg.Runner, opts RepairOptions, logger *slog.Logger) *Repairer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies(opts.HardwareCodec)
	}
	audioCodec := strings.TrimSpace(opts.AudioCodec)
	if audioCodec == "" {
		audioCodec = DefaultAudioCodec
	}
	return &Repairer{runner: runner, strategies: strategies, audioCodec: audioCodec, logger: logger}
}

// OutputPath derives the repair output for input: same directory, base name
// plus OutputSuffix, OutputContainer extension.
func OutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+OutputSuffix+"."+OutputContainer)
}

// SourceChannel returns the live channel to copy for c. ok is false for
// classifications that need no repair.
func SourceChannel(c Classification) (src ffmpeg.Channel, ok bool) {
	switch c {
	case LeftSilent:
		return ffmpeg.ChannelRight, true
	case RightSilent:
		return ffmpeg.ChannelLeft, true
	default:
		return "", false
	}
}

// Repair produces the corrected copy and returns its path. Mono and Stereo
// are no-ops: it returns "" and nil without touching the file system.
func (r *Repairer) Repair(ctx context.Context, path string, c Classification) (string, error) {
	src, ok := SourceChannel(c)
	if !ok {
		return "", nil
	}

	out := OutputPath(path)
	lock := flock.New(out + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return "", &RepairError{Path: path, Output: out, Err: fmt.Errorf("lock output: %w", err)}
	}
	if !locked {
		return "", &RepairError{Path: path, Output: out, Err: ErrOutputBusy}
	}
	// The lock file stays behind: unlinking it would let two processes hold
	// locks on different inodes for the same output.
	defer func() { _ = lock.Unlock() }()

	partial := out + partialSuffix
	filter := ffmpeg.PanFilter(src)

	var attempts []Attempt
	for _, s := range r.strategies {
		args := ffmpeg.RepairArgs(ffmpeg.RepairSpec{
			Input:       path,
			Output:      partial,
			VideoCodec:  s.VideoCodec,
			AudioFilter: filter,
			AudioCodec:  r.audioCodec,
			Format:      OutputContainer,
		})
		res := r.runner.Run(ctx, args)
		if res.Err == nil {
			if err := replaceFile(partial, out); err != nil {
				_ = os.Remove(partial)
				return "", &RepairError{Path: path, Output: out, Attempts: attempts, Err: err}
			}
			r.logger.Debug("repaired",
				slog.String("path", path),
				slog.String("output", out),
				slog.String("strategy", s.Name),
			)
			return out, nil
		}

		attempts = append(attempts, Attempt{Strategy: s.Name, Stderr: res.Stderr, Err: res.Err})
		r.logger.Debug("repair strategy failed",
			slog.String("path", path),
			slog.String("strategy", s.Name),
			slog.String("error", ffmpeg.Diagnostics(res.Stderr)),
		)
	}

	_ = os.Remove(partial)
	last := attempts[len(attempts)-1]
	return "", &RepairError{Path: path, Output: out, Attempts: attempts, Err: last.Err}
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
