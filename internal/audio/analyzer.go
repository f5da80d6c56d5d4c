package audio

import (
	"context"
	"log/slog"

	"chanfix/internal/ffmpeg"
	"chanfix/pkg/mediautil"
)

// Analyzer measures each channel of a file and classifies it.
type Analyzer struct {
	runner ffmpeg.Runner
	logger *slog.Logger
}

// NewAnalyzer returns an Analyzer backed by runner. A nil logger discards.
func NewAnalyzer(runner ffmpeg.Runner, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{runner: runner, logger: logger}
}

// Classify runs one measurement per channel and applies Decide. A non-zero
// ffmpeg exit on either run yields an *AnalysisError; nothing is retried.
func (a *Analyzer) Classify(ctx context.Context, path string) (Classification, error) {
	left, err := a.channelSilent(ctx, path, ffmpeg.ChannelLeft)
	if err != nil {
		return 0, err
	}
	right, err := a.channelSilent(ctx, path, ffmpeg.ChannelRight)
	if err != nil {
		return 0, err
	}

	c := Decide(left, right)
	a.logger.Debug("classified",
		slog.String("path", path),
		slog.String("container", mediautil.DetectPath(path).String()),
		slog.Bool("left_silent", left),
		slog.Bool("right_silent", right),
		slog.String("classification", c.String()),
	)
	return c, nil
}

func (a *Analyzer) channelSilent(ctx context.Context, path string, ch ffmpeg.Channel) (bool, error) {
	res := a.runner.Run(ctx, ffmpeg.AnalyzeArgs(path, ch))
	if res.Err != nil {
		return false, &AnalysisError{Path: path, Channel: ch, Stderr: res.Stderr, Err: res.Err}
	}
	value, ok := ffmpeg.MeanVolume(res.Stderr)
	if !ok {
		return false, &AnalysisError{Path: path, Channel: ch, Stderr: res.Stderr, Err: ErrNoVolumeStats}
	}
	a.logger.Debug("channel measured",
		slog.String("path", path),
		slog.String("channel", string(ch)),
		slog.String("mean_volume", value),
	)
	return ffmpeg.IsSilent(value), nil
}
