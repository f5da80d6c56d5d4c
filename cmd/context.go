package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"chanfix/internal/audio"
	"chanfix/internal/config"
	"chanfix/internal/ffmpeg"
	"chanfix/internal/logging"
	"chanfix/internal/processor"
	"chanfix/internal/tui"
)

// newRunner wraps the configured ffmpeg executable; tests swap it for a fake.
var newRunner = func(tool ffmpeg.Exec) ffmpeg.Runner { return tool }

// app bundles what every subcommand needs for one invocation.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	closer      io.Closer
	runner      ffmpeg.Runner
	orch        *processor.Orchestrator
	interactive bool
	out         io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	interactive := !flagNoTUI && isTerminal(os.Stdout)
	var console io.Writer = os.Stderr
	if interactive {
		// The progress view owns the terminal; logs go to the file sink only.
		console = io.Discard
	}
	logger, closer, err := logging.NewFromConfig(cfg, console)
	if err != nil {
		return nil, err
	}

	tool := ffmpeg.NewExec(cfg.FFmpeg.Binary)
	if cfg.FFmpeg.Verbose && !interactive {
		tool.Tee = os.Stderr
	}
	runner := newRunner(tool)

	orch := processor.New(processor.Options{
		Workers:  cfg.Batch.Workers,
		Analyzer: audio.NewAnalyzer(runner, logger),
		Repairer: audio.NewRepairer(runner, audio.RepairOptions{
			HardwareCodec: cfg.FFmpeg.HardwareCodec,
			AudioCodec:    cfg.FFmpeg.AudioCodec,
		}, logger),
		Logger: logger,
	})

	return &app{
		cfg:         cfg,
		logger:      logger,
		closer:      closer,
		runner:      runner,
		orch:        orch,
		interactive: interactive,
		out:         cmd.OutOrStdout(),
	}, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Batch.Workers = flagWorkers
	}
	if flags.Changed("ffmpeg") {
		cfg.FFmpeg.Binary = flagFFmpeg
	}
	if flags.Changed("hw-codec") {
		cfg.FFmpeg.HardwareCodec = flagHWCodec
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = flagLogFile
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) Close() {
	_ = a.closer.Close()
}

// watch follows a batch to completion, through the progress view when
// interactive and as plain transcript lines otherwise. from is the transcript
// length before the batch started; the view only shows recent lines, so the
// entries from there on are printed once it closes.
func (a *app) watch(title string, from int, events <-chan processor.Event) (*processor.Summary, error) {
	if a.interactive {
		program := tea.NewProgram(tui.NewModel(title, events))
		final, err := program.Run()
		if err == nil {
			if m, ok := final.(tui.Model); ok && m.Summary() != nil {
				printTranscript(a, from)
				return m.Summary(), nil
			}
		}
		a.logger.Warn("progress view stopped", slog.Any("error", err))
	}

	var summary *processor.Summary
	for ev := range events {
		if ev.Kind == processor.EventBatchComplete {
			summary = ev.Summary
			continue
		}
		fmt.Fprintln(a.out, tui.RenderEventLine(ev))
	}
	if summary == nil {
		return nil, fmt.Errorf("%s: batch ended without a summary", title)
	}
	return summary, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
