package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"chanfix/internal/audio"
	"chanfix/internal/processor"
	"chanfix/internal/tui"
	"chanfix/pkg/mediautil"
)

var detectList bool

var detectCmd = &cobra.Command{
	Use:   "detect <file|dir>",
	Short: "Classify the stereo channels of a video file or every video under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := commandContext(cmd)
		target := args[0]

		info, err := os.Stat(target)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			c, err := a.orch.DetectFile(ctx, target)
			printTranscript(a, 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, tui.RenderCategoryTable(map[audio.Classification]int{c: 1}))
			return nil
		}

		summary, err := detectDir(ctx, a, target)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, tui.RenderCategoryTable(summary.Counts))
		fmt.Fprintln(a.out, tui.RenderSummary(tui.SummaryRows(*summary)))
		if detectList {
			printCategories(a, audio.All())
		}
		if n := a.orch.Transcript().Failures(); n > 0 {
			return fmt.Errorf("%d of %d files could not be analyzed", n, summary.Total)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().BoolVarP(&detectList, "list", "l", false, "list the files in each category")
	rootCmd.AddCommand(detectCmd)
}

// detectDir runs a detection batch over dir and waits for it.
func detectDir(ctx context.Context, a *app, dir string) (*processor.Summary, error) {
	events, err := a.orch.DetectDir(ctx, dir)
	if errors.Is(err, processor.ErrNoMatchingFiles) {
		return nil, fmt.Errorf("%s: no %s files: %w", dir, strings.Join(mediautil.Extensions(), " "), err)
	}
	if err != nil {
		return nil, err
	}
	return a.watch("Detecting channels", 0, events)
}

// printTranscript prints the transcript entries from index from onwards.
func printTranscript(a *app, from int) {
	entries := a.orch.Transcript().Entries()
	if from > len(entries) {
		return
	}
	for _, entry := range entries[from:] {
		kind := processor.EventFileClassified
		if entry.Failed {
			kind = processor.EventFileFailed
		}
		fmt.Fprintln(a.out, tui.RenderEventLine(processor.Event{Kind: kind, Line: entry.String()}))
	}
}

func printCategories(a *app, cs []audio.Classification) {
	reg := a.orch.Registry()
	for _, c := range cs {
		files := reg.FilesIn(c)
		fmt.Fprintf(a.out, "%s\n", listCategoryStyle.Render(fmt.Sprintf("%s (%d)", c.Label(), len(files))))
		if len(files) == 0 {
			fmt.Fprintf(a.out, "  %s %s\n", listBulletStyle.Render("-"), listDimStyle.Render("none"))
			continue
		}
		for _, f := range files {
			fmt.Fprintf(a.out, "  %s %s\n", listBulletStyle.Render("-"), listValueStyle.Render(f))
		}
	}
}

var (
	listCategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccentAlt)
	listValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	listDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	listBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	noticeStyle       = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)
