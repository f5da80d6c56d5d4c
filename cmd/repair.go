package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chanfix/internal/audio"
	"chanfix/internal/processor"
	"chanfix/internal/tui"
)

var repairCategories []string

var repairCmd = &cobra.Command{
	Use:   "repair <file|dir>",
	Short: "Write copies with the live channel duplicated onto the silent one",
	Long: "repair classifies its input first, then writes <name>_fixed.mp4 next to every file\n" +
		"in the selected categories. --category applies to directories; a single file is\n" +
		"repaired according to its own classification.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, err := audio.ParseList(repairCategories)
		if err != nil {
			return err
		}

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
			if _, err := a.orch.DetectFile(ctx, target); err != nil {
				printTranscript(a, 0)
				return err
			}
			_, err := a.orch.RepairFile(ctx, target)
			printTranscript(a, 0)
			return err
		}

		detected, err := detectDir(ctx, a, target)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, tui.RenderCategoryTable(detected.Counts))
		if a.orch.Registry().Len() == 0 {
			return fmt.Errorf("none of the %d files could be analyzed", detected.Total)
		}

		from := len(a.orch.Transcript().Entries())
		events, err := a.orch.StartRepair(ctx, selected)
		if errors.Is(err, processor.ErrNoMatchingFiles) {
			fmt.Fprintln(a.out, noticeStyle.Render("Nothing to repair in the selected categories."))
			return nil
		}
		if err != nil {
			return err
		}
		repaired, err := a.watch("Repairing", from, events)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, tui.RenderSummary(tui.SummaryRows(*repaired)))
		if repaired.Errors > 0 {
			return fmt.Errorf("%d of %d repairs failed", repaired.Errors, repaired.Total)
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().StringSliceVar(&repairCategories, "category",
		[]string{audio.LeftSilent.String(), audio.RightSilent.String()},
		"categories to repair: left-silent, right-silent, mono, stereo")
	rootCmd.AddCommand(repairCmd)
}
