package cmd

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"chanfix/internal/ffmpeg"
	"chanfix/internal/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that ffmpeg and the configured encoders are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		runner := ffmpeg.NewExec(cfg.FFmpeg.Binary)

		var rows [][]string
		path, lookErr := exec.LookPath(runner.Binary)
		if lookErr != nil {
			rows = append(rows, []string{"ffmpeg", runner.Binary, "missing"})
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTable([]string{"Check", "Value", "Status"}, rows))
			return fmt.Errorf("ffmpeg not found: %w", lookErr)
		}
		rows = append(rows, []string{"ffmpeg", path, "ok"})

		var failed error
		for _, enc := range []struct{ role, name string }{
			{"hardware video encoder", cfg.FFmpeg.HardwareCodec},
			{"audio encoder", cfg.FFmpeg.AudioCodec},
		} {
			ok, err := ffmpeg.HasEncoder(ctx, runner, enc.name)
			status := "ok"
			switch {
			case err != nil:
				status = "error"
				failed = errors.Join(failed, err)
			case !ok && enc.role == "hardware video encoder":
				// Repair still succeeds through stream copy.
				status = "unavailable (copy fallback)"
			case !ok:
				status = "missing"
				failed = errors.Join(failed, fmt.Errorf("%s %q not available", enc.role, enc.name))
			}
			rows = append(rows, []string{enc.role, enc.name, status})
		}

		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTable([]string{"Check", "Value", "Status"}, rows))
		return failed
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
