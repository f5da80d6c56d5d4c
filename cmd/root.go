package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	flagWorkers  int
	flagFFmpeg   string
	flagHWCodec  string
	flagLogLevel string
	flagLogFile  string
	flagNoTUI    bool
)

var rootCmd = &cobra.Command{
	Use:   "chanfix",
	Short: "chanfix - find and repair videos with a silent stereo channel",
	Long: "chanfix measures the left and right audio channels of video files, sorts them into\n" +
		"left-silent, right-silent, mono and stereo, and writes repaired copies with the live\n" +
		"channel duplicated onto the silent one.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/chanfix/config.toml)")
	flags.IntVarP(&flagWorkers, "workers", "j", 0, "files processed in parallel (0 = one per CPU)")
	flags.StringVar(&flagFFmpeg, "ffmpeg", "", "ffmpeg binary")
	flags.StringVar(&flagHWCodec, "hw-codec", "", "hardware video encoder tried first during repair")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&flagLogFile, "log-file", "", "also write logs to this file (rotated)")
	flags.BoolVar(&flagNoTUI, "no-tui", false, "print plain progress lines instead of the interactive view")
}
