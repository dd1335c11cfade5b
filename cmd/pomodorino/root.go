package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	configDir string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command; the app has no subcommands.
var rootCmd = &cobra.Command{
	Use:   "pomodorino",
	Short: "Pomodorino - pomodoro work/break timer in the system tray",
	Long: `Pomodorino enforces a cyclical schedule of activity and break periods,
notifies around phase transitions, and can be controlled without the GUI:
SIGUSR1 toggles pause, SIGUSR2 resets the cycle.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "directory holding settings.yaml and the env file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
