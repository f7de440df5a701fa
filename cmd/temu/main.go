// Package main implements temu, a minimal terminal emulator. It runs a
// shell on a pseudo-terminal and shows its output as a plain character
// grid, either in the current terminal or headless.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// runFlags holds the root command's flags.
type runFlags struct {
	rows       int
	cols       int
	shell      string
	headless   bool
	script     string
	timeout    time.Duration
	debug      bool
	configPath string
	logFile    string
}

func main() {
	var flags runFlags

	rootCmd := &cobra.Command{
		Use:   "temu [flags] [-- command args...]",
		Short: "Minimal terminal emulator",
		Long: `temu - a minimal terminal emulator

Runs a shell (or the given command) on a pseudo-terminal and draws its
output as a plain character grid. Only basic control characters are
interpreted; escape sequences are ignored.

Without a terminal on stdin and stdout, or with --headless, temu keeps the
screen in memory and prints it when the session ends.`,
		Example: `  # Run your shell
  temu

  # Run a command in a 10x40 window without a screen
  temu --headless --rows 10 --cols 40 -- ls -la

  # Drive a headless session from a script
  temu --headless --script demo.tape

  # Stop after five seconds
  temu --headless --timeout 5s`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(cmd.Context(), flags, args)
		},
		SilenceUsage: true,
	}

	f := rootCmd.Flags()
	f.IntVar(&flags.rows, "rows", 0, "Window rows (default from config)")
	f.IntVar(&flags.cols, "cols", 0, "Window columns (default from config)")
	f.StringVar(&flags.shell, "shell", "", "Shell to run instead of the detected one")
	f.BoolVar(&flags.headless, "headless", false, "Keep the screen in memory and print it on exit")
	f.StringVar(&flags.script, "script", "", "Tape script providing headless input")
	f.DurationVar(&flags.timeout, "timeout", 0, "End the session after this long")
	f.StringVar(&flags.logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/temu/config.toml)")

	rootCmd.AddCommand(newConfigCmd(&flags))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
