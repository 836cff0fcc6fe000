package cmd

import (
	"fmt"
	"os"

	"github.com/tmacey/keystash/internal/configs"
	kerrors "github.com/tmacey/keystash/internal/errors"
	logger "github.com/tmacey/keystash/internal/logging"
	_ "github.com/tmacey/keystash/internal/plugins"
	"github.com/tmacey/keystash/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	yes     bool
	verbose bool
	quiet   bool
	debug   bool

	Logger logger.Logger

	RootCmd = &cobra.Command{
		Use:   "keystash",
		Short: "Back up security-critical files into one encrypted archive",
		Long: `Keystash collects the files that would lock you out of everything if your
machine died (SSH keys, GPG keys, whatever you configure) into a single
passcode-encrypted archive, then distributes copies to the destinations you
choose.

Run 'keystash' with no arguments to perform a backup. The first run writes a
default config you can edit to control what gets archived and where it goes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Quiet:   quiet,
			}
			if closer, err := Logger.OpenTraceFile(configs.LogFilePath()); err != nil {
				Logger.Warnf("unable to open log file: %v", err)
			} else {
				cobra.OnFinalize(func() { closer.Close() })
			}
			Logger.Debugf("Initializing with verbose=%t, debug=%t, quiet=%t", verbose, debug, quiet)
		},
		RunE: runBackup,
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output and skip confirmation prompts")
	RootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the archive confirmation prompt")

	RootCmd.AddCommand(pluginsCmd)
	RootCmd.AddCommand(decryptCmd)
}

// Helper functions for testing

// ResetGlobalState resets all command flag state to defaults for testing.
func ResetGlobalState() {
	yes = false
	verbose = false
	quiet = false
	debug = false
	Logger = logger.Logger{}
	RootCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
}

// Execute runs the root command and exits the process. An interrupted run
// is a deliberate cancellation, not a failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if kerrors.IsInterrupted(err) {
			fmt.Println()
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}
