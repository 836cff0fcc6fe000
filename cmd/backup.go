package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tmacey/keystash/internal/configs"
	"github.com/tmacey/keystash/internal/ui"
	"github.com/tmacey/keystash/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func runBackup(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting backup run")

	configPath, created, err := configs.EnsureConfigFile()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to set up config: %v", err)
	}
	if created && !quiet {
		fmt.Println()
		figure.NewColorFigure("Keystash", "alligator2", "green", true).Print()
		fmt.Println()
		fmt.Printf("%s Created a default config at %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(configPath))
		fmt.Printf("%s Edit it to control what gets archived and where copies go\n\n", ui.Info.Sprint("→"))
	}

	params, err := configs.NewParams()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to resolve template parameters: %v", err)
	}
	Logger.Debugf("Template parameters: date=%s, user=%s, host=%s", params.Date, params.User, params.Host)

	cfg, err := configs.Load(configPath, params)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := workflows.BackupOptions{
		DataDir:     configs.UserKeystashSettings.UserDataPath,
		AuditPath:   configs.AuditFilePath(),
		Interactive: !yes && !quiet,
	}
	result, err := workflows.Backup(ctx, Logger, cfg, opts)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("%s Backup complete\n", ui.Success.Sprint("✓"))
		if result.WorkspaceKept {
			fmt.Printf("%s Local archive: %s\n", ui.Info.Sprint("→"), ui.Path.Sprint(result.Workspace))
		}
		for _, name := range result.Published {
			fmt.Printf("%s Published via %s\n", ui.Info.Sprint("→"), ui.Code.Sprint(name))
		}
	}
	// Per-destination failures were already reported by the pipeline; the
	// run itself still succeeded and the local archive was kept.
	if len(result.PublishFailures) > 0 {
		fmt.Fprintf(os.Stderr, "%s %d publish destination(s) failed; the local archive was kept\n",
			ui.Warning.Sprint("!"), len(result.PublishFailures))
	}
	return nil
}
