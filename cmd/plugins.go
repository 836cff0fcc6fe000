package cmd

import (
	"fmt"
	"os"

	"github.com/tmacey/keystash/internal/configs"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/ui"
	"github.com/tmacey/keystash/internal/utils"
	"github.com/tmacey/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List installed plugins and which ones the current config enables",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Listing installed plugins")

		enabled := enabledPlugins()

		width := utils.TerminalWidth(80)
		fmt.Printf("%-3s %-8s %-10s %s\n", "On", "Stage", "Name", "Description")
		for _, stage := range plugin.Stages {
			rows := plugin.Installed(stage)

			// Enabled plugins first, each group in registration order.
			ordered := make([]plugin.Descriptor, 0, len(rows))
			for _, d := range rows {
				if enabled[string(stage)][d.Name] {
					ordered = append(ordered, d)
				}
			}
			for _, d := range rows {
				if !enabled[string(stage)][d.Name] {
					ordered = append(ordered, d)
				}
			}

			for _, d := range ordered {
				marker := " "
				if enabled[string(stage)][d.Name] {
					marker = ui.Success.Sprint("*")
				}
				summary := d.Summary
				if max := width - 25; max > 10 && len(summary) > max {
					summary = summary[:max-3] + "..."
				}
				fmt.Printf("%-3s %-8s %-10s %s\n", marker, stage, d.Name, summary)
			}
		}
		return nil
	},
}

// enabledPlugins resolves the current config's selection per stage. A
// missing or broken config just means nothing is marked enabled.
func enabledPlugins() map[string]map[string]bool {
	enabled := make(map[string]map[string]bool, len(plugin.Stages))
	for _, stage := range plugin.Stages {
		enabled[string(stage)] = make(map[string]bool)
	}

	params, err := configs.NewParams()
	if err != nil {
		return enabled
	}
	cfg, err := configs.Load(configs.ConfigFilePath(), params)
	if err != nil {
		if !os.IsNotExist(err) {
			Logger.Warnf("unable to read config: %v", err)
		}
		return enabled
	}

	for _, stage := range plugin.Stages {
		var defaults []string
		if stage == plugin.StageAuth {
			defaults = workflows.AuthDefaults
		}
		selected, err := plugin.Select(cfg, stage, defaults)
		if err != nil {
			Logger.Warnf("unable to resolve '%s' plugins: %v", stage, err)
			continue
		}
		for _, d := range selected {
			enabled[string(stage)][d.Name] = true
		}
	}
	return enabled
}
