// Package scp publishes the finished workspace to one or more remote hosts
// over SSH.
package scp

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/tmacey/keystash/internal/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "scp",
		Stage:   plugin.StagePublish,
		Summary: "Copy the archive to one or more remote hosts via `scp`.",
		Impl:    publisher{},
	})
}

type publisher struct{}

func (publisher) Publish(ctx context.Context, sub plugin.Subconfig, workspaceDir string) error {
	hosts, err := sub.RequireStrings("host")
	if err != nil {
		return err
	}
	remoteDir := sub.String("remote_dir", "backup/keystash")

	for _, host := range hosts {
		mkdir := exec.CommandContext(ctx, "ssh", host, fmt.Sprintf("mkdir -p %s", remoteDir))
		if out, err := mkdir.CombinedOutput(); err != nil {
			return fmt.Errorf("ssh %s: %w: %s", host, err, out)
		}

		copy := exec.CommandContext(ctx, "scp", "-r", workspaceDir,
			fmt.Sprintf("%s:%s", host, remoteDir))
		if out, err := copy.CombinedOutput(); err != nil {
			return fmt.Errorf("scp to %s: %w: %s", host, err, out)
		}
	}
	return nil
}
