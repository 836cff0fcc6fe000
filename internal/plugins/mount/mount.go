// Package mount publishes the finished workspace to one or more mounted or
// mountable drives.
package mount

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	kerrors "github.com/tmacey/keystash/internal/errors"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/utils"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "mount",
		Stage:   plugin.StagePublish,
		Summary: "Copy the archive to one or more mounted/mountable drives.",
		Impl:    publisher{},
	})
}

type publisher struct{}

func (publisher) Publish(ctx context.Context, sub plugin.Subconfig, workspaceDir string) error {
	drives, err := sub.RequireStrings("drive")
	if err != nil {
		return err
	}
	remoteDir := sub.String("remote_dir", "backup/keystash")

	var failed []string
	for _, drive := range drives {
		if err := publishToDrive(ctx, drive, remoteDir, workspaceDir); err != nil {
			failed = append(failed, fmt.Sprintf("%s (%v)", drive, err))
		}
	}
	if len(failed) > 0 {
		return kerrors.Pluginf("unable to publish to: %s", strings.Join(failed, "; "))
	}
	return nil
}

func publishToDrive(ctx context.Context, drive, remoteDir, workspaceDir string) error {
	mounted, err := isMountpoint(ctx, drive)
	if err != nil {
		return err
	}
	if !mounted {
		if out, err := exec.CommandContext(ctx, "mount", drive).CombinedOutput(); err != nil {
			return fmt.Errorf("unable to mount: %w: %s", err, out)
		}
		defer func() {
			_ = exec.Command("umount", drive).Run()
		}()
	}

	dest := filepath.Join(drive, remoteDir, filepath.Base(workspaceDir))
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	return utils.CopyTree(workspaceDir, dest, nil)
}

func isMountpoint(ctx context.Context, drive string) (bool, error) {
	if _, err := os.Stat(drive); err != nil {
		return false, err
	}
	// mountpoint(8) exits non-zero for plain directories, which is fine:
	// mount(8) will be consulted next.
	err := exec.CommandContext(ctx, "mountpoint", "-q", drive).Run()
	return err == nil, nil
}
