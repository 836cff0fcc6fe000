// Package sshkeys archives the user's SSH directory.
package sshkeys

import (
	"context"
	"os"

	kerrors "github.com/tmacey/keystash/internal/errors"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/utils"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "ssh",
		Stage:   plugin.StageArchive,
		Summary: "Copy ~/.ssh into the archive.",
		Impl:    archiver{},
	})
}

type archiver struct{}

func (archiver) Archive(ctx context.Context, sub plugin.Subconfig, stagingDir string) error {
	src, err := utils.ExpandHome(sub.String("src", "~/.ssh"))
	if err != nil {
		return err
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return kerrors.Skipf("'%s' does not exist", src)
	}
	return utils.CopyToStaging(src, stagingDir)
}
