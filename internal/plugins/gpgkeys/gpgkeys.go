// Package gpgkeys archives the user's GnuPG directory.
package gpgkeys

import (
	"context"
	"os"
	"strings"

	kerrors "github.com/tmacey/keystash/internal/errors"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/utils"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "gpg",
		Stage:   plugin.StageArchive,
		Summary: "Copy ~/.gnupg into the archive.",
		Impl:    archiver{},
	})
}

type archiver struct{}

func (archiver) Archive(ctx context.Context, sub plugin.Subconfig, stagingDir string) error {
	src, err := utils.ExpandHome(sub.String("src", "~/.gnupg"))
	if err != nil {
		return err
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return kerrors.Skipf("'%s' does not exist", src)
	}

	// Agent sockets (S.*) can't be copied and don't belong in a backup.
	skipSockets := func(name string) bool {
		return strings.HasPrefix(name, "S.")
	}
	return utils.CopyTree(src, utils.StagingPath(src, stagingDir), skipSockets)
}
