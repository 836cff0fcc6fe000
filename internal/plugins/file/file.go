// Package file archives arbitrary files and directories named in the
// plugin's configuration. Sources support doublestar glob patterns and a
// leading ~ for the home directory.
package file

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/tmacey/keystash/internal/errors"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/utils"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "file",
		Stage:   plugin.StageArchive,
		Summary: "Copy arbitrary files into the archive.",
		Impl:    archiver{},
	})
}

type archiver struct{}

func (archiver) Archive(ctx context.Context, sub plugin.Subconfig, stagingDir string) error {
	srcs, err := sub.RequireStrings("src")
	if err != nil {
		return err
	}

	for _, src := range srcs {
		expanded, err := utils.ExpandHome(src)
		if err != nil {
			return err
		}

		matches, err := doublestar.FilepathGlob(expanded)
		if err != nil {
			return kerrors.PluginConfigf("archive.file.src", "bad pattern %q: %v", src, err)
		}
		if len(matches) == 0 {
			return kerrors.Pluginf("'%s' matched nothing", src)
		}

		for _, match := range matches {
			if err := utils.CopyToStaging(match, stagingDir); err != nil {
				return fmt.Errorf("copying %s: %w", match, err)
			}
		}
	}
	return nil
}
