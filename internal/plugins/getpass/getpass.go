// Package getpass is the default auth plugin: it prompts the operator for
// a passcode, twice to catch typos.
package getpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	kerrors "github.com/tmacey/keystash/internal/errors"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/ui"
	"github.com/tmacey/keystash/internal/utils"
)

func init() {
	plugin.Register(plugin.Descriptor{
		Name:    "getpass",
		Stage:   plugin.StageAuth,
		Summary: "Prompt for a passcode to encrypt the archive with.",
		Impl:    authenticator{},
	})
}

type authenticator struct{}

func (authenticator) Authenticate(ctx context.Context, sub plugin.Subconfig) (string, error) {
	if !utils.IsTerminal() {
		return "", kerrors.Skipf("stdin is not a terminal")
	}

	for {
		passcode, err := utils.ReadPassphraseContext(ctx, "Please enter a password to encrypt your archive: ")
		if err != nil {
			return "", promptError(ctx, err)
		}
		verify, err := utils.ReadPassphraseContext(ctx, "Enter the same password again to check for typos: ")
		if err != nil {
			return "", promptError(ctx, err)
		}

		if string(passcode) == string(verify) {
			return string(passcode), nil
		}
		fmt.Fprintln(os.Stderr, ui.Error.Sprint(
			"The passwords you entered did not match.\nTry again or type Ctrl-C to exit:"))
	}
}

func promptError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		return kerrors.Skipf("received EOF")
	}
	return err
}
