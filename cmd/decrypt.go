package cmd

import (
	"github.com/tmacey/keystash/internal/archive"
	"github.com/tmacey/keystash/internal/ui"
	"github.com/tmacey/keystash/internal/utils"

	"github.com/spf13/cobra"
)

// decryptCmd is what the generated decrypt.sh script calls, so its argument
// handling has to stay compatible with that script.
var decryptCmd = &cobra.Command{
	Use:   "decrypt <archive.tar.kst>",
	Short: "Decrypt an archive back into its tar container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passcode, err := utils.ReadPassphrase("Passcode: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passcode: %v", err)
		}

		spinner, cleanup := startSpinner("Decrypting archive...", verbose)
		defer cleanup()

		tarPath, err := archive.DecryptFile(args[0], passcode)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to decrypt " + ui.Path.Sprint(args[0]) + "\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Decrypted to " + ui.Path.Sprint(tarPath) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tar xvf "+tarPath) + " to unpack it"
		return nil
	},
}
