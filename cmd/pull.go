package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the repository",
	Long: `Rebases the repository onto its remote without exporting anything to
your home directory. Use 'dotsync sync' for the full protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting pull command")
		spinner, cleanup := startSpinner("Pulling from remote...", verbose)
		defer cleanup()

		result, err := workflows.Pull(cmd.Context())
		if err != nil {
			if conflict, ok := kerrors.AsConflict(err); ok {
				msg := color.RedString("✗") + " Rebase conflict"
				for _, file := range conflict.Files {
					msg += "\n    " + color.YellowString(file)
				}
				msg += "\n" + color.CyanString("→") + " Resolve and run " + color.YellowString("dotsync sync --continue")
				spinner.FinalMSG = msg
				return err
			}
			if errors.Is(err, kerrors.ErrNotInitialized) {
				spinner.FinalMSG = color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("pull failed: %v", err)
		}

		if !result.RemoteConfigured {
			spinner.FinalMSG = color.YellowString("!") + " No remote configured\n" +
				color.CyanString("→") + " Add one with " + color.YellowString("git remote add origin <url>")
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Pulled " + color.YellowString(result.Branch) + " from remote"
		return nil
	},
}
