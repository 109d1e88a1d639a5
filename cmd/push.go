package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local commits to the remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting push command")
		spinner, cleanup := startSpinner("Pushing to remote...", verbose)
		defer cleanup()

		result, err := workflows.Push(cmd.Context())
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				spinner.FinalMSG = color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("push failed: %v", err)
		}

		if !result.RemoteConfigured {
			spinner.FinalMSG = color.YellowString("!") + " No remote configured\n" +
				color.CyanString("→") + " Add one with " + color.YellowString("git remote add origin <url>")
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Pushed " + color.YellowString(result.Branch) + " to remote"
		return nil
	},
}
