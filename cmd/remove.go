package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var removeCmd = &cobra.Command{
	Use:   "remove <stub|path>",
	Short: "Stop tracking an application stub or path",
	Long: `Removes entries from the tracked-file registry. Files already in the
repository are left in place; only future syncs are affected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command for %s", args[0])
		spinner, cleanup := startSpinner("Removing from tracking...", verbose)
		defer cleanup()

		result, err := workflows.Remove(cmd.Context(), workflows.RemoveOptions{Target: args[0]})
		if err != nil {
			if errors.Is(err, kerrors.ErrNotTracked) {
				spinner.FinalMSG = color.YellowString("!") + " " + color.YellowString(args[0]) + " was not being tracked"
				return nil
			}
			if errors.Is(err, kerrors.ErrNotInitialized) {
				spinner.FinalMSG = color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to remove %s: %v", args[0], err)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Removed " + color.YellowString(fmt.Sprintf("%d", result.Removed)) +
			" entr(ies) from tracking\n" +
			color.CyanString("→") + " Files remain in the repository; commit if needed"
		return nil
	},
}
