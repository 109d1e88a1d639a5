package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var syncLocalCmd = &cobra.Command{
	Use:   "sync-local",
	Short: "Export repository content to the home directory",
	Long: `One-way sync from the repository into your home directory: no import,
no commit, no remote. Useful after pulling or editing the repository by
hand. Refuses to run while a rebase is in progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting sync-local command")

		// Key recovery may prompt for the seed phrase, so no spinner here.
		result, err := workflows.SyncLocal(cmd.Context(), newTerminalPrompter(), Logger)
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
				return nil
			}
			return Logger.ErrorfAndReturn("sync-local failed: %v", err)
		}

		if result.TrackedCount == 0 {
			fmt.Println(color.CyanString("→") + " No files to sync. Use " + color.YellowString("dotsync add") + " to track files.")
			return nil
		}
		fmt.Println(color.GreenString("✓") + " Exported " + color.YellowString(fmt.Sprintf("%d", result.Exported)) +
			" changed file(s) to your home directory")
		return nil
	},
}
