package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/ui"
	"github.com/dotsync/dotsync/internal/workflows"
)

var statusCmd = &cobra.Command{
	Use:   "status [stub...]",
	Short: "Show the sync state of tracked files",
	Long: `Compares every tracked file's home and repository content and reports
its state. Encrypted entries are compared in memory; if the key is not
available on this machine they show as "cannot verify".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{Stubs: args}, Logger)
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to compute status: %v", err)
		}

		if len(result.Groups) == 0 {
			fmt.Println("No files are tracked yet.")
			return nil
		}

		ui.Section("File Status")
		for _, group := range result.Groups {
			fmt.Printf("\n%s\n", color.New(color.FgGreen, color.Bold).Sprint(group.Stub))
			for _, file := range group.Files {
				fmt.Printf("  %s %s %s\n", stateSymbol(file.State), file.Entry.Path, ui.Muted.Sprint(file.State.String()))
			}
		}

		if !result.KeyAvailable {
			fmt.Println("\n" + color.YellowString("!") + " Encryption key not found on this machine\n" +
				color.CyanString("→") + " Run " + color.YellowString("dotsync sync") + " to restore it from your recovery phrase")
		}
		return nil
	},
}

func stateSymbol(state syncer.FileState) string {
	switch state {
	case syncer.InSync:
		return color.GreenString("✓")
	case syncer.OutOfSync:
		return color.YellowString("✗")
	case syncer.MissingInRepo:
		return color.BlueString("?")
	case syncer.CannotVerify:
		return color.YellowString("?")
	default:
		return color.New(color.FgHiBlack).Sprint("−")
	}
}
