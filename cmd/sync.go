package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/workflows"
)

var (
	syncContinue bool
	syncDir      string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the bidirectional sync protocol",
	Long: `Imports home-directory changes into the repository, commits them,
rebases onto the remote, snapshots a backup, exports repository content
back to the home directory, and pushes.

On a rebase conflict the sync aborts before your home directory is
touched. Resolve the conflicts, then run 'dotsync sync --continue'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncContinue {
			return runSyncContinue(cmd)
		}
		return runSync(cmd)
	},
}

func runSync(cmd *cobra.Command) error {
	Logger.Infof("Starting sync command")

	// Key recovery may prompt for the seed phrase, so no spinner here.
	result, err := workflows.Sync(cmd.Context(), workflows.SyncOptions{Dir: syncDir}, newTerminalPrompter(), Logger)
	if err != nil {
		if conflict, ok := kerrors.AsConflict(err); ok {
			printConflict(conflict)
			return err
		}
		if errors.Is(err, kerrors.ErrNotInitialized) {
			fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
				color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
			return nil
		}
		return Logger.ErrorfAndReturn("sync failed: %v", err)
	}

	if result.TrackedCount == 0 {
		fmt.Println(color.CyanString("→") + " No files to sync. Use " + color.YellowString("dotsync add") + " to track files.")
		return nil
	}

	out := result.Outcome
	fmt.Println(color.GreenString("✓") + " Imported " + color.YellowString(fmt.Sprintf("%d", out.Imported)) + " changed file(s)")
	if out.Committed {
		fmt.Println(color.GreenString("✓") + " Committed local changes")
	}
	if out.Pulled {
		fmt.Println(color.GreenString("✓") + " Rebased onto remote")
	}
	fmt.Println(color.GreenString("✓") + " Exported " + color.YellowString(fmt.Sprintf("%d", out.Exported)) + " changed file(s)")
	switch {
	case out.Pushed && out.FirstPush:
		fmt.Println(color.GreenString("✓") + " Pushed (set upstream tracking)")
	case out.Pushed:
		fmt.Println(color.GreenString("✓") + " Pushed to remote")
	case !out.RemoteFound:
		fmt.Println(color.YellowString("!") + " No remote configured - backup is LOCAL ONLY\n" +
			color.CyanString("→") + " Add one with " + color.YellowString("git remote add origin <url>"))
	}
	fmt.Println("\n" + color.GreenString("✓") + " Sync completed successfully")
	return nil
}

func runSyncContinue(cmd *cobra.Command) error {
	Logger.Infof("Starting sync --continue command")

	result, err := workflows.Continue(cmd.Context(), newTerminalPrompter(), Logger)
	if err != nil {
		if conflict, ok := kerrors.AsConflict(err); ok {
			fmt.Println(color.RedString("✗") + " Conflicts are still unresolved:")
			for _, file := range conflict.Files {
				fmt.Println("    " + color.YellowString(file))
			}
			fmt.Println(color.CyanString("→") + " Edit the plain files in the repository, and the plaintext views under " +
				color.YellowString(syncer.ConflictsDirName+"/") + " for encrypted members")
			fmt.Println(color.CyanString("→") + " Then run " + color.YellowString("dotsync sync --continue") + " again; it stages everything for you")
			return err
		}
		if errors.Is(err, kerrors.ErrNotInRebase) {
			fmt.Println(color.CyanString("→") + " Not in a rebase. Use " + color.YellowString("dotsync sync") + " for a normal sync.")
			return nil
		}
		if errors.Is(err, kerrors.ErrUnresolvedMarkers) {
			fmt.Println(color.RedString("✗") + " Conflict markers remain: " + err.Error())
			fmt.Println(color.CyanString("→") + " Remove every <<<<<<< and >>>>>>> block, then retry")
			return err
		}
		return Logger.ErrorfAndReturn("sync --continue failed: %v", err)
	}

	fmt.Println(color.GreenString("✓") + " Rebase continued successfully")
	fmt.Println(color.CyanString("→") + " Run " + color.YellowString("dotsync sync") + " to finish syncing " +
		fmt.Sprintf("%d tracked file(s)", result.TrackedCount))
	return nil
}

func printConflict(conflict *kerrors.ConflictError) {
	fmt.Println(color.RedString("✗") + " Merge conflict during update!")
	fmt.Println("\n" + color.New(color.FgYellow, color.Bold).Sprint("SAFETY LOCK ENGAGED: your home directory was NOT updated."))
	if len(conflict.Files) > 0 {
		fmt.Println("\nConflicted files:")
		for _, file := range conflict.Files {
			fmt.Println("    " + color.YellowString(file))
		}
	}
	fmt.Println("\nTo recover:")
	fmt.Println("  1. Run " + color.YellowString("dotsync sync --continue") + " (creates plaintext merge views")
	fmt.Println("     for encrypted members under " + color.YellowString(syncer.ConflictsDirName+"/") + ")")
	fmt.Println("  2. Edit the listed files until no conflict markers remain")
	fmt.Println("  3. Run " + color.YellowString("dotsync sync --continue") + " again, then " + color.YellowString("dotsync sync"))
}

func init() {
	syncCmd.Flags().BoolVar(&syncContinue, "continue", false, "resume a sync stopped on a rebase conflict")
	syncCmd.Flags().StringVar(&syncDir, "dir", "", "use and remember this repository directory")
}
