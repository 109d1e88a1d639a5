package cmd

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotsync/dotsync/internal/workflows"
)

var (
	initPath string
	initTag  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a dotfiles repository",
	Long: `Creates the tracked-file registry, a git repository, and a .gitignore
keeping local backups and conflict scratch files out of history. The
repository location is remembered so other commands work from anywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing dotfiles repository...", verbose)
		defer cleanup()

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{
			Path: initPath,
			Tag:  initTag,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to initialize repository: %v", err)
		}

		if result.AlreadyInitialized {
			spinner.FinalMSG = color.CyanString("→") + " Repository already initialized at " + color.YellowString(result.RepoPath)
			return nil
		}

		spinner.Stop()
		figure.NewColorFigure("dotsync", "", "green", true).Print()

		msg := color.GreenString("✓") + " Initialized dotfiles repository at " + color.YellowString(result.RepoPath) + "\n"
		if result.GitInitialized {
			msg += color.GreenString("✓") + " Created git repository\n"
		}
		if result.InitialCommit {
			msg += color.GreenString("✓") + " Created initial commit\n"
		}
		msg += "\nNext steps:\n" +
			"  1. Track an application: " + color.YellowString("dotsync add vim") + "\n" +
			"  2. Or a direct path:     " + color.YellowString("dotsync add ~/.vimrc") + "\n" +
			"  3. Sync your files:      " + color.YellowString("dotsync sync")
		spinner.FinalMSG = msg
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "directory to initialize (default: current directory)")
	initCmd.Flags().StringVar(&initTag, "tag", "", "machine tag for namespacing custom stubs")
}
