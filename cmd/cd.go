package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var cdCmd = &cobra.Command{
	Use:   "cd",
	Short: "Print the repository path for shell integration",
	Long: `Prints the dotfiles repository path and nothing else, so it can feed a
shell substitution:

  cd "$(dotsync cd)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := workflows.RepoPath(cmd.Context())
		if err != nil {
			// Guidance goes to stderr so the substitution stays empty.
			if errors.Is(err, kerrors.ErrNotInitialized) {
				fmt.Fprintln(os.Stderr, color.RedString("✗")+" Not a dotfiles repository\n"+
					color.CyanString("→")+" Run "+color.YellowString("dotsync init")+" first")
			}
			return err
		}
		fmt.Println(path)
		return nil
	},
}
