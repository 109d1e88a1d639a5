package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/workflows"
)

var addEncrypt bool

var addCmd = &cobra.Command{
	Use:   "add <stub|path>",
	Short: "Track an application stub or a direct path",
	Long: `Tracks files for syncing. The argument is either a stub name from the
database (e.g. "vim") or a direct path (e.g. "~/.vimrc"). Existing
content is copied into the repository immediately.

With --encrypt, files are stored encrypted at rest. The first encrypted
add generates a 12-word recovery phrase; write it down.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command for %s", args[0])

		// The ceremony prompts interactively, so no spinner until after.
		result, err := workflows.Add(cmd.Context(), workflows.AddOptions{
			Target:  args[0],
			Encrypt: addEncrypt,
		}, newTerminalPrompter())
		if err != nil {
			switch {
			case errors.Is(err, kerrors.ErrNotInitialized):
				fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
				return nil
			case errors.Is(err, kerrors.ErrStubNotFound):
				fmt.Println(color.RedString("✗") + " Unknown stub " + color.YellowString(args[0]) + "\n" +
					color.CyanString("→") + " See available stubs with " + color.YellowString("dotsync list --all") + "\n" +
					color.CyanString("→") + " Or define one with " + color.YellowString("dotsync create "+args[0]+" <paths...>"))
				return nil
			case errors.Is(err, kerrors.ErrDuplicatePath):
				fmt.Println(color.CyanString("→") + " Already tracked: " + color.YellowString(args[0]))
				return nil
			case errors.Is(err, kerrors.ErrPathNotFound):
				fmt.Println(color.RedString("✗") + " Path does not exist: " + color.YellowString(args[0]))
				return nil
			case errors.Is(err, kerrors.ErrEncryptDirectory):
				fmt.Println(color.RedString("✗") + " Directories cannot be encrypted\n" +
					color.CyanString("→") + " Add the individual files with " + color.YellowString("--encrypt") + " instead")
				return nil
			case errors.Is(err, kerrors.ErrCeremonyDeclined):
				fmt.Println(color.RedString("✗") + " Encryption setup cancelled, nothing was tracked")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to add %s: %v", args[0], err)
		}

		for _, path := range result.Copied {
			if addEncrypt {
				fmt.Println(color.GreenString("✓") + " Encrypted and copied: " + color.YellowString(path))
			} else {
				fmt.Println(color.GreenString("✓") + " Copied: " + color.YellowString(path))
			}
		}
		for _, path := range result.Skipped {
			fmt.Println(color.CyanString("→") + " Not found on this machine (tracked anyway): " + path)
		}
		fmt.Println(color.GreenString("✓") + " Tracking " + color.YellowString(fmt.Sprintf("%d", len(result.Added))) + " path(s)")
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addEncrypt, "encrypt", false, "store the files encrypted at rest")
}
