package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/ui"
	"github.com/dotsync/dotsync/internal/workflows"
)

var createTag string

var createCmd = &cobra.Command{
	Use:   "create <stub> <path>...",
	Short: "Define a custom stub in the repository database",
	Long: `Defines a new stub covering the given home-relative paths, e.g.

  dotsync create my-editor ~/.config/my-editor/config.toml

The stub is written into the repository's custom database and can then be
tracked with 'dotsync add <stub>' on any machine sharing the repository.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting create command for stub %q", args[0])

		result, err := workflows.CreateStub(cmd.Context(), workflows.CreateStubOptions{
			Stub:  args[0],
			Paths: args[1:],
			Tag:   createTag,
		})
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to create stub: %v", err)
		}

		fmt.Printf("%s Created stub %s (%s)\n", color.GreenString("✓"), ui.Highlight.Sprint(result.Stub), result.DisplayName)
		for _, path := range result.Paths {
			fmt.Printf("    %s\n", ui.Path.Sprint(path))
		}
		fmt.Println("\n" + color.CyanString("→") + " Track it with " + color.YellowString("dotsync add "+result.Stub))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createTag, "tag", "", "machine tag whose database receives the stub")
}
