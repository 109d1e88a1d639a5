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

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked files, or every available stub with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command (all=%t)", listAll)

		result, err := workflows.List(cmd.Context(), workflows.ListOptions{All: listAll})
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				fmt.Println(color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to list: %v", err)
		}

		if listAll {
			ui.Section("Available Stubs")
			for _, stub := range result.Stubs {
				kind := ui.Muted.Sprint("embedded")
				if stub.Custom {
					kind = ui.Highlight.Sprint("custom")
				}
				fmt.Printf("\n%s (%s) %s\n", color.New(color.FgGreen, color.Bold).Sprint(stub.DisplayName), ui.Path.Sprint(stub.Stub), kind)
				for _, file := range stub.ConfigFiles {
					fmt.Printf("  %s\n", ui.Muted.Sprint(file))
				}
			}
			return nil
		}

		if len(result.Tracked) == 0 {
			fmt.Println("No files are tracked yet.")
			fmt.Println("\nUse " + color.YellowString("dotsync add <stub>") + " to start tracking files.")
			return nil
		}

		ui.Section("Tracked Files")
		for _, entry := range result.Tracked {
			origin := "direct"
			if entry.Stub != "" {
				origin = entry.Stub
			}
			line := fmt.Sprintf("  %s %s", entry.Path, ui.Muted.Sprint(origin))
			if entry.Encrypted {
				line += " " + ui.Warning.Sprint("[encrypted]")
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "list every stub in the database")
}
