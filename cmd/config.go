package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotsync/dotsync/internal/ui"
	"github.com/dotsync/dotsync/internal/workflows"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the machine-local configuration",
	Long: `The machine-local overlay lives in your home directory and is never
committed: each machine keeps its own repository path, home override, and
custom-stub tag.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the machine-local configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		result, err := workflows.ShowConfig(cmd.Context())
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read config: %v", err)
		}

		ui.Section("Local Configuration")
		printConfigField("repo_path", result.Local.RepoPath)
		printConfigField("home_path", result.Local.HomePath)
		printConfigField("tag", result.Local.Tag)
		fmt.Println("\n" + ui.Muted.Sprintf("config file: %s", result.Path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a machine-local configuration field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command for %s", args[0])

		if _, err := workflows.SetConfig(cmd.Context(), args[0], args[1]); err != nil {
			return Logger.ErrorfAndReturn("failed to set config: %v", err)
		}
		fmt.Println(color.GreenString("✓") + " Set " + color.GreenString(args[0]) + " = " + color.CyanString(args[1]))
		return nil
	},
}

func printConfigField(name, value string) {
	if value == "" {
		fmt.Printf("  %s %s\n", color.New(color.Bold).Sprint(name+":"), ui.Muted.Sprint("unset"))
		return
	}
	fmt.Printf("  %s %s\n", color.New(color.Bold).Sprint(name+":"), value)
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
