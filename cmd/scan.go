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

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the system for applications with config files",
	Long: `Walks the stub database and reports which applications on this machine
are tracked and in sync, tracked but drifted, or not managed at all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting scan command")
		spinner, cleanup := startSpinner("Scanning system for dotfiles...", verbose)
		defer cleanup()

		result, err := workflows.Scan(cmd.Context(), workflows.ScanOptions{}, Logger)
		if err != nil {
			if errors.Is(err, kerrors.ErrNotInitialized) {
				spinner.FinalMSG = color.RedString("✗") + " Not a dotfiles repository\n" +
					color.CyanString("→") + " Run " + color.YellowString("dotsync init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to scan: %v", err)
		}
		spinner.Stop()

		ui.Section("System Scan")
		printScanGroup(color.GreenString("✓")+" In sync", result.Synced)
		printScanGroup(color.YellowString("✗")+" Out of sync", result.OutOfSync)
		printScanGroup(color.New(color.FgHiBlack).Sprint("−")+" Not managed", result.Unmanaged)

		if len(result.Unmanaged) > 0 {
			fmt.Println("\n" + color.CyanString("→") + " Track an application with " + color.YellowString("dotsync add <stub>"))
		}
		return nil
	},
}

func printScanGroup(heading string, stubs []workflows.ScanStub) {
	if len(stubs) == 0 {
		return
	}
	fmt.Printf("\n%s\n", heading)
	for _, stub := range stubs {
		fmt.Printf("  %s %s\n", stub.Stub, ui.Muted.Sprintf("%d file(s)", len(stub.ConfigFiles)))
	}
}
