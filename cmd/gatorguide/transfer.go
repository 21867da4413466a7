package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gatorguide/gatorguide/internal/services"
)

var exportTheme string
var importConfirm bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the current app data to a portable JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore app data from a previously exported file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "theme preference to embed in the export")
	importCmd.Flags().BoolVar(&importConfirm, "confirm", false, "overwrite the current app data")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store, _, _, err := newStore(cmd.Context())
	if err != nil {
		return err
	}
	res, err := services.NewTransferService(store).Export(exportTheme)
	if err != nil {
		return err
	}
	out := res.Filename
	if len(args) == 1 {
		out = args[0]
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported app data to %s\n", out)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if !importConfirm {
		return fmt.Errorf("import overwrites all current app data; re-run with --confirm")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	store, _, _, err := newStore(cmd.Context())
	if err != nil {
		return err
	}
	if err := services.NewTransferService(store).Import(cmd.Context(), raw, importConfirm); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported app data from %s\n", args[0])
	return nil
}
