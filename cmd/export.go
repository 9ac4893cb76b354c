package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/freeflow/internal/export"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every entry to a markdown file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cfg, cliLogger(cmd))
		if err != nil {
			return err
		}
		defer closeStore()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		paths, err := export.WriteAll(exportDir, entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", len(paths), plural(len(paths)), exportDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "destination directory")
}

func plural(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
