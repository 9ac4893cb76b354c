package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ramanasai/freeflow/internal/config"
	"github.com/ramanasai/freeflow/internal/logging"
	"github.com/ramanasai/freeflow/internal/ui"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:           "freeflow",
	Short:         "Distraction-free journaling with a focus timer",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		return err
	},
	RunE: runTUI,
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/freeflow/config.yaml)")
	rootCmd.AddCommand(tuiCmd, listCmd, newCmd, exportCmd, importCmd, versionCmd)
}

// tuiCmd opens the editor; it is also what a bare "freeflow" does.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the editor",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the editor, so logs go to a file.
	logger, closer, err := logging.OpenFile(cfg.Log.Level, cfg.LogPath())
	if err != nil {
		return err
	}
	defer closer.Close()

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return ui.Run(cfg, store, logger)
}
