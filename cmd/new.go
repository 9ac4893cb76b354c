package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/freeflow/internal/db"
)

var (
	newFont string
	newSize int
)

var newCmd = &cobra.Command{
	Use:   "new [text]",
	Short: "Create an entry from arguments or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = strings.TrimRight(string(b), "\n")
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("nothing to save")
		}

		store, closeStore, err := openStore(cfg, cliLogger(cmd))
		if err != nil {
			return err
		}
		defer closeStore()

		id, err := store.Create(cmd.Context(), text)
		if err != nil {
			return err
		}
		font, size := newFont, newSize
		if font == "" {
			font = cfg.Editor.Font
		}
		if size == 0 {
			size = cfg.Editor.Size
		}
		if font != db.DefaultFont || size != db.DefaultSize {
			if err := store.Update(cmd.Context(), id, db.StylePatch(font, size)); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved", id)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newFont, "font", "", "display font (defaults to editor.font)")
	newCmd.Flags().IntVar(&newSize, "size", 0, "display size (defaults to editor.size)")
}
