package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ramanasai/freeflow/internal/db"
	"github.com/ramanasai/freeflow/internal/export"
)

var importCmd = &cobra.Command{
	Use:   "import [file|dir...]",
	Short: "Read entries back from exported markdown files",
	Long: `Import reads files written by export and stores each one as a new entry.
Directories are scanned for *.md files. Files whose entry id is still present
in the journal are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		files, err := markdownFiles(args)
		if err != nil {
			return err
		}

		logger := cliLogger(cmd)
		store, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		var imported, skipped int
		for _, path := range files {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			e, err := export.Parse(b)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if e.ID != "" {
				_, err = store.Get(ctx, e.ID)
				switch {
				case err == nil:
					logger.Debug("import skipped, entry exists", "id", e.ID, "file", path)
					skipped++
					continue
				case !errors.Is(err, db.ErrNotFound):
					return err
				}
			}

			id, err := store.Create(ctx, e.Content)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if font, size := styleOrDefault(e); font != db.DefaultFont || size != db.DefaultSize {
				if err := store.Update(ctx, id, db.StylePatch(font, size)); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			imported++
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d %s", imported, plural(imported))
		if skipped > 0 {
			fmt.Fprintf(out, ", skipped %d already present", skipped)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func markdownFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.md"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// styleOrDefault fills style fields omitted from the front matter.
func styleOrDefault(e db.Entry) (string, int) {
	font, size := e.Font, e.Size
	if font == "" {
		font = db.DefaultFont
	}
	if size == 0 {
		size = db.DefaultSize
	}
	return font, size
}
