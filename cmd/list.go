package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ramanasai/freeflow/internal/db"
	"github.com/ramanasai/freeflow/internal/editor"
	"github.com/ramanasai/freeflow/internal/utils"
)

var (
	since   string
	limit   int
	page    int
	format  string
	noColor bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	Long: `Examples:
	freeflow list                      # everything
	freeflow list --since 7d           # the last week
	freeflow list --limit 10 --page 2  # second page of ten
	freeflow list --format json        # machine readable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		store, closeStore, err := openStore(cfg, cliLogger(cmd))
		if err != nil {
			return err
		}
		defer closeStore()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if since != "" {
			from, err := utils.ParseSince(since, time.Now(), time.Local)
			if err != nil {
				return fmt.Errorf("invalid --since %q: %w", since, err)
			}
			entries = createdSince(entries, from)
		}
		shown, p := utils.Paginate(entries, limit, page)

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return writeJSON(out, shown)
		case "", "table":
			writeTable(out, shown, time.Local)
			if p.TotalPages > 1 {
				fmt.Fprintln(out, color.New(color.Faint).Sprint(p.Summary()))
			}
			return nil
		}
		return fmt.Errorf("unknown --format %q (table|json)", format)
	},
}

func init() {
	listCmd.Flags().StringVar(&since, "since", "", "today | yesterday | week | month | 7d | 2w | YYYY-MM-DD")
	listCmd.Flags().IntVar(&limit, "limit", 50, "entries per page (0 for all)")
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().StringVar(&format, "format", "table", "output format: table|json")
	listCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
}

func createdSince(entries []db.Entry, from time.Time) []db.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if !e.CreatedAt.Before(from) {
			out = append(out, e)
		}
	}
	return out
}

func writeTable(w io.Writer, entries []db.Entry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries yet. Run `freeflow` to start writing.")
		return
	}
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Entry"), bold.Sprint("Style"), bold.Sprint("ID"))
	for _, e := range entries {
		preview := e.Preview()
		if preview == "" {
			preview = dim.Sprint("(empty)")
		}
		style := editor.FontName(e.Font) + " " + strconv.Itoa(e.Size)
		tbl.AddRow(e.ShortDate(loc), preview, style, dim.Sprint(e.ID))
	}
	fmt.Fprintln(w, tbl)
}

type jsonEntry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Font      string    `json:"font"`
	Size      int       `json:"size"`
}

func writeJSON(w io.Writer, entries []db.Entry) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry(e))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
