package commands

import (
	"log/slog"
	"strings"

	"bibassist-backend/lib/scrapers/webopac"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchPages *int

func init() {
	searchPages = searchCmd.Flags().Int("pages", 0, "Cap the number of result pages (0 uses the configured default).")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Searches the catalogue and prints the results as a table.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if *searchPages > 0 {
			cfg.Settings.MaxPages = *searchPages
		}
		service := newService(cfg)

		term := strings.Join(args, " ")
		progress, err := service.Search(cmd.Context(), term)
		if err != nil {
			slog.Error("search failed", "err", err)
			return
		}

		var final webopac.SearchProgress
		for p := range progress {
			slog.Info("loaded page", "page", p.CurrentPage, "of", p.TotalPages)
			final = p
		}
		if !final.Success {
			slog.Error("search failed", "message", final.Message)
			return
		}
		if len(final.Results) == 0 {
			slog.Info("no results", "term", term)
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"#", "Title", "Medium", "Year", "Availability", "URL"})
		for i, item := range final.Results {
			t.AppendRow(table.Row{
				i + 1,
				item.Title,
				item.Medium.String(),
				item.PublicationYear,
				availabilityCell(item),
				item.SourceUrl,
			})
		}
		t.Render()
	},
}
