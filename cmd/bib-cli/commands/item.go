package commands

import (
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(itemCmd)
}

var itemCmd = &cobra.Command{
	Use:   "item <url>",
	Short: "Resolves one catalogue item and prints every extracted field.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := newService(cfg)

		item, err := service.Item(cmd.Context(), args[0], false)
		if err != nil {
			slog.Error("failed to resolve item", "url", args[0], "err", err)
			return
		}

		t := newTable()
		rows := []struct {
			label string
			value string
		}{
			{"Title", item.Title},
			{"Medium", item.Medium.String()},
			{"Year", item.PublicationYear},
			{"Author", item.Author},
			{"Director", item.Director},
			{"Cast", strings.Join(item.Actors, ", ")},
			{"Language", item.Language},
			{"Publisher", item.Publisher},
			{"ISBN", item.Isbn},
			{"Cover", item.CoverUrl},
			{"Availability", availabilityCell(*item)},
			{"URL", item.SourceUrl},
		}
		for _, row := range rows {
			if row.value == "" {
				continue
			}
			t.AppendRow(table.Row{row.label, row.value})
		}
		t.Render()
	},
}
