package commands

import (
	"database/sql"
	"log/slog"

	"bibassist-backend/lib/serviceutil"
	"bibassist-backend/services/wishlist"
	"bibassist-backend/services/wishlist/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var wishlistDb *string

func init() {
	wishlistDb = wishlistCmd.PersistentFlags().String("db", "wishlist.db", "The wishlist database file.")
	wishlistCmd.AddCommand(wishlistAddCmd)
	wishlistCmd.AddCommand(wishlistListCmd)
	wishlistCmd.AddCommand(wishlistRemoveCmd)
	wishlistCmd.AddCommand(wishlistRefreshCmd)
	rootCmd.AddCommand(wishlistCmd)
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manages the local wishlist of saved catalogue items.",
}

func openWishlist() (wishlist.Store, *sql.DB) {
	database, err := db.Open(*wishlistDb)
	if err != nil {
		serviceutil.Fatal("failed to open wishlist db", err)
	}
	return wishlist.NewStore(database), database
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Resolves a catalogue item and saves it to the wishlist.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := newService(cfg)
		store, database := openWishlist()
		defer database.Close()

		item, err := service.Item(cmd.Context(), args[0], false)
		if err != nil {
			slog.Error("failed to resolve item", "url", args[0], "err", err)
			return
		}
		err = store.Add(cmd.Context(), *item)
		if err != nil {
			slog.Error("failed to save item", "err", err)
			return
		}
		slog.Info("saved", "title", item.Title)
	},
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the saved wishlist.",
	Run: func(cmd *cobra.Command, args []string) {
		store, database := openWishlist()
		defer database.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			slog.Error("failed to list wishlist", "err", err)
			return
		}
		if len(entries) == 0 {
			slog.Info("wishlist is empty")
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"Title", "Medium", "Year", "Author", "Available", "Added", "URL"})
		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.Item.Title,
				entry.Item.Medium.String(),
				entry.Item.PublicationYear,
				entry.Item.Author,
				entry.Item.Available,
				entry.AddedAt.Format("2006-01-02"),
				entry.Item.SourceUrl,
			})
		}
		t.Render()
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Removes an item from the wishlist by its URL.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, database := openWishlist()
		defer database.Close()

		err := store.Remove(cmd.Context(), args[0])
		if err != nil {
			slog.Error("failed to remove item", "err", err)
			return
		}
		slog.Info("removed", "url", args[0])
	},
}

var wishlistRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-resolves every wishlist item against the live catalogue.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := newService(cfg)
		store, database := openWishlist()
		defer database.Close()

		err := service.RefreshWishlist(cmd.Context(), store)
		if err != nil {
			slog.Error("refresh failed", "err", err)
			return
		}
		slog.Info("wishlist refreshed")
	},
}
