package wishlist

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/telemetry"
	"bibassist-backend/services/wishlist/db"

	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:wishlist")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = sqlite.Exec(db.Schema)
	require.NoError(t, err)
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 0)
	}

	suffix, err := random.String(8)
	require.NoError(t, err)
	item := webopac.Item{
		SourceUrl:       "https://opac.example.org/webOPACClient/singleHit.do?id=" + suffix,
		Title:           "Fight Club",
		PublicationYear: "1999",
		Medium:          webopac.MediumBook,
		Author:          "Palahniuk, Chuck",
		Available:       true,
	}

	{
		err := store.Add(ctx, item)
		require.NoError(t, err)

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, item.SourceUrl, entries[0].Item.SourceUrl)
		require.Equal(t, "Fight Club", entries[0].Item.Title)
		require.Equal(t, webopac.MediumBook, entries[0].Item.Medium)
	}

	{
		// adding the same url again updates in place
		item.Available = false
		err := store.Add(ctx, item)
		require.NoError(t, err)

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.False(t, entries[0].Item.Available)
	}

	{
		err := store.Remove(ctx, item.SourceUrl)
		require.NoError(t, err)

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 0)
	}
}
