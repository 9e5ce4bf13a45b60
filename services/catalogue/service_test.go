package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/telemetry"
	"bibassist-backend/services/wishlist"
	wishlistdb "bibassist-backend/services/wishlist/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fixtureRow struct {
	id        string
	title     string
	medium    string
	available bool
	dueDate   string
}

var fixtureRows = []fixtureRow{
	{id: "1", title: "¬Momo", medium: "Buch", available: true},
	{id: "2", title: "Das Boot", medium: "DVD", available: false, dueDate: "01.02.2026"},
	{id: "3", title: "Der Vorleser", medium: "Buch", available: false, dueDate: "15.12.2026"},
}

// a single-page catalogue with three fixed hits.
func newFixtureServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/webOPACClient/start.do", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "svc-session"})
		fmt.Fprint(w, `<html><body><input name="CSId" value="svc-csid"></body></html>`)
	})

	mux.HandleFunc("/webOPACClient/search.do", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><table>")
		for i, row := range fixtureRows {
			status := `<span class="textgruen">ausleihbar</span>`
			if !row.available {
				status = "entliehen bis " + row.dueDate
			}
			fmt.Fprintf(
				w,
				`<tr><th>%d.</th><td><a href="/webOPACClient/singleHit.do?id=%s">%s</a></td><td><img title="%s">%s</td></tr>`,
				i+1, row.id, row.title, row.medium, status,
			)
		}
		fmt.Fprint(w, "</table></body></html>")
	})

	mux.HandleFunc("/webOPACClient/singleHit.do", func(w http.ResponseWriter, r *http.Request) {
		for _, row := range fixtureRows {
			if row.id == r.URL.Query().Get("id") {
				fmt.Fprintf(w, `<html><body>
				  <strong class="c2">Titel:</strong><div>%s</div>
				  <strong class="c2">Medienart:</strong><div>%s</div>
				</body></html>`, row.title, row.medium)
				return
			}
		}
		// stale ids render an empty hit page, not an HTTP error
		fmt.Fprint(w, `<html><body><div>Kein Treffer vorhanden.</div></body></html>`)
	})

	mux.HandleFunc("/webOPACClient/login.do", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("password") != "geheim" {
			fmt.Fprint(w, `<html><body><div class="error">Benutzernummer oder Passwort falsch.</div></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><div class="account">Konto</div></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func drain(t *testing.T, progress <-chan webopac.SearchProgress) webopac.SearchProgress {
	var final webopac.SearchProgress
	for p := range progress {
		final = p
	}
	require.True(t, final.Complete)
	return final
}

func TestService(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:catalogue")
	defer cleanup()

	ctx := context.Background()
	server := newFixtureServer(t)

	t.Run("Search", func(t *testing.T) {
		service := NewService(ServiceOptions{BaseUrl: server.URL})

		progress, err := service.Search(ctx, "momo")
		require.NoError(t, err)

		final := drain(t, progress)
		require.True(t, final.Success)
		require.Len(t, final.Results, 3)
		require.Equal(t, "Momo", final.Results[0].Title)
	})

	t.Run("SearchMediaFilter", func(t *testing.T) {
		service := NewService(ServiceOptions{
			BaseUrl:  server.URL,
			Settings: Settings{MediaTypes: []string{"Buch"}},
		})

		progress, err := service.Search(ctx, "momo")
		require.NoError(t, err)

		final := drain(t, progress)
		require.Len(t, final.Results, 2)
		for _, item := range final.Results {
			require.Equal(t, webopac.MediumBook, item.Medium)
		}
	})

	t.Run("SearchDueDateFilter", func(t *testing.T) {
		service := NewService(ServiceOptions{
			BaseUrl:  server.URL,
			Settings: Settings{DueDateBefore: "01.03.2026"},
		})

		progress, err := service.Search(ctx, "momo")
		require.NoError(t, err)

		// the item due back 15.12.2026 misses the cutoff, the available
		// item and the one due 01.02.2026 stay
		final := drain(t, progress)
		require.Len(t, final.Results, 2)
	})

	t.Run("Item", func(t *testing.T) {
		service := NewService(ServiceOptions{BaseUrl: server.URL})

		item, err := service.Item(ctx, server.URL+"/webOPACClient/singleHit.do?id=2", false)
		require.NoError(t, err)
		require.Equal(t, "Das Boot", item.Title)
		require.Equal(t, webopac.MediumDvd, item.Medium)
		require.False(t, item.Available)
	})

	t.Run("LoginLogout", func(t *testing.T) {
		service := NewService(ServiceOptions{BaseUrl: server.URL})

		err := service.Login(ctx, "12345678", "geheim")
		require.NoError(t, err)

		err = service.Login(ctx, "12345678", "falsch")
		require.ErrorIs(t, err, webopac.LoginFailed)

		service.Logout("12345678")
	})

	t.Run("RefreshWishlist", func(t *testing.T) {
		service := NewService(ServiceOptions{BaseUrl: server.URL})

		sqlite, err := sql.Open("sqlite", ":memory:")
		require.NoError(t, err)
		_, err = sqlite.Exec(wishlistdb.Schema)
		require.NoError(t, err)
		store := wishlist.NewStore(sqlite)

		// the stored URL points at an id the catalogue no longer knows
		err = store.Add(ctx, webopac.Item{
			SourceUrl: server.URL + "/webOPACClient/singleHit.do?id=veraltet-99",
			Title:     "Momo",
			Medium:    webopac.MediumBook,
			Available: true,
		})
		require.NoError(t, err)

		err = service.RefreshWishlist(ctx, store)
		require.NoError(t, err)

		// the recovered item replaces the stale row instead of piling up
		// next to it
		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "Momo", entries[0].Item.Title)
		require.Contains(t, entries[0].Item.SourceUrl, "id=1")
		require.NotContains(t, entries[0].Item.SourceUrl, "veraltet")
	})
}

func TestBestTitleMatch(t *testing.T) {
	items := []webopac.Item{
		{Title: "Das Boot", SourceUrl: "u1"},
		{Title: "Momo", SourceUrl: "u2"},
	}

	match, ok := bestTitleMatch("Momo", items)
	require.True(t, ok)
	require.Equal(t, "u2", match.SourceUrl)

	_, ok = bestTitleMatch("Unbekanntes Werk", items)
	require.False(t, ok)
}
