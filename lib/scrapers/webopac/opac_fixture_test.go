package webopac

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const fixtureCSId = "fake-csid-0815"
const fixtureSessionCookie = "fake-session"
const noHitsTerm = "xyzzy"

// fakeOPAC serves just enough of the webOPACClient surface for the client
// and orchestrator tests: start page with the CSId field, search submit,
// paged result lists, item details with an extended tab, and login.
type fakeOPAC struct {
	t         *testing.T
	totalHits int
	server    *httptest.Server

	mu           sync.Mutex
	pageRequests []int
}

func newFakeOPAC(t *testing.T, totalHits int) *fakeOPAC {
	f := &fakeOPAC{t: t, totalHits: totalHits}

	mux := http.NewServeMux()
	mux.HandleFunc("/webOPACClient/start.do", f.handleStart)
	mux.HandleFunc("/webOPACClient/search.do", f.handleSearch)
	mux.HandleFunc("/webOPACClient/searchList.do", f.handleSearchList)
	mux.HandleFunc("/webOPACClient/singleHit.do", f.handleSingleHit)
	mux.HandleFunc("/webOPACClient/login.do", f.handleLogin)
	mux.HandleFunc("/webOPACClient/expired.do", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="error">Diese Sitzung ist nicht mehr gültig!</div></body></html>`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOPAC) totalPages() int {
	return (f.totalHits + pageSize - 1) / pageSize
}

func (f *fakeOPAC) fetchedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int{}, f.pageRequests...)
}

func (f *fakeOPAC) handleStart(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: fixtureSessionCookie})
	fmt.Fprint(w, `<html><body><form action="search.do">
	  <input type="hidden" name="CSId" value="`+fixtureCSId+`">
	</form></body></html>`)
}

func (f *fakeOPAC) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("CSId") != fixtureCSId {
		fmt.Fprint(w, `<html><body><div class="error">Diese Sitzung ist nicht mehr gültig!</div></body></html>`)
		return
	}
	cookie, err := r.Cookie("JSESSIONID")
	if err != nil || cookie.Value != fixtureSessionCookie {
		f.t.Error("search request arrived without the session cookie")
	}

	if err := r.ParseForm(); err != nil {
		f.t.Error("search request has an unparseable form", err)
	}
	if r.FormValue("searchString[0]") == noHitsTerm {
		fmt.Fprint(w, `<html><body>Es wurden keine Treffer gefunden.</body></html>`)
		return
	}

	fmt.Fprint(w, f.resultsPage(1))
}

func (f *fakeOPAC) handleSearchList(w http.ResponseWriter, r *http.Request) {
	curPos, _ := strconv.Atoi(r.URL.Query().Get("curPos"))
	page := curPos/pageSize + 1

	f.mu.Lock()
	f.pageRequests = append(f.pageRequests, page)
	f.mu.Unlock()

	fmt.Fprint(w, f.resultsPage(page))
}

func (f *fakeOPAC) resultsPage(page int) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	b.WriteString("<tr><td>Treffer</td><td>Titel</td><td>Status</td></tr>")

	first := (page - 1) * pageSize
	last := first + pageSize
	if last > f.totalHits {
		last = f.totalHits
	}
	for i := first; i < last; i++ {
		status := `<span class="textgruen">ausleihbar</span>`
		if i%2 == 1 {
			status = "entliehen bis 01.02.2026"
		}
		fmt.Fprintf(
			&b,
			`<tr><th>%d.</th><td><a href="/webOPACClient/singleHit.do?id=%d">¬Titel %d</a><br>[%d]</td><td><img title="Buch">%s</td></tr>`,
			i+1, i+1, i+1, 2000+i%20, status,
		)
	}
	b.WriteString("</table>")

	if page < f.totalPages() {
		fmt.Fprintf(&b, `<a title="Nächste Seite" href="/webOPACClient/searchList.do?curPos=%d">&gt;</a>`, page*pageSize)
		fmt.Fprintf(&b, `<a title="Letzte Seite" href="/webOPACClient/searchList.do?curPos=%d">&gt;|</a>`, (f.totalPages()-1)*pageSize)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func (f *fakeOPAC) handleSingleHit(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("tab") == "2" {
		fmt.Fprint(w, `<html><body><div>
		  <strong class="c2">Regie:</strong><div>Petersen, Wolfgang</div>
		  <strong class="c2">Sprache(n):</strong><div>Deutsch</div>
		  <strong class="c2">Beteiligt:</strong><div>Prochnow, Jürgen</div>
		  <strong class="c2">Beteiligt:</strong><div>Grönemeyer, Herbert</div>
		</div></body></html>`)
		return
	}

	id := r.URL.Query().Get("id")
	fmt.Fprintf(w, `<html><body>
	  <div id="labelTitle"><a href="/webOPACClient/singleHit.do?id=%s&amp;tab=2">Mehr zum Titel</a></div>
	  <div>
	    <strong class="c2">Titel:</strong><div>¬Das Boot</div>
	    <strong class="c2">Medienart:</strong><div>DVD</div>
	    <strong class="c2">Erscheinungsdatum:</strong><div>[1981]</div>
	    <strong class="c2">Verf.Vorlage:</strong><div>Buchheim, Lothar-Günther</div>
	    <strong class="c2">ISBN:</strong><div>978-3-492-04523-1</div>
	  </div>
	</body></html>`, id)
}

func (f *fakeOPAC) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		f.t.Error("login request has an unparseable form", err)
	}
	if r.FormValue("CSId") != fixtureCSId {
		fmt.Fprint(w, `<html><body><div class="error">Diese Sitzung ist nicht mehr gültig!</div></body></html>`)
		return
	}
	if r.FormValue("username") != "12345678" || r.FormValue("password") != "geheim" {
		fmt.Fprint(w, `<html><body><div class="error">Benutzernummer oder Passwort falsch.</div></body></html>`)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "USERID", Value: "12345678"})
	fmt.Fprint(w, `<html><body><div class="account">Konto</div></body></html>`)
}
