package webopac

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoSession = fmt.Errorf("no session could be established")
var ErrSessionExpired = fmt.Errorf("the catalogue session is no longer valid")
var LoginFailed = fmt.Errorf("Failed to login to your account.")

const sessionExpiredMarker = "Diese Sitzung ist nicht mehr gültig!"
const noHitsMarker = "keine Treffer"

// the OPAC reports an invalidated session inside div.error instead of using
// a status code, so every parsed document gets checked for the marker text.
func isSessionExpired(doc *goquery.Document) bool {
	return strings.Contains(doc.Find("div.error").Text(), sessionExpiredMarker)
}

func hasNoHits(doc *goquery.Document) bool {
	return strings.Contains(doc.Text(), noHitsMarker)
}

func loginErrorText(doc *goquery.Document) string {
	return strings.Trim(doc.Find("div.error").Text(), " \t\n")
}
