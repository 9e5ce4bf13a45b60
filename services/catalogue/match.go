package catalogue

import (
	"github.com/antzucaro/matchr"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/textutil"
)

// the OPAC mints detail URLs per session, so a stored wishlist URL can go
// stale. matching a stored title against fresh search results is fuzzy on
// purpose: the list projection sometimes truncates or re-spaces titles.
const titleMatchThreshold = 0.9

func bestTitleMatch(title string, items []webopac.Item) (webopac.Item, bool) {
	normalized := textutil.NormalizeName(title)

	var best webopac.Item
	bestSimilarity := 0.0
	for _, item := range items {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(item.Title), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = item
		}
	}

	if bestSimilarity < titleMatchThreshold {
		return webopac.Item{}, false
	}
	return best, true
}
