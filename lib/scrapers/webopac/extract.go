package webopac

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"bibassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var bracketYearRegex = regexp.MustCompile(`\[(\d{4})\]`)
var bareYearRegex = regexp.MustCompile(`\b(20\d{2})\b`)
var dueDateRegex = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

// bracketed years are authoritative, the bare "20xx" token is only a guess
// for rows that never carry brackets. dd.mm.yyyy due dates are cut out
// before the bare fallback so their year component cannot pose as a
// publication year.
func extractYear(text string) string {
	groups := bracketYearRegex.FindStringSubmatch(text)
	if len(groups) > 1 {
		return groups[1]
	}
	groups = bareYearRegex.FindStringSubmatch(dueDateRegex.ReplaceAllString(text, ""))
	if len(groups) > 1 {
		return groups[1]
	}
	return ""
}

// the title anchor is looked up with three selector strategies, first match
// wins: the detail link proper, then any anchor that is not the
// add-to-watchlist action, then any anchor that is not the reservation
// action.
var titleAnchorSelectors = []string{
	`td a[href*="singleHit.do"]`,
	`td a:not([href*="addToWatchlist"])`,
	`td a:not([href*="requestItem"])`,
}

func resolveTitleAnchor(row *goquery.Selection) *goquery.Selection {
	for _, selector := range titleAnchorSelectors {
		anchor := row.Find(selector).First()
		if anchor.Length() > 0 {
			return anchor
		}
	}
	return nil
}

// turns a search result page into lightweight Item projections. rows whose
// title anchor cannot be resolved are skipped, they never abort the page.
func ParseResultList(doc *goquery.Document, baseUrl *url.URL) []Item {
	var items []Item

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		// data rows carry a header cell with the hit number, the table's
		// own header row does not
		if row.Find("th").Length() == 0 {
			return
		}

		anchor := resolveTitleAnchor(row)
		if anchor == nil {
			slog.Debug("skipping result row without a title anchor", "row", i)
			return
		}

		anchors := htmlutil.GetAnchors(anchor)
		if len(anchors) == 0 {
			slog.Debug("skipping result row with an unparseable title anchor", "row", i)
			return
		}
		link, err := baseUrl.Parse(anchors[0].Href)
		if err != nil {
			slog.Debug("skipping result row with unparseable href", "row", i, "href", anchors[0].Href)
			return
		}

		var item Item
		item.SourceUrl = link.String()
		item.setTitle(anchors[0].Name)

		rowText := row.Text()
		item.PublicationYear = extractYear(rowText)
		item.Available = row.Find("span.textgruen").Length() > 0
		if !item.Available {
			item.DueDates = dueDateRegex.FindAllString(rowText, -1)
		}
		item.Medium = MediumFromMarkup(row.Find("img").AttrOr("title", ""))

		items = append(items, item)
	})

	return items
}

// the detail-page field labels the extractor knows about. "Beteiligt" is
// repeatable and accumulates.
const (
	labelTitle     = "Titel"
	labelMedium    = "Medienart"
	labelYear      = "Erscheinungsdatum"
	labelAuthor    = "Verf.Vorlage"
	labelLanguage  = "Sprache(n)"
	labelPublisher = "Verlagsname"
	labelDirector  = "Regie"
	labelIsbn      = "ISBN"
	labelCoverUrl  = "Cover_URL"
	labelCast      = "Beteiligt"
)

// reads the keyed label/value list of a detail page: bold strong.c2 key
// elements, each followed by a sibling value element. unknown labels are
// ignored, absent values stay empty.
func ParseDetailPage(doc *goquery.Document) Item {
	var item Item

	doc.Find("strong.c2").Each(func(_ int, key *goquery.Selection) {
		label := strings.TrimSuffix(htmlutil.CleanText(key.Text()), ":")
		value := htmlutil.CleanText(key.Next().Text())
		if value == "" {
			return
		}

		switch label {
		case labelTitle:
			item.setTitle(value)
		case labelMedium:
			item.Medium = MediumFromMarkup(value)
		case labelYear:
			item.PublicationYear = strings.Trim(value, "[]")
		case labelAuthor:
			item.Author = value
		case labelLanguage:
			item.Language = value
		case labelPublisher:
			item.Publisher = value
		case labelDirector:
			item.Director = value
		case labelIsbn:
			item.Isbn = value
		case labelCoverUrl:
			item.CoverUrl = value
		case labelCast:
			item.Actors = append(item.Actors, value)
		}
	})

	return item
}

// audiovisual detail pages link a secondary tab with fields the primary
// page lacks.
func ExtendedTabLink(doc *goquery.Document) string {
	return doc.Find("#labelTitle a").AttrOr("href", "")
}

// fills the primary record's empty fields from the extended tab. values the
// primary page already has are never overwritten.
func mergeDetail(primary, extended Item) Item {
	if primary.RawTitle == "" {
		primary.RawTitle = extended.RawTitle
		primary.Title = extended.Title
	}
	if primary.PublicationYear == "" {
		primary.PublicationYear = extended.PublicationYear
	}
	if primary.Medium == MediumUnknown {
		primary.Medium = extended.Medium
	}
	if primary.Author == "" {
		primary.Author = extended.Author
	}
	if primary.Language == "" {
		primary.Language = extended.Language
	}
	if primary.Publisher == "" {
		primary.Publisher = extended.Publisher
	}
	if primary.Director == "" {
		primary.Director = extended.Director
	}
	if primary.Isbn == "" {
		primary.Isbn = extended.Isbn
	}
	if primary.CoverUrl == "" {
		primary.CoverUrl = extended.CoverUrl
	}
	if len(primary.Actors) == 0 {
		primary.Actors = extended.Actors
	}
	return primary
}
