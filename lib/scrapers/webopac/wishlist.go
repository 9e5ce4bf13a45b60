package webopac

import (
	"fmt"
	"regexp"
	"strings"

	"bibassist-backend/lib/htmlutil"
	"bibassist-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var wishlistYearRegex = regexp.MustCompile(`^\[?(\d{4})\]?$`)

// the "[Verfasser]" suffix sometimes arrives as "Â¬[Verfasser]" where the
// page was decoded with the wrong charset.
var wishlistAuthorRegex = regexp.MustCompile(`^(.*?)[,\s]*(?:Â?¬)?\[Verfasser\]$`)

// ParseWishlistCell parses one saved-items cell. the format is looser than
// the result table: lines separated by <br>, holding some mix of title,
// year and author. index is the cell's ordinal on the page, used for the
// fallback title when no title line survives.
func ParseWishlistCell(cell *goquery.Selection, index int) Item {
	var item Item

	var leftover []string
	for _, line := range htmlutil.SplitOnBreaks(cell) {
		if strings.Contains(line, "Verfügbarkeit") {
			continue
		}
		if groups := wishlistYearRegex.FindStringSubmatch(line); len(groups) > 1 {
			if item.PublicationYear == "" {
				item.PublicationYear = groups[1]
			}
			continue
		}
		if groups := wishlistAuthorRegex.FindStringSubmatch(line); len(groups) > 1 {
			if item.Author == "" {
				item.Author = textutil.StripLegacyMarkers(groups[1])
			}
			continue
		}
		leftover = append(leftover, line)
	}

	if len(leftover) > 0 {
		item.setTitle(leftover[0])
	} else {
		item.setTitle(fmt.Sprintf("Eintrag %d", index+1))
	}
	return item
}
