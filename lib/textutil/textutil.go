package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// the OPAC serves titles with a stray "¬" in front of articles, sometimes
// doubled into "Â¬" where the page was decoded with the wrong charset.
// stripping the known prefixes after the fact preserves the behavior users
// see today; the real fix would be decoding the page with its actual source
// encoding upstream.
var legacyMarkers = []string{"Â¬", "¬"}

func StripLegacyMarkers(s string) string {
	for _, m := range legacyMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	return strings.Trim(s, " \n\t")
}

func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}
