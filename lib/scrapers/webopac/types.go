package webopac

import (
	"bibassist-backend/lib/textutil"
)

// Item is one media unit in the catalogue. search result rows fill the
// lightweight projection (SourceUrl, Title, PublicationYear, Medium,
// Available, DueDates); detail pages fill the rest.
type Item struct {
	// canonical detail-page URL, always absolute. stable across a session
	// and used as the item's key.
	SourceUrl string

	// display title with the legacy "¬" markers stripped
	Title string
	// the title exactly as served
	RawTitle string

	PublicationYear string
	Medium          MediumKind

	Available bool
	// as displayed by the catalogue, only present when unavailable
	DueDates []string

	Author    string
	Language  string
	Publisher string
	Director  string
	Actors    []string
	Isbn      string
	CoverUrl  string
}

func (i *Item) setTitle(raw string) {
	i.RawTitle = raw
	i.Title = textutil.StripLegacyMarkers(raw)
}

type MediumKind int

const (
	MediumUnknown MediumKind = iota
	MediumBook
	MediumDvd
	MediumBluray
	MediumCdRom
	MediumCd
	MediumGame
	MediumEbook
	MediumEaudio
	MediumMap
	MediumNewspaper
	MediumMagazine
)

type mediumInfo struct {
	Label string
	// value for the media-type search restriction field
	QueryParam string
	// icon hint for the presentation layer
	Icon string
	// normalized substrings matched against the list row's icon title
	MatchStrings []string
}

// kept as a side table instead of per-variant methods so the markup match
// order below stays visible in one place.
var mediumTable = map[MediumKind]mediumInfo{
	MediumBook:      {"Buch", "Buch", "book", []string{"buch"}},
	MediumDvd:       {"DVD", "DVD", "dvd", []string{"dvd"}},
	MediumBluray:    {"Blu-ray", "Blu-ray", "bluray", []string{"blu-ray", "bluray"}},
	MediumCdRom:     {"CD-ROM", "CD-ROM", "cdrom", []string{"cd-rom", "cdrom"}},
	MediumCd:        {"CD", "CD", "cd", []string{"cd"}},
	MediumGame:      {"Spiel", "Spiel", "game", []string{"konsolenspiel", "spiel"}},
	MediumEbook:     {"eBook", "eBook", "ebook", []string{"ebook", "e-book"}},
	MediumEaudio:    {"eAudio", "eAudio", "eaudio", []string{"eaudio", "e-audio"}},
	MediumMap:       {"Karte", "Karte", "map", []string{"karte"}},
	MediumNewspaper: {"Zeitung", "Zeitung", "newspaper", []string{"zeitung"}},
	MediumMagazine:  {"Zeitschrift", "Zeitschrift", "magazine", []string{"zeitschrift"}},
	MediumUnknown:   {"Unbekannt", "", "unknown", nil},
}

// match order matters: "ebook" must win over "buch", "cd-rom" over "cd".
var mediumMatchOrder = []MediumKind{
	MediumEbook,
	MediumEaudio,
	MediumBluray,
	MediumCdRom,
	MediumCd,
	MediumDvd,
	MediumGame,
	MediumMap,
	MediumNewspaper,
	MediumMagazine,
	MediumBook,
}

// maps the German catalogue-markup string (an icon's title attribute or the
// "Medienart" detail field) to a medium kind. unknown markup maps to
// MediumUnknown, never to an unset value.
func MediumFromMarkup(markup string) MediumKind {
	if markup == "" {
		return MediumUnknown
	}
	for _, kind := range mediumMatchOrder {
		if textutil.MatchName(markup, mediumTable[kind].MatchStrings) {
			return kind
		}
	}
	return MediumUnknown
}

func (m MediumKind) String() string {
	return mediumTable[m].Label
}

func (m MediumKind) QueryParam() string {
	return mediumTable[m].QueryParam
}

func (m MediumKind) Icon() string {
	return mediumTable[m].Icon
}

// SearchProgress is emitted once per fetched page. values are never mutated
// after emission.
type SearchProgress struct {
	// cumulative lightweight projections, in page order
	Results     []Item
	CurrentPage int
	TotalPages  int
	Complete    bool
	Success     bool
	Message     string
}
