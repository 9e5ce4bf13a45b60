package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"bibassist-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func CleanText(s string) string {
	return textutil.CollapseWhitespace(removeNonPrintable(s))
}

// GetAnchors reads name/href pairs off a selection of anchor elements.
// anchors whose href does not parse as a URL are skipped.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			continue
		}

		anchors = append(anchors, Anchor{
			Name: CleanText(GetText(n)),
			Href: link.String(),
		})
	}
	return anchors
}

// SplitOnBreaks returns the text lines of a selection's inner html, split on
// <br> markers, with tags stripped and whitespace trimmed. empty lines are
// kept out of the result.
func SplitOnBreaks(sel *goquery.Selection) []string {
	inner, err := sel.Html()
	if err != nil {
		return nil
	}

	chunks := breakTagRegex.Split(inner, -1)
	var lines []string
	for _, chunk := range chunks {
		frag, err := goquery.NewDocumentFromReader(strings.NewReader(chunk))
		if err != nil {
			continue
		}
		line := CleanText(frag.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

var breakTagRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
