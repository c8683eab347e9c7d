package parser

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// FindNextPage returns the href of the first anchor whose text contains
// phrase, compared case-insensitively. Only anchors whose text is a single
// string are considered: text split across child elements does not match.
// ok is false when no such anchor exists. An anchor that matches but has no
// href is an error.
func FindNextPage(root *html.Node, phrase string) (href string, ok bool, err error) {
	phrase = strings.ToLower(phrase)

	for _, a := range htmlquery.Find(root, "//a") {
		text, single := soleText(a)
		if !single || !strings.Contains(strings.ToLower(text), phrase) {
			continue
		}
		if !hasAttr(a, "href") {
			return "", false, types.ErrMissingHref
		}
		return htmlquery.SelectAttr(a, "href"), true, nil
	}
	return "", false, nil
}

// soleText descends through elements with exactly one child and returns the
// text node it ends on.
func soleText(n *html.Node) (string, bool) {
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
}

func hasAttr(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}
