package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// listingSelector matches the entry links of a WhatLinksHere listing.
const listingSelector = "ul li a"

// IdentifierRule is the validity constraint for entry identifiers.
type IdentifierRule struct {
	Prefix string
	Length int
}

// Valid reports whether id has exactly Length characters and starts with Prefix.
func (r IdentifierRule) Valid(id string) bool {
	return utf8.RuneCountInString(id) == r.Length && strings.HasPrefix(id, r.Prefix)
}

// ExtractIdentifiers returns every valid identifier linked from a list item,
// in document order. Duplicates are kept: batch numbering depends on the
// list being rebuilt identically on every run.
func ExtractIdentifiers(doc *goquery.Document, rule IdentifierRule) []string {
	var ids []string
	doc.Find(listingSelector).Each(func(_ int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.Text())
		if rule.Valid(id) {
			ids = append(ids, id)
		}
	})
	return ids
}
