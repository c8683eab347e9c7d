package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// fieldRule maps a row label keyword to the record field it fills.
type fieldRule struct {
	keyword string
	apply   func(rec *types.Record, value string)
}

// entryFields is checked in order; the first keyword contained in a row
// label claims that row.
var entryFields = []fieldRule{
	{"smiles", func(rec *types.Record, v string) { rec.SMILES = v }},
	{"systematic name", func(rec *types.Record, v string) { rec.SystematicName = v }},
	{"average mass", func(rec *types.Record, v string) {
		if mass, ok := ParseAverageMass(v); ok {
			rec.AverageMass = mass
		}
	}},
}

// ExtractEntry scans every table row of a detail page and fills the record
// fields from label/value cell pairs. Later matching rows overwrite earlier
// ones. The returned record may have every field empty.
func ExtractEntry(doc *goquery.Document, id string) types.Record {
	rec := types.Record{ID: id}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if len(cells) < 2 {
			return
		}
		ApplyRow(&rec, cells[0], cells[1])
	})

	return rec
}

// ApplyRow applies one label/value pair to rec using the field match table.
func ApplyRow(rec *types.Record, label, value string) {
	label = strings.ToLower(label)
	for _, f := range entryFields {
		if strings.Contains(label, f.keyword) {
			f.apply(rec, value)
			return
		}
	}
}

// ParseAverageMass parses the first whitespace-delimited token of value as a
// float and returns it truncated toward zero. ok is false when the token is
// missing, unparseable or not finite.
func ParseAverageMass(value string) (string, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", false
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	i, _ := big.NewFloat(f).Int(nil)
	return i.String(), true
}

// cellText joins the trimmed, non-empty text fragments of a cell with single
// spaces.
func cellText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
