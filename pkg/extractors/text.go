package extractors

import (
	"math"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CellText joins every text node under the selection, each trimmed, with no separator.
func CellText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(n, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// Digits keeps only the digit characters of s and reads them as a base-10 integer.
// Every Unicode decimal digit counts, Arabic-Indic included. No digits yields 0; overflow saturates.
func Digits(s string) int {
	n := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			continue
		}
		if n > (math.MaxInt-d)/10 {
			return math.MaxInt
		}
		n = n*10 + d
	}
	return n
}

// digitValue reads any Unicode decimal digit. Decimal digits come in contiguous runs
// of whole blocks of ten starting at zero, so the value is the offset into the run mod 10.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	k := 0
	for unicode.IsDigit(r - rune(k) - 1) {
		k++
	}
	return k % 10, true
}

// href returns the href of the first anchor in the cell, or "".
func href(cell *goquery.Selection) string {
	v, _ := cell.Find("a").First().Attr("href")
	return v
}
