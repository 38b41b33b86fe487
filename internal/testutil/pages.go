// Package testutil builds fake remote pages for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/clickwatch/pkg/fetcher"
)

// CatalogRow is one data row of a fake catalog page.
type CatalogRow struct {
	Name       string
	Domain     string
	Type       string
	Total      string
	ViewClicks string
}

// CatalogPage renders rows into the data-table layout, header row first.
func CatalogPage(rows ...CatalogRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="data-table"><tr>`)
	for _, h := range []string{"Name", "Domain", "Type", "Total", "Clear", "Clicks", "Visits", "Combined", "Chart"} {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr>")
	for _, r := range rows {
		link := ""
		if r.ViewClicks != "" {
			link = fmt.Sprintf(`<a href="%s">view</a>`, r.ViewClicks)
		}
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td></td><td>%s</td><td></td><td></td><td></td></tr>`,
			r.Name, r.Domain, r.Type, r.Total, link)
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

// LogRow is one row of a fake daily click log.
type LogRow struct {
	Category string
	Date     string
	Count    string
}

// DailyLogPage renders rows into the single-site log layout.
func DailyLogPage(rows ...LogRow) string {
	var b strings.Builder
	b.WriteString("<html><body><table><thead><tr><th>Button</th><th>Date</th><th>Clicks</th></tr></thead><tbody>")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>", r.Category, r.Date, r.Count)
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

// FakeFetcher serves pages from memory. Unknown URLs fail with a 404 TransportError.
type FakeFetcher struct {
	mu    sync.Mutex
	Pages map[string]string
	Errs  map[string]error
	calls []string
}

func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{Pages: map[string]string{}, Errs: map[string]error{}}
}

func (f *FakeFetcher) GetHtml(url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	html, ok := f.Pages[url]
	err := f.Errs[url]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fetcher.TransportError{URL: url, StatusCode: 404, Err: fmt.Errorf("not found")}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Calls returns the URLs requested so far, in order.
func (f *FakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
