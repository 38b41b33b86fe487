package extractors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const catalogHeader = `<tr><th>Name</th><th>Domain</th><th>Type</th><th>Total</th><th>Clear</th>` +
	`<th>Clicks</th><th>Visits</th><th>Combined</th><th>Chart</th></tr>`

func catalogRow(name, domain, total, viewClicks string) string {
	link := ""
	if viewClicks != "" {
		link = fmt.Sprintf(`<a href="%s">view</a>`, viewClicks)
	}
	return fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>blog</td><td>%s</td>`+
		`<td><button onclick="reloadThePage('https://example.com/clear?d=%s')">clear</button></td>`+
		`<td>%s</td><td><a href="/visits.php">visits</a></td><td></td><td><a href="chart.php">chart</a></td></tr>`,
		name, domain, total, domain, link)
}

func catalogPage(rows ...string) string {
	return `<html><body><table id="data-table">` + catalogHeader + strings.Join(rows, "") + `</table></body></html>`
}

func TestExtractCatalog_SingleValidRow(t *testing.T) {
	html := catalogPage(
		catalogRow("Khadimati", "khadimati.com", "1,204", "https://khadimat.com/clicks.php?site=1"),
		catalogRow("Broken", "", "10", "https://khadimat.com/clicks.php?site=2"),
	)

	sites, err := ExtractCatalogHTML(html, "https://khadimat.com/administrator/api.php")
	if err != nil {
		t.Fatalf("ExtractCatalogHTML() error = %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, want 1", len(sites))
	}

	s := sites[0]
	if s.Name != "Khadimati" || s.Domain != "khadimati.com" || s.Type != "blog" {
		t.Errorf("site = %+v, want Khadimati/khadimati.com/blog", s)
	}
	if s.TotalClicks != 1204 {
		t.Errorf("TotalClicks = %d, want 1204", s.TotalClicks)
	}
	if s.Source != "https://khadimat.com/administrator/api.php" {
		t.Errorf("Source = %q", s.Source)
	}
	if s.Actions.ViewClicks != "https://khadimat.com/clicks.php?site=1" {
		t.Errorf("ViewClicks = %q", s.Actions.ViewClicks)
	}
	if s.Actions.Clear != "https://example.com/clear?d=khadimati.com" {
		t.Errorf("Clear = %q", s.Actions.Clear)
	}
	if s.Actions.Visits != "https://khadimat.com/visits.php" {
		t.Errorf("Visits = %q, want resolved absolute URL", s.Actions.Visits)
	}
	if s.Actions.Combined != "" {
		t.Errorf("Combined = %q, want empty", s.Actions.Combined)
	}
	if s.Actions.Chart != "https://khadimat.com/administrator/chart.php" {
		t.Errorf("Chart = %q", s.Actions.Chart)
	}
}

func TestExtractCatalog_RowTolerance(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []string
	}{
		{
			name: "row without view-clicks link dropped",
			rows: []string{catalogRow("A", "a.com", "1", "")},
			want: nil,
		},
		{
			name: "short row skipped",
			rows: []string{`<tr><td>Short</td><td>short.com</td></tr>`, catalogRow("B", "b.com", "2", "/b")},
			want: []string{"b.com"},
		},
		{
			name: "empty total is zero and still kept",
			rows: []string{catalogRow("C", "c.com", "", "/c")},
			want: []string{"c.com"},
		},
		{
			name: "row order preserved",
			rows: []string{catalogRow("D", "d.com", "1", "/d"), catalogRow("E", "e.com", "1", "/e")},
			want: []string{"d.com", "e.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites, err := ExtractCatalogHTML(catalogPage(tt.rows...), "https://example.com/api.php")
			if err != nil {
				t.Fatalf("ExtractCatalogHTML() error = %v", err)
			}
			var got []string
			for _, s := range sites {
				got = append(got, s.Domain)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("domains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractCatalog_HeaderRowAlwaysSkipped(t *testing.T) {
	// The first row is skipped even when it looks like data.
	html := `<table id="data-table">` +
		catalogRow("First", "first.com", "1", "/first") +
		catalogRow("Second", "second.com", "2", "/second") +
		`</table>`

	sites, err := ExtractCatalogHTML(html, "https://example.com/")
	if err != nil {
		t.Fatalf("ExtractCatalogHTML() error = %v", err)
	}
	if len(sites) != 1 || sites[0].Domain != "second.com" {
		t.Errorf("sites = %+v, want only second.com", sites)
	}
}

func TestExtractCatalog_MissingTable(t *testing.T) {
	_, err := ExtractCatalogHTML(`<table id="other"><tr><td>x</td></tr></table>`, "https://example.com/")

	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StructureError", err)
	}
	if se.Schema != "catalog" {
		t.Errorf("Schema = %q, want %q", se.Schema, "catalog")
	}
}

func TestExtractCatalog_AbsoluteLinksKeptVerbatim(t *testing.T) {
	links := []string{
		"https://cdn.other.example/Clicks.PHP?site=7&amp;day=today#top",
		"http://khadimat.com:8080/view_clicks.php?site=%D8%AE",
		"https://khadimat.com/./clicks/../clicks.php",
	}
	want := []string{
		"https://cdn.other.example/Clicks.PHP?site=7&day=today#top",
		"http://khadimat.com:8080/view_clicks.php?site=%D8%AE",
		"https://khadimat.com/./clicks/../clicks.php",
	}

	for i, link := range links {
		sites, err := ExtractCatalogHTML(catalogPage(catalogRow("Site", "site.com", "1", link)), "https://khadimat.com/administrator/api.php")
		if err != nil {
			t.Fatalf("ExtractCatalogHTML() error = %v", err)
		}
		if len(sites) != 1 {
			t.Fatalf("got %d sites, want 1", len(sites))
		}
		if sites[0].Actions.ViewClicks != want[i] {
			t.Errorf("ViewClicks = %q, want %q unchanged", sites[0].Actions.ViewClicks, want[i])
		}
	}
}
