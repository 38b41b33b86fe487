package extractors

import (
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/clickwatch/models"
)

// CatalogTableID marks the catalog table on multi-site pages.
const CatalogTableID = "data-table"

// clearCallPattern pulls the target out of onclick="reloadThePage('<url>')".
var clearCallPattern = regexp.MustCompile(`reloadThePage\('([^']+)'\)`)

// catalogSchema is the multi-site layout:
//
//	name | domain | type | total | clear button | view clicks | visits | combined | chart
//
// Links are resolved against the page they were found on.
func catalogSchema(source string) TableSchema[models.Site] {
	base, _ := url.Parse(source)
	link := func(cell *goquery.Selection) string {
		return resolveRef(base, href(cell))
	}

	return TableSchema[models.Site]{
		Name:       "catalog",
		Table:      "#" + CatalogTableID,
		FirstOnly:  true,
		Rows:       "tr",
		SkipHeader: true,
		Columns: []Column[models.Site]{
			{0, func(c *goquery.Selection, s *models.Site) bool { s.Name = CellText(c); return true }},
			{1, func(c *goquery.Selection, s *models.Site) bool { s.Domain = CellText(c); return true }},
			{2, func(c *goquery.Selection, s *models.Site) bool { s.Type = CellText(c); return true }},
			{3, func(c *goquery.Selection, s *models.Site) bool { s.TotalClicks = Digits(CellText(c)); return true }},
			{4, func(c *goquery.Selection, s *models.Site) bool {
				onclick, _ := c.Find("button").First().Attr("onclick")
				if m := clearCallPattern.FindStringSubmatch(onclick); m != nil {
					s.Actions.Clear = resolveRef(base, m[1])
				}
				return true
			}},
			{5, func(c *goquery.Selection, s *models.Site) bool { s.Actions.ViewClicks = link(c); return true }},
			{6, func(c *goquery.Selection, s *models.Site) bool { s.Actions.Visits = link(c); return true }},
			{7, func(c *goquery.Selection, s *models.Site) bool { s.Actions.Combined = link(c); return true }},
			{8, func(c *goquery.Selection, s *models.Site) bool { s.Actions.Chart = link(c); return true }},
		},
		Keep: func(s models.Site) bool { return s.Valid() },
	}
}

// ExtractCatalog parses a catalog page into sites in row order, tagging each with
// the source URL it was found on.
func ExtractCatalog(doc *goquery.Document, source string) ([]models.Site, error) {
	sites, err := catalogSchema(source).Extract(doc)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		sites[i].Source = source
	}
	return sites, nil
}

// ExtractCatalogHTML is ExtractCatalog over raw HTML.
func ExtractCatalogHTML(html, source string) ([]models.Site, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return ExtractCatalog(doc, source)
}

// resolveRef makes relative links absolute. Absolute links and links that do not
// parse are returned unchanged.
func resolveRef(base *url.URL, ref string) string {
	if ref == "" || base == nil || base.Host == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return base.ResolveReference(u).String()
}
