package extractors

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// StructureError reports that the table a schema expects is missing from the page.
type StructureError struct {
	Schema   string
	Selector string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: no element matches %q", e.Schema, e.Selector)
}

// Column maps one cell of a row onto a field of T. Apply returns false when the
// cell makes the whole row unusable.
type Column[T any] struct {
	Index int
	Apply func(cell *goquery.Selection, rec *T) bool
}

// TableSchema describes one page layout: where the table is, which rows carry data,
// and how cells map to record fields. New source layouts are new TableSchema values.
type TableSchema[T any] struct {
	Name string
	// Table locates the table. FirstOnly restricts matching to the first hit.
	Table     string
	FirstOnly bool
	// Rows selects data rows relative to the table.
	Rows       string
	SkipHeader bool
	Columns    []Column[T]
	// Keep filters finished records. Nil keeps everything.
	Keep func(T) bool
}

// MinCells is the number of cells a row needs to be considered at all.
func (s TableSchema[T]) MinCells() int {
	n := 0
	for _, c := range s.Columns {
		if c.Index+1 > n {
			n = c.Index + 1
		}
	}
	return n
}

// Extract walks the schema's rows in document order. Malformed rows are dropped;
// only a missing table is an error.
func (s TableSchema[T]) Extract(doc *goquery.Document) ([]T, error) {
	table := doc.Find(s.Table)
	if table.Length() == 0 {
		return nil, &StructureError{Schema: s.Name, Selector: s.Table}
	}
	if s.FirstOnly {
		table = table.First()
	}

	minCells := s.MinCells()
	records := []T{}
	table.Find(s.Rows).Each(func(i int, tr *goquery.Selection) {
		if s.SkipHeader && i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < minCells {
			return
		}

		var rec T
		for _, col := range s.Columns {
			if !col.Apply(cells.Eq(col.Index), &rec) {
				return
			}
		}
		if s.Keep != nil && !s.Keep(rec) {
			return
		}
		records = append(records, rec)
	})
	return records, nil
}
