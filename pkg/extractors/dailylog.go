package extractors

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/clickwatch/models"
)

// DateLayout is the only date format click logs use.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// dailyLogSchema is the single-site layout: category | date | count, one row per
// category and day.
var dailyLogSchema = TableSchema[models.DailyRecord]{
	Name:  "daily-log",
	Table: "table",
	Rows:  "tbody tr",
	Columns: []Column[models.DailyRecord]{
		{0, func(c *goquery.Selection, r *models.DailyRecord) bool { r.Category = CellText(c); return true }},
		{1, func(c *goquery.Selection, r *models.DailyRecord) bool {
			date, ok := ParseDate(CellText(c))
			r.Date = date
			return ok
		}},
		{2, func(c *goquery.Selection, r *models.DailyRecord) bool { r.Count = Digits(CellText(c)); return true }},
	},
}

// ExtractDailyLog parses a click log page into records in row order.
func ExtractDailyLog(doc *goquery.Document) ([]models.DailyRecord, error) {
	return dailyLogSchema.Extract(doc)
}

// ExtractDailyLogHTML is ExtractDailyLog over raw HTML.
func ExtractDailyLogHTML(html string) ([]models.DailyRecord, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return ExtractDailyLog(doc)
}

// ParseDate finds the first YYYY-MM-DD substring of text (or takes text whole) and
// reports whether it is a real calendar date.
func ParseDate(text string) (string, bool) {
	date := text
	if m := datePattern.FindString(text); m != "" {
		date = m
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return date, false
	}
	return date, true
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
