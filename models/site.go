// Package models defines data structures for configuration, sites and click logs.
package models

// Actions holds the per-site action links found on a catalog row.
// Only ViewClicks is needed to answer click queries; the rest are descriptive.
type Actions struct {
	Clear      string `json:"clear,omitempty" yaml:"clear,omitempty"`
	ViewClicks string `json:"view_clicks" yaml:"view_clicks"`
	Visits     string `json:"visits,omitempty" yaml:"visits,omitempty"`
	Combined   string `json:"combined,omitempty" yaml:"combined,omitempty"`
	Chart      string `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// Site represents one tracked domain as reported by a source.
type Site struct {
	Name        string  `json:"name" yaml:"name"`
	Domain      string  `json:"domain" yaml:"domain"`
	Type        string  `json:"type" yaml:"type"`
	TotalClicks int     `json:"total_clicks" yaml:"total_clicks"`
	Actions     Actions `json:"actions" yaml:"actions"`
	Source      string  `json:"source" yaml:"source"` // URL the site was discovered from
}

// Valid reports whether the site can be listed and queried.
func (s Site) Valid() bool {
	return s.Domain != "" && s.Actions.ViewClicks != ""
}

// DailyRecord is one (category, date, count) row of a site's click log.
type DailyRecord struct {
	Category string `json:"category" yaml:"category"`
	Date     string `json:"date" yaml:"date"` // YYYY-MM-DD
	Count    int    `json:"count" yaml:"count"`
}

// DailySummary totals a site's click log for a single date.
type DailySummary struct {
	Date       string         `json:"date" yaml:"date"`
	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
	Total      int            `json:"total" yaml:"total"`
}

// Empty reports whether no clicks matched the summary's date.
func (d DailySummary) Empty() bool {
	return len(d.ByCategory) == 0
}
