// Package tracker answers the two questions front-ends ask: which sites are tracked,
// and how many clicks a site got on a given day.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dtnitsch/clickwatch/models"
	"github.com/dtnitsch/clickwatch/pkg/aggregator"
	"github.com/dtnitsch/clickwatch/pkg/extractors"
	"github.com/dtnitsch/clickwatch/pkg/mapreduce"
	"github.com/dtnitsch/clickwatch/pkg/resolver"
	"github.com/google/uuid"
)

// Validation and lookup outcomes. Each is distinct from a fetch failure, which is
// reported as *FetchError.
var (
	ErrInvalidQuery = errors.New("site query is empty")
	ErrInvalidDate  = errors.New("date must be formatted YYYY-MM-DD")
	ErrSiteNotFound = errors.New("no site matches")
)

// FetchError reports that the resolved site's click log could not be loaded.
type FetchError struct {
	Site models.Site
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load clicks for %s: %v", e.Site.Domain, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClickReport is a successful answer. An empty Summary means no clicks were logged
// for the date.
type ClickReport struct {
	QueryID   string              `json:"query_id" yaml:"query_id"`
	Site      models.Site         `json:"site" yaml:"site"`
	MatchedBy resolver.Tier       `json:"matched_by" yaml:"matched_by"`
	Summary   models.DailySummary `json:"summary" yaml:"summary"`
}

type Tracker struct {
	agg     *aggregator.Aggregator
	fetcher aggregator.PageFetcher
	loc     *time.Location
	clock   clock.Clock
	logger  *slog.Logger
}

type Option func(*Tracker)

func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New wires a Tracker. loc is the zone "today" is computed in; nil means UTC.
func New(agg *aggregator.Aggregator, f aggregator.PageFetcher, loc *time.Location, opts ...Option) *Tracker {
	t := &Tracker{
		agg:     agg,
		fetcher: f,
		loc:     loc,
		clock:   clock.New(),
		logger:  slog.Default(),
	}
	if t.loc == nil {
		t.loc = time.UTC
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ListSites returns the current deduplicated catalog, computed fresh.
func (t *Tracker) ListSites() []models.Site {
	return t.agg.ListSites()
}

// Today is the current date in the tracker's zone.
func (t *Tracker) Today() string {
	return t.clock.Now().In(t.loc).Format(extractors.DateLayout)
}

// QueryClicks resolves siteQuery against a freshly aggregated catalog and totals the
// matching site's clicks for date. An empty date means today. Invalid input is
// rejected before anything is fetched.
func (t *Tracker) QueryClicks(siteQuery, date string) (*ClickReport, error) {
	queryID := uuid.NewString()
	logger := t.logger.With("query_id", queryID)

	if strings.TrimSpace(siteQuery) == "" {
		return nil, ErrInvalidQuery
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = t.Today()
	}
	if _, err := time.Parse(extractors.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	logger.Info("Querying clicks", "site_query", siteQuery, "date", date)

	site, tier := resolver.ResolveTier(t.agg.ListSites(), siteQuery)
	if tier == resolver.TierNone {
		logger.Info("No site matched", "site_query", siteQuery)
		return nil, fmt.Errorf("%w %q", ErrSiteNotFound, siteQuery)
	}
	logger.Debug("Site resolved", "domain", site.Domain, "tier", tier, "source", site.Source)

	doc, err := t.fetcher.GetHtml(site.Actions.ViewClicks)
	if err != nil {
		logger.Error("Failed to fetch click log", "url", site.Actions.ViewClicks, "error", err)
		return nil, &FetchError{Site: site, Err: err}
	}
	records, err := extractors.ExtractDailyLog(doc)
	if err != nil {
		logger.Error("Failed to parse click log", "url", site.Actions.ViewClicks, "error", err)
		return nil, &FetchError{Site: site, Err: err}
	}

	summary := mapreduce.Summarize(records, date)
	logger.Info("Clicks summarized",
		"domain", site.Domain,
		"records", len(records),
		"total", summary.Total,
		"top", mapreduce.TopCategories(summary, 3),
	)

	return &ClickReport{
		QueryID:   queryID,
		Site:      site,
		MatchedBy: tier,
		Summary:   summary,
	}, nil
}
