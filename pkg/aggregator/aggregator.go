// Package aggregator merges every configured source into one deduplicated site catalog.
package aggregator

import (
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/clickwatch/internal/common"
	"github.com/dtnitsch/clickwatch/models"
	"github.com/dtnitsch/clickwatch/pkg/extractors"
	"github.com/dtnitsch/clickwatch/pkg/mapreduce"
)

// DefaultSingleSiteType labels single-site sources that set no type.
const DefaultSingleSiteType = "single"

// PageFetcher fetches and parses one remote page.
type PageFetcher interface {
	GetHtml(url string) (*goquery.Document, error)
}

// SourceResult is the outcome of visiting one source. Err is set when the source
// contributed nothing because its page could not be fetched or parsed.
type SourceResult struct {
	Source models.Source
	Sites  []models.Site
	Err    error
}

type Aggregator struct {
	sources []models.Source
	fetcher PageFetcher
	logger  *slog.Logger
}

// New builds an Aggregator over a private copy of sources.
func New(sources []models.Source, f PageFetcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		sources: append([]models.Source(nil), sources...),
		fetcher: f,
		logger:  logger,
	}
}

// Sources returns a copy of the configured sources.
func (a *Aggregator) Sources() []models.Source {
	return append([]models.Source(nil), a.sources...)
}

// Collect visits every source in configured order, one at a time. A failing source
// never stops the batch.
func (a *Aggregator) Collect() []SourceResult {
	results := make([]SourceResult, 0, len(a.sources))
	for _, src := range a.sources {
		res := a.visit(src)
		if res.Err != nil {
			a.logger.Warn("Skipping source", "url", src.URL, "kind", src.Kind, "error", res.Err)
		} else {
			a.logger.Debug("Source visited", "url", src.URL, "kind", src.Kind, "sites", len(res.Sites))
		}
		results = append(results, res)
	}
	return results
}

// ListSites returns the deduplicated catalog, fetched fresh on every call.
func (a *Aggregator) ListSites() []models.Site {
	results := a.Collect()

	set := NewSiteSet()
	skipped, seen := 0, 0
	for _, res := range results {
		if res.Err != nil {
			skipped++
			continue
		}
		for _, s := range res.Sites {
			seen++
			set.Add(s)
		}
	}

	a.logger.Info("Aggregation finished",
		"sources", len(results),
		"skipped_sources", skipped,
		"sites", set.Len(),
		"duplicates", seen-set.Len(),
	)
	return set.Sites()
}

func (a *Aggregator) visit(src models.Source) SourceResult {
	switch src.Kind {
	case models.SourceCatalog:
		doc, err := a.fetcher.GetHtml(src.URL)
		if err != nil {
			return SourceResult{Source: src, Err: err}
		}
		sites, err := extractors.ExtractCatalog(doc, src.URL)
		if err != nil {
			return SourceResult{Source: src, Err: err}
		}
		return SourceResult{Source: src, Sites: sites}

	case models.SourceSingleSite:
		return SourceResult{Source: src, Sites: []models.Site{a.singleSite(src)}}
	}
	return SourceResult{Source: src, Err: fmt.Errorf("unknown source kind %q", src.Kind)}
}

// singleSite turns a standalone click log page into a site. Its total is the sum of
// every logged count; a page that cannot be read leaves the total at zero.
func (a *Aggregator) singleSite(src models.Source) models.Site {
	host := common.NormalizeHost(src.URL)

	domain := src.Domain
	if domain == "" {
		domain = host
	}
	name := src.Name
	if name == "" {
		name = domain
	}
	siteType := src.Type
	if siteType == "" {
		siteType = DefaultSingleSiteType
	}

	site := models.Site{
		Name:    name,
		Domain:  domain,
		Type:    siteType,
		Actions: models.Actions{ViewClicks: src.URL},
		Source:  src.URL,
	}

	doc, err := a.fetcher.GetHtml(src.URL)
	if err != nil {
		a.logger.Warn("Single-site total unavailable", "url", src.URL, "error", err)
		return site
	}
	records, err := extractors.ExtractDailyLog(doc)
	if err != nil {
		a.logger.Warn("Single-site total unavailable", "url", src.URL, "error", err)
		return site
	}
	site.TotalClicks = mapreduce.Total(records)
	return site
}
