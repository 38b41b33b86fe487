package aggregator

import (
	"github.com/dtnitsch/clickwatch/internal/common"
	"github.com/dtnitsch/clickwatch/models"
)

type siteKey struct {
	host       string
	viewClicks string
}

// SiteSet is an insertion-ordered set of sites keyed by (normalized host,
// view-clicks URL).
type SiteSet struct {
	index map[siteKey]int
	sites []models.Site
}

func NewSiteSet() *SiteSet {
	return &SiteSet{index: make(map[siteKey]int)}
}

// Add keeps the first site seen for a key. A later site replaces it in place only
// when the kept one has no clicks and the later one has some. Sites without a
// domain or view-clicks URL are ignored.
func (ss *SiteSet) Add(s models.Site) {
	if !s.Valid() {
		return
	}
	key := siteKey{host: common.NormalizeHost(s.Domain), viewClicks: s.Actions.ViewClicks}

	i, ok := ss.index[key]
	if !ok {
		ss.index[key] = len(ss.sites)
		ss.sites = append(ss.sites, s)
		return
	}
	if ss.sites[i].TotalClicks == 0 && s.TotalClicks > 0 {
		ss.sites[i] = s
	}
}

func (ss *SiteSet) Len() int { return len(ss.sites) }

// Sites returns the kept sites in first-seen key order.
func (ss *SiteSet) Sites() []models.Site {
	return append([]models.Site{}, ss.sites...)
}

// Dedup collapses sites with the SiteSet rules.
func Dedup(sites []models.Site) []models.Site {
	ss := NewSiteSet()
	for _, s := range sites {
		ss.Add(s)
	}
	return ss.Sites()
}
