// Package resolver picks the one site a free-text reference is talking about.
package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/clickwatch/internal/common"
	"github.com/dtnitsch/clickwatch/models"
)

// Tier names the rule that produced a match.
type Tier string

const (
	TierNone           Tier = ""
	TierExactHost      Tier = "exact-host"
	TierDomainContains Tier = "domain-contains"
	TierNameContains   Tier = "name-contains"
)

// Resolve matches query against sites. Tiers are tried in order and the first tier
// with any candidate decides:
//
//  1. normalized hostname equality, shortest domain wins
//  2. query contained in the domain, shortest domain wins
//  3. query contained in the name, first in catalog order wins
//
// An empty query, or no candidate in any tier, reports ok == false.
func Resolve(sites []models.Site, query string) (site models.Site, ok bool) {
	site, tier := ResolveTier(sites, query)
	return site, tier != TierNone
}

// ResolveTier is Resolve that also reports which tier matched.
func ResolveTier(sites []models.Site, query string) (models.Site, Tier) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return models.Site{}, TierNone
	}
	host := common.NormalizeHost(needle)

	if i := shortestDomain(sites, func(s models.Site) bool {
		return common.NormalizeHost(s.Domain) == host
	}); i >= 0 {
		return sites[i], TierExactHost
	}

	if i := shortestDomain(sites, func(s models.Site) bool {
		return strings.Contains(strings.ToLower(s.Domain), needle)
	}); i >= 0 {
		return sites[i], TierDomainContains
	}

	for _, s := range sites {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			return s, TierNameContains
		}
	}
	return models.Site{}, TierNone
}

// shortestDomain returns the index of the matching site with the shortest raw
// domain, the earliest one on ties, or -1.
func shortestDomain(sites []models.Site, match func(models.Site) bool) int {
	best := -1
	for i, s := range sites {
		if !match(s) {
			continue
		}
		if best < 0 || utf8.RuneCountInString(s.Domain) < utf8.RuneCountInString(sites[best].Domain) {
			best = i
		}
	}
	return best
}
