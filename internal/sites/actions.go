package sites

import (
	"fmt"
	"os"

	"github.com/dtnitsch/clickwatch/internal/app"
	"github.com/dtnitsch/clickwatch/models"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// ListAction prints the merged site catalog.
func ListAction(c *cli.Context) error {
	rt, err := app.Load(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	sites := rt.Tracker.ListSites()
	if sites == nil {
		sites = []models.Site{}
	}
	return app.Write(c, os.Stdout, sites, FormatSites(sites))
}

// FormatSites renders one numbered line per site.
func FormatSites(sites []models.Site) []string {
	if len(sites) == 0 {
		return []string{"No sites found in any source"}
	}

	lines := make([]string, 0, len(sites))
	for i, s := range sites {
		siteType := s.Type
		if siteType == "" {
			siteType = "-"
		}
		lines = append(lines, fmt.Sprintf("%2d. %s | %s | type: %s | total: %s",
			i+1, s.Name, s.Domain, siteType, humanize.Comma(int64(s.TotalClicks))))
	}
	return lines
}
