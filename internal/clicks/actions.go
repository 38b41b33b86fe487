package clicks

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/clickwatch/internal/app"
	"github.com/dtnitsch/clickwatch/pkg/mapreduce"
	"github.com/dtnitsch/clickwatch/pkg/tracker"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

const usage = "usage: clickwatch clicks <site> [YYYY-MM-DD]"

// ClicksAction prints one site's clicks for a date, today when no date is given.
func ClicksAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit(usage, app.ExitFailure)
	}
	siteQuery := c.Args().Get(0)
	date := c.Args().Get(1)

	rt, err := app.Load(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := rt.Tracker.QueryClicks(siteQuery, date)
	if err != nil {
		return exitError(err)
	}
	return app.Write(c, os.Stdout, report, FormatReport(report))
}

// exitError maps a QueryClicks failure onto the command's exit status.
func exitError(err error) error {
	switch {
	case errors.Is(err, tracker.ErrSiteNotFound):
		return cli.Exit(err.Error(), app.ExitNotFound)
	case errors.Is(err, tracker.ErrInvalidQuery), errors.Is(err, tracker.ErrInvalidDate):
		return cli.Exit(fmt.Sprintf("%v\n%s", err, usage), app.ExitFailure)
	default:
		return cli.Exit(err.Error(), app.ExitFailure)
	}
}

// FormatReport renders the header and the per-category counts sorted by name.
func FormatReport(r *tracker.ClickReport) []string {
	source := r.Site.Source
	if source == "" {
		source = "-"
	}
	lines := []string{
		fmt.Sprintf("Site: %s (%s)", r.Site.Name, r.Site.Domain),
		fmt.Sprintf("Source: %s", source),
		fmt.Sprintf("Date: %s", r.Summary.Date),
		strings.Repeat("-", 35),
	}

	if r.Summary.Empty() {
		return append(lines, "No clicks recorded for this date")
	}
	for _, cc := range mapreduce.Categories(r.Summary) {
		lines = append(lines, fmt.Sprintf("%s: %s", cc.Category, humanize.Comma(int64(cc.Count))))
	}
	return append(lines,
		strings.Repeat("-", 15),
		fmt.Sprintf("Total: %s", humanize.Comma(int64(r.Summary.Total))),
	)
}
