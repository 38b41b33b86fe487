package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/clickwatch/internal/clicks"
	"github.com/dtnitsch/clickwatch/internal/db"
	"github.com/dtnitsch/clickwatch/internal/serve"
	"github.com/dtnitsch/clickwatch/internal/sites"
	"github.com/dtnitsch/clickwatch/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "clickwatch",
		Usage: "list tracked sites and report their daily clicks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (built-in sources when empty)",
				EnvVars: []string{"CLICKWATCH_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug details",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format: text, json or yaml",
			},
			&cli.BoolFlag{
				Name:  "chunk",
				Usage: "split text output into chat-sized messages",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write output to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing --output file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list every site from every source",
				Action: sites.ListAction,
			},
			{
				Name:      "clicks",
				Aliases:   []string{"klik"},
				Usage:     "show a site's clicks for a date (default today)",
				ArgsUsage: "<site> [YYYY-MM-DD]",
				Action:    clicks.ClicksAction,
			},
			{
				Name:  "serve",
				Usage: "serve the JSON API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen address (overrides config)",
					},
				},
				Action: serve.ServeAction,
			},
			{
				Name:  "accesses",
				Usage: "show recent fetch attempts from the audit log",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of attempts to show",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "show only the latest attempt for this URL",
					},
				},
				Action: db.AccessesAction,
			},
			{
				Name:  "quickstart",
				Usage: "print a YAML quick reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}
}
