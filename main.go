package main

import (
	"fmt"
	"os"

	"github.com/courtdata/meghalaya-orders-crawler/internal/crawl"
	"github.com/courtdata/meghalaya-orders-crawler/internal/runs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "orders-crawler",
		Usage: "Crawl the Meghalaya High Court case-order listing and download order PDFs",
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "Run a crawl for a date range and case status",
				Action: crawl.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "fdate",
						Usage: "start of the order-date range (DD-MM-YYYY)",
						Value: "01-01-2024",
					},
					&cli.StringFlag{
						Name:  "tdate",
						Usage: "end of the order-date range (DD-MM-YYYY)",
						Value: "20-01-2024",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "case status filter (pending, disposed)",
						Value: "pending",
					},
					&cli.BoolFlag{
						Name:  "download-pdfs",
						Usage: "download order PDFs alongside the JSON snapshot",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "concurrent detail/download workers",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory for the JSON snapshot and crawl ledger",
					},
					&cli.StringFlag{
						Name:  "pdf-dir",
						Usage: "root directory for downloaded PDFs",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "site origin override (mirrors, test servers)",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML config file",
						Value: "config.yaml",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "log errors only",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded crawl runs",
				Action: runs.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory holding the crawl ledger",
						Value: ".",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of runs to show",
						Value: 50,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
