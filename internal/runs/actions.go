// Package runs lists recorded crawl runs from the local ledger.
package runs

import (
	"fmt"
	"strings"

	dbpkg "github.com/courtdata/meghalaya-orders-crawler/pkg/db"
	"github.com/urfave/cli/v2"
)

func Action(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("output-dir"))
	if err != nil {
		return fmt.Errorf("failed to open crawl ledger: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-20s %-12s %-12s %-8s %-6s %-8s %-6s %-9s\n",
		"Run ID", "Started", "From", "To", "Status", "Cases", "Details", "Failed", "Downloads")
	fmt.Println(strings.Repeat("-", 120))

	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-12s %-12s %-8s %-6d %-8d %-6d %-9d\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.FromDate,
			r.ToDate,
			r.StatusFilter,
			r.CaseCount,
			r.DetailSuccess,
			r.DetailFailed,
			r.DownloadCount,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}
