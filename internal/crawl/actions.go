package crawl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/courtdata/meghalaya-orders-crawler/models"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/db"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/fetcher"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/snapshot"
	"github.com/urfave/cli/v2"
)

// Action runs a full crawl from CLI flags.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	fileCfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("workers") {
		fileCfg.Workers = c.Int("workers")
	}
	if c.IsSet("output-dir") {
		fileCfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("pdf-dir") {
		fileCfg.PDFDir = c.String("pdf-dir")
	}
	if c.IsSet("base-url") {
		fileCfg.BaseURL = c.String("base-url")
	}

	cfg := models.CrawlConfig{
		FromDate:     c.String("fdate"),
		ToDate:       c.String("tdate"),
		Status:       c.String("status"),
		DownloadPDFs: c.Bool("download-pdfs"),
		Config:       fileCfg,
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := fetcher.New(cfg.BaseURL)
	if err != nil {
		return err
	}

	writer := snapshot.NewWriter(cfg.OutputDir, cfg.FromDate, cfg.ToDate)

	ledger, err := db.Open(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open crawl ledger: %w", err)
	}
	defer ledger.Close()

	runID, err := ledger.CreateRun(cfg.FromDate, cfg.ToDate, cfg.Status, writer.Path())
	if err != nil {
		return err
	}

	logger.Info("starting crawl",
		"run_id", runID,
		"fdate", cfg.FromDate,
		"tdate", cfg.ToDate,
		"status", cfg.Status,
		"download_pdfs", cfg.DownloadPDFs,
		"workers", cfg.Workers,
	)

	orch := New(logger, f, cfg, writer, ledger, runID)
	if err := orch.Run(c.Context); err != nil {
		// The token fetch is the only stage allowed to halt the crawl.
		logger.Error("crawl aborted", "error", err)
		return err
	}

	success, failed, downloads := orch.Counts()
	if err := ledger.FinishRun(runID, len(orch.Cases()), success, failed, downloads); err != nil {
		logger.Warn("failed to finalize run record", "error", err)
	}

	logger.Info("crawl finished",
		"cases", len(orch.Cases()),
		"detail_success", success,
		"detail_failed", failed,
		"downloads", downloads,
		"snapshot", writer.Path(),
	)
	return nil
}
