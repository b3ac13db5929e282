// Package crawl drives the multi-stage request chain: form token fetch,
// search submission, case list parse, per-case detail fan-out, and PDF
// downloads.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/courtdata/meghalaya-orders-crawler/models"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/db"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/detail"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/download"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/fetcher"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/listing"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/snapshot"
)

// Site endpoints. The AJAX endpoint answers both the search submission and
// keeps the Drupal form machinery happy via the wrapper format parameter.
const (
	ordersPath = "/orders"
	ajaxPath   = "/orders?ajax_form=1&_wrapper_format=drupal_ajax"
	formID     = "case_order_form1"
)

// detailJob is the typed context threaded through a case's detail fetch:
// the slot index identifies which record the response enriches.
type detailJob struct {
	index      int
	caseNumber string
	orderDate  string
	detailURL  string
	pdfLink    string
}

// Orchestrator owns the case collection and the crawl's request chain.
// Detail workers write to disjoint slots; the mutex only serializes slot
// merges against snapshot serialization and guards the shared counters.
type Orchestrator struct {
	logger  *slog.Logger
	fetcher *fetcher.Fetcher
	cfg     models.CrawlConfig
	schemas map[string]models.TableSchema
	writer  *snapshot.Writer
	ledger  *db.DB
	runID   string

	cases []models.CaseRecord

	mu            sync.Mutex
	detailSuccess int
	detailFailed  int
	downloadCount int
}

// New wires an orchestrator. The ledger may be nil, in which case outcomes
// are only logged. The orders row policy follows the config toggle.
func New(logger *slog.Logger, f *fetcher.Fetcher, cfg models.CrawlConfig, writer *snapshot.Writer, ledger *db.DB, runID string) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	schemas := models.SectionSchemas()
	if cfg.OrdersAllRows {
		orders := schemas[models.OrdersSelector]
		orders.Policy = models.AllRows
		schemas[models.OrdersSelector] = orders
	}

	return &Orchestrator{
		logger:  logger,
		fetcher: f,
		cfg:     cfg,
		schemas: schemas,
		writer:  writer,
		ledger:  ledger,
		runID:   runID,
	}
}

// Cases returns the crawl-wide case collection in list order.
func (o *Orchestrator) Cases() []models.CaseRecord {
	return o.cases
}

// Counts returns the detail success/failure and scheduled-download tallies.
func (o *Orchestrator) Counts() (detailSuccess, detailFailed, downloads int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.detailSuccess, o.detailFailed, o.downloadCount
}

// Run executes the whole chain. Failure to obtain the form token is the
// only condition that aborts the crawl; every later failure narrows to its
// own case or download.
func (o *Orchestrator) Run(ctx context.Context) error {
	token, err := o.fetchFormToken(ctx)
	if err != nil {
		return err
	}

	body, err := o.fetcher.PostForm(ctx, ajaxPath, map[string]string{
		"qry":           "odate",
		"form_build_id": token,
		"form_id":       formID,
		"fdate":         o.cfg.FromDate,
		"tdate":         o.cfg.ToDate,
		"status":        o.cfg.Status,
	})
	if err != nil {
		return fmt.Errorf("search submission failed: %w", err)
	}

	o.cases = listing.ParseResponse(o.logger, body, o.fetcher.Base())
	o.persist()

	downloads := make(chan download.Task, 16)
	var downloadWG sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		downloadWG.Add(1)
		go o.downloadWorker(ctx, &downloadWG, downloads)
	}

	jobs := make(chan detailJob)
	var detailWG sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		detailWG.Add(1)
		go o.detailWorker(ctx, &detailWG, jobs, downloads)
	}

	for i := range o.cases {
		stub := &o.cases[i]
		switch {
		case stub.CaseLink != "":
			jobs <- detailJob{
				index:      i,
				caseNumber: stub.CaseNumber,
				orderDate:  stub.OrderDate,
				detailURL:  stub.CaseLink,
				pdfLink:    stub.PDFLink,
			}
		case stub.PDFLink != "":
			// No detail panel to enrich from; grab the order PDF directly.
			o.recordCaseFetch(i, stub.CaseNumber, stub.OrderDate, "", db.StatusSkipped, "no detail link")
			o.scheduleDownload(downloads, stub.PDFLink, stub.CaseNumber, stub.OrderDate, true, "")
		}
	}
	close(jobs)
	detailWG.Wait()

	close(downloads)
	downloadWG.Wait()

	return nil
}

// fetchFormToken loads the orders page and pulls the form_build_id the
// search form requires.
func (o *Orchestrator) fetchFormToken(ctx context.Context) (string, error) {
	doc, err := o.fetcher.GetDocument(ctx, ordersPath)
	if err != nil {
		return "", fmt.Errorf("failed to fetch orders page: %w", err)
	}

	token, ok := doc.Find(`input[name="form_build_id"]`).First().Attr("value")
	if !ok || token == "" {
		return "", fmt.Errorf("failed to fetch form_build_id")
	}
	return token, nil
}

// detailWorker processes detail fetches for independent cases. Each job's
// slot index is unique, so concurrent merges never collide.
func (o *Orchestrator) detailWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan detailJob, downloads chan<- download.Task) {
	defer wg.Done()
	for job := range jobs {
		o.logger.Info("processing case detail", "case", job.caseNumber, "url", job.detailURL)

		body, err := o.fetcher.GetBytes(ctx, job.detailURL)
		if err != nil {
			o.failCase(job, err)
			continue
		}

		result, err := detail.ParseResponse(o.logger, body, o.schemas, o.fetcher.Base())
		if err != nil {
			o.failCase(job, err)
			continue
		}

		o.mu.Lock()
		o.cases[job.index].Details = result.Sections
		o.detailSuccess++
		o.mu.Unlock()

		for _, order := range result.Downloads {
			o.scheduleDownload(downloads, order.URL, job.caseNumber, order.OrderDate, false, order.OrderNo)
		}
		if job.pdfLink != "" {
			o.scheduleDownload(downloads, job.pdfLink, job.caseNumber, job.orderDate, true, "")
		}
		o.recordCaseFetch(job.index, job.caseNumber, job.orderDate, job.detailURL, db.StatusSuccess, "")
		o.persist()
	}
}

// failCase logs a detail failure and moves on; the stub data captured at
// list time stays intact.
func (o *Orchestrator) failCase(job detailJob, err error) {
	o.logger.Warn("error processing case details", "case", job.caseNumber, "error", err)
	o.mu.Lock()
	o.detailFailed++
	o.mu.Unlock()
	o.recordCaseFetch(job.index, job.caseNumber, job.orderDate, job.detailURL, db.StatusFailed, err.Error())
}

// scheduleDownload plans a task and hands it to the download workers.
// Honors the download toggle; planning failures are logged and dropped.
func (o *Orchestrator) scheduleDownload(downloads chan<- download.Task, rawURL, caseNumber, orderDate string, isMain bool, orderNo string) {
	if !o.cfg.DownloadPDFs {
		return
	}

	task, err := download.Plan(o.cfg.PDFDir, rawURL, caseNumber, orderDate, isMain, orderNo)
	if err != nil {
		o.logger.Warn("failed to plan download", "url", rawURL, "error", err)
		return
	}

	o.mu.Lock()
	o.downloadCount++
	o.mu.Unlock()
	downloads <- task
}

// downloadWorker fetches PDFs and writes them to their planned paths. A
// failed task is logged with its source URL and not retried.
func (o *Orchestrator) downloadWorker(ctx context.Context, wg *sync.WaitGroup, downloads <-chan download.Task) {
	defer wg.Done()
	for task := range downloads {
		body, err := o.fetcher.GetBytes(ctx, task.URL)
		if err == nil {
			err = os.WriteFile(task.Dest, body, 0o644)
		}

		if err != nil {
			o.logger.Warn("failed to download PDF", "url", task.URL, "error", err)
			o.recordDownload(task, db.StatusFailed, err.Error())
			continue
		}

		o.logger.Info("downloaded PDF", "url", task.URL, "dest", task.Dest)
		o.recordDownload(task, db.StatusSuccess, "")
	}
}

// persist writes the snapshot; a write failure never interrupts the crawl.
// Serialization happens under the collection mutex so an in-flight slot
// merge never tears a snapshot.
func (o *Orchestrator) persist() {
	if o.writer == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.writer.Save(o.cases); err != nil {
		o.logger.Warn("failed to save snapshot", "path", o.writer.Path(), "error", err)
		return
	}
	o.logger.Info("snapshot saved", "path", o.writer.Path(), "cases", len(o.cases))
}

func (o *Orchestrator) recordCaseFetch(idx int, caseNumber, orderDate, detailURL, status, errMsg string) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.RecordCaseFetch(o.runID, idx, caseNumber, orderDate, detailURL, status, errMsg); err != nil {
		o.logger.Warn("failed to record case fetch", "case", caseNumber, "error", err)
	}
}

func (o *Orchestrator) recordDownload(task download.Task, status, errMsg string) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.RecordDownload(o.runID, task.URL, task.Dest, status, errMsg); err != nil {
		o.logger.Warn("failed to record download", "url", task.URL, "error", err)
	}
}
