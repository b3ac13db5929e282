// Package detail parses a per-case AJAX response into named detail sections
// and collects the order documents that need downloading.
package detail

import (
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/courtdata/meghalaya-orders-crawler/models"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/ajax"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/tablex"
)

// OrderDownload identifies one downloadable order document found in the
// orders section.
type OrderDownload struct {
	URL       string
	OrderNo   string
	OrderDate string
}

// Result carries everything detail parsing produced for one case.
type Result struct {
	Sections  map[string]models.SectionResult
	Downloads []OrderDownload
}

// ParseResponse decodes a case-detail AJAX response, runs the extraction
// engine over every insert command matching a known section schema, and
// returns the merged sections plus any order PDFs referenced by the orders
// table. A body that cannot be decoded abandons this case's enrichment;
// the caller keeps the stub data it already has.
func ParseResponse(logger *slog.Logger, body []byte, schemas map[string]models.TableSchema, base *url.URL) (Result, error) {
	commands, err := ajax.Decode(body)
	if err != nil {
		return Result{}, fmt.Errorf("case details unavailable: %w", err)
	}

	result := Result{Sections: make(map[string]models.SectionResult)}
	for _, cmd := range commands {
		if !cmd.IsInsert() {
			continue
		}
		schema, ok := schemas[cmd.SectionSelector()]
		if !ok {
			continue
		}

		fragment, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(cmd.Data)))
		if err != nil {
			logger.Warn("failed to parse section HTML", "selector", cmd.Selector, "error", err)
			continue
		}

		section := tablex.Extract(fragment.Selection, schema, base)
		if section.IsEmpty() {
			continue
		}
		result.Sections[schema.Name] = section

		if schema.Selector == models.OrdersSelector {
			result.Downloads = append(result.Downloads, orderDownloads(section)...)
		}
	}

	return result, nil
}

// orderDownloads scans order rows for an "Order Details" value pointing at
// a PDF document.
func orderDownloads(section models.SectionResult) []OrderDownload {
	var downloads []OrderDownload
	for _, row := range section.Rows {
		link := row["Order Details"]
		if !strings.HasSuffix(link, ".pdf") {
			continue
		}
		downloads = append(downloads, OrderDownload{
			URL:       link,
			OrderNo:   row["Order No"],
			OrderDate: row["Order Date"],
		})
	}
	return downloads
}
