// Package listing parses the case-order search response into case stubs.
package listing

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/courtdata/meghalaya-orders-crawler/models"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/ajax"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/tablex"
)

// CaseTableSelector is the insert target the search form's results arrive
// under.
const CaseTableSelector = ".cstable"

// ParseResponse decodes a search-form AJAX response and returns the case
// stubs it lists, in document order. A response without the expected
// command or table body is a "no data this page" condition: it is logged
// and an empty slice is returned.
func ParseResponse(logger *slog.Logger, body []byte, base *url.URL) []models.CaseRecord {
	commands, err := ajax.Decode(body)
	if err != nil {
		logger.Warn("no case data found in the response", "error", err)
		return nil
	}
	return ParseCommands(logger, commands, base)
}

// ParseCommands extracts case stubs from an already-decoded command array.
func ParseCommands(logger *slog.Logger, commands []ajax.Command, base *url.URL) []models.CaseRecord {
	fragment, ok := ajax.FindInsert(commands, CaseTableSelector)
	if !ok {
		logger.Warn("no case data found in the response", "selector", CaseTableSelector)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		logger.Warn("failed to parse case table HTML", "error", err)
		return nil
	}

	tableBody := doc.Find("tbody").First()
	if tableBody.Length() == 0 {
		logger.Warn("no case table body found in the response")
		return nil
	}

	rows := tableBody.Find("tr")
	logger.Info("found case rows", "count", rows.Length())

	var cases []models.CaseRecord
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		cases = append(cases, parseRow(cells, base))
	})
	return cases
}

// parseRow maps one listing row onto a case stub. Cell 0 carries the case
// number and, when the case has a detail panel, its link; cell 3 carries
// the order PDF link with a nested citation marker.
func parseRow(cells *goquery.Selection, base *url.URL) models.CaseRecord {
	stub := models.CaseRecord{
		JudgeName: strings.TrimSpace(cells.Eq(1).Text()),
		OrderDate: strings.TrimSpace(cells.Eq(2).Text()),
	}

	caseCell := cells.Eq(0)
	if anchor := caseCell.Find("a[href]").First(); anchor.Length() > 0 {
		stub.CaseNumber = strings.TrimSpace(anchor.Text())
		if href, ok := anchor.Attr("href"); ok {
			stub.CaseLink = tablex.ResolveHref(base, href)
		}
	} else {
		stub.CaseNumber = strings.TrimSpace(caseCell.Text())
	}

	pdfCell := cells.Eq(3)
	if anchor := pdfCell.Find("a[href]").First(); anchor.Length() > 0 {
		if href, ok := anchor.Attr("href"); ok {
			stub.PDFLink = tablex.ResolveHref(base, href)
		}
		if marker := anchor.Find("div.nc").First(); marker.Length() > 0 {
			stub.CitationNumber = strings.TrimSpace(marker.Text())
		} else {
			stub.CitationNumber = strings.TrimSpace(pdfCell.Text())
		}
	}

	return stub
}
