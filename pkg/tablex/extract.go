// Package tablex is the declarative table-extraction engine: it maps the
// court site's heterogeneous detail tables onto normalized records using
// per-section schemas.
package tablex

import (
	"bufio"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/courtdata/meghalaya-orders-crawler/models"
)

// Extract runs a schema over the first <table> in the fragment. A fragment
// without a table yields the schema's empty shape, not an error.
//
// Rows with fewer cells than the schema's column count (headers, malformed
// markup) contribute nothing. For single-record schemas, non-empty values
// from later rows overwrite earlier ones column by column.
func Extract(fragment *goquery.Selection, schema models.TableSchema, base *url.URL) models.SectionResult {
	result := emptyResult(schema)

	table := fragment.Find("table").First()
	if table.Length() == 0 {
		return result
	}

	for _, row := range significantRows(table.Find("tr"), schema.Policy) {
		cells := row.Find("td")
		if cells.Length() < len(schema.Columns) {
			continue
		}

		rowData := make(map[string]string, len(schema.Columns))
		for i, column := range schema.Columns {
			cell := cells.Eq(i)
			if i == schema.LinkColumn {
				if href, ok := cell.Find("a[href]").First().Attr("href"); ok && href != "" {
					rowData[column] = ResolveHref(base, href)
					continue
				}
			}
			rowData[column] = normalizeText(cell.Text())
		}

		if schema.Shape == models.ListOfRecords {
			result.Rows = append(result.Rows, rowData)
			continue
		}
		for column, value := range rowData {
			if value != "" {
				result.Record[column] = value
			}
		}
	}

	return result
}

func emptyResult(schema models.TableSchema) models.SectionResult {
	if schema.Shape == models.ListOfRecords {
		return models.SectionResult{Rows: []map[string]string{}}
	}
	return models.SectionResult{Record: map[string]string{}}
}

// significantRows applies the schema's row policy. FirstAndLatest keeps the
// row at index 1 (the first entry below the header) and the last row; the
// site renders intermediate orders the listing treats as noise.
func significantRows(rows *goquery.Selection, policy models.RowPolicy) []*goquery.Selection {
	if policy != models.FirstAndLatest || rows.Length() < 2 {
		var all []*goquery.Selection
		rows.Each(func(_ int, row *goquery.Selection) {
			all = append(all, row)
		})
		return all
	}

	selected := []*goquery.Selection{rows.Eq(1)}
	if last := rows.Length() - 1; last > 1 {
		selected = append(selected, rows.Eq(last))
	}
	return selected
}

// ResolveHref resolves an href against the site's base origin. Absolute
// URLs pass through unchanged; anything unparseable is returned as-is.
func ResolveHref(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// normalizeText trims each line of the input and joins non-empty lines with
// a single space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
