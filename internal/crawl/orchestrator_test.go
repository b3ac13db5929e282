package crawl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/courtdata/meghalaya-orders-crawler/models"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/ajax"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/fetcher"
	"github.com/courtdata/meghalaya-orders-crawler/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

const testToken = "form-abc123"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func marshalCommands(t *testing.T, commands []ajax.Command) []byte {
	t.Helper()
	body, err := json.Marshal(commands)
	require.NoError(t, err)
	return body
}

// courtSite builds a stand-in for the court's order listing: a token page,
// the AJAX search endpoint, one case detail panel, and PDF files.
func courtSite(t *testing.T, detailBody func() []byte) *httptest.Server {
	t.Helper()

	listing := `<table><tbody>
		<tr>
			<td><a href="/case-order-view?id=1">WP(C) No. 123/2024</a></td>
			<td>Justice A</td>
			<td>05-01-2024</td>
			<td><a href="/files/main1.pdf"><div class="nc">2024:MLHC:1</div></a></td>
		</tr>
		<tr>
			<td>Crl.A. No. 9/2024</td>
			<td>Justice B</td>
			<td>06-01-2024</td>
			<td><a href="/files/main2.pdf">download</a></td>
		</tr>
	</tbody></table>`

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, r.ParseForm())
			require.Equal(t, testToken, r.PostForm.Get("form_build_id"))
			require.Equal(t, "case_order_form1", r.PostForm.Get("form_id"))
			require.Equal(t, "odate", r.PostForm.Get("qry"))
			require.NotEmpty(t, r.PostForm.Get("fdate"))
			w.Write(marshalCommands(t, []ajax.Command{
				{Command: "insert", Selector: ".cstable", Data: listing},
			}))
			return
		}
		w.Write([]byte(`<html><body><form><input name="form_build_id" value="` + testToken + `"></form></body></html>`))
	})
	mux.HandleFunc("/case-order-view", func(w http.ResponseWriter, r *http.Request) {
		w.Write(detailBody())
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 " + r.URL.Path))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseURL string) models.CrawlConfig {
	t.Helper()
	return models.CrawlConfig{
		FromDate:     "01-01-2024",
		ToDate:       "20-01-2024",
		Status:       "pending",
		DownloadPDFs: true,
		Config: models.Config{
			BaseURL:   baseURL,
			OutputDir: t.TempDir(),
			PDFDir:    filepath.Join(t.TempDir(), "pdfs"),
			Workers:   2,
		},
	}
}

func TestRunFullChain(t *testing.T) {
	detail := func() []byte {
		return marshalCommands(t, []ajax.Command{
			{
				Command:  "insert",
				Selector: ".cs_status",
				Data:     `<table><tr><td>Pending</td><td>Justice A</td><td>Main Bench</td></tr></table>`,
			},
			{
				Command:  "insert",
				Selector: ".orders",
				Data: `<table>
					<tr><th>Order No</th><th>Bench</th><th>Order Date</th><th>Order Details</th></tr>
					<tr><td>1</td><td>Bench</td><td>02-01-2024</td><td><a href="/files/order1.pdf">view</a></td></tr>
					<tr><td>2</td><td>Bench</td><td>05-01-2024</td><td>awaited</td></tr>
				</table>`,
			},
		})
	}
	server := courtSite(t, detail)

	cfg := testConfig(t, server.URL)
	f, err := fetcher.New(cfg.BaseURL)
	require.NoError(t, err)

	writer := snapshot.NewWriter(cfg.OutputDir, cfg.FromDate, cfg.ToDate)
	orch := New(discardLogger(), f, cfg, writer, nil, "")
	require.NoError(t, orch.Run(context.Background()))

	cases := orch.Cases()
	require.Len(t, cases, 2)

	// Case 1 had a detail panel: enriched in place, stub fields untouched.
	require.Equal(t, "WP(C) No. 123/2024", cases[0].CaseNumber)
	require.Contains(t, cases[0].Details, "Case Status")
	require.Contains(t, cases[0].Details, "Order Details")

	// Case 2 had only a bare PDF link: never enriched.
	require.Nil(t, cases[1].Details)

	success, failed, downloads := orch.Counts()
	require.Equal(t, 1, success)
	require.Zero(t, failed)
	// Order 1's PDF, case 1's main PDF, case 2's direct main PDF.
	require.Equal(t, 3, downloads)

	// Snapshot on disk matches the in-memory collection.
	persisted, err := snapshot.Load(writer.Path())
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	raw, err := os.ReadFile(writer.Path())
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(raw), `"Details"`))

	// Downloaded files land under the sanitized case directories.
	wantFiles := []string{
		filepath.Join(cfg.PDFDir, "WPCNo1232024", "Order_1_02_01_2024_WPCNo1232024.pdf"),
		filepath.Join(cfg.PDFDir, "WPCNo1232024", "Main_Order_05_01_2024_WPCNo1232024.pdf"),
		filepath.Join(cfg.PDFDir, "CrlANo92024", "Main_Order_06_01_2024_CrlANo92024.pdf"),
	}
	for _, path := range wantFiles {
		data, err := os.ReadFile(path)
		require.NoError(t, err, "expected downloaded file %s", path)
		require.True(t, strings.HasPrefix(string(data), "%PDF-1.4"))
	}
}

func TestRunDownloadsDisabled(t *testing.T) {
	detail := func() []byte {
		return marshalCommands(t, []ajax.Command{
			{
				Command:  "insert",
				Selector: ".orders",
				Data: `<table>
					<tr><th>h</th><th>h</th><th>h</th><th>h</th></tr>
					<tr><td>1</td><td>B</td><td>02-01-2024</td><td><a href="/files/order1.pdf">view</a></td></tr>
				</table>`,
			},
		})
	}
	server := courtSite(t, detail)

	cfg := testConfig(t, server.URL)
	cfg.DownloadPDFs = false
	f, err := fetcher.New(cfg.BaseURL)
	require.NoError(t, err)

	orch := New(discardLogger(), f, cfg, snapshot.NewWriter(cfg.OutputDir, cfg.FromDate, cfg.ToDate), nil, "")
	require.NoError(t, orch.Run(context.Background()))

	_, _, downloads := orch.Counts()
	require.Zero(t, downloads)

	entries, err := os.ReadDir(cfg.PDFDir)
	if err == nil {
		require.Empty(t, entries)
	}
}

func TestRunUnparsableDetail(t *testing.T) {
	server := courtSite(t, func() []byte { return []byte("garbage{{{") })

	cfg := testConfig(t, server.URL)
	f, err := fetcher.New(cfg.BaseURL)
	require.NoError(t, err)

	writer := snapshot.NewWriter(cfg.OutputDir, cfg.FromDate, cfg.ToDate)
	orch := New(discardLogger(), f, cfg, writer, nil, "")

	// One case's failure never aborts the run.
	require.NoError(t, orch.Run(context.Background()))

	cases := orch.Cases()
	require.Len(t, cases, 2)
	require.Equal(t, "WP(C) No. 123/2024", cases[0].CaseNumber, "stub fields survive the failed enrichment")
	require.Nil(t, cases[0].Details)

	success, failed, _ := orch.Counts()
	require.Zero(t, success)
	require.Equal(t, 1, failed)
}

func TestRunMissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no form today</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := testConfig(t, server.URL)
	f, err := fetcher.New(cfg.BaseURL)
	require.NoError(t, err)

	orch := New(discardLogger(), f, cfg, nil, nil, "")

	// Total failure to retrieve the form token is the only condition that
	// halts the crawl outright.
	err = orch.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "form_build_id")
}
