// Package fetcher is the HTTP engine behind the crawl: token page, AJAX
// form submission, detail panels, and PDF bytes.
package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

type Fetcher struct {
	client *resty.Client
	base   *url.URL
}

// New builds a fetcher rooted at the site's base origin. Relative request
// URLs are resolved against it.
func New(baseURL string) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &Fetcher{
		client: resty.New(),
		base:   base,
	}, nil
}

// Base returns the site origin used for relative URL resolution.
func (f *Fetcher) Base() *url.URL {
	return f.base
}

func (f *Fetcher) resolve(target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return f.base.ResolveReference(ref).String()
}

// GetDocument fetches an HTML page and parses it.
func (f *Fetcher) GetDocument(ctx context.Context, target string) (*goquery.Document, error) {
	body, err := f.GetBytes(ctx, target)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetBytes fetches a URL and returns the raw response body.
func (f *Fetcher) GetBytes(ctx context.Context, target string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.resolve(target))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), resp.Request.URL)
	}
	return resp.Body(), nil
}

// PostForm submits a form body and returns the raw response. Used for the
// search form's AJAX endpoint.
func (f *Fetcher) PostForm(ctx context.Context, target string, form map[string]string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).SetFormData(form).Post(f.resolve(target))
	if err != nil {
		return nil, fmt.Errorf("form submission failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status %d submitting form to %s", resp.StatusCode(), resp.Request.URL)
	}
	return resp.Body(), nil
}
