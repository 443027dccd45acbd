// Package static fetches pages with plain HTTP and no JS execution. Against
// the live profile page it usually captures only the server-rendered shell,
// but it is fast, needs no Chrome, and is enough for saved snapshots.
package static

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/maker-tools/mwprofile/internal/fetch"
	"github.com/maker-tools/mwprofile/pkg/models"
)

// Fetcher retrieves a page over HTTP and parses it with goquery.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a static Fetcher using the provided HTTP client.
func New(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{client: client, userAgent: userAgent}
}

// Name returns the name of this fetcher.
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch performs a single GET and captures the response as a snapshot.
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Snapshot, error) {
	start := time.Now()

	log.Debug().Str("url", opts.URL).Str("fetcher", f.Name()).Msg("Starting fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	if opts.Timeout > 0 {
		f.client.Timeout = opts.Timeout
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fetch.NewNavigationError(opts.URL, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	htmlContent, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}

	snap := &models.Snapshot{
		URL:          opts.URL,
		StatusCode:   resp.StatusCode,
		Title:        strings.TrimSpace(doc.Find("title").First().Text()),
		HTML:         htmlContent,
		FetchedAt:    time.Now().UTC(),
		ResponseTime: time.Since(start).Milliseconds(),
		Metadata:     make(map[string]string),
	}

	if opts.WaitSelector != "" {
		snap.FoundSelector = doc.Find(opts.WaitSelector).Length() > 0
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		if name, exists := sel.Attr("name"); exists {
			content, _ := sel.Attr("content")
			snap.Metadata[name] = content
		}
		if property, exists := sel.Attr("property"); exists {
			content, _ := sel.Attr("content")
			snap.Metadata[property] = content
		}
	})

	log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Bool("found_selector", snap.FoundSelector).
		Int64("response_time_ms", snap.ResponseTime).
		Msg("Fetch completed")

	return snap, nil
}
