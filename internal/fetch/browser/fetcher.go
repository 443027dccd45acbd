// Package browser fetches pages with headless Chrome via chromedp. The
// profile page is a React SPA; the counters only exist after client-side
// rendering, so this is the default fetcher.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/maker-tools/mwprofile/internal/fetch"
	"github.com/maker-tools/mwprofile/pkg/models"
)

// Fetcher launches a headless Chrome per invocation. The process fetches a
// single page, so there is no browser reuse or pooling.
type Fetcher struct {
	userAgent    string
	chromePath   string
	showBrowser  bool
	readyTimeout time.Duration
}

// Options configures a browser Fetcher.
type Options struct {
	UserAgent    string
	ChromePath   string
	ShowBrowser  bool
	ReadyTimeout time.Duration
}

// New creates a browser-backed Fetcher.
func New(opts Options) *Fetcher {
	chromePath := opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}
	readyTimeout := opts.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = 30 * time.Second
	}
	return &Fetcher{
		userAgent:    opts.UserAgent,
		chromePath:   chromePath,
		showBrowser:  opts.ShowBrowser,
		readyTimeout: readyTimeout,
	}
}

// Name returns the name of this fetcher.
func (f *Fetcher) Name() string {
	return "BrowserFetcher"
}

// Fetch navigates to the profile page, waits (best effort) for the readiness
// selector, and captures HTML, title, and an optional full-page screenshot.
// A readiness timeout is not fatal; a failed navigation is.
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Snapshot, error) {
	start := time.Now()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(f.userAgent),
	}
	if f.showBrowser {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if f.chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(f.chromePath)}, allocOpts...)
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	snap := &models.Snapshot{
		URL:       opts.URL,
		FetchedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}

	var statusCode int64
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Response.URL == opts.URL {
				statusCode = resp.Response.Status
			}
		}
	})

	waitSelector := opts.WaitSelector
	if waitSelector == "" {
		waitSelector = "div.user_base_info"
	}

	var htmlContent, title string
	tasks := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(opts.URL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Readiness is best effort: the record is still produced from
			// whatever rendered if the selector never appears.
			waitCtx, cancel := context.WithTimeout(ctx, f.readyTimeout)
			defer cancel()
			if err := chromedp.WaitReady(waitSelector, chromedp.ByQuery).Do(waitCtx); err != nil {
				log.Warn().Str("selector", waitSelector).Err(err).Msg("Readiness selector never appeared")
				return nil
			}
			snap.FoundSelector = true
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if opts.WaitExtra > 0 {
				log.Debug().Dur("wait", opts.WaitExtra).Msg("Extra wait after navigation")
				time.Sleep(opts.WaitExtra)
			}
			return nil
		}),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	}
	if opts.Screenshot {
		tasks = append(tasks, chromedp.FullScreenshot(&snap.Screenshot, 90))
	}

	log.Debug().Str("url", opts.URL).Str("fetcher", f.Name()).Msg("Starting fetch")
	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		return nil, fetch.NewNavigationError(opts.URL, err)
	}

	snap.Title = title
	snap.HTML = htmlContent
	snap.StatusCode = int(statusCode)
	snap.ResponseTime = time.Since(start).Milliseconds()

	log.Info().
		Str("url", opts.URL).
		Int("status", snap.StatusCode).
		Bool("found_selector", snap.FoundSelector).
		Int64("response_time_ms", snap.ResponseTime).
		Msg("Fetch completed")

	return snap, nil
}
