// Package fetch defines the page-fetching contract shared by the browser,
// static, and hybrid fetchers.
package fetch

import (
	"context"

	"github.com/maker-tools/mwprofile/pkg/models"
)

// Fetcher retrieves a single page and returns its snapshot.
type Fetcher interface {
	// Fetch navigates to opts.URL and captures the rendered page.
	Fetch(ctx context.Context, opts models.FetchOptions) (*models.Snapshot, error)

	// Name returns the name of the fetcher implementation.
	Name() string
}
