package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel     = "info"
	DefaultJSONLog      = false
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultNavTimeout   = 60 * time.Second
	DefaultReadyTimeout = 30 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultWaitSelector = "div.user_base_info"
	DefaultHeadless     = true
	DefaultOutputDir    = "output"

	// Snapshot captures wait on the model cards instead: they render last,
	// so their presence is the better signal that the page is worth saving.
	DefaultSnapshotWaitSelector = "[data-trackid]"
)
