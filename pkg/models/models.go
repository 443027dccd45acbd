package models

import "time"

// ProfileRecord holds everything scraped from a single MakerWorld profile
// page. Scalar fields are pointers so that a field no selector matched
// serializes as JSON null instead of a zero value.
type ProfileRecord struct {
	URL            string    `json:"url"`
	ScrapedAt      time.Time `json:"scraped_at"`
	Username       *string   `json:"username"`
	UserLevel      *int      `json:"user_level"`
	Points         *int      `json:"points"`
	BoostTokens    *int      `json:"boost_tokens"`
	Followers      *int      `json:"followers"`
	Following      *int      `json:"following"`
	Boosts         *int      `json:"boosts"`
	Likes          *int      `json:"likes"`
	ModelDownloads *int      `json:"model_downloads"`
	ModelPrints    *int      `json:"model_prints"`
	Achievements   []string  `json:"achievements"`

	Models map[string]ModelCard `json:"models"`
}

// ModelCard is one published-model card from the profile page, keyed in
// ProfileRecord.Models by its data-trackid attribute. Which raw number is
// which metric differs per card type, so the tokens are kept unparsed.
type ModelCard struct {
	ID         string   `json:"id"`
	Title      *string  `json:"title"`
	RawMetrics []string `json:"raw_metrics_numbers"`
}

// Strategy names how a field's value was obtained.
type Strategy string

const (
	StrategySelector   Strategy = "selector"
	StrategyLabel      Strategy = "label"
	StrategyPositional Strategy = "positional"
	StrategyMiss       Strategy = "miss"
)

// FieldDiagnostic records how a single field was (or was not) resolved.
type FieldDiagnostic struct {
	Field    string   `json:"field"`
	Selector string   `json:"selector,omitempty"`
	RawText  string   `json:"raw_text,omitempty"`
	Strategy Strategy `json:"strategy"`
	Matched  bool     `json:"matched"`
}

// Diagnostics collects per-field extraction traces plus page-level facts.
// It is a debugging aid only; nothing downstream consumes it.
type Diagnostics struct {
	URL           string                     `json:"url"`
	WaitSelector  string                     `json:"wait_selector,omitempty"`
	FoundSelector bool                       `json:"found_selector"`
	HTMLLength    int                        `json:"length_html"`
	JSGlobals     map[string]string          `json:"js_globals,omitempty"`
	Fields        map[string]FieldDiagnostic `json:"fields"`
}

// NewDiagnostics returns an empty Diagnostics ready for per-field entries.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{Fields: make(map[string]FieldDiagnostic)}
}

// FetchMode selects the page fetcher.
type FetchMode string

const (
	ModeBrowser FetchMode = "browser"
	ModeStatic  FetchMode = "static"
	ModeHybrid  FetchMode = "hybrid"
)

// FetchOptions configures a single page fetch.
type FetchOptions struct {
	URL          string
	Mode         FetchMode
	WaitSelector string
	WaitExtra    time.Duration
	Timeout      time.Duration
	Screenshot   bool
	Proxy        string
	Headers      map[string]string
}

// Snapshot is the rendered page as captured by a fetcher. The extractor
// operates on the HTML only; the rest is kept for debug artifacts.
type Snapshot struct {
	URL           string            `json:"url"`
	Title         string            `json:"title,omitempty"`
	StatusCode    int               `json:"status_code,omitempty"`
	HTML          string            `json:"-"`
	Screenshot    []byte            `json:"-"`
	FoundSelector bool              `json:"found_selector"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	FetchedAt     time.Time         `json:"fetched_at"`
	ResponseTime  int64             `json:"response_time_ms"`
}
