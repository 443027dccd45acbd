// Package hybrid layers lightweight JS execution on top of the static
// fetcher. Inline scripts are run in a goja VM against a stub browser
// environment; whatever globals survive are surfaced in the snapshot
// metadata. It cannot render the React profile page, but the globals often
// reveal where the SPA keeps its state, which makes it a useful diagnostic
// middle ground between static and full Chrome.
package hybrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"

	"github.com/maker-tools/mwprofile/internal/fetch"
	"github.com/maker-tools/mwprofile/pkg/models"
)

// Fetcher wraps a static fetcher with an inline-script pass.
type Fetcher struct {
	static fetch.Fetcher
}

// New creates a hybrid Fetcher on top of the given static fetcher.
func New(static fetch.Fetcher) *Fetcher {
	return &Fetcher{static: static}
}

// Name returns the name of this fetcher.
func (f *Fetcher) Name() string {
	return "HybridFetcher"
}

// Fetch retrieves the page statically and then executes its inline scripts.
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Snapshot, error) {
	snap, err := f.static.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	if strings.Contains(snap.HTML, "<script") {
		runInlineScripts(snap)
	}
	return snap, nil
}

func runInlineScripts(snap *models.Snapshot) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse HTML for JS execution")
		return
	}

	vm := goja.New()
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("document", map[string]interface{}{
		"location": map[string]interface{}{"href": snap.URL},
	})
	vm.Set("location", map[string]interface{}{"href": snap.URL})
	vm.Set("console", map[string]interface{}{
		"log":   func(call goja.FunctionCall) goja.Value { return nil },
		"error": func(call goja.FunctionCall) goja.Value { return nil },
	})

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		if src := sel.Text(); src != "" {
			// Most scripts fail against the stub DOM; that is expected.
			_, _ = vm.RunString(src)
		}
	})

	for _, key := range vm.GlobalObject().Keys() {
		if isStandardGlobal(key) {
			continue
		}
		if val := vm.Get(key); val != nil {
			if exported := val.Export(); exported != nil {
				snap.Metadata["js:"+key] = fmt.Sprintf("%v", exported)
			}
		}
	}
}

func isStandardGlobal(key string) bool {
	standards := map[string]bool{
		"window": true, "self": true, "document": true, "location": true, "console": true,
		"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
		"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
		"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
		"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
		"decodeURIComponent": true, "undefined": true, "NaN": true, "Infinity": true,
	}
	return standards[key]
}
