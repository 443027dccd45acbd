package hybrid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maker-tools/mwprofile/internal/fetch/static"
	"github.com/maker-tools/mwprofile/pkg/models"
)

func TestFetcher_SurfacesInlineGlobals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<script>window.__PROFILE_HANDLE__ = "darionji";</script>
			<script src="https://cdn.example.com/app.js"></script>
		</body></html>`))
	}))
	defer server.Close()

	fetcher := New(static.New(server.Client(), "test-agent"))

	snap, err := fetcher.Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if got := snap.Metadata["js:__PROFILE_HANDLE__"]; got != "darionji" {
		t.Errorf("js:__PROFILE_HANDLE__ = %q, want darionji", got)
	}
}

func TestFetcher_IgnoresBrokenScripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<script>document.querySelector(".missing").innerText = "boom";</script>
			<script>window.ok = "still here";</script>
		</body></html>`))
	}))
	defer server.Close()

	fetcher := New(static.New(server.Client(), "test-agent"))

	snap, err := fetcher.Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := snap.Metadata["js:ok"]; got != "still here" {
		t.Errorf("js:ok = %q, want %q", got, "still here")
	}
}

func TestFetcher_Name(t *testing.T) {
	if got := New(nil).Name(); got != "HybridFetcher" {
		t.Errorf("Name() = %q", got)
	}
}
