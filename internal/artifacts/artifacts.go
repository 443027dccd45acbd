// Package artifacts writes the scrape outputs: the record JSON plus optional
// HTML, screenshot, Markdown, and diagnostics debug files.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/rs/zerolog/log"

	"github.com/maker-tools/mwprofile/pkg/models"
)

// WriteRecord writes the profile record as indented JSON. Absent fields
// serialize as null.
func WriteRecord(rec *models.ProfileRecord, path string) error {
	content, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return write(path, content)
}

// WriteDiagnostics writes the extraction diagnostics as indented JSON.
func WriteDiagnostics(diag *models.Diagnostics, path string) error {
	content, err := json.MarshalIndent(diag, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	return write(path, content)
}

// WriteHTML saves the captured page HTML for debugging.
func WriteHTML(snap *models.Snapshot, path string) error {
	return write(path, []byte(snap.HTML))
}

// WriteScreenshot saves the full-page screenshot, if one was captured.
func WriteScreenshot(snap *models.Snapshot, path string) error {
	if len(snap.Screenshot) == 0 {
		return fmt.Errorf("no screenshot captured")
	}
	return write(path, snap.Screenshot)
}

// WriteMarkdown converts the cleaned page HTML to GitHub-flavored Markdown
// and writes it to path.
func WriteMarkdown(snap *models.Snapshot, path string) error {
	cleaned, err := CleanHTML(snap.HTML)
	if err != nil {
		return err
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return write(path, []byte(mdStr))
}

func write(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Debug().Str("file", path).Int("bytes", len(content)).Msg("Artifact written")
	return nil
}
