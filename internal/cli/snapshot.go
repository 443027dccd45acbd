package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maker-tools/mwprofile/internal/artifacts"
	"github.com/maker-tools/mwprofile/internal/config"
	"github.com/maker-tools/mwprofile/internal/ui"
	"github.com/maker-tools/mwprofile/internal/utils/profileurl"
	"github.com/maker-tools/mwprofile/pkg/models"
)

var (
	snapshotOut        string
	snapshotScreenshot string
	snapshotDiag       string
	snapshotWaitFor    string
	snapshotWaitSecs   int
)

// snapshotCmd captures the page without extracting anything. Useful for
// checking what the current layout actually renders before touching the
// selector table.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <url>",
	Short: "Capture page HTML and a screenshot without extracting",
	Example: `  # Save the rendered page for inspection
  mwprofile snapshot https://makerworld.com/en/@darionji --out page.html --screenshot page.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "HTML output path (default: <output-dir>/page.html)")
	snapshotCmd.Flags().StringVar(&snapshotScreenshot, "screenshot", "", "Save a full-page screenshot PNG to this path")
	snapshotCmd.Flags().StringVar(&snapshotDiag, "diag", "", "Save capture diagnostics JSON to this path")
	snapshotCmd.Flags().StringVar(&snapshotWaitFor, "wait-for", "", "CSS selector that marks the page as ready")
	snapshotCmd.Flags().IntVar(&snapshotWaitSecs, "wait", 0, "Extra seconds to wait after navigation")
}

// snapshotWaitSelector picks the readiness selector for a capture-only run.
func snapshotWaitSelector(flag string) string {
	if flag != "" {
		return flag
	}
	return config.DefaultSnapshotWaitSelector
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	url := args[0]
	a := GetApp()

	if err := profileurl.Validate(url); err != nil {
		return err
	}

	waitSelector := snapshotWaitSelector(snapshotWaitFor)

	opts := models.FetchOptions{
		URL:          url,
		Mode:         models.ModeBrowser,
		WaitSelector: waitSelector,
		WaitExtra:    time.Duration(snapshotWaitSecs) * time.Second,
		Timeout:      a.Config.NavTimeout,
		Screenshot:   snapshotScreenshot != "",
		Proxy:        a.Config.Proxy,
	}

	log.Info().Str("url", url).Msg("Capturing page snapshot")
	snap, err := fetchWithSpinner(cmd, a.Browser, opts)
	if err != nil {
		return fmt.Errorf("failed to capture page: %w", err)
	}

	outPath := snapshotOut
	if outPath == "" {
		outPath = filepath.Join(a.Config.OutputDir, "page.html")
	}
	if err := artifacts.WriteHTML(snap, outPath); err != nil {
		return err
	}
	fmt.Printf("%s HTML saved to %s\n", ui.Success("✓"), outPath)

	if snapshotScreenshot != "" {
		if err := artifacts.WriteScreenshot(snap, snapshotScreenshot); err != nil {
			log.Warn().Err(err).Msg("Failed to save screenshot")
		} else {
			fmt.Printf("%s Screenshot saved to %s\n", ui.Success("✓"), snapshotScreenshot)
		}
	}

	if snapshotDiag != "" {
		diag := models.NewDiagnostics()
		fillPageDiagnostics(diag, snap, waitSelector)
		if err := artifacts.WriteDiagnostics(diag, snapshotDiag); err != nil {
			log.Warn().Err(err).Msg("Failed to save diagnostics")
		}
	}

	fmt.Printf("  %s\n", ui.Dim(fmt.Sprintf("status=%d found_selector=%t length=%d", snap.StatusCode, snap.FoundSelector, len(snap.HTML))))
	return nil
}
