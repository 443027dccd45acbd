package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/maker-tools/mwprofile/internal/artifacts"
	"github.com/maker-tools/mwprofile/internal/extract"
	"github.com/maker-tools/mwprofile/internal/fetch"
	"github.com/maker-tools/mwprofile/internal/ui"
	"github.com/maker-tools/mwprofile/internal/utils/headers"
	"github.com/maker-tools/mwprofile/internal/utils/profileurl"
	"github.com/maker-tools/mwprofile/pkg/models"
)

var (
	profileMode       string
	profileOut        string
	profileHTML       string
	profileScreenshot string
	profileMarkdown   string
	profileDiag       string
	profileWaitFor    string
	profileWaitSecs   int
	profileHeaders    []string
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <url>",
	Short: "Scrape a profile page into JSON",
	Long: `Fetches a single profile page, extracts the profile fields with the
built-in selector table, and writes the record as JSON. Fields whose
selectors no longer match come out as null; that is not an error.`,
	Example: `  # Scrape a profile
  mwprofile profile https://makerworld.com/en/@darionji

  # Custom output path plus debug artifacts
  mwprofile profile https://makerworld.com/en/@darionji --out my_profile.json --html page.html --diag diag.json

  # Skip Chrome and use a plain HTTP fetch
  mwprofile profile https://makerworld.com/en/@darionji --mode static`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVarP(&profileOut, "out", "o", "", "Output JSON path (default: <output-dir>/profile_data.json)")
	profileCmd.Flags().StringVar(&profileHTML, "html", "", "Also save the page HTML to this path")
	profileCmd.Flags().StringVar(&profileScreenshot, "screenshot", "", "Also save a full-page screenshot PNG to this path")
	profileCmd.Flags().StringVar(&profileMarkdown, "markdown", "", "Also save a Markdown rendering of the page to this path")
	profileCmd.Flags().StringVar(&profileDiag, "diag", "", "Also save extraction diagnostics JSON to this path")
	profileCmd.Flags().StringVarP(&profileMode, "mode", "m", "browser", "Fetch mode: browser, static, or hybrid")
	profileCmd.Flags().StringVar(&profileWaitFor, "wait-for", "", "CSS selector that marks the page as ready")
	profileCmd.Flags().IntVar(&profileWaitSecs, "wait", 0, "Extra seconds to wait after navigation")
	profileCmd.Flags().StringArrayVarP(&profileHeaders, "header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: a=b\")")
}

func runProfile(cmd *cobra.Command, args []string) error {
	url := args[0]
	a := GetApp()

	if err := profileurl.Validate(url); err != nil {
		return err
	}

	mode := models.FetchMode(strings.ToLower(profileMode))
	fetcher, err := a.FetcherFor(mode)
	if err != nil {
		return err
	}

	waitSelector := profileWaitFor
	if waitSelector == "" {
		waitSelector = a.Config.WaitSelector
	}

	opts := models.FetchOptions{
		URL:          url,
		Mode:         mode,
		WaitSelector: waitSelector,
		WaitExtra:    time.Duration(profileWaitSecs) * time.Second,
		Timeout:      a.Config.NavTimeout,
		Screenshot:   profileScreenshot != "",
		Proxy:        a.Config.Proxy,
		Headers:      headers.Parse(profileHeaders),
	}

	log.Info().Str("url", url).Str("fetcher", fetcher.Name()).Msg("Fetching profile page")
	snap, err := fetchWithSpinner(cmd, fetcher, opts)
	if err != nil {
		return fmt.Errorf("failed to fetch profile page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		// Unparseable HTML degrades to an all-null record, per contract.
		log.Warn().Err(err).Msg("Failed to parse captured HTML")
		doc = nil
	}

	rec, diag := extract.Extract(doc, extract.DefaultTable())
	rec.URL = url
	if handle := profileurl.Handle(url); handle != "" && rec.Username == nil {
		// The URL handle is a last-resort username when no selector matched.
		rec.Username = &handle
	}
	fillPageDiagnostics(diag, snap, waitSelector)

	outPath := profileOut
	if outPath == "" {
		outPath = filepath.Join(a.Config.OutputDir, "profile_data.json")
	}
	if err := artifacts.WriteRecord(rec, outPath); err != nil {
		return err
	}
	fmt.Printf("%s Saved to %s\n", ui.Success("✓"), outPath)

	if profileHTML != "" {
		if err := artifacts.WriteHTML(snap, profileHTML); err != nil {
			log.Warn().Err(err).Msg("Failed to save HTML artifact")
		}
	}
	if profileScreenshot != "" {
		if err := artifacts.WriteScreenshot(snap, profileScreenshot); err != nil {
			log.Warn().Err(err).Msg("Failed to save screenshot")
		}
	}
	if profileMarkdown != "" {
		if err := artifacts.WriteMarkdown(snap, profileMarkdown); err != nil {
			log.Warn().Err(err).Msg("Failed to save markdown")
		}
	}
	if profileDiag != "" {
		if err := artifacts.WriteDiagnostics(diag, profileDiag); err != nil {
			log.Warn().Err(err).Msg("Failed to save diagnostics")
		}
	}

	printRecord(rec)
	return nil
}

// fetchWithSpinner runs the fetch with a terminal spinner unless logs are
// JSON or quiet mode is active.
func fetchWithSpinner(cmd *cobra.Command, fetcher fetch.Fetcher, opts models.FetchOptions) (*models.Snapshot, error) {
	quiet := false
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
		quiet = true
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
		quiet = true
	}

	if quiet {
		return fetcher.Fetch(cmd.Context(), opts)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Fetching "+opts.URL),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	snap, err := fetcher.Fetch(cmd.Context(), opts)
	close(done)
	_ = bar.Finish()
	return snap, err
}

func fillPageDiagnostics(diag *models.Diagnostics, snap *models.Snapshot, waitSelector string) {
	diag.URL = snap.URL
	diag.WaitSelector = waitSelector
	diag.FoundSelector = snap.FoundSelector
	diag.HTMLLength = len(snap.HTML)
	for k, v := range snap.Metadata {
		if strings.HasPrefix(k, "js:") {
			if diag.JSGlobals == nil {
				diag.JSGlobals = make(map[string]string)
			}
			diag.JSGlobals[strings.TrimPrefix(k, "js:")] = v
		}
	}
}

func printRecord(rec *models.ProfileRecord) {
	fmt.Println()
	printField := func(name string, v *int) {
		if v != nil {
			fmt.Printf("  %-16s %d\n", name, *v)
		}
	}
	if rec.Username != nil {
		fmt.Printf("  %-16s %s\n", "username", *rec.Username)
	}
	printField("user_level", rec.UserLevel)
	printField("points", rec.Points)
	printField("boost_tokens", rec.BoostTokens)
	printField("followers", rec.Followers)
	printField("following", rec.Following)
	printField("boosts", rec.Boosts)
	printField("likes", rec.Likes)
	printField("model_downloads", rec.ModelDownloads)
	printField("model_prints", rec.ModelPrints)
	if len(rec.Achievements) > 0 {
		fmt.Printf("  %-16s %s\n", "achievements", strings.Join(rec.Achievements, ", "))
	}
	fmt.Println()
}
