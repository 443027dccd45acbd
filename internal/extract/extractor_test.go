package extract

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/maker-tools/mwprofile/pkg/models"
)

// fullFixture mirrors the profile page markup the default table targets.
const fullFixture = `<!DOCTYPE html>
<html><body>
<div class="user_base_info">
	<span class="mw-css-1v58zuy">darionji</span>
	<div class="level-icon-size-96 mw-css-12k4syt">Level 5</div>
	<span class="mw-css-yyek0l">2,350 points</span>
	<a class="mw-css-1pqes8k" href="/boosts">12 Boost Tokens</a>
	<div class="MuiStack-root mw-css-qn1esg"><span>1,234</span> <span>Followers</span></div>
	<div class="MuiStack-root mw-css-qn1esg"><span>56</span> <span>Following</span></div>
	<div class="MuiStack-root mw-css-7ddqqi">
		<span>7</span><span>Boosts</span>
		<span>29</span><span>Likes</span>
		<span>412</span><span>Downloads</span>
		<span>88</span><span>Prints</span>
	</div>
	<div class="MuiStack-root border mw-css-kodck9">
		<img class="achievement-badge" alt="First Print" src="a.png">
		<img alt="Popular Designer" src="b.png">
	</div>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestExtract_FullFixture(t *testing.T) {
	rec, diag := Extract(mustDoc(t, fullFixture), DefaultTable())

	want := &models.ProfileRecord{
		Username:       strp("darionji"),
		UserLevel:      intp(5),
		Points:         intp(2350),
		BoostTokens:    intp(12),
		Followers:      intp(1234),
		Following:      intp(56),
		Boosts:         intp(7),
		Likes:          intp(29),
		ModelDownloads: intp(412),
		ModelPrints:    intp(88),
		Achievements:   []string{"First Print", "Popular Designer"},
	}
	rec.ScrapedAt = time.Time{}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if d := diag.Fields[FieldFollowers]; d.Strategy != models.StrategyLabel || !d.Matched {
		t.Errorf("followers diagnostic = %+v, want matched label strategy", d)
	}
	if d := diag.Fields[FieldLikes]; d.Strategy != models.StrategyLabel {
		t.Errorf("likes diagnostic strategy = %s, want label", d.Strategy)
	}
}

func TestExtract_MissingField(t *testing.T) {
	html := strings.Replace(fullFixture, `<span class="mw-css-yyek0l">2,350 points</span>`, "", 1)
	rec, diag := Extract(mustDoc(t, html), DefaultTable())

	if rec.Points != nil {
		t.Errorf("points = %d, want nil", *rec.Points)
	}
	if d := diag.Fields[FieldPoints]; d.Strategy != models.StrategyMiss || d.Matched {
		t.Errorf("points diagnostic = %+v, want miss", d)
	}
	// The rest is unaffected.
	if rec.Username == nil || *rec.Username != "darionji" {
		t.Errorf("username = %v, want darionji", rec.Username)
	}
}

func TestExtract_PositionalFallback(t *testing.T) {
	html := `<html><body>
		<div class="MuiStack-root mw-css-7ddqqi">10 200 5</div>
	</body></html>`
	rec, diag := Extract(mustDoc(t, html), DefaultTable())

	if rec.Likes == nil || *rec.Likes != 10 {
		t.Errorf("likes = %v, want 10", rec.Likes)
	}
	if rec.ModelDownloads == nil || *rec.ModelDownloads != 200 {
		t.Errorf("model_downloads = %v, want 200", rec.ModelDownloads)
	}
	if rec.ModelPrints == nil || *rec.ModelPrints != 5 {
		t.Errorf("model_prints = %v, want 5", rec.ModelPrints)
	}
	if rec.Boosts != nil {
		t.Errorf("boosts = %d, want nil (not part of the positional convention)", *rec.Boosts)
	}
	if d := diag.Fields[FieldLikes]; d.Strategy != models.StrategyPositional {
		t.Errorf("likes diagnostic strategy = %s, want positional", d.Strategy)
	}
}

func TestExtract_PositionalFallback_CountMismatch(t *testing.T) {
	// Two tokens for three unresolved fields: the fallback must not guess.
	html := `<html><body>
		<div class="MuiStack-root mw-css-7ddqqi">10 200</div>
	</body></html>`
	rec, _ := Extract(mustDoc(t, html), DefaultTable())

	if rec.Likes != nil || rec.ModelDownloads != nil || rec.ModelPrints != nil {
		t.Errorf("got likes=%v downloads=%v prints=%v, want all nil", rec.Likes, rec.ModelDownloads, rec.ModelPrints)
	}
}

func TestExtract_LabelAndPositionalMix(t *testing.T) {
	// Boosts resolved by label; the remaining three tokens fall back to
	// positional assignment.
	html := `<html><body>
		<div class="MuiStack-root mw-css-7ddqqi">
			<span>42</span><span>Boosts</span>
			<div>10 200 5</div>
		</div>
	</body></html>`
	rec, _ := Extract(mustDoc(t, html), DefaultTable())

	if rec.Boosts == nil || *rec.Boosts != 42 {
		t.Errorf("boosts = %v, want 42", rec.Boosts)
	}
	if rec.Likes == nil || *rec.Likes != 10 {
		t.Errorf("likes = %v, want 10", rec.Likes)
	}
	if rec.ModelDownloads == nil || *rec.ModelDownloads != 200 {
		t.Errorf("model_downloads = %v, want 200", rec.ModelDownloads)
	}
	if rec.ModelPrints == nil || *rec.ModelPrints != 5 {
		t.Errorf("model_prints = %v, want 5", rec.ModelPrints)
	}
}

func TestExtract_ModelCards(t *testing.T) {
	html := `<html><body>
		<div data-trackid="12345"><h3>Benchy Remix</h3> <span>1,200</span> <span>34</span></div>
		<div data-trackid=""><h2>Untitled</h2></div>
		<div data-trackid="67890"><div class="title">Spiral Vase</div><span>5.5</span></div>
	</body></html>`
	rec, diag := Extract(mustDoc(t, html), DefaultTable())

	want := map[string]models.ModelCard{
		"12345": {ID: "12345", Title: strp("Benchy Remix"), RawMetrics: []string{"1,200", "34"}},
		"idx-1": {ID: "", Title: strp("Untitled"), RawMetrics: []string{}},
		"67890": {ID: "67890", Title: strp("Spiral Vase"), RawMetrics: []string{"5.5"}},
	}
	if diff := cmp.Diff(want, rec.Models); diff != "" {
		t.Errorf("models mismatch (-want +got):\n%s", diff)
	}
	if d := diag.Fields[FieldModels]; d.Strategy != models.StrategySelector || !d.Matched {
		t.Errorf("models diagnostic = %+v, want matched selector strategy", d)
	}
}

func TestExtract_NoModelCards(t *testing.T) {
	rec, diag := Extract(mustDoc(t, fullFixture), DefaultTable())

	if rec.Models != nil {
		t.Errorf("models = %v, want nil when no cards are present", rec.Models)
	}
	if d := diag.Fields[FieldModels]; d.Strategy != models.StrategyMiss {
		t.Errorf("models diagnostic strategy = %s, want miss", d.Strategy)
	}
}

func TestExtract_LabelLineClaimedOnce(t *testing.T) {
	// A single label line carrying two keywords resolves only the first
	// rule; the second must not reuse the same number.
	html := `<html><body>
		<div class="MuiStack-root mw-css-7ddqqi">
			<span>7</span><span>Boost Likes</span>
		</div>
	</body></html>`
	rec, _ := Extract(mustDoc(t, html), DefaultTable())

	if rec.Boosts == nil || *rec.Boosts != 7 {
		t.Errorf("boosts = %v, want 7", rec.Boosts)
	}
	if rec.Likes != nil {
		t.Errorf("likes = %d, want nil (label line already claimed)", *rec.Likes)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	rec, _ := Extract(mustDoc(t, ""), DefaultTable())

	if rec.Username != nil || rec.Points != nil || rec.Followers != nil ||
		rec.Likes != nil || rec.ModelDownloads != nil || rec.ModelPrints != nil ||
		rec.Achievements != nil {
		t.Errorf("expected all-null record for empty input, got %+v", rec)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"username":null`) {
		t.Errorf("absent fields must serialize as null, got %s", data)
	}
	if !strings.Contains(string(data), `"achievements":null`) {
		t.Errorf("absent achievements must serialize as null, got %s", data)
	}
}

func TestExtract_NilDocument(t *testing.T) {
	rec, diag := Extract(nil, DefaultTable())
	if rec == nil || diag == nil {
		t.Fatal("nil document must still produce a record and diagnostics")
	}
	if rec.Username != nil {
		t.Errorf("username = %v, want nil", rec.Username)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	doc := mustDoc(t, fullFixture)
	table := DefaultTable()

	rec1, _ := Extract(doc, table)
	rec2, _ := Extract(doc, table)
	rec1.ScrapedAt = time.Time{}
	rec2.ScrapedAt = time.Time{}

	b1, err := json.Marshal(rec1)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	b2, err := json.Marshal(rec2)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b1) != string(b2) {
		t.Errorf("extraction is not idempotent:\n%s\n%s", b1, b2)
	}
}

func TestExtract_FallbackSelector(t *testing.T) {
	// Primary username class absent; the h1 fallback must pick it up.
	html := `<html><body><h1>makerperson</h1></body></html>`
	rec, diag := Extract(mustDoc(t, html), DefaultTable())

	if rec.Username == nil || *rec.Username != "makerperson" {
		t.Errorf("username = %v, want makerperson", rec.Username)
	}
	if d := diag.Fields[FieldUsername]; d.Selector != "h1" {
		t.Errorf("username selector = %q, want h1", d.Selector)
	}
}

func TestExtract_AchievementsEmptyContainer(t *testing.T) {
	html := `<html><body><div class="MuiStack-root border mw-css-kodck9"></div></body></html>`
	rec, _ := Extract(mustDoc(t, html), DefaultTable())

	if rec.Achievements == nil {
		t.Fatal("matched container should yield an empty list, not null")
	}
	if len(rec.Achievements) != 0 {
		t.Errorf("achievements = %v, want empty", rec.Achievements)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12,345", 12345, true},
		{"1,234 Followers", 1234, true},
		{"Level 5", 5, true},
		{"2,350 points", 2350, true},
		{"no numbers here", 0, false},
		{"", 0, false},
		{"1\u00a0234", 1, true}, // NBSP separates tokens, it does not join them
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCount(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseCount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDefaultTable_GroupWiring(t *testing.T) {
	table := DefaultTable()

	grouped := groupRules(table, statsGroup)
	if len(grouped) != 4 {
		t.Fatalf("stats group has %d rules, want 4", len(grouped))
	}
	if len(table.Groups) != 1 {
		t.Fatalf("table has %d groups, want 1", len(table.Groups))
	}
	want := []string{FieldLikes, FieldModelDownloads, FieldModelPrints}
	if diff := cmp.Diff(want, table.Groups[0].Positional); diff != "" {
		t.Errorf("positional order mismatch (-want +got):\n%s", diff)
	}
}
