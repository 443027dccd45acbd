// Package extract pulls profile fields out of a captured page snapshot.
//
// Extraction is best effort by contract: a selector or pattern that does not
// match degrades that field to absent (JSON null) and is only visible in the
// diagnostics, never as an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/maker-tools/mwprofile/pkg/models"
)

var (
	// First run of digits with optional thousands separators.
	countRe = regexp.MustCompile(`\d[\d,]*`)
	// A standalone numeric token, used by the positional fallback.
	tokenRe = regexp.MustCompile(`^\d[\d,]*$`)
)

// ParseCount finds the first run of digits in s, strips thousands separators,
// and parses it as an int. NBSP is treated as a space.
func ParseCount(s string) (int, bool) {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	m := countRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Extract walks the selector table in order and produces a ProfileRecord plus
// per-field diagnostics from an already-parsed document. A nil or empty
// document yields an all-null record, not an error.
func Extract(doc *goquery.Document, table Table) (*models.ProfileRecord, *models.Diagnostics) {
	rec := &models.ProfileRecord{ScrapedAt: time.Now().UTC()}
	diag := models.NewDiagnostics()

	if doc == nil {
		for _, r := range table.Rules {
			diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
		}
		diag.Fields[FieldModels] = models.FieldDiagnostic{Field: FieldModels, Strategy: models.StrategyMiss}
		return rec, diag
	}

	for _, r := range table.Rules {
		if r.Group != "" {
			continue // resolved with the rest of its group below
		}
		switch r.Kind {
		case KindText:
			extractText(doc, r, rec, diag)
		case KindNumber:
			extractNumber(doc, r, rec, diag)
		case KindLabeledNumber:
			extractLabeled(doc, r, rec, diag)
		case KindAttrList:
			extractAttrList(doc, r, rec, diag)
		}
	}

	for _, g := range table.Groups {
		extractGroup(doc, g, groupRules(table, g.Name), rec, diag)
	}

	extractModels(doc, rec, diag)

	return rec, diag
}

func groupRules(table Table, name string) []Rule {
	var rules []Rule
	for _, r := range table.Rules {
		if r.Group == name {
			rules = append(rules, r)
		}
	}
	return rules
}

func extractText(doc *goquery.Document, r Rule, rec *models.ProfileRecord, diag *models.Diagnostics) {
	for _, sel := range r.Selectors {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(elem.Text())
		if text == "" {
			diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Selector: sel, Strategy: models.StrategyMiss}
			return
		}
		setString(rec, r.Field, text)
		diag.Fields[r.Field] = models.FieldDiagnostic{
			Field: r.Field, Selector: sel, RawText: text,
			Strategy: models.StrategySelector, Matched: true,
		}
		return
	}
	diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
}

func extractNumber(doc *goquery.Document, r Rule, rec *models.ProfileRecord, diag *models.Diagnostics) {
	for _, sel := range r.Selectors {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(elem.Text())
		n, ok := ParseCount(text)
		if !ok {
			// Element matched but carries no number: absent, not an error.
			diag.Fields[r.Field] = models.FieldDiagnostic{
				Field: r.Field, Selector: sel, RawText: text, Strategy: models.StrategyMiss,
			}
			return
		}
		setInt(rec, r.Field, n)
		diag.Fields[r.Field] = models.FieldDiagnostic{
			Field: r.Field, Selector: sel, RawText: text,
			Strategy: models.StrategySelector, Matched: true,
		}
		return
	}
	diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
}

// extractLabeled scans every element matching the rule's selectors and takes
// the first one whose text contains a label keyword. Used for the repeated
// follower/following blocks which share one class.
func extractLabeled(doc *goquery.Document, r Rule, rec *models.ProfileRecord, diag *models.Diagnostics) {
	for _, sel := range r.Selectors {
		done := false
		doc.Find(sel).EachWithBreak(func(_ int, elem *goquery.Selection) bool {
			text := strings.TrimSpace(elem.Text())
			lower := strings.ToLower(text)
			if !containsAny(lower, r.Labels) || containsAny(lower, r.Exclude) {
				return true
			}
			if n, ok := ParseCount(text); ok {
				setInt(rec, r.Field, n)
				diag.Fields[r.Field] = models.FieldDiagnostic{
					Field: r.Field, Selector: sel, RawText: text,
					Strategy: models.StrategyLabel, Matched: true,
				}
				done = true
				return false
			}
			return true
		})
		if done {
			return
		}
	}
	diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
}

func extractAttrList(doc *goquery.Document, r Rule, rec *models.ProfileRecord, diag *models.Diagnostics) {
	for _, sel := range r.Selectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		values := []string{}
		seen := make(map[string]bool)
		container.Find(r.ChildSel).Each(func(_ int, item *goquery.Selection) {
			v, ok := item.Attr(r.Attr)
			if !ok || v == "" || seen[v] {
				return
			}
			seen[v] = true
			values = append(values, v)
		})
		setStringList(rec, r.Field, values)
		diag.Fields[r.Field] = models.FieldDiagnostic{
			Field: r.Field, Selector: sel,
			RawText:  strings.Join(values, ", "),
			Strategy: models.StrategySelector, Matched: true,
		}
		return
	}
	diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
}

// extractGroup resolves the rules sharing one stats container. The container
// text is split into node-order lines; a line containing a label keyword
// takes its number from the preceding line. Fields still unresolved after
// the label pass fall back to positional assignment: when the leftover
// standalone numeric tokens match the unresolved positional fields in count,
// they are assigned in the group's fixed order. The order assumption is
// inherited from the page layout and silently misassigns if it changes.
func extractGroup(doc *goquery.Document, g Group, rules []Rule, rec *models.ProfileRecord, diag *models.Diagnostics) {
	var container *goquery.Selection
	var containerSel string
	for _, sel := range g.Selectors {
		if c := doc.Find(sel).First(); c.Length() > 0 {
			container = c
			containerSel = sel
			break
		}
	}
	if container == nil {
		for _, r := range rules {
			diag.Fields[r.Field] = models.FieldDiagnostic{Field: r.Field, Strategy: models.StrategyMiss}
		}
		return
	}

	lines := textLines(container)
	resolved := make(map[string]bool)
	consumed := make(map[int]bool) // indexes of number lines claimed by labels
	claimed := make(map[int]bool)  // label lines already matched by an earlier rule

	for _, r := range rules {
		for i, line := range lines {
			if claimed[i] {
				// A label line resolves at most one field, even when its
				// text happens to contain another rule's keyword.
				continue
			}
			lower := strings.ToLower(line)
			if !containsAny(lower, r.Labels) || containsAny(lower, r.Exclude) || i == 0 {
				continue
			}
			n, ok := ParseCount(lines[i-1])
			if !ok {
				continue
			}
			setInt(rec, r.Field, n)
			resolved[r.Field] = true
			consumed[i-1] = true
			claimed[i] = true
			diag.Fields[r.Field] = models.FieldDiagnostic{
				Field: r.Field, Selector: containerSel, RawText: lines[i-1] + " " + line,
				Strategy: models.StrategyLabel, Matched: true,
			}
			break
		}
	}

	// Positional fallback over leftover numeric tokens.
	var leftover []string
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if tokenRe.MatchString(tok) {
				leftover = append(leftover, tok)
			}
		}
	}

	var unresolved []string
	for _, field := range g.Positional {
		if !resolved[field] {
			unresolved = append(unresolved, field)
		}
	}

	if len(leftover) > 0 && len(leftover) == len(unresolved) {
		for i, field := range unresolved {
			n, ok := ParseCount(leftover[i])
			if !ok {
				continue
			}
			setInt(rec, field, n)
			resolved[field] = true
			diag.Fields[field] = models.FieldDiagnostic{
				Field: field, Selector: containerSel, RawText: leftover[i],
				Strategy: models.StrategyPositional, Matched: true,
			}
		}
	}

	for _, r := range rules {
		if !resolved[r.Field] {
			diag.Fields[r.Field] = models.FieldDiagnostic{
				Field: r.Field, Selector: containerSel, Strategy: models.StrategyMiss,
			}
		}
	}
}

// textLines flattens a selection into its non-empty text nodes in document
// order. Equivalent to splitting a browser innerText on newlines for the
// markup this tool targets, where every number and label sits in its own
// element.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func setInt(rec *models.ProfileRecord, field string, v int) {
	n := v
	switch field {
	case FieldUserLevel:
		rec.UserLevel = &n
	case FieldPoints:
		rec.Points = &n
	case FieldBoostTokens:
		rec.BoostTokens = &n
	case FieldFollowers:
		rec.Followers = &n
	case FieldFollowing:
		rec.Following = &n
	case FieldBoosts:
		rec.Boosts = &n
	case FieldLikes:
		rec.Likes = &n
	case FieldModelDownloads:
		rec.ModelDownloads = &n
	case FieldModelPrints:
		rec.ModelPrints = &n
	}
}

func setString(rec *models.ProfileRecord, field string, v string) {
	s := v
	if field == FieldUsername {
		rec.Username = &s
	}
}

func setStringList(rec *models.ProfileRecord, field string, v []string) {
	if field == FieldAchievements {
		rec.Achievements = v
	}
}
