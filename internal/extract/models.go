package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maker-tools/mwprofile/pkg/models"
)

const (
	modelCardSel  = "[data-trackid]"
	modelTitleSel = "h3, h2, .title"
)

// Metric tokens inside a model card keep their raw text, decimal points and
// separators included, instead of going through ParseCount.
var metricRe = regexp.MustCompile(`\d+[.,]?\d*`)

// extractModels collects the published-model cards rendered on the profile
// page. Each card is keyed by its data-trackid attribute, or by its document
// index when the attribute is empty, so cards never overwrite each other.
func extractModels(doc *goquery.Document, rec *models.ProfileRecord, diag *models.Diagnostics) {
	cards := doc.Find(modelCardSel)
	if cards.Length() == 0 {
		diag.Fields[FieldModels] = models.FieldDiagnostic{
			Field: FieldModels, Selector: modelCardSel, Strategy: models.StrategyMiss,
		}
		return
	}

	out := make(map[string]models.ModelCard, cards.Length())
	cards.Each(func(idx int, card *goquery.Selection) {
		id, _ := card.Attr("data-trackid")
		key := id
		if key == "" {
			key = fmt.Sprintf("idx-%d", idx)
		}

		metrics := metricRe.FindAllString(card.Text(), -1)
		if metrics == nil {
			metrics = []string{}
		}
		mc := models.ModelCard{ID: id, RawMetrics: metrics}
		if titleEl := card.Find(modelTitleSel).First(); titleEl.Length() > 0 {
			if title := strings.TrimSpace(titleEl.Text()); title != "" {
				mc.Title = &title
			}
		}
		out[key] = mc
	})

	rec.Models = out
	diag.Fields[FieldModels] = models.FieldDiagnostic{
		Field: FieldModels, Selector: modelCardSel,
		RawText:  fmt.Sprintf("%d cards", len(out)),
		Strategy: models.StrategySelector, Matched: true,
	}
}
