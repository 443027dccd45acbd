package extract

// Field names, matching the ProfileRecord JSON keys.
const (
	FieldUsername       = "username"
	FieldUserLevel      = "user_level"
	FieldPoints         = "points"
	FieldBoostTokens    = "boost_tokens"
	FieldFollowers      = "followers"
	FieldFollowing      = "following"
	FieldBoosts         = "boosts"
	FieldLikes          = "likes"
	FieldModelDownloads = "model_downloads"
	FieldModelPrints    = "model_prints"
	FieldAchievements   = "achievements"
	FieldModels         = "models"
)

// Kind tags how a rule turns a matched element into a value.
type Kind int

const (
	// KindText takes the trimmed inner text of the first matching element.
	KindText Kind = iota
	// KindNumber takes the first run of digits (thousands separators
	// allowed) from the first matching element's text.
	KindNumber
	// KindLabeledNumber scans every element matching the selectors and
	// takes the number from the first one whose text contains a label.
	KindLabeledNumber
	// KindAttrList collects an attribute from child elements of the first
	// matching container, deduplicated in document order.
	KindAttrList
)

// Rule describes how one field is pulled out of the page: an ordered list of
// candidate selectors, a kind tag, and optional label keywords. Rules with a
// Group name are resolved inside that group's container instead of via their
// own selectors.
type Rule struct {
	Field     string
	Selectors []string // ordered candidates, first match wins
	Kind      Kind
	Labels    []string // lowercase keywords identifying a label line
	Exclude   []string // lowercase keywords disqualifying a label line
	ChildSel  string   // KindAttrList: selector for items inside the container
	Attr      string   // KindAttrList: attribute to collect
	Group     string
}

// Group ties the rules sharing one stats container together. Positional
// lists the fields that leftover unlabeled numeric tokens are assigned to,
// in order, when label matching resolves fewer fields than the container
// holds. The order mirrors the page's current layout and is knowingly
// brittle; it is not validated against anything.
type Group struct {
	Name       string
	Selectors  []string
	Positional []string
}

// Table is the full selector table the extractor walks in order.
type Table struct {
	Rules  []Rule
	Groups []Group
}

const statsGroup = "profile_stats"

// DefaultTable returns the selector table for the current MakerWorld profile
// layout. The mw-css-* class names are generated by the site's CSS-in-JS
// build and change when the site redeploys; fallbacks are looser matches
// observed on earlier layouts.
func DefaultTable() Table {
	return Table{
		Rules: []Rule{
			{
				Field:     FieldUsername,
				Selectors: []string{"span.mw-css-1v58zuy", "h1"},
				Kind:      KindText,
			},
			{
				Field:     FieldUserLevel,
				Selectors: []string{"div.level-icon-size-96.mw-css-12k4syt", "div.level-icon-size-96"},
				Kind:      KindNumber,
			},
			{
				Field:     FieldPoints,
				Selectors: []string{"span.mw-css-yyek0l", ".mw-css-1541sxf", `[class*="reward"]`},
				Kind:      KindNumber,
			},
			{
				Field:     FieldBoostTokens,
				Selectors: []string{"a.mw-css-1pqes8k"},
				Kind:      KindNumber,
			},
			{
				Field:     FieldFollowers,
				Selectors: []string{"div.MuiStack-root.mw-css-qn1esg"},
				Kind:      KindLabeledNumber,
				Labels:    []string{"followers", "follower"},
			},
			{
				Field:     FieldFollowing,
				Selectors: []string{"div.MuiStack-root.mw-css-qn1esg"},
				Kind:      KindLabeledNumber,
				Labels:    []string{"following"},
			},
			{
				Field:  FieldBoosts,
				Kind:   KindLabeledNumber,
				Labels: []string{"boost"},
				Group:  statsGroup,
			},
			{
				Field:  FieldLikes,
				Kind:   KindLabeledNumber,
				Labels: []string{"like"},
				Group:  statsGroup,
			},
			{
				Field:  FieldModelDownloads,
				Kind:   KindLabeledNumber,
				Labels: []string{"download"},
				Group:  statsGroup,
			},
			{
				Field:   FieldModelPrints,
				Kind:    KindLabeledNumber,
				Labels:  []string{"print"},
				Exclude: []string{"profile"},
				Group:   statsGroup,
			},
			{
				Field:     FieldAchievements,
				Selectors: []string{"div.MuiStack-root.border.mw-css-kodck9"},
				Kind:      KindAttrList,
				ChildSel:  `[class*="achievement"], img[alt]`,
				Attr:      "alt",
			},
		},
		Groups: []Group{
			{
				Name:       statsGroup,
				Selectors:  []string{"div.MuiStack-root.mw-css-7ddqqi"},
				Positional: []string{FieldLikes, FieldModelDownloads, FieldModelPrints},
			},
		},
	}
}
