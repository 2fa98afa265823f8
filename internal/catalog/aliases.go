package catalog

import "strings"

// Users refer to chemicals by formula ("HCl"), common name ("Hydrochloric
// Acid"), or unicode-subscript formula ("H₂SO₄"). Every accepted label maps
// to exactly one canonical key and matching happens on canonical keys only,
// so "Na" can never accidentally match "Sodium Hydroxide".
var aliases = map[string]string{
	"hcl":               "hcl",
	"hydrochloric acid": "hcl",
	"muriatic acid":     "hcl",

	"naoh":             "naoh",
	"sodium hydroxide": "naoh",
	"caustic soda":     "naoh",

	"h2so4":          "h2so4",
	"h₂so₄":          "h2so4",
	"sulfuric acid":  "h2so4",
	"sulphuric acid": "h2so4",

	"cuso4":              "cuso4",
	"cuso₄":              "cuso4",
	"copper sulfate":     "cuso4",
	"copper(ii) sulfate": "cuso4",

	"mg":        "mg",
	"magnesium": "mg",

	"o2":     "o2",
	"o₂":     "o2",
	"oxygen": "o2",

	"nacl":            "nacl",
	"sodium chloride": "nacl",
	"table salt":      "nacl",

	"h2o":   "h2o",
	"h₂o":   "h2o",
	"water": "h2o",

	"fe":   "fe",
	"iron": "fe",

	"ethanol": "organic",
	"c2h5oh":  "organic",
	"c₂h₅oh":  "organic",
	"acetone": "organic",
	"organic": "organic",

	"mno2":              "mno2",
	"mno₂":              "mno2",
	"manganese dioxide": "mno2",

	"pt":       "pt",
	"platinum": "pt",
}

// Canonical resolves a chemical label to its canonical key. Unknown labels
// fall back to the case-folded, trimmed label itself: unknown chemicals are
// inert (they never match a catalog reactant) but are not an error.
func Canonical(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if canon, ok := aliases[key]; ok {
		return canon
	}
	return key
}

// CanonicalSet resolves a list of labels into a set of canonical keys.
func CanonicalSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[Canonical(l)] = true
	}
	return set
}
