package catalog

import "github.com/sciforge/chemlab/internal/model"

// incompatible lists combinations that always raise a critical alert,
// independent of whether a catalog reaction matches.
var incompatible = []model.IncompatibleRule{
	{
		Chemicals: []string{"H₂SO₄", "organic"},
		Warning:   "DANGER: Sulfuric acid can cause explosive reactions with organic compounds",
	},
	{
		Chemicals: []string{"HCl", "H₂SO₄"},
		Warning:   "CAUTION: Mixing acids can cause violent reactions",
	},
	{
		Chemicals: []string{"Mg", "H₂SO₄"},
		Warning:   "EXTREME DANGER: Produces toxic SO₂ gas and extreme heat",
	},
}

// temperatureLimits holds per-chemical safe-temperature ceilings and
// ignition points.
var temperatureLimits = []model.TemperatureRule{
	{
		Chemical: "H₂SO₄",
		Max:      80,
		Warning:  "Sulfuric acid becomes more reactive at high temperatures",
	},
	{
		Chemical: "HCl",
		Max:      85,
		Warning:  "HCl vapor pressure increases rapidly with temperature",
	},
	{
		Chemical: "Mg",
		Ignition: 650,
		Warning:  "Magnesium ignites at high temperatures",
	},
}

// IncompatibleRules returns the incompatible-combination rules.
// The returned slice must be treated as read-only.
func IncompatibleRules() []model.IncompatibleRule {
	return incompatible
}

// TemperatureRules returns the per-chemical temperature-limit rules.
// The returned slice must be treated as read-only.
func TemperatureRules() []model.TemperatureRule {
	return temperatureLimits
}
