// Package catalog holds the static reaction catalog and safety rule set.
//
// The catalog is an ordered list: when more than one reaction is eligible
// for the same chemical set, the earlier entry wins. Entries are immutable
// after construction; the detection engine must never write back to them.
package catalog

import "github.com/sciforge/chemlab/internal/model"

// reactions is the catalog in match-priority order.
var reactions = []model.ReactionDefinition{
	{
		ID:                  "hcl_naoh_neutralization",
		Name:                "Acid-Base Neutralization",
		Reactants:           []string{"HCl", "NaOH"},
		Products:            []string{"NaCl", "H₂O"},
		Type:                model.ReactionAcidBase,
		Energy:              model.EnergyExothermic,
		TemperatureRequired: 20,
		Conditions:          []string{"room temperature", "aqueous solution"},
		HeatGenerated:       57.3,
		DangerLevel:         model.DangerMedium,
		SafetyWarnings:      []string{"Generates heat", "Use eye protection"},
		Description:         "Strong acid reacts with strong base to form salt and water",
		BalancedEquation:    "HCl + NaOH → NaCl + H₂O",
		Mechanism: []string{
			"H⁺ from acid combines with OH⁻ from base",
			"Forms water molecule",
			"Na⁺ and Cl⁻ remain as spectator ions",
		},
		EducationalNotes: []string{
			"This is a classic neutralization reaction",
			"The pH changes from acidic/basic to neutral (7)",
			"Heat is released due to formation of water",
		},
	},
	{
		ID:                  "cuso4_naoh_precipitation",
		Name:                "Copper Hydroxide Precipitation",
		Reactants:           []string{"CuSO₄", "NaOH"},
		Products:            []string{"Cu(OH)₂", "Na₂SO₄"},
		Type:                model.ReactionDoubleReplacement,
		Energy:              model.EnergyExothermic,
		TemperatureRequired: 20,
		Conditions:          []string{"room temperature", "aqueous solution"},
		HeatGenerated:       15.2,
		ColorChange:         &model.ColorChange{From: "#4169E1", To: "#87CEEB"},
		PrecipitateFormed:   "Cu(OH)₂",
		DangerLevel:         model.DangerLow,
		SafetyWarnings:      []string{"Blue precipitate forms"},
		Description:         "Copper sulfate reacts with sodium hydroxide to form copper hydroxide precipitate",
		BalancedEquation:    "CuSO₄ + 2NaOH → Cu(OH)₂ + Na₂SO₄",
		Mechanism: []string{
			"Cu²⁺ ions combine with OH⁻ ions",
			"Forms insoluble Cu(OH)₂ precipitate",
			"Na⁺ and SO₄²⁻ remain in solution",
		},
		EducationalNotes: []string{
			"Example of a precipitation reaction",
			"Demonstrates solubility rules",
			"Blue color comes from Cu²⁺ ions",
		},
	},
	{
		ID:                  "mg_combustion",
		Name:                "Magnesium Combustion",
		Reactants:           []string{"Mg", "O₂"},
		Products:            []string{"MgO"},
		Type:                model.ReactionCombustion,
		Energy:              model.EnergyExothermic,
		TemperatureRequired: 650,
		Catalysts:           []string{"Pt"},
		Conditions:          []string{"high temperature", "presence of oxygen"},
		HeatGenerated:       601.6,
		ColorChange:         &model.ColorChange{From: "#C0C0C0", To: "#FFFFFF"},
		DangerLevel:         model.DangerHigh,
		SafetyWarnings: []string{
			"Extremely bright light",
			"Very hot flame",
			"Do not look directly at flame",
		},
		Description:      "Magnesium burns in oxygen with brilliant white light",
		BalancedEquation: "2Mg + O₂ → 2MgO",
		Mechanism: []string{
			"Magnesium atoms lose electrons to oxygen",
			"Forms ionic magnesium oxide",
			"Releases tremendous amount of energy",
		},
		EducationalNotes: []string{
			"Classic example of metal oxidation",
			"Demonstrates exothermic reactions",
			"Used in fireworks and flares",
		},
	},
	{
		ID:                  "hcl_mg_replacement",
		Name:                "Magnesium-Acid Reaction",
		Reactants:           []string{"Mg", "HCl"},
		Products:            []string{"MgCl₂", "H₂"},
		Type:                model.ReactionSingleReplacement,
		Energy:              model.EnergyExothermic,
		TemperatureRequired: 20,
		Conditions:          []string{"room temperature", "aqueous acid"},
		HeatGenerated:       462.0,
		GasEvolution:        true,
		DangerLevel:         model.DangerMedium,
		SafetyWarnings:      []string{"Hydrogen gas evolution", "Flammable gas produced"},
		Description:         "Magnesium displaces hydrogen from hydrochloric acid",
		BalancedEquation:    "Mg + 2HCl → MgCl₂ + H₂",
		Mechanism: []string{
			"Magnesium atoms lose electrons",
			"H⁺ ions gain electrons to form H₂ gas",
			"Mg²⁺ and Cl⁻ remain in solution",
		},
		EducationalNotes: []string{
			"Example of single displacement reaction",
			"Demonstrates reactivity series",
			"Hydrogen gas test: pop with burning splint",
		},
	},
	{
		ID:                  "h2so4_metal_danger",
		Name:                "Sulfuric Acid Metal Reaction",
		Reactants:           []string{"H₂SO₄", "Mg"},
		Products:            []string{"MgSO₄", "H₂", "SO₂"},
		Type:                model.ReactionRedox,
		Energy:              model.EnergyExothermic,
		TemperatureRequired: 20,
		Conditions:          []string{"room temperature", "concentrated acid"},
		HeatGenerated:       745.0,
		GasEvolution:        true,
		DangerLevel:         model.DangerExtreme,
		SafetyWarnings: []string{
			"DANGER: Toxic SO₂ gas produced",
			"Extremely exothermic reaction",
			"Use fume hood",
			"Emergency ventilation required",
		},
		Description:      "DANGEROUS: Sulfuric acid reacts violently with metals producing toxic gases",
		BalancedEquation: "Mg + 2H₂SO₄ → MgSO₄ + SO₂ + 2H₂O + H₂",
		Mechanism: []string{
			"Multiple simultaneous reactions occur",
			"Produces toxic sulfur dioxide gas",
			"Extreme heat generation",
		},
		EducationalNotes: []string{
			"DO NOT PERFORM without proper safety equipment",
			"Demonstrates why acid safety is critical",
			"Example of complex redox chemistry",
		},
	},
}

// Reactions returns the catalog in match-priority order. The returned slice
// must be treated as read-only.
func Reactions() []model.ReactionDefinition {
	return reactions
}

// ByType returns the catalog entries of the given reaction type, preserving
// catalog order.
func ByType(t model.ReactionType) []model.ReactionDefinition {
	var out []model.ReactionDefinition
	for _, r := range reactions {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the catalog entry with the given id.
func ByID(id string) (model.ReactionDefinition, bool) {
	for _, r := range reactions {
		if r.ID == id {
			return r, true
		}
	}
	return model.ReactionDefinition{}, false
}
