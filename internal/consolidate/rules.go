// Package consolidate bundles individually priced issues into estimate
// line items using per-trade consolidation rules, then enforces the
// per-item caps by splitting oversized bundles.
package consolidate

import "repcost/internal/model"

// Rule controls how aggressively one trade's issues bundle together.
// TargetRatio is the ideal issues-per-item ratio; MaxPerItem is a hard
// cap enforced after bundling.
type Rule struct {
	TargetRatio float64
	MaxPerItem  int
	Strategy    string
	Reason      string
}

// Different trades bundle differently based on how contractors
// actually quote the work.
var categoryRules = map[string]Rule{
	model.CategoryRoof: {
		TargetRatio: 5.5,
		MaxPerItem:  8,
		Strategy:    "aggressive",
		Reason:      "Single trade, single mobilization, roof work naturally bundles into comprehensive packages",
	},
	model.CategoryElectrical: {
		TargetRatio: 4.0,
		MaxPerItem:  5,
		Strategy:    "moderate",
		Reason:      "Group by circuit/location, but keep distinct electrical work separate for clarity",
	},
	model.CategoryPlumbing: {
		TargetRatio: 3.5,
		MaxPerItem:  4,
		Strategy:    "moderate",
		Reason:      "Group by system (supply/drain), but keep major fixtures/repairs separate",
	},
	model.CategoryHVAC: {
		TargetRatio: 3.0,
		MaxPerItem:  3,
		Strategy:    "moderate",
		Reason:      "Group by system (heating/cooling), but keep major repairs and replacements separate",
	},
	model.CategoryFoundation: {
		TargetRatio: 2.0,
		MaxPerItem:  3,
		Strategy:    "conservative",
		Reason:      "Each foundation issue often needs separate engineering assessment, minimal bundling",
	},
	model.CategoryWindowsDoors: {
		TargetRatio: 3.0,
		MaxPerItem:  4,
		Strategy:    "moderate",
		Reason:      "Group by type (windows vs doors) and location, but keep large jobs itemized",
	},
	model.CategoryAttic: {
		TargetRatio: 4.0,
		MaxPerItem:  5,
		Strategy:    "moderate",
		Reason:      "Single access point, insulation and ventilation work naturally bundles",
	},
	model.CategoryMisc: {
		TargetRatio: 3.0,
		MaxPerItem:  4,
		Strategy:    "moderate",
		Reason:      "General repairs - moderate bundling by similarity",
	},
}

// RuleFor returns the consolidation rule for a category. Unknown
// categories use the MISCELLANEOUS row.
func RuleFor(category string) Rule {
	if rule, ok := categoryRules[category]; ok {
		return rule
	}
	return categoryRules[model.CategoryMisc]
}

var disclaimerTemplates = map[string]string{
	model.CategoryPlumbing:     "Texas state average pricing. Local codes and materials may affect final cost.",
	model.CategoryElectrical:   "Based on Texas electrical code requirements and state average labor rates.",
	model.CategoryHVAC:         "Texas climate zone pricing. Actual cost depends on system specifications.",
	model.CategoryRoof:         "Texas weather considerations included. Price varies by material and accessibility.",
	model.CategoryFoundation:   "Texas soil conditions vary. Final pricing after engineering evaluation.",
	model.CategoryWindowsDoors: "Texas building code compliant installation at state average rates.",
	model.CategoryAttic:        "Texas energy code requirements. Pricing includes state rebate eligibility.",
	model.CategoryMisc:         "Based on current Texas state contractor rates.",
	"GENERAL":                  "Estimate reflects Texas state market conditions as of 2024-2025.",
}

// DisclaimerFor returns the pricing disclaimer for a category.
func DisclaimerFor(category string) string {
	if d, ok := disclaimerTemplates[category]; ok {
		return d
	}
	return disclaimerTemplates["GENERAL"]
}

// BundleDiscount returns the discount percentage for a bundle of n
// items. Same category and a single mobilization justify the savings.
func BundleDiscount(n int) float64 {
	switch {
	case n >= 3:
		return 10
	case n == 2:
		return 5
	default:
		return 0
	}
}
