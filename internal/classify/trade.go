// Package classify assigns trade categories and repair priorities to
// inspection issues using ordered keyword rule tables.
package classify

import (
	"strings"

	"repcost/internal/model"
)

// tradeRule scores one category. Primary hits count 3, secondary hits
// count 1, exclusion hits count -5; a category never scores below zero.
type tradeRule struct {
	category  string
	primary   []string
	secondary []string
	exclude   []string
}

// tradeRules is evaluated in order; ties go to the earlier row.
var tradeRules = []tradeRule{
	{
		category: model.CategoryPlumbing,
		primary: []string{
			"plumb", "water heater", "toilet", "sink", "faucet", "shower", "tub",
			"drain", "pipe", "p-trap", "ptrap", "angle stop", "shut-off valve",
			"gas line", "gas connector", "sediment trap", "drip leg", "tpr valve",
			"temperature pressure relief", "water supply", "sewer", "hydro",
		},
		secondary: []string{
			"leak", "drip", "flow", "pressure", "galvanized", "copper pipe",
			"pvc", "cpvc", "pex",
		},
		exclude: []string{"electrical"},
	},
	{
		category: model.CategoryElectrical,
		primary: []string{
			"electrical", "electric", "wire", "wiring", "circuit", "breaker",
			"panel", "outlet", "receptacle", "gfci", "afci", "ground", "neutral",
			"voltage", "amp", "ampere", "switch", "dimmer", "junction box",
		},
		secondary: []string{
			"smoke detector", "carbon monoxide", "co detector", "doorbell",
			"chime", "transformer",
		},
		exclude: []string{"gas", "water"},
	},
	{
		category: model.CategoryHVAC,
		primary: []string{
			"hvac", "heating", "cooling", "air condition", "ac unit", "furnace",
			"heat pump", "condenser", "evaporator", "coil", "refrigerant",
			"thermostat", "ductwork", "duct", "vent", "register", "return air",
		},
		secondary: []string{
			"filter", "condensate", "blower", "fan", "compressor",
		},
		exclude: []string{"water heater", "dryer vent", "range hood"},
	},
	{
		category: model.CategoryRoof,
		primary: []string{
			"roof", "shingle", "tile", "flashing", "decking", "underlayment",
			"ridge", "valley", "eave", "fascia", "soffit", "gutter", "downspout",
		},
		secondary: []string{
			"chimney", "skylight", "turbine", "ridge vent", "boot", "cricket",
		},
		exclude: []string{"attic"},
	},
	{
		category: model.CategoryFoundation,
		primary: []string{
			"foundation", "slab", "pier", "beam", "footing", "concrete crack",
			"settlement", "movement", "deflection", "honeycomb", "spalling",
		},
		secondary: []string{
			"grading", "drainage", "slope", "swale", "french drain", "moisture",
			"water intrusion", "brick ledge",
		},
	},
	{
		category: model.CategoryWindowsDoors,
		primary: []string{
			"window", "door", "sliding", "french door", "patio door", "entry",
			"screen", "glass", "glazing", "weather strip", "threshold", "jamb",
		},
		secondary: []string{
			"hardware", "lock", "deadbolt", "handle", "hinge", "closer",
			"door stop", "strike plate", "sill",
		},
		exclude: []string{"garage door opener"},
	},
	{
		category: model.CategoryAttic,
		primary: []string{
			"attic", "insulation", "r-value", "blown-in", "batt", "radiant barrier",
			"attic ladder", "pull-down stair", "attic access", "purlin",
		},
		secondary: []string{
			"ventilation", "soffit vent", "ridge vent", "gable vent",
		},
		exclude: []string{"roof"},
	},
	{
		category: model.CategoryMisc,
		primary: []string{
			"appliance", "dishwasher", "disposal", "garbage disposal", "range",
			"oven", "cooktop", "microwave", "refrigerator", "garage door",
		},
		secondary: []string{
			"deck", "patio", "fence", "driveway", "sidewalk", "landscaping",
		},
	},
}

// sectionFallbacks map inspection section names to a category when no
// keyword scores. Checked in order.
var sectionFallbacks = []struct {
	substrings []string
	category   string
}{
	{[]string{"plumb", "water"}, model.CategoryPlumbing},
	{[]string{"electric"}, model.CategoryElectrical},
	{[]string{"hvac", "heat", "cool"}, model.CategoryHVAC},
	{[]string{"roof"}, model.CategoryRoof},
	{[]string{"foundation", "slab"}, model.CategoryFoundation},
	{[]string{"window", "door"}, model.CategoryWindowsDoors},
	{[]string{"attic"}, model.CategoryAttic},
}

// CategorizeByTrade picks the category whose keyword table scores
// highest against the combined issue text. Zero score everywhere falls
// back to the inspection section name, then MISCELLANEOUS.
func CategorizeByTrade(description, notes, section string) string {
	text := strings.ToLower(description + " " + notes + " " + section)

	best := ""
	bestScore := 0
	for _, rule := range tradeRules {
		score := 0
		for _, kw := range rule.primary {
			if strings.Contains(text, kw) {
				score += 3
			}
		}
		for _, kw := range rule.secondary {
			if strings.Contains(text, kw) {
				score++
			}
		}
		for _, kw := range rule.exclude {
			if strings.Contains(text, kw) {
				score -= 5
			}
		}
		if score > bestScore {
			best = rule.category
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best
	}

	sectionLower := strings.ToLower(section)
	for _, fb := range sectionFallbacks {
		for _, sub := range fb.substrings {
			if strings.Contains(sectionLower, sub) {
				return fb.category
			}
		}
	}
	return model.CategoryMisc
}

// CategorizeIssue assigns the issue's trade category. A valid upstream
// category is kept; anything else is derived from the issue text with
// the inspection section as the fallback hint.
func CategorizeIssue(issue *model.Issue) {
	upper := strings.ToUpper(strings.TrimSpace(issue.Category))
	for _, valid := range model.Categories {
		if upper == valid {
			issue.Category = upper
			return
		}
	}
	issue.Category = CategorizeByTrade(issue.Title+" "+issue.Description, "", issue.Section)
}

// NormalizeCategory validates a category assignment. Room-based labels
// like INTERIOR or EXTERIOR get recategorized by trade keywords, as
// does anything else unrecognized.
func NormalizeCategory(category, description, notes string) string {
	upper := strings.ToUpper(strings.TrimSpace(category))
	for _, valid := range model.Categories {
		if upper == valid {
			return upper
		}
	}
	return CategorizeByTrade(description, notes, category)
}
