// Package pricing turns classified inspection issues into priced line
// items, either through an AI oracle or the severity matrix fallback.
package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"repcost/internal/model"
)

// PriceGuide holds the four severity price points for one trade category.
type PriceGuide struct {
	Minor    float64
	Moderate float64
	Major    float64
	Critical float64
}

// priceMatrix maps trade categories to severity-based base prices.
// These anchor both the fallback path and the guideline ranges handed
// to the oracle.
var priceMatrix = map[string]PriceGuide{
	model.CategoryPlumbing:     {Minor: 150, Moderate: 400, Major: 800, Critical: 1500},
	model.CategoryElectrical:   {Minor: 200, Moderate: 500, Major: 1200, Critical: 2500},
	model.CategoryHVAC:         {Minor: 150, Moderate: 600, Major: 1500, Critical: 3500},
	model.CategoryRoof:         {Minor: 300, Moderate: 800, Major: 2500, Critical: 8000},
	model.CategoryFoundation:   {Minor: 400, Moderate: 1200, Major: 3500, Critical: 8000},
	model.CategoryWindowsDoors: {Minor: 150, Moderate: 400, Major: 1000, Critical: 2500},
	model.CategoryAttic:        {Minor: 200, Moderate: 500, Major: 1200, Critical: 2500},
	model.CategoryMisc:         {Minor: 200, Moderate: 500, Major: 1200, Critical: 2500},
}

// GuideFor returns the price guide for a category. Unknown categories
// use the MISCELLANEOUS row.
func GuideFor(category string) PriceGuide {
	if guide, ok := priceMatrix[category]; ok {
		return guide
	}
	return priceMatrix[model.CategoryMisc]
}

// BasePrice returns the matrix price for a category and severity.
// Unknown severities map to moderate.
func BasePrice(category, severity string) float64 {
	guide := GuideFor(category)
	switch severity {
	case model.SeverityMinor:
		return guide.Minor
	case model.SeverityModerate:
		return guide.Moderate
	case model.SeverityMajor:
		return guide.Major
	case model.SeverityCritical:
		return guide.Critical
	default:
		return guide.Moderate
	}
}

// Jitter produces a multiplicative variation factor for fallback prices.
// Injectable so tests can pin the output.
type Jitter func() float64

// UniformJitter returns factors drawn uniformly from [0.9, 1.1].
func UniformJitter(rng *rand.Rand) Jitter {
	return func() float64 {
		return 0.9 + rng.Float64()*0.2
	}
}

// FallbackPrice prices an issue from the severity matrix with a small
// variation so identical severities do not produce suspiciously uniform
// estimates. The result lands on a $25 boundary.
func FallbackPrice(issue model.Issue, jitter Jitter) float64 {
	base := BasePrice(issue.Category, issue.Severity)
	if jitter != nil {
		base *= jitter()
	}
	return RoundTo25(base)
}

// RoundTo25 rounds a price half-up to the nearest $25. 630 rounds down
// to 625; 637.50 rounds up to 650.
func RoundTo25(v float64) float64 {
	d := decimal.NewFromFloat(v)
	step := decimal.NewFromInt(25)
	rounded := d.Div(step).Round(0).Mul(step)
	f, _ := rounded.Float64()
	return f
}
