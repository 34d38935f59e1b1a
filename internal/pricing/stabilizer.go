package pricing

// Price stabilization keeps line items inside realistic repair bands
// and applies a regional labor multiplier. It runs after consolidation
// so bundle totals are what get clamped.

// tier is a price band. An item is assigned the band its own price
// falls into, then clamped to that band's edges.
type tier struct {
	ceiling float64
	min     float64
	max     float64
}

var tiers = []tier{
	{ceiling: 300, min: 75, max: 300},
	{ceiling: 1000, min: 300, max: 1000},
	{ceiling: 2500, min: 1000, max: 2500},
}

// catchAll covers everything above the last ceiling.
var catchAll = tier{min: 2500, max: 5000}

// regionMultipliers adjust for local labor markets. Unknown regions
// use the Default row.
var regionMultipliers = map[string]float64{
	"Dallas-Fort Worth": 1.05,
	"Austin":            1.10,
	"Houston":           1.00,
	"San Antonio":       0.95,
	"El Paso":           0.90,
	"Corpus Christi":    0.92,
	"Lubbock":           0.88,
	"Amarillo":          0.87,
	"Rural Texas":       0.85,
	"Default":           1.00,
}

// RegionMultiplier returns the labor multiplier for a region.
func RegionMultiplier(region string) float64 {
	if m, ok := regionMultipliers[region]; ok {
		return m
	}
	return regionMultipliers["Default"]
}

// Stabilize clamps a price into its tier band, then applies the
// regional multiplier. Both steps land on a $25 boundary.
func Stabilize(price float64, region string) float64 {
	band := catchAll
	for _, t := range tiers {
		if price <= t.ceiling {
			band = t
			break
		}
	}

	if price < band.min {
		price = band.min
	}
	if price > band.max {
		price = band.max
	}
	price = RoundTo25(price)

	price *= RegionMultiplier(region)
	return RoundTo25(price)
}
