// Package assemble builds the final estimate document from consolidated
// line items: category normalization, disclaimers, deterministic item
// ordering, totals, and run metadata.
package assemble

import (
	"sort"
	"time"

	"repcost/internal/classify"
	"repcost/internal/consolidate"
	"repcost/internal/model"
)

// Presentation order for estimate items: structural trades first,
// miscellaneous last.
var displayOrder = []string{
	model.CategoryFoundation,
	model.CategoryRoof,
	model.CategoryPlumbing,
	model.CategoryElectrical,
	model.CategoryHVAC,
	model.CategoryWindowsDoors,
	model.CategoryAttic,
	model.CategoryMisc,
}

// Input carries everything the assembler needs beyond the items.
type Input struct {
	Findings    model.Findings
	Items       []model.LineItem
	Region      string
	State       string
	Fingerprint string
	Checks      *model.ConsolidationReport
	Quality     model.QualityScore
	Now         func() time.Time
}

// Build assembles the final estimate. Item categories are
// re-normalized and disclaimers backfilled before ordering, so the
// output is stable regardless of what upstream phases produced.
func Build(in Input) model.Estimate {
	now := in.Now
	if now == nil {
		now = time.Now
	}

	items := make([]model.LineItem, len(in.Items))
	copy(items, in.Items)

	for i := range items {
		items[i].Category = classify.NormalizeCategory(
			items[i].Category, items[i].Description, items[i].Notes)
		if items[i].Disclaimer == "" {
			items[i].Disclaimer = consolidate.DisclaimerFor(items[i].Category)
		}
	}

	sortItems(items)

	return model.Estimate{
		Meta: model.EstimateMeta{
			CreatedOn:      now().UTC(),
			Region:         in.Region,
			State:          in.State,
			InspectionDate: in.Findings.Metadata.Date,
			Fingerprint:    in.Fingerprint,
			QualityChecks:  in.Checks,
		},
		Property:       in.Findings.Metadata,
		Items:          items,
		CategoryTotals: categoryTotals(items),
		Summary:        summarize(items),
		Quality:        in.Quality,
	}
}

// sortItems orders by display category rank, then description, so the
// same inputs always render the same document.
func sortItems(items []model.LineItem) {
	rank := make(map[string]int, len(displayOrder))
	for i, cat := range displayOrder {
		rank[cat] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, ok := rank[items[i].Category]
		if !ok {
			ri = len(displayOrder)
		}
		rj, ok := rank[items[j].Category]
		if !ok {
			rj = len(displayOrder)
		}
		if ri != rj {
			return ri < rj
		}
		return items[i].Description < items[j].Description
	})
}

func categoryTotals(items []model.LineItem) []model.CategoryTotal {
	byCat := make(map[string]float64)
	for _, item := range items {
		byCat[item.Category] += item.LineTotalUSD
	}

	totals := make([]model.CategoryTotal, 0, len(byCat))
	for cat, total := range byCat {
		totals = append(totals, model.CategoryTotal{Category: cat, TotalUSD: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Category < totals[j].Category
	})
	return totals
}

func summarize(items []model.LineItem) model.Summary {
	total := 0.0
	for _, item := range items {
		total += item.LineTotalUSD
	}
	return model.Summary{TotalUSD: total, ItemsCount: len(items)}
}
