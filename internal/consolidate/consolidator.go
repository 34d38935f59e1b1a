package consolidate

import (
	"go.uber.org/zap"

	"repcost/internal/logging"
	"repcost/internal/model"
)

// Consolidate bundles priced items into line items, category by
// category, respecting each trade's max-issues-per-item cap. Item
// order within a category is preserved, and every input item lands in
// exactly one output bundle.
func Consolidate(items []model.PricedItem) []model.LineItem {
	byCategory := groupByCategory(items)

	var out []model.LineItem
	for _, group := range byCategory {
		rule := RuleFor(group.category)
		logging.Debug("consolidating category",
			zap.String("category", group.category),
			zap.Int("items", len(group.items)),
			zap.Int("max_per_item", rule.MaxPerItem))

		if len(group.items) == 1 {
			out = append(out, buildLineItem(group.items, group.category))
			continue
		}

		var bundle []model.PricedItem
		count := 0
		for _, item := range group.items {
			n := item.BundledIssues
			if n <= 0 {
				n = 1
			}
			if count+n > rule.MaxPerItem && len(bundle) > 0 {
				out = append(out, buildLineItem(bundle, group.category))
				bundle = []model.PricedItem{item}
				count = n
				continue
			}
			bundle = append(bundle, item)
			count += n
		}
		if len(bundle) > 0 {
			out = append(out, buildLineItem(bundle, group.category))
		}
	}

	logging.Info("consolidation complete",
		zap.Int("priced_items", len(items)),
		zap.Int("line_items", len(out)))
	return out
}

// Itemize converts priced items to line items one-for-one, used when
// consolidation is disabled. No bundle discount applies.
func Itemize(items []model.PricedItem) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = model.CategoryMisc
		}
		out = append(out, buildLineItem([]model.PricedItem{item}, cat))
	}
	return out
}

type categoryGroup struct {
	category string
	items    []model.PricedItem
}

// groupByCategory partitions items by category, keeping both the
// first-seen category order and the item order within each category.
func groupByCategory(items []model.PricedItem) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = model.CategoryMisc
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, categoryGroup{category: cat})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}
