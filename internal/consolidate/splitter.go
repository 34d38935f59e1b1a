package consolidate

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"repcost/internal/logging"
	"repcost/internal/model"
	"repcost/internal/pricing"
)

// EnforceLimits splits any line item whose issue count exceeds its
// category cap into near-equal parts. The split preserves issue count
// exactly and distributes the price proportionally. Running it twice
// is a no-op: every emitted part is already within its cap.
func EnforceLimits(items []model.LineItem) []model.LineItem {
	var out []model.LineItem
	for _, item := range items {
		rule := RuleFor(item.Category)

		count := item.BundledIssues
		if len(item.Members) > 0 {
			count = len(item.Members)
		}
		if count <= rule.MaxPerItem {
			out = append(out, item)
			continue
		}

		logging.Warn("splitting over-consolidated item",
			zap.String("category", item.Category),
			zap.Int("issues", count),
			zap.Int("max_per_item", rule.MaxPerItem))

		out = append(out, split(item, count, rule.MaxPerItem)...)
	}
	return out
}

// split partitions one oversized item into ceil(count/max) parts.
// Items that lost their member list split arithmetically by count.
func split(item model.LineItem, count, max int) []model.LineItem {
	numSplits := int(math.Ceil(float64(count) / float64(max)))
	perSplit := int(math.Ceil(float64(count) / float64(numSplits)))

	parts := make([]model.LineItem, 0, numSplits)
	for i := 0; i < numSplits; i++ {
		start := i * perSplit
		end := start + perSplit
		if end > count {
			end = count
		}
		if start >= end {
			continue
		}
		partCount := end - start

		part := item
		part.Description = fmt.Sprintf("%s - Part %d of %d", item.Description, i+1, numSplits)
		part.Notes = fmt.Sprintf("Auto-split from over-consolidated item (%d issues > %d max)", count, max)
		part.BundledIssues = partCount
		if len(item.Members) > 0 {
			part.Members = item.Members[start:end]
		}

		share := float64(partCount) / float64(count)
		part.UnitPriceUSD = pricing.RoundTo25(item.UnitPriceUSD * share)
		part.LineTotalUSD = part.UnitPriceUSD

		parts = append(parts, part)
	}
	return parts
}
