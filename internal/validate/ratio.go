// Package validate checks consolidation ratios against per-trade
// targets. The checks are diagnostic: they annotate the estimate but
// never block or mutate it.
package validate

import (
	"fmt"

	"go.uber.org/zap"

	"repcost/internal/consolidate"
	"repcost/internal/logging"
	"repcost/internal/model"
)

// Global consolidation band. Outside 3:1 to 5:1 the estimate is either
// too granular or hiding detail.
const (
	globalMinRatio = 3.0
	globalMaxRatio = 5.0
)

// CheckRatios compares issues-per-item ratios per category against
// each trade's target band (0.7x to 1.3x of target), plus a global
// check across the whole estimate.
func CheckRatios(issues []model.Issue, items []model.LineItem) *model.ConsolidationReport {
	issuesByCat := make(map[string]int)
	for _, issue := range issues {
		cat := issue.Category
		if cat == "" {
			cat = model.CategoryMisc
		}
		issuesByCat[cat]++
	}
	itemsByCat := make(map[string]int)
	for _, item := range items {
		itemsByCat[item.Category]++
	}

	report := &model.ConsolidationReport{
		AllAcceptable: true,
		Categories:    make(map[string]model.RatioCheck),
		TotalIssues:   len(issues),
		TotalItems:    len(items),
	}

	for cat, issueCount := range issuesByCat {
		itemCount := itemsByCat[cat]
		check := checkCategory(cat, issueCount, itemCount)
		report.Categories[cat] = check
		if !check.Acceptable {
			report.AllAcceptable = false
			logging.Warn("consolidation ratio out of band",
				zap.String("category", cat),
				zap.String("status", check.Status),
				zap.Float64("actual", check.ActualRatio),
				zap.Float64("target", check.TargetRatio))
		}
	}

	report.Global = checkGlobal(len(issues), len(items))
	if !report.Global.Acceptable {
		report.AllAcceptable = false
		logging.Warn("global consolidation ratio out of band",
			zap.String("status", report.Global.Status),
			zap.Float64("actual", report.Global.ActualRatio))
	}
	return report
}

func checkCategory(category string, issueCount, itemCount int) model.RatioCheck {
	rule := consolidate.RuleFor(category)
	minOK := rule.TargetRatio * 0.7
	maxOK := rule.TargetRatio * 1.3

	check := model.RatioCheck{
		Category:        category,
		IssueCount:      issueCount,
		ItemCount:       itemCount,
		TargetRatio:     rule.TargetRatio,
		AcceptableRange: fmt.Sprintf("%.1f-%.1f:1", minOK, maxOK),
	}
	if itemCount == 0 {
		check.Status = model.RatioUnderConsolidated
		return check
	}

	check.ActualRatio = float64(issueCount) / float64(itemCount)
	switch {
	case check.ActualRatio < minOK:
		check.Status = model.RatioUnderConsolidated
	case check.ActualRatio > maxOK:
		check.Status = model.RatioOverConsolidated
	default:
		check.Acceptable = true
		check.Status = model.RatioAcceptable
	}
	return check
}

func checkGlobal(issueCount, itemCount int) model.RatioCheck {
	check := model.RatioCheck{
		IssueCount:      issueCount,
		ItemCount:       itemCount,
		AcceptableRange: fmt.Sprintf("%.1f-%.1f:1", globalMinRatio, globalMaxRatio),
	}
	if itemCount == 0 {
		check.Status = model.RatioUnderConsolidated
		return check
	}

	check.ActualRatio = float64(issueCount) / float64(itemCount)
	switch {
	case check.ActualRatio < globalMinRatio:
		check.Status = model.RatioUnderConsolidated
	case check.ActualRatio > globalMaxRatio:
		check.Status = model.RatioOverConsolidated
	default:
		check.Acceptable = true
		check.Status = model.RatioAcceptable
	}
	return check
}
