// Package score computes the weighted five-factor quality assessment
// of a finished estimate.
package score

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"repcost/internal/logging"
	"repcost/internal/model"
	"repcost/internal/validate"
)

// Factor weights, sum to 1.0.
const (
	weightConsolidation = 0.30
	weightPrice         = 0.25
	weightPriority      = 0.20
	weightCompleteness  = 0.15
	weightCategory      = 0.10
)

// Grade thresholds.
const (
	thresholdExcellent  = 90
	thresholdGood       = 80
	thresholdAcceptable = 70
	thresholdReview     = 60
)

// Expected priority split for typical inspection findings.
var expectedPriorities = map[string]float64{
	model.PriorityHigh:   0.35,
	model.PriorityMedium: 0.45,
	model.PriorityLow:    0.20,
}

// Assess scores an estimate across five weighted factors and flags it
// for review when the overall score falls below the acceptable grade.
// The score is diagnostic; a low grade never fails the run.
func Assess(issues []model.Issue, items []model.LineItem, checks *model.ConsolidationReport) model.QualityScore {
	if checks == nil {
		checks = validate.CheckRatios(issues, items)
	}

	breakdown := map[string]model.FactorScore{
		"consolidation":         consolidationQuality(checks),
		"price_consistency":     priceConsistency(items),
		"priority_distribution": priorityDistribution(issues),
		"data_completeness":     dataCompleteness(items),
		"category_distribution": categoryDistribution(items),
	}

	overall := 0.0
	for _, f := range breakdown {
		overall += f.WeightedScore
	}
	overall = round1(overall)

	quality := model.QualityScore{
		OverallScore: overall,
		Grade:        gradeFor(overall),
		NeedsReview:  overall < thresholdAcceptable,
		Breakdown:    breakdown,
	}

	if quality.NeedsReview {
		logWorstFactors(breakdown, overall)
	}
	return quality
}

func gradeFor(score float64) string {
	switch {
	case score >= thresholdExcellent:
		return model.GradeExcellent
	case score >= thresholdGood:
		return model.GradeGood
	case score >= thresholdAcceptable:
		return model.GradeAcceptable
	case score >= thresholdReview:
		return model.GradeNeedsReview
	default:
		return model.GradePoor
	}
}

// consolidationQuality scores 100 when every category ratio sits
// inside its band, otherwise the fraction of acceptable categories.
func consolidationQuality(checks *model.ConsolidationReport) model.FactorScore {
	score := 100.0
	if !checks.AllAcceptable {
		acceptable := 0
		for _, c := range checks.Categories {
			if c.Acceptable {
				acceptable++
			}
		}
		if len(checks.Categories) > 0 {
			score = float64(acceptable) / float64(len(checks.Categories)) * 100
		} else {
			score = 50
		}
	}
	return factor(score, weightConsolidation, map[string]interface{}{
		"all_acceptable": checks.AllAcceptable,
		"total_issues":   checks.TotalIssues,
		"total_items":    checks.TotalItems,
	})
}

// priceConsistency flags items whose price-per-issue is more than 3x
// or less than 0.3x the median, scoring down linearly so that 50%
// outliers reaches zero.
func priceConsistency(items []model.LineItem) model.FactorScore {
	if len(items) == 0 {
		return factor(0, weightPrice, nil)
	}

	var perIssue []float64
	for _, item := range items {
		n := item.BundledIssues
		if n <= 0 {
			n = 1
		}
		perIssue = append(perIssue, item.UnitPriceUSD/float64(n))
	}

	sorted := append([]float64(nil), perIssue...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]

	outliers := 0
	for _, p := range perIssue {
		if p > median*3 || (median > 0 && p < median*0.3) {
			outliers++
		}
	}
	outlierRatio := float64(outliers) / float64(len(perIssue))
	score := math.Max(0, 100-outlierRatio*200)

	return factor(score, weightPrice, map[string]interface{}{
		"median_price_per_issue": round2(median),
		"outlier_count":          outliers,
		"total_items":            len(items),
	})
}

// priorityDistribution compares the HIGH/MEDIUM/LOW split against
// typical inspection findings (35/45/20).
func priorityDistribution(issues []model.Issue) model.FactorScore {
	if len(issues) == 0 {
		return factor(0, weightPriority, nil)
	}

	counts := map[string]int{
		model.PriorityHigh:   0,
		model.PriorityMedium: 0,
		model.PriorityLow:    0,
	}
	for _, issue := range issues {
		p := strings.ToUpper(strings.TrimSpace(issue.Priority))
		if _, ok := counts[p]; !ok {
			p = model.PriorityMedium
		}
		counts[p]++
	}

	total := float64(len(issues))
	deviation := 0.0
	actual := make(map[string]interface{}, len(counts))
	for p, expected := range expectedPriorities {
		share := float64(counts[p]) / total
		deviation += math.Abs(share - expected)
		actual[p] = round1(share * 100)
	}
	score := math.Max(0, 100-deviation*125)

	return factor(score, weightPriority, map[string]interface{}{
		"actual_distribution": actual,
		"priority_counts":     counts,
	})
}

// dataCompleteness is the fraction of items with category,
// description, price, and notes all populated.
func dataCompleteness(items []model.LineItem) model.FactorScore {
	if len(items) == 0 {
		return factor(0, weightCompleteness, nil)
	}

	complete := 0
	for _, item := range items {
		if strings.TrimSpace(item.Category) != "" &&
			strings.TrimSpace(item.Description) != "" &&
			item.UnitPriceUSD > 0 &&
			strings.TrimSpace(item.Notes) != "" {
			complete++
		}
	}
	score := float64(complete) / float64(len(items)) * 100

	return factor(score, weightCompleteness, map[string]interface{}{
		"complete_items": complete,
		"total_items":    len(items),
	})
}

// categoryDistribution penalizes a single category holding more than
// 60% of the items, which usually means categorization broke down.
func categoryDistribution(items []model.LineItem) model.FactorScore {
	if len(items) == 0 {
		return factor(0, weightCategory, nil)
	}

	counts := make(map[string]int)
	for _, item := range items {
		cat := strings.ToUpper(strings.TrimSpace(item.Category))
		if cat == "" {
			cat = model.CategoryMisc
		}
		counts[cat]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	maxRatio := float64(maxCount) / float64(len(items))

	score := 100.0
	if maxRatio > 0.60 {
		score = math.Max(0, 100-(maxRatio-0.60)*250)
	}

	return factor(score, weightCategory, map[string]interface{}{
		"category_counts":    counts,
		"max_category_ratio": round1(maxRatio * 100),
	})
}

func factor(score, weight float64, details map[string]interface{}) model.FactorScore {
	score = round1(score)
	return model.FactorScore{
		Score:         score,
		Weight:        weight,
		WeightedScore: round2(score * weight),
		Details:       details,
	}
}

// logWorstFactors names the three lowest sub-scores so a low grade is
// actionable from the logs alone.
func logWorstFactors(breakdown map[string]model.FactorScore, overall float64) {
	type named struct {
		name  string
		score float64
	}
	all := make([]named, 0, len(breakdown))
	for name, f := range breakdown {
		all = append(all, named{name, f.Score})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })
	if len(all) > 3 {
		all = all[:3]
	}

	fields := []zap.Field{zap.Float64("overall_score", overall)}
	for _, n := range all {
		fields = append(fields, zap.Float64(n.name, n.score))
	}
	logging.Warn("estimate quality needs review", fields...)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
