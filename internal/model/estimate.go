package model

import "time"

// Quality grades in descending order of score.
const (
	GradeExcellent   = "EXCELLENT"
	GradeGood        = "GOOD"
	GradeAcceptable  = "ACCEPTABLE"
	GradeNeedsReview = "NEEDS_REVIEW"
	GradePoor        = "POOR"
)

// FactorScore is one weighted quality sub-score with transparent inputs.
type FactorScore struct {
	Score         float64                `json:"score"`
	Weight        float64                `json:"weight"`
	WeightedScore float64                `json:"weighted_score"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// QualityScore is the weighted five-factor quality assessment of an estimate.
// Computed once per run and never mutated afterward.
type QualityScore struct {
	OverallScore float64                `json:"overall_score"`
	Grade        string                 `json:"grade"`
	NeedsReview  bool                   `json:"needs_review"`
	Breakdown    map[string]FactorScore `json:"breakdown"`
}

// Consolidation ratio statuses.
const (
	RatioAcceptable        = "ACCEPTABLE"
	RatioUnderConsolidated = "UNDER_CONSOLIDATED"
	RatioOverConsolidated  = "OVER_CONSOLIDATED"
)

// RatioCheck reports the issues-per-item ratio for one category or globally.
type RatioCheck struct {
	Category        string  `json:"category,omitempty"`
	IssueCount      int     `json:"issues_count"`
	ItemCount       int     `json:"items_count"`
	ActualRatio     float64 `json:"actual_ratio"`
	TargetRatio     float64 `json:"target_ratio,omitempty"`
	AcceptableRange string  `json:"acceptable_range"`
	Acceptable      bool    `json:"is_acceptable"`
	Status          string  `json:"status"`
}

// ConsolidationReport is diagnostic metadata from the consolidation
// validator. It never blocks or mutates the estimate.
type ConsolidationReport struct {
	AllAcceptable bool                  `json:"all_acceptable"`
	Categories    map[string]RatioCheck `json:"category_validations"`
	Global        RatioCheck            `json:"global"`
	TotalIssues   int                   `json:"total_issues"`
	TotalItems    int                   `json:"total_items"`
}

// EstimateMeta carries run metadata and the diagnostic quality checks.
type EstimateMeta struct {
	CreatedOn      time.Time            `json:"created_on"`
	Region         string               `json:"region"`
	State          string               `json:"state"`
	InspectionDate string               `json:"inspection_date,omitempty"`
	Fingerprint    string               `json:"pricing_fingerprint,omitempty"`
	QualityChecks  *ConsolidationReport `json:"quality_checks,omitempty"`
}

// CategoryTotal is the summed line total for one trade category.
type CategoryTotal struct {
	Category string  `json:"category"`
	TotalUSD float64 `json:"total_usd"`
}

// Summary holds the estimate-level totals.
type Summary struct {
	TotalUSD   float64 `json:"total_usd"`
	ItemsCount int     `json:"items_count"`
}

// Estimate is the final output document. Built once, immutable.
type Estimate struct {
	Meta           EstimateMeta    `json:"estimate_meta"`
	Property       PropertyMeta    `json:"property"`
	Items          []LineItem      `json:"items"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	Summary        Summary         `json:"summary"`
	Quality        QualityScore    `json:"quality_score"`
}
