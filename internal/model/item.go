package model

// PricedItem is the phase-1 result of pricing exactly one issue.
// It always covers a single issue (BundledIssues == 1) and keeps a
// back-reference to its source for later description synthesis.
type PricedItem struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Qty           int     `json:"qty"`
	UnitPriceUSD  float64 `json:"unit_price_usd"`
	LineTotalUSD  float64 `json:"line_total_usd"`
	Notes         string  `json:"notes,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	BundledIssues int     `json:"bundled_issues"`
	Fallback      bool    `json:"fallback,omitempty"`
	Source        *Issue  `json:"original_issue,omitempty"`
}

// LineItem is one or more priced issues consolidated into a single
// estimate row. Members retains the original priced items for audit.
type LineItem struct {
	Category              string       `json:"category"`
	Description           string       `json:"description"`
	Qty                   int          `json:"qty"`
	UnitPriceUSD          float64      `json:"unit_price_usd"`
	LineTotalUSD          float64      `json:"line_total_usd"`
	Notes                 string       `json:"notes,omitempty"`
	Disclaimer            string       `json:"disclaimer,omitempty"`
	Priority              string       `json:"priority,omitempty"`
	BundledIssues         int          `json:"bundled_issues"`
	DiscountApplied       float64      `json:"discount_applied"`
	DiscountJustification string       `json:"discount_justification,omitempty"`
	Members               []PricedItem `json:"original_items,omitempty"`
}
