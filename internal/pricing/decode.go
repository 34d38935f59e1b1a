package pricing

import (
	"encoding/json"
	"fmt"
	"strings"

	"repcost/internal/model"
)

// oracleRecord is the wire shape the oracle is asked to produce for a
// single issue.
type oracleRecord struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Qty           int     `json:"qty"`
	UnitPriceUSD  float64 `json:"unit_price_usd"`
	LineTotalUSD  float64 `json:"line_total_usd"`
	Notes         string  `json:"notes"`
	Priority      string  `json:"priority"`
	BundledIssues int     `json:"bundled_issues"`
}

// DecodeResponse parses a raw oracle reply into a priced item. Oracles
// wrap JSON in markdown fences or chatter more often than they should,
// so the decoder locates the first JSON object before unmarshaling.
// Any parse failure is returned to the caller, which falls back to
// matrix pricing for that issue.
func DecodeResponse(raw string) (model.PricedItem, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return model.PricedItem{}, fmt.Errorf("no JSON object in oracle response")
	}

	var rec oracleRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.PricedItem{}, fmt.Errorf("decoding oracle response: %w", err)
	}

	if rec.Category == "" {
		rec.Category = model.CategoryMisc
	}
	if rec.Priority == "" {
		rec.Priority = model.PriorityMedium
	}
	if rec.Qty <= 0 {
		rec.Qty = 1
	}
	if rec.BundledIssues <= 0 {
		rec.BundledIssues = 1
	}
	if rec.LineTotalUSD == 0 {
		rec.LineTotalUSD = rec.UnitPriceUSD
	}
	if rec.UnitPriceUSD <= 0 {
		return model.PricedItem{}, fmt.Errorf("oracle returned non-positive price %.2f", rec.UnitPriceUSD)
	}

	return model.PricedItem{
		Category:      rec.Category,
		Description:   rec.Description,
		Qty:           rec.Qty,
		UnitPriceUSD:  rec.UnitPriceUSD,
		LineTotalUSD:  rec.LineTotalUSD,
		Notes:         rec.Notes,
		Priority:      rec.Priority,
		BundledIssues: rec.BundledIssues,
	}, nil
}

// extractJSON strips markdown fences and surrounding prose, returning
// the outermost JSON object in the text.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
