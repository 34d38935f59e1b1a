package consolidate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"repcost/internal/model"
	"repcost/internal/pricing"
)

// buildLineItem turns a bundle of priced items into one estimate row:
// summed price with the bundle discount, a synthesized description,
// numbered notes, and the most severe member priority.
func buildLineItem(members []model.PricedItem, category string) model.LineItem {
	total := 0.0
	for _, m := range members {
		total += m.UnitPriceUSD
	}

	discount := BundleDiscount(len(members))
	price := pricing.RoundTo25(total * (1 - discount/100))

	justification := "No discount"
	if discount > 0 {
		justification = fmt.Sprintf("Same category, %d items bundled for efficiency", len(members))
	}

	return model.LineItem{
		Category:              category,
		Description:           synthesizeDescription(members, category),
		Qty:                   1,
		UnitPriceUSD:          price,
		LineTotalUSD:          price,
		Notes:                 detailedNotes(members),
		Disclaimer:            DisclaimerFor(category),
		Priority:              bundlePriority(members),
		BundledIssues:         len(members),
		DiscountApplied:       discount,
		DiscountJustification: justification,
		Members:               members,
	}
}

// synthesizeDescription names a bundle after the themes of its member
// issues rather than an opaque "Package 2" label. A theme is the part
// of a title before its first colon, or the first three words.
func synthesizeDescription(members []model.PricedItem, category string) string {
	if len(members) == 1 {
		m := members[0]
		if m.Source != nil && m.Source.Title != "" {
			return m.Source.Title
		}
		if m.Description != "" {
			return m.Description
		}
		return titleCase(category) + " Repairs"
	}

	var themes []string
	seen := make(map[string]bool)
	for _, m := range members {
		title := m.Description
		if m.Source != nil && m.Source.Title != "" {
			title = m.Source.Title
		}
		if title == "" {
			continue
		}

		var key string
		if idx := strings.Index(title, ":"); idx >= 0 {
			key = strings.TrimSpace(title[:idx])
		} else {
			words := strings.Fields(title)
			if len(words) > 3 {
				words = words[:3]
			}
			key = strings.Join(words, " ")
		}

		normalized := strings.ToLower(key)
		if len(key) > 3 && !seen[normalized] {
			themes = append(themes, key)
			seen[normalized] = true
		}
		if len(themes) >= 3 {
			break
		}
	}

	switch len(themes) {
	case 0:
		return titleCase(category) + " Repairs"
	case 1:
		return themes[0] + " Repairs"
	case 2:
		return themes[0] + " and " + themes[1] + " Repairs"
	default:
		return strings.Join(themes[:len(themes)-1], ", ") + ", and " + themes[len(themes)-1] + " Repairs"
	}
}

// detailedNotes lists every member repair so a bundled row stays
// auditable. Singletons reuse their issue title or description.
func detailedNotes(members []model.PricedItem) string {
	if len(members) == 1 {
		m := members[0]
		if m.Source != nil {
			if m.Source.Title != "" && m.Source.Title != m.Source.Description {
				return m.Source.Title
			}
			if m.Source.Description != "" {
				return m.Source.Description
			}
		}
		if m.Description != "" {
			return m.Description
		}
		return m.Notes
	}

	var details []string
	for i, m := range members {
		text := ""
		if m.Source != nil {
			if m.Source.Title != "" {
				text = m.Source.Title
				loc := m.Source.Location
				if loc != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(loc)) {
					text = fmt.Sprintf("%s (%s)", text, loc)
				}
			} else if m.Source.Description != "" {
				text = m.Source.Description
			}
		}
		if text == "" {
			text = m.Description
		}
		if text == "" {
			text = m.Notes
		}

		text = strings.TrimSpace(text)
		if idx := strings.Index(text, "Recommendation:"); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if len(text) > 200 {
			text = text[:197] + "..."
		}
		if text != "" {
			details = append(details, fmt.Sprintf("%d. %s", i+1, text))
		}
	}

	if len(details) == 0 {
		return fmt.Sprintf("Includes %d related repairs", len(members))
	}
	return strings.Join(details, "\n")
}

// priorityRank orders priorities from most to least severe.
var priorityRank = map[string]int{
	model.PriorityCritical: 0,
	model.PriorityHigh:     1,
	model.PriorityMedium:   2,
	model.PriorityLow:      3,
}

// bundlePriority returns the most severe priority among the members.
func bundlePriority(members []model.PricedItem) string {
	best := model.PriorityMedium
	bestRank := len(priorityRank)
	for _, m := range members {
		p := m.Priority
		rank, ok := priorityRank[p]
		if !ok {
			p = model.PriorityMedium
			rank = priorityRank[p]
		}
		if rank < bestRank {
			best = p
			bestRank = rank
		}
	}
	return best
}

var titleCaser = cases.Title(language.AmericanEnglish)

func titleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}
