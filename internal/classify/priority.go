package classify

import (
	"strings"

	"repcost/internal/model"
)

// priorityRule maps a keyword set to a priority. Rules are evaluated
// in order and the first hit wins, so safety keywords always take
// precedence over maintenance keywords.
type priorityRule struct {
	priority string
	reason   string
	keywords []string
}

var priorityRules = []priorityRule{
	{
		priority: model.PriorityHigh,
		reason:   "Safety/structural hazard detected",
		keywords: []string{
			// Electrical hazards
			"exposed wiring", "live wire", "electrical fire", "shock hazard",
			"short circuit", "electrical hazard", "damaged wire", "bare wire",
			"overloaded", "arcing", "sparking",
			// Water damage
			"active leak", "water damage", "mold", "moisture intrusion", "wet",
			"water intrusion", "flooding", "water pooling", "ice dam",
			"moisture problem",
			// Structural
			"foundation crack", "wall damage", "floor settling", "compromised",
			"structural damage", "foundation problem", "crack", "subsidence",
			"bowing", "leaning", "separation",
			// Gas and air safety
			"gas leak", "carbon monoxide", "unsafe appliance", "gas odor",
			"ventilation problem", "blocked vent", "dangerous",
		},
	},
	{
		priority: model.PriorityLow,
		reason:   "Routine maintenance, not urgent",
		keywords: []string{
			"worn knob", "worn handle", "worn hinge", "worn finish",
			"dirty filter", "low refrigerant", "low battery", "paint",
			"staining", "discoloration", "worn", "adjustment", "tightening",
			"caulking", "weatherstrip", "minor", "routine", "maintenance",
			"preventive", "replace filter", "inspection only",
		},
	},
}

// ClassifyPriority assigns a repair priority from the issue text,
// overwriting whatever priority arrived upstream. Oracles and
// inspectors both drift; the keyword tables keep priorities uniform
// across an estimate.
func ClassifyPriority(issue *model.Issue) {
	text := strings.ToLower(issue.Title + " " + issue.Description)

	for _, rule := range priorityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				issue.Priority = rule.priority
				issue.PriorityReason = rule.reason
				return
			}
		}
	}
	issue.Priority = model.PriorityMedium
	issue.PriorityReason = "Standard repair needed"
}

// ClassifyItemPriority reclassifies a priced item from its description
// and notes, used when the original issue text is unavailable.
func ClassifyItemPriority(description, notes string) (priority, reason string) {
	text := strings.ToLower(description + " " + notes)

	for _, rule := range priorityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.priority, rule.reason
			}
		}
	}
	return model.PriorityMedium, "Standard repair needed"
}
