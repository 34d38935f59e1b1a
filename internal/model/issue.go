package model

// Severity levels recognized by the price table.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Priority levels assigned by the priority classifier.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// Trade categories used for pricing and consolidation.
const (
	CategoryPlumbing     = "PLUMBING"
	CategoryElectrical   = "ELECTRICAL"
	CategoryHVAC         = "HVAC"
	CategoryRoof         = "ROOF"
	CategoryFoundation   = "FOUNDATION"
	CategoryWindowsDoors = "WINDOWS/DOORS"
	CategoryAttic        = "ATTIC"
	CategoryMisc         = "MISCELLANEOUS"
)

// Categories lists the eight canonical trade categories in pricing order.
var Categories = []string{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryHVAC,
	CategoryRoof,
	CategoryFoundation,
	CategoryWindowsDoors,
	CategoryAttic,
	CategoryMisc,
}

// Issue represents a single inspection finding to be priced.
// Priority is overwritten by the priority classifier before pricing;
// all other fields are read-only once extracted.
type Issue struct {
	Section        string `json:"section,omitempty"`
	Component      string `json:"component,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	Category       string `json:"category,omitempty"`
	Priority       string `json:"priority,omitempty"`
	PriorityReason string `json:"priority_reason,omitempty"`
	Location       string `json:"location,omitempty"`
	PageRefs       []int  `json:"page_refs,omitempty"`
}

// Findings is the input document produced by the extraction step.
type Findings struct {
	Metadata PropertyMeta `json:"metadata"`
	Issues   []Issue      `json:"issues"`
}

// PropertyMeta carries property identification fields from the inspection report.
type PropertyMeta struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Date    string `json:"date,omitempty"`
}
