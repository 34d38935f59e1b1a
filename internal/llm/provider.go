package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"repcost/internal/model"
)

// Provider is the external pricing oracle. Each call prices exactly one
// issue; the adapter never batches issues into a single prompt.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// PriceIssue asks the oracle to price a single issue and returns the
	// raw response text for decoding.
	PriceIssue(ctx context.Context, req PriceRequest) (*PriceResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible.
	IsAvailable(ctx context.Context) bool
}

// PriceRequest is the input for one oracle pricing call.
type PriceRequest struct {
	// Issue is the single inspection finding to price.
	Issue model.Issue

	// Guide carries the category's severity price anchors, embedded into
	// the prompt so the oracle stays near the price book.
	Guide PriceGuide

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// PriceGuide holds the severity price anchors for one trade category.
type PriceGuide struct {
	Minor    float64
	Moderate float64
	Major    float64
	Critical float64
}

// PriceResponse is the oracle's raw output for one issue.
type PriceResponse struct {
	// Raw is the response text, expected to contain one JSON price record.
	Raw string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds oracle provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for the provider.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1024,
	}
}

// ConfigFromModel converts model.OracleConfig to llm.Config.
func ConfigFromModel(cfg model.OracleConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

const systemPrompt = "You are a licensed residential contractor pricing individual repair items at current market rates. You respond with a single JSON object and nothing else."

// BuildPrompt constructs the default single-issue pricing prompt.
func BuildPrompt(issue model.Issue, guide PriceGuide) string {
	issueJSON, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		issueJSON = []byte("{}")
	}

	category := issue.Category
	if category == "" {
		category = model.CategoryMisc
	}

	return fmt.Sprintf(`Price a SINGLE repair item from a home inspection.

ISSUE TO PRICE:
%s

CATEGORY: %s

PRICING GUIDELINES FOR %s:
- Minor: $%.0f-%.0f
- Moderate: $%.0f-%.0f
- Major: $%.0f-%.0f
- Critical: $%.0f-%.0f

INSTRUCTIONS:
1. Price this SINGLE issue based on labor time, materials, overhead, and complexity
2. Use the category-specific pricing guidelines above
3. DO NOT consolidate or bundle - this is ONE issue only
4. Provide a clear, specific description of the work

RETURN VALID JSON with this EXACT structure:
{
  "category": "%s",
  "description": "Specific description of this repair",
  "qty": 1,
  "unit_price_usd": 450.00,
  "line_total_usd": 450.00,
  "notes": "Brief notes about the work",
  "priority": "MEDIUM",
  "bundled_issues": 1
}

CRITICAL RULES:
1. Return ONLY valid JSON (no text before or after)
2. Use numeric values (not placeholder text)
3. Use EXACT category name: %s
4. This is ONE issue - bundled_issues must be 1`,
		string(issueJSON), category, category,
		guide.Minor, guide.Minor*3,
		guide.Moderate, guide.Moderate*3,
		guide.Major, guide.Major*3,
		guide.Critical, guide.Critical*3,
		category, category)
}
