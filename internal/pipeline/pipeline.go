// Package pipeline orchestrates the complete estimate build: classify,
// price, consolidate, enforce, stabilize, validate, score, assemble.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repcost/internal/assemble"
	"repcost/internal/cache"
	"repcost/internal/classify"
	"repcost/internal/consolidate"
	"repcost/internal/llm"
	"repcost/internal/logging"
	"repcost/internal/model"
	"repcost/internal/pricing"
	"repcost/internal/score"
	"repcost/internal/validate"
	"repcost/internal/worker"
)

// Options control which phases run and the pricing context.
type Options struct {
	Region        string
	State         string
	NoConsolidate bool
	NoCache       bool
}

// Pipeline orchestrates the complete estimate process.
type Pipeline struct {
	oracle *pricing.Oracle
	opts   Options
}

// NewPipeline builds the pipeline from configuration. A missing or
// misconfigured oracle provider degrades to matrix-only pricing; it
// never aborts the run.
func NewPipeline(cfg *model.Config, opts Options) *Pipeline {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.Oracle))
	if err != nil {
		logging.Warn("oracle provider unavailable, using severity matrix pricing", zap.Error(err))
		provider = nil
	}

	var store cache.Cache
	if !cfg.Cache.Disabled && !opts.NoCache {
		store = cache.NewLayeredCache(cfg.Cache.Dir)
	}

	pool := worker.NewPool(cfg.Concurrency.PricingWorkers)
	limiter := worker.NewLimiter(cfg.Oracle.RequestsPerSecond, cfg.Oracle.Burst)

	oracle := pricing.NewOracle(provider, store, pool, limiter,
		pricing.WithModel(cfg.Oracle.Model),
		pricing.WithMaxTokens(cfg.Oracle.MaxTokens))

	if opts.Region == "" {
		opts.Region = cfg.Pricing.Region
	}
	if opts.State == "" {
		opts.State = cfg.Pricing.State
	}
	return &Pipeline{oracle: oracle, opts: opts}
}

// New creates a pipeline from an already-built oracle, used by tests
// and callers that manage their own provider and cache.
func New(oracle *pricing.Oracle, opts Options) *Pipeline {
	return &Pipeline{oracle: oracle, opts: opts}
}

// Run builds a complete estimate from inspection findings.
func (p *Pipeline) Run(ctx context.Context, findings model.Findings) (*model.Estimate, error) {
	if len(findings.Issues) == 0 {
		return nil, fmt.Errorf("no issues in findings")
	}

	// 1. Classify every issue: trade category, then priority. The
	// classifier overwrites upstream priorities so the distribution
	// stays uniform across a report.
	issues := make([]model.Issue, len(findings.Issues))
	copy(issues, findings.Issues)
	for i := range issues {
		classify.CategorizeIssue(&issues[i])
		classify.ClassifyPriority(&issues[i])
	}

	// 2. Price each issue individually.
	priced, err := p.oracle.PriceAll(ctx, issues)
	if err != nil {
		return nil, fmt.Errorf("pricing issues: %w", err)
	}
	fingerprint, err := p.oracle.Fingerprint(issues)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting issues: %w", err)
	}

	// 3. Consolidate into line items and enforce per-trade caps.
	var items []model.LineItem
	if p.opts.NoConsolidate {
		items = consolidate.Itemize(priced)
	} else {
		items = consolidate.Consolidate(priced)
	}
	items = consolidate.EnforceLimits(items)

	// 4. Stabilize prices: tier clamping plus the regional multiplier.
	for i := range items {
		stabilized := pricing.Stabilize(items[i].UnitPriceUSD, p.opts.Region)
		items[i].UnitPriceUSD = stabilized
		items[i].LineTotalUSD = stabilized
	}

	// 5. Diagnostic checks and quality score. Never fatal.
	checks := validate.CheckRatios(issues, items)
	quality := score.Assess(issues, items, checks)
	logging.Info("estimate quality",
		zap.Float64("overall_score", quality.OverallScore),
		zap.String("grade", quality.Grade),
		zap.Bool("needs_review", quality.NeedsReview))

	// 6. Assemble the final document.
	estimate := assemble.Build(assemble.Input{
		Findings:    findings,
		Items:       items,
		Region:      p.opts.Region,
		State:       p.opts.State,
		Fingerprint: fingerprint,
		Checks:      checks,
		Quality:     quality,
		Now:         time.Now,
	})
	return &estimate, nil
}
