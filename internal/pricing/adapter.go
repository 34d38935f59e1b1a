package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"repcost/internal/cache"
	"repcost/internal/llm"
	"repcost/internal/logging"
	"repcost/internal/model"
	"repcost/internal/worker"
)

// PromptVersion tags cached pricing results. Bumping it invalidates
// every cached estimate because the fingerprint changes.
const PromptVersion = "v7.0-individual-pricing"

// Oracle prices issues through an LLM provider backed by a
// content-addressed cache. A nil provider prices everything from the
// severity matrix.
type Oracle struct {
	provider llm.Provider
	cache    cache.Cache
	pool     *worker.Pool
	limiter  *worker.Limiter
	jitter   Jitter
	model    string
	maxTok   int
}

// OracleOption configures the Oracle.
type OracleOption func(*Oracle)

// WithJitter overrides the fallback price variation source.
func WithJitter(j Jitter) OracleOption {
	return func(o *Oracle) { o.jitter = j }
}

// WithModel pins the oracle model for every request.
func WithModel(name string) OracleOption {
	return func(o *Oracle) { o.model = name }
}

// WithMaxTokens caps the oracle reply size.
func WithMaxTokens(n int) OracleOption {
	return func(o *Oracle) { o.maxTok = n }
}

// NewOracle creates a pricing oracle. provider and store may each be
// nil: a nil provider skips all network calls, a nil store disables
// caching.
func NewOracle(provider llm.Provider, store cache.Cache, pool *worker.Pool, limiter *worker.Limiter, opts ...OracleOption) *Oracle {
	o := &Oracle{
		provider: provider,
		cache:    store,
		pool:     pool,
		limiter:  limiter,
		jitter:   UniformJitter(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.pool == nil {
		o.pool = worker.NewPool(1)
	}
	return o
}

// PriceAll prices every issue, one oracle call per issue, returning
// items in input order. The result is always exactly one item per
// issue: oracle failures degrade that issue to matrix pricing, never
// drop it.
func (o *Oracle) PriceAll(ctx context.Context, issues []model.Issue) ([]model.PricedItem, error) {
	if len(issues) == 0 {
		return nil, nil
	}

	key, err := o.fingerprint(issues)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting issues: %w", err)
	}

	if o.cache != nil {
		if data, ok := o.cache.Get(key); ok {
			var items []model.PricedItem
			if err := json.Unmarshal(data, &items); err == nil && len(items) == len(issues) {
				logging.Info("pricing cache hit",
					zap.String("fingerprint", key),
					zap.Int("items", len(items)))
				return items, nil
			}
			logging.Warn("discarding malformed cache entry", zap.String("fingerprint", key))
		}
	}

	items := o.price(ctx, issues)

	if o.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := o.cache.Set(key, data); err != nil {
				logging.Warn("caching priced items failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

// Fingerprint exposes the cache key for a set of issues, used for
// estimate metadata.
func (o *Oracle) Fingerprint(issues []model.Issue) (string, error) {
	return o.fingerprint(issues)
}

func (o *Oracle) fingerprint(issues []model.Issue) (string, error) {
	canonical, err := canonicalJSON(issues)
	if err != nil {
		return "", err
	}
	return cache.Fingerprint(canonical, PromptVersion), nil
}

// canonicalJSON produces a stable byte representation of the issue
// list. Round-tripping through maps sorts all object keys.
func canonicalJSON(issues []model.Issue) ([]byte, error) {
	raw, err := json.Marshal(issues)
	if err != nil {
		return nil, err
	}
	var generic []map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

func (o *Oracle) price(ctx context.Context, issues []model.Issue) []model.PricedItem {
	if o.provider == nil {
		items := make([]model.PricedItem, len(issues))
		for i, issue := range issues {
			items[i] = o.fallbackItem(issue)
		}
		return items
	}

	jobs := make([]worker.Job, len(issues))
	for i, issue := range issues {
		jobs[i] = &priceJob{index: i, issue: issue, oracle: o}
	}

	results := o.pool.Run(ctx, jobs)
	items := make([]model.PricedItem, len(issues))
	for i, res := range results {
		pr, ok := res.(*priceResult)
		if !ok {
			// Job never dispatched: context cancelled.
			items[i] = o.fallbackItem(issues[i])
			continue
		}
		if pr.err != nil {
			logging.Warn("oracle pricing failed, using severity matrix",
				zap.Int("issue", i),
				zap.String("title", issues[i].Title),
				zap.Error(pr.err))
			items[i] = o.fallbackItem(issues[i])
			continue
		}
		items[i] = pr.item
	}
	return items
}

func (o *Oracle) priceOne(ctx context.Context, issue model.Issue) (model.PricedItem, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx, o.provider.Name()); err != nil {
			return model.PricedItem{}, err
		}
	}

	resp, err := o.provider.PriceIssue(ctx, llm.PriceRequest{
		Issue:     issue,
		Guide:     guideForLLM(issue.Category),
		Model:     o.model,
		MaxTokens: o.maxTok,
	})
	if err != nil {
		return model.PricedItem{}, err
	}

	item, err := DecodeResponse(resp.Raw)
	if err != nil {
		return model.PricedItem{}, err
	}

	// One issue in, one item out.
	item.BundledIssues = 1
	item.Qty = 1
	item.UnitPriceUSD = RoundTo25(item.UnitPriceUSD)
	item.LineTotalUSD = item.UnitPriceUSD
	if item.Description == "" {
		item.Description = issue.Title
	}
	src := issue
	item.Source = &src
	return item, nil
}

func (o *Oracle) fallbackItem(issue model.Issue) model.PricedItem {
	price := FallbackPrice(issue, o.jitter)
	src := issue
	return model.PricedItem{
		Category:      issue.Category,
		Description:   issue.Title,
		Qty:           1,
		UnitPriceUSD:  price,
		LineTotalUSD:  price,
		Notes:         fmt.Sprintf("Estimated from severity (%s %s)", issue.Severity, issue.Category),
		Priority:      issue.Priority,
		BundledIssues: 1,
		Fallback:      true,
		Source:        &src,
	}
}

func guideForLLM(category string) llm.PriceGuide {
	g := GuideFor(category)
	return llm.PriceGuide{
		Minor:    g.Minor,
		Moderate: g.Moderate,
		Major:    g.Major,
		Critical: g.Critical,
	}
}

type priceJob struct {
	index  int
	issue  model.Issue
	oracle *Oracle
}

func (j *priceJob) Index() int { return j.index }

func (j *priceJob) Execute(ctx context.Context) worker.Result {
	item, err := j.oracle.priceOne(ctx, j.issue)
	return &priceResult{item: item, err: err}
}

type priceResult struct {
	item model.PricedItem
	err  error
}

func (r *priceResult) GetError() error { return r.err }
