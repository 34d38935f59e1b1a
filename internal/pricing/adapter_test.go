package pricing

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"repcost/internal/cache"
	"repcost/internal/llm"
	"repcost/internal/model"
	"repcost/internal/worker"
)

type stubProvider struct {
	calls   int32
	respond func(issue model.Issue) (string, error)
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (s *stubProvider) PriceIssue(ctx context.Context, req llm.PriceRequest) (*llm.PriceResponse, error) {
	atomic.AddInt32(&s.calls, 1)
	raw, err := s.respond(req.Issue)
	if err != nil {
		return nil, err
	}
	return &llm.PriceResponse{Raw: raw, Model: "stub"}, nil
}

func testIssues(n int) []model.Issue {
	issues := make([]model.Issue, n)
	for i := range issues {
		issues[i] = model.Issue{
			Title:       fmt.Sprintf("Issue %d", i),
			Description: "Test finding",
			Severity:    model.SeverityModerate,
			Category:    model.CategoryPlumbing,
			Priority:    model.PriorityMedium,
		}
	}
	return issues
}

func newTestOracle(provider llm.Provider, store cache.Cache) *Oracle {
	return NewOracle(provider, store, worker.NewPool(2), nil,
		WithJitter(func() float64 { return 1.0 }))
}

func TestOracle_NilProviderFallsBack(t *testing.T) {
	oracle := newTestOracle(nil, nil)
	issues := testIssues(3)

	items, err := oracle.PriceAll(context.Background(), issues)
	if err != nil {
		t.Fatalf("PriceAll failed: %v", err)
	}
	if len(items) != len(issues) {
		t.Fatalf("got %d items, want %d", len(items), len(issues))
	}

	for i, item := range items {
		if !item.Fallback {
			t.Errorf("item %d not marked as fallback", i)
		}
		if item.UnitPriceUSD != 400 {
			t.Errorf("item %d price = %.0f, want matrix 400", i, item.UnitPriceUSD)
		}
		if item.Source == nil || item.Source.Title != issues[i].Title {
			t.Errorf("item %d lost source back-reference", i)
		}
		if item.BundledIssues != 1 {
			t.Errorf("item %d bundled issues = %d, want 1", i, item.BundledIssues)
		}
	}
}

func TestOracle_OutputMatchesInputOrder(t *testing.T) {
	provider := &stubProvider{
		respond: func(issue model.Issue) (string, error) {
			return fmt.Sprintf(`{"category": "PLUMBING", "description": %q, "unit_price_usd": 200}`, issue.Title), nil
		},
	}
	oracle := newTestOracle(provider, nil)
	issues := testIssues(8)

	items, err := oracle.PriceAll(context.Background(), issues)
	if err != nil {
		t.Fatalf("PriceAll failed: %v", err)
	}
	for i, item := range items {
		if item.Description != issues[i].Title {
			t.Errorf("position %d holds %q, want %q", i, item.Description, issues[i].Title)
		}
	}
}

func TestOracle_PerIssueFailureDegradesOnlyThatIssue(t *testing.T) {
	provider := &stubProvider{
		respond: func(issue model.Issue) (string, error) {
			if issue.Title == "Issue 1" {
				return "", fmt.Errorf("rate limited")
			}
			return `{"category": "PLUMBING", "description": "Oracle priced", "unit_price_usd": 200}`, nil
		},
	}
	oracle := newTestOracle(provider, nil)
	issues := testIssues(3)

	items, err := oracle.PriceAll(context.Background(), issues)
	if err != nil {
		t.Fatalf("PriceAll failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: failures must never drop issues", len(items))
	}

	if items[0].Fallback || items[2].Fallback {
		t.Error("healthy issues degraded to fallback")
	}
	if !items[1].Fallback {
		t.Error("failed issue not marked as fallback")
	}
	if items[1].UnitPriceUSD != 400 {
		t.Errorf("failed issue price = %.0f, want matrix 400", items[1].UnitPriceUSD)
	}
}

func TestOracle_CacheHitSkipsProvider(t *testing.T) {
	provider := &stubProvider{
		respond: func(issue model.Issue) (string, error) {
			return `{"category": "PLUMBING", "description": "Oracle priced", "unit_price_usd": 200}`, nil
		},
	}
	store := cache.NewMemoryCache()
	oracle := newTestOracle(provider, store)
	issues := testIssues(4)

	first, err := oracle.PriceAll(context.Background(), issues)
	if err != nil {
		t.Fatalf("first PriceAll failed: %v", err)
	}
	callsAfterFirst := atomic.LoadInt32(&provider.calls)
	if callsAfterFirst != 4 {
		t.Fatalf("provider called %d times, want 4", callsAfterFirst)
	}

	second, err := oracle.PriceAll(context.Background(), issues)
	if err != nil {
		t.Fatalf("second PriceAll failed: %v", err)
	}
	if atomic.LoadInt32(&provider.calls) != callsAfterFirst {
		t.Error("cache hit still called the provider")
	}

	for i := range first {
		if second[i].UnitPriceUSD != first[i].UnitPriceUSD || second[i].Description != first[i].Description {
			t.Errorf("cached item %d differs from original", i)
		}
	}
}

func TestOracle_FingerprintStability(t *testing.T) {
	oracle := newTestOracle(nil, nil)
	issues := testIssues(3)

	a, err := oracle.Fingerprint(issues)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	b, _ := oracle.Fingerprint(issues)
	if a != b {
		t.Errorf("fingerprint not stable: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}

	issues[0].Severity = model.SeverityCritical
	c, _ := oracle.Fingerprint(issues)
	if c == a {
		t.Error("fingerprint unchanged after issue mutation")
	}
}

func TestOracle_EmptyInput(t *testing.T) {
	oracle := newTestOracle(nil, nil)
	items, err := oracle.PriceAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("PriceAll failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items for empty input", len(items))
	}
}
