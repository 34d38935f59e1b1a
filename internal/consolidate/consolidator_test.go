package consolidate

import (
	"strings"
	"testing"

	"repcost/internal/model"
)

func pricedItem(category, title string, price float64, priority string) model.PricedItem {
	return model.PricedItem{
		Category:      category,
		Description:   title,
		Qty:           1,
		UnitPriceUSD:  price,
		LineTotalUSD:  price,
		Priority:      priority,
		BundledIssues: 1,
		Source: &model.Issue{
			Title:    title,
			Category: category,
		},
	}
}

func TestConsolidate_BundleDiscountAndRounding(t *testing.T) {
	// Three plumbing items at 150+150+400 = 700, 10% bundle discount
	// = 630, rounded to the nearest $25 = 625.
	items := []model.PricedItem{
		pricedItem(model.CategoryPlumbing, "Leaking P-trap: kitchen sink", 150, model.PriorityMedium),
		pricedItem(model.CategoryPlumbing, "Dripping faucet: hall bath", 150, model.PriorityLow),
		pricedItem(model.CategoryPlumbing, "Water heater: no sediment trap", 400, model.PriorityMedium),
	}

	out := Consolidate(items)
	if len(out) != 1 {
		t.Fatalf("got %d line items, want 1", len(out))
	}

	bundle := out[0]
	if bundle.UnitPriceUSD != 625 {
		t.Errorf("bundle price = %.2f, want 625", bundle.UnitPriceUSD)
	}
	if bundle.DiscountApplied != 10 {
		t.Errorf("discount = %.0f, want 10", bundle.DiscountApplied)
	}
	if bundle.DiscountJustification != "Same category, 3 items bundled for efficiency" {
		t.Errorf("justification = %q", bundle.DiscountJustification)
	}
	if bundle.BundledIssues != 3 {
		t.Errorf("bundled issues = %d, want 3", bundle.BundledIssues)
	}
}

func TestConsolidate_TwoItemDiscount(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryHVAC, "Service condensate line", 200, model.PriorityMedium),
		pricedItem(model.CategoryHVAC, "Replace thermostat", 200, model.PriorityMedium),
	}

	out := Consolidate(items)
	if len(out) != 1 {
		t.Fatalf("got %d line items, want 1", len(out))
	}
	// 400 * 0.95 = 380, rounds to 375.
	if out[0].UnitPriceUSD != 375 {
		t.Errorf("price = %.2f, want 375", out[0].UnitPriceUSD)
	}
	if out[0].DiscountApplied != 5 {
		t.Errorf("discount = %.0f, want 5", out[0].DiscountApplied)
	}
}

func TestConsolidate_SingletonPassesWithoutDiscount(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryFoundation, "Hairline crack at garage slab", 425, model.PriorityHigh),
	}

	out := Consolidate(items)
	if len(out) != 1 {
		t.Fatalf("got %d line items, want 1", len(out))
	}
	if out[0].UnitPriceUSD != 425 {
		t.Errorf("price = %.2f, want 425 unchanged", out[0].UnitPriceUSD)
	}
	if out[0].DiscountApplied != 0 {
		t.Errorf("discount = %.0f, want 0", out[0].DiscountApplied)
	}
	if out[0].DiscountJustification != "No discount" {
		t.Errorf("justification = %q", out[0].DiscountJustification)
	}
	if out[0].Description != "Hairline crack at garage slab" {
		t.Errorf("singleton description = %q, want issue title", out[0].Description)
	}
}

func TestConsolidate_RespectsPerItemCap(t *testing.T) {
	// HVAC caps at 3 issues per item: 7 items should make 3 bundles.
	var items []model.PricedItem
	for i := 0; i < 7; i++ {
		items = append(items, pricedItem(model.CategoryHVAC, "Duct repair", 100, model.PriorityMedium))
	}

	out := Consolidate(items)
	if len(out) != 3 {
		t.Fatalf("got %d line items, want 3", len(out))
	}

	total := 0
	for _, item := range out {
		if item.BundledIssues > 3 {
			t.Errorf("bundle holds %d issues, cap is 3", item.BundledIssues)
		}
		total += item.BundledIssues
	}
	if total != 7 {
		t.Errorf("issue count changed: %d, want 7", total)
	}
}

func TestConsolidate_PreservesEveryIssue(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryRoof, "Shingle damage", 300, model.PriorityMedium),
		pricedItem(model.CategoryPlumbing, "Leak at angle stop", 150, model.PriorityHigh),
		pricedItem(model.CategoryRoof, "Flashing loose", 250, model.PriorityMedium),
		pricedItem(model.CategoryElectrical, "GFCI inoperative", 200, model.PriorityHigh),
		pricedItem(model.CategoryPlumbing, "Slow drain", 150, model.PriorityLow),
	}

	out := Consolidate(items)
	total := 0
	for _, item := range out {
		total += item.BundledIssues
	}
	if total != len(items) {
		t.Errorf("issues in = %d, issues out = %d", len(items), total)
	}
}

func TestConsolidate_BundlePriorityIsMostSevere(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryElectrical, "Cover plate missing", 100, model.PriorityLow),
		pricedItem(model.CategoryElectrical, "Exposed wiring at panel", 500, model.PriorityHigh),
		pricedItem(model.CategoryElectrical, "Outlet loose", 100, model.PriorityMedium),
	}

	out := Consolidate(items)
	if len(out) != 1 {
		t.Fatalf("got %d line items, want 1", len(out))
	}
	if out[0].Priority != model.PriorityHigh {
		t.Errorf("bundle priority = %s, want HIGH", out[0].Priority)
	}
}

func TestConsolidate_AllLowBundleStaysLow(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryMisc, "Fence gate sagging", 100, model.PriorityLow),
		pricedItem(model.CategoryMisc, "Deck board loose", 100, model.PriorityLow),
	}

	out := Consolidate(items)
	if len(out) != 1 {
		t.Fatalf("got %d line items, want 1", len(out))
	}
	if out[0].Priority != model.PriorityLow {
		t.Errorf("bundle priority = %s, want LOW", out[0].Priority)
	}
}

func TestConsolidate_NotesListEveryMember(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryPlumbing, "Leaking P-trap", 150, model.PriorityMedium),
		pricedItem(model.CategoryPlumbing, "Dripping faucet", 150, model.PriorityLow),
	}
	items[0].Source.Location = "kitchen"

	out := Consolidate(items)
	notes := out[0].Notes
	if !strings.Contains(notes, "1. Leaking P-trap (kitchen)") {
		t.Errorf("notes missing located first member: %q", notes)
	}
	if !strings.Contains(notes, "2. Dripping faucet") {
		t.Errorf("notes missing second member: %q", notes)
	}
}

func TestSynthesizeDescription_Themes(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryWindowsDoors, "Window seal: failed at south elevation", 200, model.PriorityMedium),
		pricedItem(model.CategoryWindowsDoors, "Door hardware: strike plate misaligned", 150, model.PriorityLow),
	}

	out := Consolidate(items)
	want := "Window seal and Door hardware Repairs"
	if out[0].Description != want {
		t.Errorf("description = %q, want %q", out[0].Description, want)
	}
}

func TestBundleDiscount(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{1, 0}, {2, 5}, {3, 10}, {5, 10}, {8, 10},
	}
	for _, tt := range tests {
		if got := BundleDiscount(tt.n); got != tt.want {
			t.Errorf("BundleDiscount(%d) = %.0f, want %.0f", tt.n, got, tt.want)
		}
	}
}

func TestItemize_OnePerIssueNoDiscount(t *testing.T) {
	items := []model.PricedItem{
		pricedItem(model.CategoryRoof, "Shingle damage", 300, model.PriorityMedium),
		pricedItem(model.CategoryRoof, "Flashing loose", 250, model.PriorityMedium),
	}

	out := Itemize(items)
	if len(out) != 2 {
		t.Fatalf("got %d line items, want 2", len(out))
	}
	for i, item := range out {
		if item.DiscountApplied != 0 {
			t.Errorf("item %d discount = %.0f, want 0", i, item.DiscountApplied)
		}
		if item.BundledIssues != 1 {
			t.Errorf("item %d bundled issues = %d, want 1", i, item.BundledIssues)
		}
	}
}
