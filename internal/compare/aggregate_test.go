package compare

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/internal/prices"
)

func quote(gtin, price string, inStock bool) prices.PriceQuote {
	return prices.PriceQuote{GTIN: gtin, Price: decimal.RequireFromString(price), InStock: inStock}
}

func TestAggregateTotals(t *testing.T) {
	items := []Item{
		{GTIN: "00012345678905", Quantity: 2},
		{GTIN: "00012345678912", Quantity: 1},
		{GTIN: "00012345678929", Quantity: 3},
	}
	quotes := map[string]prices.PriceQuote{
		"00012345678905": quote("00012345678905", "2.50", true),
		"00012345678912": quote("00012345678912", "4.99", false),
		"00012345678929": quote("00012345678929", "1.10", true),
	}

	tally := Aggregate(items, quotes)

	if got, want := tally.TotalAll.String(), "13.29"; got != want {
		t.Fatalf("TotalAll = %s, want %s", got, want)
	}
	if got, want := tally.TotalInStock.String(), "8.3"; got != want {
		t.Fatalf("TotalInStock = %s, want %s", got, want)
	}
	if tally.PricedCount != 3 || tally.InStockCount != 2 || tally.OutOfStockCount != 1 || tally.MissingCount != 0 {
		t.Fatalf("unexpected counts: %+v", tally)
	}
}

func TestAggregateExcludesUnpricedItems(t *testing.T) {
	items := []Item{
		{GTIN: "00012345678905", Quantity: 2},
		{GTIN: "99999999999990", Quantity: 5},
	}
	quotes := map[string]prices.PriceQuote{
		"00012345678905": quote("00012345678905", "3.00", true),
	}

	tally := Aggregate(items, quotes)

	// The uncarried item contributes nothing, not a zero-priced line.
	if got, want := tally.TotalAll.String(), "6"; got != want {
		t.Fatalf("TotalAll = %s, want %s", got, want)
	}
	if tally.MissingCount != 1 {
		t.Fatalf("MissingCount = %d, want 1", tally.MissingCount)
	}
	if tally.PricedCount != 1 {
		t.Fatalf("PricedCount = %d, want 1", tally.PricedCount)
	}
}

func TestAggregateInStockNeverExceedsAll(t *testing.T) {
	items := []Item{
		{GTIN: "00012345678905", Quantity: 1},
		{GTIN: "00012345678912", Quantity: 2},
		{GTIN: "00012345678929", Quantity: 4},
	}
	quotes := map[string]prices.PriceQuote{
		"00012345678905": quote("00012345678905", "0.99", false),
		"00012345678912": quote("00012345678912", "10.00", true),
	}

	tally := Aggregate(items, quotes)

	if tally.TotalInStock.GreaterThan(tally.TotalAll) {
		t.Fatalf("TotalInStock %s exceeds TotalAll %s", tally.TotalInStock, tally.TotalAll)
	}
}

func TestAggregateKeepsExactDecimals(t *testing.T) {
	// 0.1 * 3 must be exactly 0.3, not a float approximation.
	items := []Item{{GTIN: "00012345678905", Quantity: 3}}
	quotes := map[string]prices.PriceQuote{
		"00012345678905": quote("00012345678905", "0.10", true),
	}

	tally := Aggregate(items, quotes)

	if !tally.TotalAll.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("TotalAll = %s, want 0.30", tally.TotalAll)
	}
}

func TestAggregateEmptyQuotes(t *testing.T) {
	items := []Item{{GTIN: "00012345678905", Quantity: 1}}

	tally := Aggregate(items, map[string]prices.PriceQuote{})

	if !tally.TotalAll.IsZero() || !tally.TotalInStock.IsZero() {
		t.Fatalf("expected zero totals, got %+v", tally)
	}
	if tally.MissingCount != 1 {
		t.Fatalf("MissingCount = %d, want 1", tally.MissingCount)
	}
}
