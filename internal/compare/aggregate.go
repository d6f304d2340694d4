package compare

import (
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/internal/prices"
)

// Item is one shopping-list line fed into a comparison.
type Item struct {
	GTIN     string `json:"gtin"`
	Quantity int    `json:"quantity"`
}

// Tally is the per-store aggregation result. Items the store does not price
// are excluded from both totals, never counted as zero, so TotalInStock can
// never exceed TotalAll.
type Tally struct {
	TotalAll        decimal.Decimal `json:"total_all"`
	TotalInStock    decimal.Decimal `json:"total_in_stock"`
	PricedCount     int             `json:"priced_count"`
	InStockCount    int             `json:"in_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	MissingCount    int             `json:"missing_count"`
}

// Aggregate folds one store's quotes over the list items. All arithmetic is
// exact decimal; nothing is rounded until presentation.
func Aggregate(items []Item, quotes map[string]prices.PriceQuote) Tally {
	tally := Tally{
		TotalAll:     decimal.Zero,
		TotalInStock: decimal.Zero,
	}

	for _, item := range items {
		quote, ok := quotes[item.GTIN]
		if !ok {
			tally.MissingCount++
			continue
		}

		lineTotal := quote.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		tally.TotalAll = tally.TotalAll.Add(lineTotal)
		tally.PricedCount++

		if quote.InStock {
			tally.TotalInStock = tally.TotalInStock.Add(lineTotal)
			tally.InStockCount++
		} else {
			tally.OutOfStockCount++
		}
	}

	return tally
}
