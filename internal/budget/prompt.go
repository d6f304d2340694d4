package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/internal/prices"
)

const systemPrompt = `You are a grocery budgeting assistant. You receive a shopper's desired items, a fixed budget, and the price book of a single store. Choose quantities so the in-stock total stays at or below the budget while keeping as much of the shopper's intent as possible. Prefer dropping out-of-stock items over in-stock ones. Respond with JSON only, no prose, using exactly this shape:
{"items":[{"gtin":"<gtin from the price book>","quantity":<integer >= 1>}],"reasoning":"<one short sentence>"}
Never invent a GTIN that is not in the price book. Never use a quantity below 1.`

// desiredLine is one line of shopper intent fed into the prompt.
type desiredLine struct {
	GTIN     string
	Quantity int
}

// buildUserPrompt renders the budget, the shopper's current lines, and the
// candidate price book into the user message.
func buildUserPrompt(budget decimal.Decimal, desired []desiredLine, candidates []prices.CandidateRow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Budget: %s\n\n", budget.StringFixed(2))

	if len(desired) > 0 {
		b.WriteString("Shopper wants:\n")
		for _, line := range desired {
			fmt.Fprintf(&b, "- gtin=%s quantity=%d\n", line.GTIN, line.Quantity)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Shopper has no items yet; build a sensible basket from the price book.\n\n")
	}

	b.WriteString("Store price book:\n")
	for _, c := range candidates {
		stock := "in_stock"
		if !c.InStock {
			stock = "out_of_stock"
		}
		fmt.Fprintf(&b, "- gtin=%s price=%s %s description=%q\n", c.ProductGTIN, c.Price.StringFixed(2), stock, c.Description)
	}

	b.WriteString("\nAnswer with the JSON object only.")
	return b.String()
}
