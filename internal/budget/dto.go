package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/internal/lists"
)

// SuggestionDTO is the advisory result of a budget-fit call. Nothing is
// written until the shopper applies it.
type SuggestionDTO struct {
	ListID             uuid.UUID       `json:"list_id"`
	StoreID            uuid.UUID       `json:"store_id"`
	Budget             decimal.Decimal `json:"budget"`
	Items              []SuggestedItem `json:"items"`
	Reasoning          string          `json:"reasoning,omitempty"`
	ApproxTotalAll     decimal.Decimal `json:"approx_total_all"`
	ApproxTotalInStock decimal.Decimal `json:"approx_total_in_stock"`
	WithinBudget       bool            `json:"within_budget"`
}

// ApplyInput carries the suggestion lines the shopper accepted.
type ApplyInput struct {
	Items []SuggestedItem `json:"items" validate:"required,min=1,max=200,dive"`
}

// AutoCreateInput asks for a fresh list built straight from a budget.
type AutoCreateInput struct {
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Budget  decimal.Decimal `json:"budget" validate:"required"`
	StoreID uuid.UUID       `json:"store_id" validate:"required"`
}

// AutoCreateDTO bundles the created list with the suggestion that filled it.
type AutoCreateDTO struct {
	List       lists.ListDTO `json:"list"`
	Suggestion SuggestionDTO `json:"suggestion"`
}
