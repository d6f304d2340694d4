package compare

import (
	"github.com/google/uuid"
)

// CompareInput carries the shopper's comparison request.
type CompareInput struct {
	ListID   uuid.UUID   `json:"list_id" validate:"required"`
	StoreIDs []uuid.UUID `json:"store_ids" validate:"required,min=1,max=5"`
}

// StoreResult is one ranked row of a comparison.
type StoreResult struct {
	StoreID   uuid.UUID `json:"store_id"`
	StoreName string    `json:"store_name"`
	Rank      int       `json:"rank"`
	Tally
}

// ComparisonDTO is the full comparison response, cheapest in-stock total first.
type ComparisonDTO struct {
	ListID  uuid.UUID     `json:"list_id"`
	Items   int           `json:"items"`
	Results []StoreResult `json:"results"`
}
