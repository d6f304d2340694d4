package products

import (
	"time"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// ProductDTO is the catalog wire shape.
type ProductDTO struct {
	GTIN        string    `json:"gtin"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchResult is one page of the catalog plus the cursor for the next page.
// NextCursor is empty on the final page.
type SearchResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the admin create payload.
type CreateProductInput struct {
	GTIN        string `json:"gtin" validate:"required,min=8,max=14"`
	Description string `json:"description" validate:"required,min=1,max=500"`
}

// UpdateProductInput carries the admin update payload.
type UpdateProductInput struct {
	Description string `json:"description" validate:"required,min=1,max=500"`
}

func toDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		GTIN:        p.GTIN,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
