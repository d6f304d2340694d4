package prices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// PriceQuote is one store's answer for one GTIN.
type PriceQuote struct {
	GTIN    string          `json:"gtin"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"in_stock"`
}

// PriceDTO is the owner-facing price wire shape.
type PriceDTO struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ProductGTIN string          `json:"product_gtin"`
	Price       decimal.Decimal `json:"price"`
	Currency    enums.Currency  `json:"currency"`
	InStock     bool            `json:"in_stock"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpsertPriceInput carries one owner price write.
type UpsertPriceInput struct {
	ProductGTIN string          `json:"product_gtin" validate:"required,min=8,max=14"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Currency    string          `json:"currency,omitempty"`
	InStock     *bool           `json:"in_stock,omitempty"`
}

// BulkUpsertInput carries a batch of owner price writes.
type BulkUpsertInput struct {
	Prices []UpsertPriceInput `json:"prices" validate:"required,min=1,max=500,dive"`
}

// AverageDTO is the cross-store mean for one GTIN.
type AverageDTO struct {
	ProductGTIN string          `json:"product_gtin"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
}

func toDTO(p *models.StorePrice) PriceDTO {
	return PriceDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		ProductGTIN: p.ProductGTIN,
		Price:       p.Price,
		Currency:    p.Currency,
		InStock:     p.InStock,
		UpdatedAt:   p.UpdatedAt,
	}
}
