package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// StorePrice is the (store, product) price row. Unique per pair; a missing
// row means "not carried here", which is distinct from in_stock=false.
type StorePrice struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_store_product"`
	ProductGTIN string          `gorm:"column:product_gtin;not null;uniqueIndex:idx_store_product"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Currency    enums.Currency  `gorm:"column:currency;type:currency;not null;default:'USD'"`
	InStock     bool            `gorm:"column:in_stock;not null;default:true"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
