package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingListItem ties a product to a list with a positive quantity.
// Quantity 0 is never stored; it means the row is deleted.
type ShoppingListItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShoppingListID uuid.UUID `gorm:"column:shopping_list_id;type:uuid;not null;uniqueIndex:idx_list_product"`
	ProductGTIN    string    `gorm:"column:product_gtin;not null;uniqueIndex:idx_list_product"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
