package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingList is the aggregation root for a shopper's items.
type ShoppingList struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Name            string             `gorm:"column:name;not null"`
	Budget          *decimal.Decimal   `gorm:"column:budget;type:numeric(12,2)"`
	AssignedStoreID *uuid.UUID         `gorm:"column:assigned_store_id;type:uuid"`
	Items           []ShoppingListItem `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
