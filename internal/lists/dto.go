package lists

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// ItemDTO is one list line on the wire.
type ItemDTO struct {
	ProductGTIN string `json:"product_gtin"`
	Quantity    int    `json:"quantity"`
}

// ListDTO is the shopping-list wire shape.
type ListDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	AssignedStoreID *uuid.UUID       `json:"assigned_store_id,omitempty"`
	Items           []ItemDTO        `json:"items"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateListInput carries the shopper create payload.
type CreateListInput struct {
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	AssignedStoreID *uuid.UUID       `json:"assigned_store_id,omitempty"`
	Items           []SetItemInput   `json:"items,omitempty" validate:"omitempty,max=200,dive"`
}

// UpdateListInput carries header mutations.
type UpdateListInput struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	AssignedStoreID *uuid.UUID       `json:"assigned_store_id,omitempty"`
}

// SetItemInput sets one GTIN quantity. Quantity zero (or below) removes the line.
type SetItemInput struct {
	ProductGTIN string `json:"product_gtin" validate:"required,min=8,max=14"`
	Quantity    int    `json:"quantity"`
}

// ReplaceItemsInput swaps the whole item set.
type ReplaceItemsInput struct {
	Items []SetItemInput `json:"items" validate:"required,max=200,dive"`
}

func toDTO(list *models.ShoppingList) ListDTO {
	items := make([]ItemDTO, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, ItemDTO{ProductGTIN: item.ProductGTIN, Quantity: item.Quantity})
	}
	return ListDTO{
		ID:              list.ID,
		Name:            list.Name,
		Budget:          list.Budget,
		AssignedStoreID: list.AssignedStoreID,
		Items:           items,
		CreatedAt:       list.CreatedAt,
		UpdatedAt:       list.UpdatedAt,
	}
}
