package lists

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// Repository encapsulates shopping-list persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a list repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a list row, including any seeded items.
func (r *Repository) Create(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID loads the list header without items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindWithItems loads the list and its items, items ordered by GTIN.
func (r *Repository) FindWithItems(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_gtin ASC")
		}).
		Where("id = ?", id).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByUser returns all lists a shopper owns, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	var rows []models.ShoppingList
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists mutable list header fields.
func (r *Repository) Update(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ?", list.ID).
		Updates(map[string]any{
			"name":              list.Name,
			"budget":            list.Budget,
			"assigned_store_id": list.AssignedStoreID,
		}).Error
}

// Delete removes the list; items go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShoppingList{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertItem sets the quantity for one GTIN on the list.
func (r *Repository) UpsertItem(ctx context.Context, listID uuid.UUID, gtin string, quantity int) error {
	item := models.ShoppingListItem{
		ShoppingListID: listID,
		ProductGTIN:    gtin,
		Quantity:       quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shopping_list_id"}, {Name: "product_gtin"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&item).Error
}

// DeleteItem removes one GTIN from the list.
func (r *Repository) DeleteItem(ctx context.Context, listID uuid.UUID, gtin string) error {
	return r.db.WithContext(ctx).
		Where("shopping_list_id = ? AND product_gtin = ?", listID, gtin).
		Delete(&models.ShoppingListItem{}).Error
}

// ReplaceItems swaps the full item set in a single transaction. Either the
// whole new set lands or the prior set survives untouched.
func (r *Repository) ReplaceItems(ctx context.Context, listID uuid.UUID, items []models.ShoppingListItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shopping_list_id = ?", listID).Delete(&models.ShoppingListItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ShoppingListID = listID
		}
		return tx.Create(&items).Error
	})
}
