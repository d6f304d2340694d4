package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// Repository encapsulates headquarters and store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a store repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateHQ inserts a headquarters row.
func (r *Repository) CreateHQ(ctx context.Context, hq *models.Headquarters) error {
	return r.db.WithContext(ctx).Create(hq).Error
}

// FindHQByID loads one headquarters row.
func (r *Repository) FindHQByID(ctx context.Context, id uuid.UUID) (*models.Headquarters, error) {
	var hq models.Headquarters
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&hq).Error; err != nil {
		return nil, err
	}
	return &hq, nil
}

// ListHQ returns all headquarters ordered by name.
func (r *Repository) ListHQ(ctx context.Context) ([]models.Headquarters, error) {
	var rows []models.Headquarters
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads one store row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByIDs loads the given stores, preserving no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Store
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns stores, optionally filtered by headquarters.
func (r *Repository) List(ctx context.Context, hqID *uuid.UUID, limit, offset int) ([]models.Store, error) {
	q := r.db.WithContext(ctx).Model(&models.Store{}).Order("name ASC, id ASC").Limit(limit).Offset(offset)
	if hqID != nil {
		q = q.Where("hq_id = ?", *hqID)
	}
	var rows []models.Store
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByOwner returns the stores assigned to a merchant user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error) {
	var rows []models.Store
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists mutable store fields.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes a store row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Store{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
