package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// Repository encapsulates ad persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an ad repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an ad row.
func (r *Repository) Create(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

// FindByID loads one ad row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// List returns all ads for the admin console, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Ad, error) {
	var rows []models.Ad
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns the ads currently servable for a placement.
func (r *Repository) ListActive(ctx context.Context, placement enums.AdPlacement, now time.Time) ([]models.Ad, error) {
	var rows []models.Ad
	if err := r.db.WithContext(ctx).
		Where("placement = ? AND active = true", placement).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists mutable ad fields.
func (r *Repository) Update(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).Save(ad).Error
}

// Delete removes an ad row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ad{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
