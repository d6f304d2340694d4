package products

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new catalog row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByGTIN loads one catalog row.
func (r *Repository) FindByGTIN(ctx context.Context, gtin string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("gtin = ?", gtin).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ExistsByGTIN reports whether the catalog carries the GTIN.
func (r *Repository) ExistsByGTIN(ctx context.Context, gtin string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("gtin = ?", gtin).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MissingGTINs returns the subset of the input not present in the catalog.
func (r *Repository) MissingGTINs(ctx context.Context, gtins []string) ([]string, error) {
	if len(gtins) == 0 {
		return nil, nil
	}
	var found []string
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("gtin IN ?", gtins).
		Pluck("gtin", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(found))
	for _, g := range found {
		present[g] = struct{}{}
	}
	var missing []string
	for _, g := range gtins {
		if _, ok := present[g]; !ok {
			missing = append(missing, g)
		}
	}
	return missing, nil
}

// Search lists catalog rows matching an optional description query, keyset
// paginated on (created_at, gtin).
func (r *Repository) Search(ctx context.Context, query string, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Order("created_at ASC, gtin ASC").
		Limit(limit)
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		q = q.Where("lower(description) LIKE lower(?)", "%"+trimmed+"%")
	}
	if cursor != nil {
		q = q.Where("created_at > ? OR (created_at = ? AND gtin > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Key)
	}
	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateDescription changes the human-readable description for a GTIN.
func (r *Repository) UpdateDescription(ctx context.Context, gtin, description string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("gtin = ?", gtin).
		Update("description", description)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a catalog row.
func (r *Repository) Delete(ctx context.Context, gtin string) error {
	result := r.db.WithContext(ctx).Where("gtin = ?", gtin).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
