package prices

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// Repository encapsulates store-price persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a price repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetForStore loads the price rows a store carries for the given GTINs.
// GTINs the store does not carry are simply absent from the result.
func (r *Repository) GetForStore(ctx context.Context, storeID uuid.UUID, gtins []string) ([]models.StorePrice, error) {
	if len(gtins) == 0 {
		return nil, nil
	}
	var rows []models.StorePrice
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_gtin IN ?", storeID, gtins).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type averageRow struct {
	ProductGTIN string          `gorm:"column:product_gtin"`
	AvgPrice    decimal.Decimal `gorm:"column:avg_price"`
}

// Averages computes the mean price per GTIN across every store that carries it.
func (r *Repository) Averages(ctx context.Context, gtins []string) (map[string]decimal.Decimal, error) {
	if len(gtins) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	var rows []averageRow
	if err := r.db.WithContext(ctx).
		Model(&models.StorePrice{}).
		Select("product_gtin, AVG(price) AS avg_price").
		Where("product_gtin IN ?", gtins).
		Group("product_gtin").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ProductGTIN] = row.AvgPrice
	}
	return out, nil
}

// Upsert writes one price row, replacing any prior price for the pair.
func (r *Repository) Upsert(ctx context.Context, price *models.StorePrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_gtin"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "currency", "in_stock", "updated_at"}),
		}).
		Create(price).Error
}

// BulkUpsert writes a batch of price rows in one statement.
func (r *Repository) BulkUpsert(ctx context.Context, rows []models.StorePrice) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_gtin"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "currency", "in_stock", "updated_at"}),
		}).
		Create(&rows).Error
}

// ListByStore pages through every price row a store carries.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]models.StorePrice, error) {
	var rows []models.StorePrice
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_gtin ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCandidates returns up to limit priced rows for a store, joined with the
// catalog description, ordered cheapest first. Feeds the budget-fit snapshot.
func (r *Repository) ListCandidates(ctx context.Context, storeID uuid.UUID, limit int) ([]CandidateRow, error) {
	var rows []CandidateRow
	if err := r.db.WithContext(ctx).
		Table("store_prices sp").
		Select("sp.product_gtin, p.description, sp.price, sp.in_stock").
		Joins("JOIN products p ON p.gtin = sp.product_gtin").
		Where("sp.store_id = ?", storeID).
		Order("sp.price ASC, sp.product_gtin ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes one price row for the store/GTIN pair.
func (r *Repository) Delete(ctx context.Context, storeID uuid.UUID, gtin string) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND product_gtin = ?", storeID, gtin).
		Delete(&models.StorePrice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CandidateRow is one joined price/catalog row used for budget delegation.
type CandidateRow struct {
	ProductGTIN string          `gorm:"column:product_gtin"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price"`
	InStock     bool            `gorm:"column:in_stock"`
}
