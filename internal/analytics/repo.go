package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// Repository encapsulates analytics-event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one event row.
func (r *Repository) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

type countRow struct {
	EventType string `gorm:"column:event_type"`
	Count     int64  `gorm:"column:count"`
}

// CountsByType tallies events per type since the given time.
func (r *Repository) CountsByType(ctx context.Context, since time.Time) (map[enums.AnalyticsEventType]int64, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("event_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.AnalyticsEventType]int64, len(rows))
	for _, row := range rows {
		out[enums.AnalyticsEventType(row.EventType)] = row.Count
	}
	return out, nil
}

type storeCountRow struct {
	StoreID string `gorm:"column:store_id"`
	Count   int64  `gorm:"column:count"`
}

// TopStores returns the stores most often involved in events since the given time.
func (r *Repository) TopStores(ctx context.Context, since time.Time, limit int) ([]StoreActivityDTO, error) {
	var rows []storeCountRow
	if err := r.db.WithContext(ctx).
		Table("analytics_events ae").
		Select("ae.store_id, COUNT(*) AS count").
		Where("ae.created_at >= ? AND ae.store_id IS NOT NULL", since).
		Group("ae.store_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]StoreActivityDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, StoreActivityDTO{StoreID: row.StoreID, Events: row.Count})
	}
	return out, nil
}
