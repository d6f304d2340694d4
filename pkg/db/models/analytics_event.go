package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// AnalyticsEvent records a single product-usage fact for admin reporting.
type AnalyticsEvent struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType enums.AnalyticsEventType `gorm:"column:event_type;not null;index"`
	UserID    *uuid.UUID               `gorm:"column:user_id;type:uuid"`
	StoreID   *uuid.UUID               `gorm:"column:store_id;type:uuid"`
	ListID    *uuid.UUID               `gorm:"column:list_id;type:uuid"`
	Payload   map[string]any           `gorm:"column:payload;type:jsonb;serializer:json"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime;index"`
}
