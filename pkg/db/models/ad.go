package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// Ad is an admin-managed promotional slot. Image assets live behind external
// URLs; the upload pipeline is a boundary collaborator.
type Ad struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string            `gorm:"column:title;not null"`
	ImageURL  string            `gorm:"column:image_url;not null"`
	TargetURL *string           `gorm:"column:target_url"`
	Placement enums.AdPlacement `gorm:"column:placement;type:ad_placement;not null"`
	StoreID   *uuid.UUID        `gorm:"column:store_id;type:uuid"`
	Active    bool              `gorm:"column:active;not null;default:true"`
	StartsAt  *time.Time        `gorm:"column:starts_at"`
	EndsAt    *time.Time        `gorm:"column:ends_at"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
