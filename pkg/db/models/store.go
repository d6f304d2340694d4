package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a physical grocery location under a headquarters brand.
type Store struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HQID      uuid.UUID  `gorm:"column:hq_id;type:uuid;not null"`
	Name      string     `gorm:"column:name;not null"`
	Location  string     `gorm:"column:location;not null"`
	Lat       *float64   `gorm:"column:lat;type:numeric(9,6)"`
	Lng       *float64   `gorm:"column:lng;type:numeric(9,6)"`
	Phone     *string    `gorm:"column:phone"`
	Email     *string    `gorm:"column:email"`
	OwnerID   *uuid.UUID `gorm:"column:owner_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
