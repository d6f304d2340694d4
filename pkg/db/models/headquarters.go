package models

import (
	"time"

	"github.com/google/uuid"
)

// Headquarters represents the brand entity a store belongs to.
type Headquarters struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Website   *string   `gorm:"column:website"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the plural-exception table name.
func (Headquarters) TableName() string {
	return "headquarters"
}
