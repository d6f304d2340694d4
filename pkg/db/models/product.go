package models

import "time"

// Product is the GTIN-keyed catalog entry. Reference data: rows are created
// by admins and never mutated by shopper flows.
type Product struct {
	GTIN        string    `gorm:"column:gtin;primaryKey"`
	Description string    `gorm:"column:description;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
